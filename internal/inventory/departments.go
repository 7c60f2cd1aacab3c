package inventory

import (
	"context"
	"fmt"

	"inventory-tracker/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := s.db.WithContext(ctx).Order("name asc").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

func (s *Service) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	var d models.Department
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, notFound(err, "department", id)
	}
	return &d, nil
}

func (s *Service) CreateDepartment(ctx context.Context, in DepartmentInput) (*models.Department, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	d := models.Department{Name: in.Name, Description: in.Description}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := checkUnique(tx, DepartmentName, d.Name, 0); err != nil {
			return err
		}
		return tx.Create(&d).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("department created", zap.Uint("id", d.ID), zap.String("name", d.Name))
	return &d, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id uint, in DepartmentInput) (*models.Department, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var d models.Department
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&d, id).Error; err != nil {
			return notFound(err, "department", id)
		}
		if err := checkUnique(tx, DepartmentName, in.Name, id); err != nil {
			return err
		}
		d.Name = in.Name
		d.Description = in.Description
		return tx.Save(&d).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("department updated", zap.Uint("id", d.ID))
	return &d, nil
}

// DeleteDepartment removes the department with its equipment, personnel and
// every assignment touching them.
func (s *Service) DeleteDepartment(ctx context.Context, id uint) error {
	var images []string
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var d models.Department
		if err := tx.First(&d, id).Error; err != nil {
			return notFound(err, "department", id)
		}
		var err error
		if images, err = purgeOwned(tx, "department_id", id); err != nil {
			return err
		}
		return tx.Delete(&d).Error
	})
	if err != nil {
		return err
	}
	s.removeImages(ctx, images...)
	s.log.Info("department deleted", zap.Uint("id", id))
	return nil
}
