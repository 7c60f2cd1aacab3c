package inventory

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"inventory-tracker/internal/apperrors"
	"inventory-tracker/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PersonnelInput struct {
	Name         string
	LastName     string
	Email        string
	Phone        string
	Position     string
	EmployeeID   string
	DepartmentID uint
	AreaID       *uint
}

func (in *PersonnelInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Position = strings.TrimSpace(in.Position)
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)

	err := firstError(
		required("name", in.Name),
		maxLen("name", in.Name, 100),
		required("last_name", in.LastName),
		maxLen("last_name", in.LastName, 100),
		maxLen("email", in.Email, 120),
		maxLen("phone", in.Phone, 20),
		maxLen("position", in.Position, 100),
		maxLen("employee_id", in.EmployeeID, 50),
	)
	if err != nil {
		return err
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return apperrors.Validation("email", "email is not a valid address")
		}
	}
	if in.DepartmentID == 0 {
		return apperrors.Validation("department_id", "department is required")
	}
	return nil
}

func (in PersonnelInput) employeeID() *string {
	if in.EmployeeID == "" {
		return nil
	}
	id := in.EmployeeID
	return &id
}

func (s *Service) ListPersonnel(ctx context.Context) ([]models.Personnel, error) {
	var personnel []models.Personnel
	err := s.db.WithContext(ctx).
		Preload("Department").
		Preload("Area").
		Order("name asc, last_name asc").
		Find(&personnel).Error
	if err != nil {
		return nil, fmt.Errorf("list personnel: %w", err)
	}
	return personnel, nil
}

func (s *Service) GetPersonnel(ctx context.Context, id uint) (*models.Personnel, error) {
	var p models.Personnel
	if err := s.db.WithContext(ctx).Preload("Department").Preload("Area").First(&p, id).Error; err != nil {
		return nil, notFound(err, "personnel", id)
	}
	return &p, nil
}

func (s *Service) CreatePersonnel(ctx context.Context, in PersonnelInput) (*models.Personnel, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	p := models.Personnel{}
	applyPersonnel(&p, in)
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureOwners(tx, in.DepartmentID, in.AreaID); err != nil {
			return err
		}
		if err := checkUnique(tx, PersonnelEmployeeID, in.EmployeeID, 0); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&p).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("personnel created", zap.Uint("id", p.ID), zap.String("name", p.FullName()))
	return &p, nil
}

func (s *Service) UpdatePersonnel(ctx context.Context, id uint, in PersonnelInput) (*models.Personnel, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var p models.Personnel
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return notFound(err, "personnel", id)
		}
		if err := ensureOwners(tx, in.DepartmentID, in.AreaID); err != nil {
			return err
		}
		if err := checkUnique(tx, PersonnelEmployeeID, in.EmployeeID, id); err != nil {
			return err
		}
		applyPersonnel(&p, in)
		return tx.Omit(clause.Associations).Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("personnel updated", zap.Uint("id", p.ID))
	return &p, nil
}

// DeletePersonnel refuses to remove someone who holds equipment or appears in
// any assignment, returned or not.
func (s *Service) DeletePersonnel(ctx context.Context, id uint) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var p models.Personnel
		if err := tx.First(&p, id).Error; err != nil {
			return notFound(err, "personnel", id)
		}

		var held int64
		if err := tx.Model(&models.Equipment{}).Where("assigned_to_id = ?", id).Count(&held).Error; err != nil {
			return err
		}
		if held > 0 {
			return apperrors.Conflict("%s still holds %d equipment item(s)", p.FullName(), held)
		}
		var history int64
		if err := tx.Model(&models.Assignment{}).Where("personnel_id = ?", id).Count(&history).Error; err != nil {
			return err
		}
		if history > 0 {
			return apperrors.Conflict("%s is referenced by %d assignment(s)", p.FullName(), history)
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		return err
	}
	s.log.Info("personnel deleted", zap.Uint("id", id))
	return nil
}

func applyPersonnel(p *models.Personnel, in PersonnelInput) {
	p.Name = in.Name
	p.LastName = in.LastName
	p.Email = in.Email
	p.Phone = in.Phone
	p.Position = in.Position
	p.EmployeeID = in.employeeID()
	p.DepartmentID = in.DepartmentID
	p.AreaID = in.AreaID
}

// ensureOwners checks that the department, and the area when given, exist.
func ensureOwners(tx *gorm.DB, departmentID uint, areaID *uint) error {
	var count int64
	if err := tx.Model(&models.Department{}).Where("id = ?", departmentID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound("department", departmentID)
	}
	if areaID == nil {
		return nil
	}
	if err := tx.Model(&models.Area{}).Where("id = ?", *areaID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound("area", *areaID)
	}
	return nil
}
