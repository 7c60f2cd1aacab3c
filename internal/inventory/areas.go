package inventory

import (
	"context"
	"fmt"

	"inventory-tracker/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) ListAreas(ctx context.Context) ([]models.Area, error) {
	var areas []models.Area
	if err := s.db.WithContext(ctx).Order("name asc").Find(&areas).Error; err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return areas, nil
}

func (s *Service) GetArea(ctx context.Context, id uint) (*models.Area, error) {
	var a models.Area
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err, "area", id)
	}
	return &a, nil
}

func (s *Service) CreateArea(ctx context.Context, in AreaInput) (*models.Area, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	a := models.Area{Name: in.Name, Description: in.Description, Location: in.Location}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := checkUnique(tx, AreaName, a.Name, 0); err != nil {
			return err
		}
		return tx.Create(&a).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("area created", zap.Uint("id", a.ID), zap.String("name", a.Name))
	return &a, nil
}

func (s *Service) UpdateArea(ctx context.Context, id uint, in AreaInput) (*models.Area, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var a models.Area
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&a, id).Error; err != nil {
			return notFound(err, "area", id)
		}
		if err := checkUnique(tx, AreaName, in.Name, id); err != nil {
			return err
		}
		a.Name = in.Name
		a.Description = in.Description
		a.Location = in.Location
		return tx.Save(&a).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("area updated", zap.Uint("id", a.ID))
	return &a, nil
}

func (s *Service) DeleteArea(ctx context.Context, id uint) error {
	var images []string
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var a models.Area
		if err := tx.First(&a, id).Error; err != nil {
			return notFound(err, "area", id)
		}
		var err error
		if images, err = purgeOwned(tx, "area_id", id); err != nil {
			return err
		}
		return tx.Delete(&a).Error
	})
	if err != nil {
		return err
	}
	s.removeImages(ctx, images...)
	s.log.Info("area deleted", zap.Uint("id", id))
	return nil
}
