package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-tracker/internal/apperrors"
	"inventory-tracker/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentInput struct {
	EquipmentID    uint
	PersonnelID    uint
	AssignmentDate time.Time
	ReturnDate     *time.Time
	Status         models.AssignmentStatus
	Notes          string
}

func (in *AssignmentInput) normalize() error {
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Status == "" {
		in.Status = models.AssignmentActive
	}
	switch {
	case in.EquipmentID == 0:
		return apperrors.Validation("equipment_id", "equipment is required")
	case in.PersonnelID == 0:
		return apperrors.Validation("personnel_id", "personnel is required")
	case in.AssignmentDate.IsZero():
		return apperrors.Validation("assignment_date", "assignment date is required")
	case !in.Status.Valid():
		return apperrors.Validation("status", "unknown assignment status %q", in.Status)
	case in.ReturnDate != nil && in.ReturnDate.Before(in.AssignmentDate):
		return apperrors.Validation("return_date", "return date is before the assignment date")
	}
	return nil
}

func (s *Service) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	var list []models.Assignment
	err := s.db.WithContext(ctx).
		Preload("Equipment").
		Preload("Personnel").
		Order("assignment_date desc, id desc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return list, nil
}

func (s *Service) GetAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	var a models.Assignment
	if err := s.db.WithContext(ctx).Preload("Equipment").Preload("Personnel").First(&a, id).Error; err != nil {
		return nil, notFound(err, "assignment", id)
	}
	return &a, nil
}

// CreateAssignment records that operator handed equipment to a person. An
// Active assignment makes the person the equipment's holder.
func (s *Service) CreateAssignment(ctx context.Context, in AssignmentInput, operator string) (*models.Assignment, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	a := models.Assignment{
		EquipmentID:    in.EquipmentID,
		PersonnelID:    in.PersonnelID,
		AssignmentDate: in.AssignmentDate,
		ReturnDate:     in.ReturnDate,
		Status:         in.Status,
		Notes:          in.Notes,
		AssignedBy:     operator,
	}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		eq, err := loadEquipment(tx, in.EquipmentID)
		if err != nil {
			return err
		}
		if err := ensurePersonnel(tx, in.PersonnelID); err != nil {
			return err
		}
		if err := ensureNoActive(tx, eq, 0); err != nil {
			return err
		}
		if a.Status == models.AssignmentActive {
			if err := ensureAssignable(eq); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Create(&a).Error; err != nil {
			return err
		}

		switch {
		case a.Status == models.AssignmentActive:
			return hold(tx, eq.ID, a.PersonnelID, a.AssignmentDate)
		case s.legacyHolder:
			return tx.Model(&models.Equipment{}).Where("id = ?", eq.ID).Updates(map[string]any{
				"assigned_to_id":  a.PersonnelID,
				"assignment_date": a.AssignmentDate,
			}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("assignment created",
		zap.Uint("id", a.ID),
		zap.Uint("equipment_id", a.EquipmentID),
		zap.Uint("personnel_id", a.PersonnelID),
		zap.String("status", string(a.Status)),
		zap.String("operator", operator),
	)
	return &a, nil
}

// UpdateAssignment applies an edit, updating the equipment according to the
// transition from the stored status to the new one.
func (s *Service) UpdateAssignment(ctx context.Context, id uint, in AssignmentInput) (*models.Assignment, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var a models.Assignment
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&a, id).Error; err != nil {
			return notFound(err, "assignment", id)
		}
		target, err := loadEquipment(tx, in.EquipmentID)
		if err != nil {
			return err
		}
		if err := ensurePersonnel(tx, in.PersonnelID); err != nil {
			return err
		}

		prev := a.Status
		returnDate := in.ReturnDate
		switch {
		case in.Status == models.AssignmentReturned && prev != models.AssignmentReturned:
			released := in.EquipmentID
			if prev == models.AssignmentActive {
				released = a.EquipmentID
			}
			if err := release(tx, released, a.ID); err != nil {
				return err
			}
			if returnDate == nil {
				now := s.now()
				returnDate = &now
			}

		case in.Status == models.AssignmentActive && prev != models.AssignmentActive:
			if err := ensureNoActive(tx, target, a.ID); err != nil {
				return err
			}
			if err := ensureAssignable(target); err != nil {
				return err
			}
			if err := hold(tx, target.ID, in.PersonnelID, in.AssignmentDate); err != nil {
				return err
			}

		case in.Status == models.AssignmentActive && prev == models.AssignmentActive:
			moved := in.EquipmentID != a.EquipmentID
			if moved {
				if err := ensureNoActive(tx, target, a.ID); err != nil {
					return err
				}
				if err := ensureAssignable(target); err != nil {
					return err
				}
				if err := release(tx, a.EquipmentID, a.ID); err != nil {
					return err
				}
			}
			if moved || in.PersonnelID != a.PersonnelID || !in.AssignmentDate.Equal(a.AssignmentDate) {
				if err := hold(tx, target.ID, in.PersonnelID, in.AssignmentDate); err != nil {
					return err
				}
			}

		case in.Status == models.AssignmentCancelled && prev == models.AssignmentActive:
			if err := release(tx, a.EquipmentID, a.ID); err != nil {
				return err
			}
		}

		a.EquipmentID = in.EquipmentID
		a.PersonnelID = in.PersonnelID
		a.AssignmentDate = in.AssignmentDate
		a.ReturnDate = returnDate
		a.Status = in.Status
		a.Notes = in.Notes
		return tx.Omit(clause.Associations).Save(&a).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("assignment updated", zap.Uint("id", a.ID), zap.String("status", string(a.Status)))
	return &a, nil
}

// ReturnAssignment marks the assignment Returned as of now and frees the equipment.
func (s *Service) ReturnAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	var a models.Assignment
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&a, id).Error; err != nil {
			return notFound(err, "assignment", id)
		}
		if a.Status == models.AssignmentReturned {
			return &apperrors.AlreadyReturnedError{AssignmentID: a.ID}
		}
		if err := release(tx, a.EquipmentID, a.ID); err != nil {
			return err
		}
		now := s.now()
		a.Status = models.AssignmentReturned
		a.ReturnDate = &now
		return tx.Omit(clause.Associations).Save(&a).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("assignment returned", zap.Uint("id", a.ID), zap.Uint("equipment_id", a.EquipmentID))
	return &a, nil
}

func (s *Service) DeleteAssignment(ctx context.Context, id uint) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var a models.Assignment
		if err := tx.First(&a, id).Error; err != nil {
			return notFound(err, "assignment", id)
		}
		if a.Status == models.AssignmentActive {
			if err := release(tx, a.EquipmentID, a.ID); err != nil {
				return err
			}
		}
		return tx.Delete(&a).Error
	})
	if err != nil {
		return err
	}
	s.log.Info("assignment deleted", zap.Uint("id", id))
	return nil
}

func loadEquipment(tx *gorm.DB, id uint) (*models.Equipment, error) {
	var e models.Equipment
	if err := tx.First(&e, id).Error; err != nil {
		return nil, notFound(err, "equipment", id)
	}
	return &e, nil
}

func ensurePersonnel(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Personnel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound("personnel", id)
	}
	return nil
}

// hasActive reports whether an Active assignment other than exceptID exists
// for the equipment.
func hasActive(tx *gorm.DB, equipmentID, exceptID uint) (bool, error) {
	q := tx.Model(&models.Assignment{}).
		Where("equipment_id = ? AND status = ?", equipmentID, models.AssignmentActive)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("count active assignments: %w", err)
	}
	return count > 0, nil
}

func ensureNoActive(tx *gorm.DB, eq *models.Equipment, exceptID uint) error {
	active, err := hasActive(tx, eq.ID, exceptID)
	if err != nil {
		return err
	}
	if active {
		return apperrors.Conflict("equipment %s already actively assigned", eq.Code)
	}
	return nil
}

func ensureAssignable(eq *models.Equipment) error {
	if eq.Status == models.EquipmentMaintenance || eq.Status == models.EquipmentDecommissioned {
		return apperrors.Validation("equipment_id", "equipment %s is in %s and cannot be assigned", eq.Code, eq.Status)
	}
	return nil
}

// hold makes personnelID the holder of the equipment.
func hold(tx *gorm.DB, equipmentID, personnelID uint, date time.Time) error {
	return tx.Model(&models.Equipment{}).Where("id = ?", equipmentID).Updates(map[string]any{
		"assigned_to_id":  personnelID,
		"assignment_date": date,
		"status":          models.EquipmentAssigned,
	}).Error
}

// release clears the holder and makes the equipment Available, unless an
// Active assignment other than exceptID still holds it.
func release(tx *gorm.DB, equipmentID, exceptID uint) error {
	active, err := hasActive(tx, equipmentID, exceptID)
	if err != nil || active {
		return err
	}
	return tx.Model(&models.Equipment{}).Where("id = ?", equipmentID).Updates(map[string]any{
		"assigned_to_id":  nil,
		"assignment_date": nil,
		"status":          models.EquipmentAvailable,
	}).Error
}
