package inventory

import (
	"fmt"

	"inventory-tracker/internal/models"

	"gorm.io/gorm"
)

// purgeOwned deletes the equipment and personnel whose ownerColumn
// (department_id or area_id) equals ownerID, together with every assignment
// that references them. Equipment elsewhere held by a deleted person is
// released. It returns the image names of the deleted equipment.
func purgeOwned(tx *gorm.DB, ownerColumn string, ownerID uint) ([]string, error) {
	var equipment []models.Equipment
	if err := tx.Select("id", "image_filename").Where(ownerColumn+" = ?", ownerID).Find(&equipment).Error; err != nil {
		return nil, fmt.Errorf("load owned equipment: %w", err)
	}

	var images []string
	if len(equipment) > 0 {
		ids := make([]uint, 0, len(equipment))
		for _, e := range equipment {
			ids = append(ids, e.ID)
			if e.ImageFilename != "" {
				images = append(images, e.ImageFilename)
			}
		}
		if err := tx.Where("equipment_id IN ?", ids).Delete(&models.Assignment{}).Error; err != nil {
			return nil, fmt.Errorf("delete equipment assignments: %w", err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Equipment{}).Error; err != nil {
			return nil, fmt.Errorf("delete equipment: %w", err)
		}
	}

	var personnel []uint
	if err := tx.Model(&models.Personnel{}).Where(ownerColumn+" = ?", ownerID).Pluck("id", &personnel).Error; err != nil {
		return nil, fmt.Errorf("load owned personnel: %w", err)
	}
	if len(personnel) == 0 {
		return images, nil
	}

	err := tx.Model(&models.Equipment{}).Where("assigned_to_id IN ?", personnel).Updates(map[string]any{
		"assigned_to_id":  nil,
		"assignment_date": nil,
		"status":          models.EquipmentAvailable,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("release held equipment: %w", err)
	}
	if err := tx.Where("personnel_id IN ?", personnel).Delete(&models.Assignment{}).Error; err != nil {
		return nil, fmt.Errorf("delete personnel assignments: %w", err)
	}
	if err := tx.Where("id IN ?", personnel).Delete(&models.Personnel{}).Error; err != nil {
		return nil, fmt.Errorf("delete personnel: %w", err)
	}
	return images, nil
}
