package inventory

import (
	"context"
	"fmt"

	"inventory-tracker/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	Departments        int64
	Areas              int64
	Equipment          int64
	Personnel          int64
	AvailableEquipment int64
	AssignedEquipment  int64
	ActiveAssignments  int64
}

func (s *Service) Stats(ctx context.Context) (DashboardStats, error) {
	db := s.db.WithContext(ctx)
	var st DashboardStats
	counts := []struct {
		name  string
		query *gorm.DB
		dst   *int64
	}{
		{"departments", db.Model(&models.Department{}), &st.Departments},
		{"areas", db.Model(&models.Area{}), &st.Areas},
		{"equipment", db.Model(&models.Equipment{}), &st.Equipment},
		{"personnel", db.Model(&models.Personnel{}), &st.Personnel},
		{"available equipment", db.Model(&models.Equipment{}).Where("status = ?", models.EquipmentAvailable), &st.AvailableEquipment},
		{"assigned equipment", db.Model(&models.Equipment{}).Where("status = ?", models.EquipmentAssigned), &st.AssignedEquipment},
		{"active assignments", db.Model(&models.Assignment{}).Where("status = ?", models.AssignmentActive), &st.ActiveAssignments},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return DashboardStats{}, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	return st, nil
}
