package models

import "time"

type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "Active"
	AssignmentReturned  AssignmentStatus = "Returned"
	AssignmentCancelled AssignmentStatus = "Cancelled"
)

var AssignmentStatuses = []AssignmentStatus{
	AssignmentActive,
	AssignmentReturned,
	AssignmentCancelled,
}

func (s AssignmentStatus) Valid() bool {
	for _, v := range AssignmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Assignment struct {
	ID          uint `gorm:"primaryKey"`
	EquipmentID uint `gorm:"not null;index"`
	Equipment   Equipment
	PersonnelID uint `gorm:"not null;index"`
	Personnel   Personnel

	AssignmentDate time.Time `gorm:"not null"`
	ReturnDate     *time.Time
	Status         AssignmentStatus `gorm:"type:varchar(50);not null;default:'Active'"`
	Notes          string           `gorm:"type:text"`
	AssignedBy     string           `gorm:"size:100"` // username of the operator

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Assignment) TableName() string { return "assignments" }
