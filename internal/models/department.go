package models

import "time"

// Department owns its equipment and personnel; deleting it removes both.
type Department struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;uniqueIndex:uq_departments_name"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Equipment []Equipment `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
	Personnel []Personnel `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
}

func (Department) TableName() string { return "departments" }
