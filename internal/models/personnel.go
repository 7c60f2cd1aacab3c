package models

import "time"

type Personnel struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"size:100;not null"`
	LastName   string  `gorm:"size:100;not null"`
	Email      string  `gorm:"size:120"`
	Phone      string  `gorm:"size:20"`
	Position   string  `gorm:"size:100"`
	EmployeeID *string `gorm:"size:50;uniqueIndex:uq_personnel_employee_id"` // NULL when not given

	DepartmentID uint `gorm:"not null;index"`
	Department   Department
	AreaID       *uint `gorm:"index"`
	Area         *Area

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Personnel) TableName() string { return "personnel" }

func (p Personnel) FullName() string {
	if p.LastName == "" {
		return p.Name
	}
	return p.Name + " " + p.LastName
}
