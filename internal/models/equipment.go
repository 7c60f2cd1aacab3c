package models

import "time"

type EquipmentStatus string

const (
	EquipmentAvailable      EquipmentStatus = "Available"
	EquipmentAssigned       EquipmentStatus = "Assigned"
	EquipmentMaintenance    EquipmentStatus = "Maintenance"
	EquipmentDecommissioned EquipmentStatus = "Decommissioned"
)

var EquipmentStatuses = []EquipmentStatus{
	EquipmentAvailable,
	EquipmentAssigned,
	EquipmentMaintenance,
	EquipmentDecommissioned,
}

func (s EquipmentStatus) Valid() bool {
	for _, v := range EquipmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// EquipmentTypes are the categories offered by the equipment form.
var EquipmentTypes = []string{
	"Laptop", "Desktop", "Monitor", "Printer", "Tablet", "Server", "Router", "Switch",
	"Hard Drive", "RAM", "Processor", "Graphics Card", "Motherboard", "Network Card",
	"Sound Card", "Video Card", "Keyboard", "Mouse", "Headphones", "Other",
}

// Equipment.Status, AssignedToID and AssignmentDate mirror the equipment's
// active assignment and are only changed by the assignment operations.
type Equipment struct {
	ID            uint            `gorm:"primaryKey"`
	Code          string          `gorm:"size:50;not null;uniqueIndex:uq_equipment_code"`
	Serial        string          `gorm:"size:100;not null;uniqueIndex:uq_equipment_serial"`
	EquipmentType string          `gorm:"size:100;not null"`
	Brand         string          `gorm:"size:100"`
	Model         string          `gorm:"size:100"`
	Status        EquipmentStatus `gorm:"type:varchar(50);not null;default:'Available'"`

	DepartmentID uint `gorm:"not null;index"`
	Department   Department
	AreaID       *uint `gorm:"index"`
	Area         *Area
	AssignedToID *uint      `gorm:"index"`
	AssignedTo   *Personnel `gorm:"foreignKey:AssignedToID"`

	ImageFilename   string `gorm:"size:255"`
	IPAddress       string `gorm:"size:45"`
	PhysicalAddress string `gorm:"size:50"`
	Specifications  string `gorm:"type:text"`
	Notes           string `gorm:"type:text"`

	RegistrationDate time.Time `gorm:"not null"`
	AssignmentDate   *time.Time
	PurchaseDate     *time.Time
	WarrantyExpiry   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Assignments []Assignment `gorm:"foreignKey:EquipmentID;constraint:OnDelete:CASCADE"`
}

func (Equipment) TableName() string { return "equipment" }

func (e Equipment) Label() string {
	label := e.Code + " - " + e.EquipmentType
	if e.Brand != "" || e.Model != "" {
		label += " (" + e.Brand + " " + e.Model + ")"
	}
	return label
}
