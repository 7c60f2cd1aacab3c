package handlers

import (
	"strings"
	"time"

	"inventory-tracker/internal/apperrors"
	"inventory-tracker/internal/inventory"
	"inventory-tracker/internal/models"
)

var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04", "2006-01-02 15:04:05"}

// parseDate accepts the formats sent by date and datetime-local inputs.
// An empty value yields nil.
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.Validation(field, "%s must be a date like 2024-01-31", strings.ReplaceAll(field, "_", " "))
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

func derefID(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

func inputDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

//
// auth
//

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type registerForm struct {
	Username        string `form:"username" binding:"required,min=4,max=80"`
	Email           string `form:"email" binding:"required,email,max=120"`
	Password        string `form:"password" binding:"required,min=6,max=72"`
	PasswordConfirm string `form:"password_confirm" binding:"required,eqfield=Password"`
}

//
// departments / areas
//

type departmentForm struct {
	Name        string `form:"name" binding:"required,max=100"`
	Description string `form:"description"`
}

func (f departmentForm) input() inventory.DepartmentInput {
	return inventory.DepartmentInput{Name: f.Name, Description: f.Description}
}

type areaForm struct {
	Name        string `form:"name" binding:"required,max=100"`
	Description string `form:"description"`
	Location    string `form:"location" binding:"max=200"`
}

func (f areaForm) input() inventory.AreaInput {
	return inventory.AreaInput{Name: f.Name, Description: f.Description, Location: f.Location}
}

//
// personnel
//

type personnelForm struct {
	Name         string `form:"name" binding:"required,max=100"`
	LastName     string `form:"last_name" binding:"required,max=100"`
	Email        string `form:"email" binding:"omitempty,email,max=120"`
	Phone        string `form:"phone" binding:"max=20"`
	Position     string `form:"position" binding:"max=100"`
	EmployeeID   string `form:"employee_id" binding:"max=50"`
	DepartmentID uint   `form:"department_id" binding:"required"`
	AreaID       uint   `form:"area_id"`
}

func (f personnelForm) input() inventory.PersonnelInput {
	return inventory.PersonnelInput{
		Name:         f.Name,
		LastName:     f.LastName,
		Email:        f.Email,
		Phone:        f.Phone,
		Position:     f.Position,
		EmployeeID:   f.EmployeeID,
		DepartmentID: f.DepartmentID,
		AreaID:       optionalID(f.AreaID),
	}
}

func personnelFormFrom(p *models.Personnel) personnelForm {
	f := personnelForm{
		Name:         p.Name,
		LastName:     p.LastName,
		Email:        p.Email,
		Phone:        p.Phone,
		Position:     p.Position,
		DepartmentID: p.DepartmentID,
		AreaID:       derefID(p.AreaID),
	}
	if p.EmployeeID != nil {
		f.EmployeeID = *p.EmployeeID
	}
	return f
}

//
// equipment
//

type equipmentForm struct {
	Code             string `form:"code" binding:"required,max=50"`
	Serial           string `form:"serial" binding:"required,max=100"`
	EquipmentType    string `form:"equipment_type" binding:"required,max=100"`
	Brand            string `form:"brand" binding:"max=100"`
	Model            string `form:"model" binding:"max=100"`
	Status           string `form:"status"`
	DepartmentID     uint   `form:"department_id" binding:"required"`
	AreaID           uint   `form:"area_id"`
	IPAddress        string `form:"ip_address" binding:"omitempty,ip"`
	PhysicalAddress  string `form:"physical_address" binding:"omitempty,mac"`
	Specifications   string `form:"specifications"`
	Notes            string `form:"notes"`
	RegistrationDate string `form:"registration_date"`
	PurchaseDate     string `form:"purchase_date"`
	WarrantyExpiry   string `form:"warranty_expiry"`
}

func (f equipmentForm) input() (inventory.EquipmentInput, error) {
	in := inventory.EquipmentInput{
		Code:            f.Code,
		Serial:          f.Serial,
		EquipmentType:   f.EquipmentType,
		Brand:           f.Brand,
		Model:           f.Model,
		Status:          models.EquipmentStatus(f.Status),
		DepartmentID:    f.DepartmentID,
		AreaID:          optionalID(f.AreaID),
		IPAddress:       f.IPAddress,
		PhysicalAddress: f.PhysicalAddress,
		Specifications:  f.Specifications,
		Notes:           f.Notes,
	}
	registered, err := parseDate("registration_date", f.RegistrationDate)
	if err != nil {
		return in, err
	}
	if registered != nil {
		in.RegistrationDate = *registered
	}
	if in.PurchaseDate, err = parseDate("purchase_date", f.PurchaseDate); err != nil {
		return in, err
	}
	if in.WarrantyExpiry, err = parseDate("warranty_expiry", f.WarrantyExpiry); err != nil {
		return in, err
	}
	return in, nil
}

func equipmentFormFrom(e *models.Equipment) equipmentForm {
	return equipmentForm{
		Code:             e.Code,
		Serial:           e.Serial,
		EquipmentType:    e.EquipmentType,
		Brand:            e.Brand,
		Model:            e.Model,
		Status:           string(e.Status),
		DepartmentID:     e.DepartmentID,
		AreaID:           derefID(e.AreaID),
		IPAddress:        e.IPAddress,
		PhysicalAddress:  e.PhysicalAddress,
		Specifications:   e.Specifications,
		Notes:            e.Notes,
		RegistrationDate: inputDate(&e.RegistrationDate),
		PurchaseDate:     inputDate(e.PurchaseDate),
		WarrantyExpiry:   inputDate(e.WarrantyExpiry),
	}
}

//
// assignments
//

type assignmentForm struct {
	EquipmentID    uint   `form:"equipment_id" binding:"required"`
	PersonnelID    uint   `form:"personnel_id" binding:"required"`
	AssignmentDate string `form:"assignment_date" binding:"required"`
	ReturnDate     string `form:"return_date"`
	Status         string `form:"status" binding:"required"`
	Notes          string `form:"notes"`
}

func (f assignmentForm) input() (inventory.AssignmentInput, error) {
	in := inventory.AssignmentInput{
		EquipmentID: f.EquipmentID,
		PersonnelID: f.PersonnelID,
		Status:      models.AssignmentStatus(f.Status),
		Notes:       f.Notes,
	}
	assigned, err := parseDate("assignment_date", f.AssignmentDate)
	if err != nil {
		return in, err
	}
	if assigned != nil {
		in.AssignmentDate = *assigned
	}
	if in.ReturnDate, err = parseDate("return_date", f.ReturnDate); err != nil {
		return in, err
	}
	return in, nil
}

func assignmentFormFrom(a *models.Assignment) assignmentForm {
	return assignmentForm{
		EquipmentID:    a.EquipmentID,
		PersonnelID:    a.PersonnelID,
		AssignmentDate: inputDate(&a.AssignmentDate),
		ReturnDate:     inputDate(a.ReturnDate),
		Status:         string(a.Status),
		Notes:          a.Notes,
	}
}
