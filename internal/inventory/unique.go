package inventory

import (
	"context"
	"fmt"

	"inventory-tracker/internal/apperrors"

	"gorm.io/gorm"
)

type UniqueField int

const (
	DepartmentName UniqueField = iota + 1
	AreaName
	EquipmentCode
	EquipmentSerial
	PersonnelEmployeeID
)

type uniqueColumn struct {
	table  string
	column string
	entity string
	label  string
}

var uniqueColumns = map[UniqueField]uniqueColumn{
	DepartmentName:      {table: "departments", column: "name", entity: "department", label: "name"},
	AreaName:            {table: "areas", column: "name", entity: "area", label: "name"},
	EquipmentCode:       {table: "equipment", column: "code", entity: "equipment", label: "code"},
	EquipmentSerial:     {table: "equipment", column: "serial", entity: "equipment", label: "serial"},
	PersonnelEmployeeID: {table: "personnel", column: "employee_id", entity: "personnel", label: "employee ID"},
}

// constraintFields maps database unique keys (postgres constraint names and
// sqlite "table.column" pairs) back to the field they guard.
var constraintFields = map[string]UniqueField{
	"uq_departments_name":      DepartmentName,
	"departments.name":         DepartmentName,
	"uq_areas_name":            AreaName,
	"areas.name":               AreaName,
	"uq_equipment_code":        EquipmentCode,
	"equipment.code":           EquipmentCode,
	"uq_equipment_serial":      EquipmentSerial,
	"equipment.serial":         EquipmentSerial,
	"uq_personnel_employee_id": PersonnelEmployeeID,
	"personnel.employee_id":    PersonnelEmployeeID,
}

var activeAssignmentKeys = map[string]bool{
	"uq_assignments_active_equipment": true,
	"assignments.equipment_id":        true,
}

// CheckUnique returns a DuplicateValueError when another row already holds
// value in field. excludeID is the row being edited, or 0 on create. Empty
// values are accepted since optional unique columns store NULL.
func (s *Service) CheckUnique(ctx context.Context, field UniqueField, value string, excludeID uint) error {
	return checkUnique(s.db.WithContext(ctx), field, value, excludeID)
}

func checkUnique(tx *gorm.DB, field UniqueField, value string, excludeID uint) error {
	col, ok := uniqueColumns[field]
	if !ok {
		return fmt.Errorf("unknown unique field %d", field)
	}
	if value == "" {
		return nil
	}

	q := tx.Table(col.table).Where(col.column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check %s %s: %w", col.entity, col.label, err)
	}
	if count > 0 {
		return apperrors.Duplicate(col.entity, col.label, value)
	}
	return nil
}

// translate turns unique violations that slipped past the in-transaction
// checks into the same errors those checks return.
func translate(err error) error {
	key, ok := apperrors.UniqueViolation(err)
	if !ok {
		return err
	}
	if activeAssignmentKeys[key] {
		return apperrors.Conflict("equipment already actively assigned")
	}
	if field, ok := constraintFields[key]; ok {
		col := uniqueColumns[field]
		return apperrors.Duplicate(col.entity, col.label, "")
	}
	return err
}
