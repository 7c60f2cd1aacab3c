package inventory

import (
	"context"
	"fmt"
	"io"
	"time"

	"inventory-tracker/internal/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Equipment"

var exportHeaders = []interface{}{
	"Code", "Serial", "Type", "Brand", "Model", "Status", "Department", "Area",
	"Assigned To", "IP Address", "MAC Address", "Registered", "Assigned On",
	"Purchased", "Warranty Until",
}

// ExportEquipment writes the equipment list as an XLSX workbook to w.
func (s *Service) ExportEquipment(ctx context.Context, w io.Writer) error {
	list, err := s.ListEquipment(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := styleHeader(f); err != nil {
		return fmt.Errorf("export header style: %w", err)
	}

	for i, e := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export row %d: %w", i+2, err)
		}
		row := exportRow(e)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("export row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "B", 18); err != nil {
		return fmt.Errorf("export column width: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "G", "I", 24); err != nil {
		return fmt.Errorf("export column width: %w", err)
	}

	return f.Write(w)
}

// styleHeader makes the first row bold.
func styleHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(exportSheet, "A1", last, style)
}

func exportRow(e models.Equipment) []interface{} {
	area, holder := "", ""
	if e.Area != nil {
		area = e.Area.Name
	}
	if e.AssignedTo != nil {
		holder = e.AssignedTo.FullName()
	}
	return []interface{}{
		e.Code, e.Serial, e.EquipmentType, e.Brand, e.Model, string(e.Status),
		e.Department.Name, area, holder, e.IPAddress, e.PhysicalAddress,
		e.RegistrationDate.Format("2006-01-02"), formatDate(e.AssignmentDate),
		formatDate(e.PurchaseDate), formatDate(e.WarrantyExpiry),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
