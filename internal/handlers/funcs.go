package handlers

import (
	"html/template"
	"time"

	"inventory-tracker/internal/models"
)

// TemplateFuncs are the helpers available to every page template.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"maskEmail":      maskEmail,
		"maskPhone":      maskPhone,
		"statusClass":    statusClass,
	}
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t)
	}
	return ""
}

func formatDateTime(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDateTime(*t)
	}
	return ""
}

func maskEmail(email string) string {
	runes := []rune(email)
	atIdx := -1
	for i, r := range runes {
		if r == '@' {
			atIdx = i
			break
		}
	}
	if atIdx <= 0 {
		return "***"
	}
	prefix := string(runes[:atIdx])
	domain := string(runes[atIdx:])
	if len([]rune(prefix)) <= 2 {
		return prefix + "***" + domain
	}
	return string(runes[0:2]) + "***" + domain
}

func maskPhone(phone string) string {
	runes := []rune(phone)
	n := len(runes)
	if n <= 4 {
		return "***"
	}
	masked := make([]rune, n)
	for i := range runes {
		if i >= n-2 {
			masked[i] = runes[i]
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}

// statusClass picks the badge colour for an equipment or assignment status.
func statusClass(status any) string {
	switch status {
	case models.EquipmentAvailable, models.AssignmentReturned:
		return "success"
	case models.EquipmentAssigned, models.AssignmentActive:
		return "primary"
	case models.EquipmentMaintenance:
		return "warning"
	case models.EquipmentDecommissioned, models.AssignmentCancelled:
		return "secondary"
	}
	return "light"
}
