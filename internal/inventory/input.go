package inventory

import (
	"strings"
	"unicode/utf8"

	"inventory-tracker/internal/apperrors"
)

type DepartmentInput struct {
	Name        string
	Description string
}

func (in *DepartmentInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return firstError(
		required("name", in.Name),
		maxLen("name", in.Name, 100),
	)
}

type AreaInput struct {
	Name        string
	Description string
	Location    string
}

func (in *AreaInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	return firstError(
		required("name", in.Name),
		maxLen("name", in.Name, 100),
		maxLen("location", in.Location, 200),
	)
}

func required(field, value string) error {
	if value == "" {
		return apperrors.Validation(field, "%s is required", field)
	}
	return nil
}

func maxLen(field, value string, n int) error {
	if utf8.RuneCountInString(value) > n {
		return apperrors.Validation(field, "%s must be at most %d characters", field, n)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
