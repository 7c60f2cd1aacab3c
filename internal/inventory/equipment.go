package inventory

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"inventory-tracker/internal/apperrors"
	"inventory-tracker/internal/models"
	"inventory-tracker/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EquipmentInput struct {
	Code            string
	Serial          string
	EquipmentType   string
	Brand           string
	Model           string
	Status          models.EquipmentStatus
	DepartmentID    uint
	AreaID          *uint
	IPAddress       string
	PhysicalAddress string
	Specifications  string
	Notes           string

	RegistrationDate time.Time
	PurchaseDate     *time.Time
	WarrantyExpiry   *time.Time
}

// ImageUpload is an image submitted with the equipment form.
type ImageUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

func (in *EquipmentInput) normalize() error {
	for _, f := range []*string{
		&in.Code, &in.Serial, &in.EquipmentType, &in.Brand, &in.Model,
		&in.IPAddress, &in.PhysicalAddress, &in.Specifications, &in.Notes,
	} {
		*f = strings.TrimSpace(*f)
	}
	if in.Status == "" {
		in.Status = models.EquipmentAvailable
	}

	err := firstError(
		required("code", in.Code),
		maxLen("code", in.Code, 50),
		required("serial", in.Serial),
		maxLen("serial", in.Serial, 100),
		required("equipment_type", in.EquipmentType),
		maxLen("equipment_type", in.EquipmentType, 100),
		maxLen("brand", in.Brand, 100),
		maxLen("model", in.Model, 100),
		maxLen("ip_address", in.IPAddress, 45),
		maxLen("physical_address", in.PhysicalAddress, 50),
	)
	if err != nil {
		return err
	}
	if !in.Status.Valid() {
		return apperrors.Validation("status", "unknown equipment status %q", in.Status)
	}
	if in.DepartmentID == 0 {
		return apperrors.Validation("department_id", "department is required")
	}
	if in.IPAddress != "" && net.ParseIP(in.IPAddress) == nil {
		return apperrors.Validation("ip_address", "%q is not a valid IP address", in.IPAddress)
	}
	if in.PhysicalAddress != "" {
		if _, err := net.ParseMAC(in.PhysicalAddress); err != nil {
			return apperrors.Validation("physical_address", "%q is not a valid MAC address", in.PhysicalAddress)
		}
	}
	return nil
}

func (s *Service) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	var list []models.Equipment
	err := s.db.WithContext(ctx).
		Preload("Department").
		Preload("Area").
		Preload("AssignedTo").
		Order("created_at desc, id desc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return list, nil
}

// GetEquipment loads the equipment with its holder and assignment history,
// newest assignment first.
func (s *Service) GetEquipment(ctx context.Context, id uint) (*models.Equipment, error) {
	var e models.Equipment
	err := s.db.WithContext(ctx).
		Preload("Department").
		Preload("Area").
		Preload("AssignedTo").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("assignment_date desc, id desc")
		}).
		Preload("Assignments.Personnel").
		First(&e, id).Error
	if err != nil {
		return nil, notFound(err, "equipment", id)
	}
	return &e, nil
}

// AssignableEquipment lists equipment offered when creating an assignment.
func (s *Service) AssignableEquipment(ctx context.Context) ([]models.Equipment, error) {
	var list []models.Equipment
	err := s.db.WithContext(ctx).
		Where("status IN ?", []models.EquipmentStatus{models.EquipmentAvailable, models.EquipmentAssigned}).
		Order("code asc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list assignable equipment: %w", err)
	}
	return list, nil
}

// EquipmentIP returns the equipment's IP address, empty when none is recorded.
func (s *Service) EquipmentIP(ctx context.Context, id uint) (string, error) {
	var e models.Equipment
	if err := s.db.WithContext(ctx).Select("id", "ip_address").First(&e, id).Error; err != nil {
		return "", notFound(err, "equipment", id)
	}
	return e.IPAddress, nil
}

// OpenImage returns a stored equipment image and its size.
func (s *Service) OpenImage(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	if s.images == nil {
		return nil, 0, storage.ErrImageNotFound
	}
	return s.images.Open(ctx, name)
}

func (s *Service) CreateEquipment(ctx context.Context, in EquipmentInput, img *ImageUpload) (*models.Equipment, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.Status == models.EquipmentAssigned {
		return nil, apperrors.Validation("status", "equipment becomes Assigned only through an assignment")
	}
	if in.RegistrationDate.IsZero() {
		in.RegistrationDate = s.now()
	}
	if err := s.checkImage(img); err != nil {
		return nil, err
	}

	e := models.Equipment{}
	applyEquipment(&e, in)
	var stored string
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureOwners(tx, in.DepartmentID, in.AreaID); err != nil {
			return err
		}
		if err := checkUnique(tx, EquipmentCode, in.Code, 0); err != nil {
			return err
		}
		if err := checkUnique(tx, EquipmentSerial, in.Serial, 0); err != nil {
			return err
		}
		var err error
		if stored, err = s.storeImage(ctx, in.Code, img); err != nil {
			return err
		}
		e.ImageFilename = stored
		return tx.Omit(clause.Associations).Create(&e).Error
	})
	if err != nil {
		s.removeImages(ctx, stored)
		return nil, err
	}
	s.log.Info("equipment created", zap.Uint("id", e.ID), zap.String("code", e.Code))
	return &e, nil
}

// UpdateEquipment edits the descriptive fields of an equipment. Holder and
// assignment date are left alone; status may not be moved into or out of
// Assigned while that would contradict the assignment history.
func (s *Service) UpdateEquipment(ctx context.Context, id uint, in EquipmentInput, img *ImageUpload) (*models.Equipment, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := s.checkImage(img); err != nil {
		return nil, err
	}

	var (
		e             models.Equipment
		previousImage string
		stored        string
	)
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&e, id).Error; err != nil {
			return notFound(err, "equipment", id)
		}
		if err := ensureOwners(tx, in.DepartmentID, in.AreaID); err != nil {
			return err
		}
		if err := checkUnique(tx, EquipmentCode, in.Code, id); err != nil {
			return err
		}
		if err := checkUnique(tx, EquipmentSerial, in.Serial, id); err != nil {
			return err
		}

		active, err := hasActive(tx, id, 0)
		if err != nil {
			return err
		}
		switch {
		case active && in.Status != models.EquipmentAssigned:
			return apperrors.Validation("status", "equipment %s has an active assignment; return it before changing the status", e.Code)
		case !active && in.Status == models.EquipmentAssigned && e.Status != models.EquipmentAssigned:
			return apperrors.Validation("status", "equipment becomes Assigned only through an assignment")
		}
		if in.RegistrationDate.IsZero() {
			in.RegistrationDate = e.RegistrationDate
		}

		if stored, err = s.storeImage(ctx, in.Code, img); err != nil {
			return err
		}
		previousImage = e.ImageFilename
		applyEquipment(&e, in)
		if stored != "" {
			e.ImageFilename = stored
		}
		return tx.Omit(clause.Associations).Save(&e).Error
	})
	if err != nil {
		if stored != "" && stored != previousImage {
			s.removeImages(ctx, stored)
		}
		return nil, err
	}
	if stored != "" && previousImage != "" && previousImage != stored {
		s.removeImages(ctx, previousImage)
	}
	s.log.Info("equipment updated", zap.Uint("id", e.ID), zap.String("code", e.Code))
	return &e, nil
}

// DeleteEquipment removes the equipment and its assignment history, then its image.
func (s *Service) DeleteEquipment(ctx context.Context, id uint) error {
	var e models.Equipment
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&e, id).Error; err != nil {
			return notFound(err, "equipment", id)
		}
		if err := tx.Where("equipment_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&e).Error
	})
	if err != nil {
		return err
	}
	s.removeImages(ctx, e.ImageFilename)
	s.log.Info("equipment deleted", zap.Uint("id", id), zap.String("code", e.Code))
	return nil
}

func applyEquipment(e *models.Equipment, in EquipmentInput) {
	e.Code = in.Code
	e.Serial = in.Serial
	e.EquipmentType = in.EquipmentType
	e.Brand = in.Brand
	e.Model = in.Model
	e.Status = in.Status
	e.DepartmentID = in.DepartmentID
	e.AreaID = in.AreaID
	e.IPAddress = in.IPAddress
	e.PhysicalAddress = in.PhysicalAddress
	e.Specifications = in.Specifications
	e.Notes = in.Notes
	e.RegistrationDate = in.RegistrationDate
	e.PurchaseDate = in.PurchaseDate
	e.WarrantyExpiry = in.WarrantyExpiry
}

func (s *Service) checkImage(img *ImageUpload) error {
	if img == nil || img.Filename == "" {
		return nil
	}
	if s.images == nil {
		return errImagesDisabled
	}
	if !storage.AllowedExtension(img.Filename, s.allowedExt) {
		return apperrors.Validation("image", "image must be one of: %s", strings.Join(s.allowedExt, ", "))
	}
	if s.maxImageSize > 0 && img.Size > s.maxImageSize {
		return apperrors.Validation("image", "image is larger than %d MB", s.maxImageSize>>20)
	}
	return nil
}

// storeImage writes img under a name derived from the equipment code. It
// returns "" when there is nothing to store.
func (s *Service) storeImage(ctx context.Context, code string, img *ImageUpload) (string, error) {
	if img == nil || img.Filename == "" {
		return "", nil
	}
	name := storage.ImageName(code, img.Filename)
	if !storage.AllowedExtension(name, s.allowedExt) {
		return "", apperrors.Validation("image", "image file name %q is not usable", img.Filename)
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = storage.ContentType(name)
	}
	if err := s.images.Save(ctx, name, img.Body, img.Size, contentType); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return name, nil
}
