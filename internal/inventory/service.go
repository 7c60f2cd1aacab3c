// Package inventory implements departments, areas, personnel, equipment and the
// assignment workflow that keeps equipment status in step with its assignments.
package inventory

import (
	"context"
	"errors"
	"time"

	"inventory-tracker/internal/apperrors"
	"inventory-tracker/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errImagesDisabled = errors.New("image uploads are not configured")

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	images storage.ImageStore

	allowedExt   []string
	maxImageSize int64

	// legacyHolder also records the holder for assignments created in a
	// non-Active status, leaving equipment status unchanged.
	legacyHolder bool
	now          func() time.Time
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithImageStore enables equipment images. allowed lists the accepted
// extensions without dots and maxBytes caps the upload size (0 means no cap).
func WithImageStore(store storage.ImageStore, allowed []string, maxBytes int64) Option {
	return func(s *Service) {
		s.images = store
		s.allowedExt = allowed
		s.maxImageSize = maxBytes
	}
}

func WithLegacyHolderSync(enabled bool) Option {
	return func(s *Service) { s.legacyHolder = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:  db,
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// transaction runs fn in one database transaction and maps constraint
// violations raised on commit to the error taxonomy.
func (s *Service) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return translate(s.db.WithContext(ctx).Transaction(fn))
}

func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return err
}

// removeImages deletes stored images after the rows referencing them are gone.
// Failures are logged and otherwise ignored.
func (s *Service) removeImages(ctx context.Context, names ...string) {
	if s.images == nil {
		return
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := s.images.Delete(ctx, name); err != nil {
			s.log.Warn("failed to delete equipment image", zap.String("image", name), zap.Error(err))
		}
	}
}
