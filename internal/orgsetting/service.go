// Package orgsetting implements the organization settings service: typed reads through
// the value codec, the feature gate and the admin write operations.
package orgsetting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/rs/zerolog/log"

	"github.com/mineralhub/mineralhub/internal/crypt"
	"github.com/mineralhub/mineralhub/internal/db/controller/setting"
	"github.com/mineralhub/mineralhub/internal/db/models"
	"github.com/mineralhub/mineralhub/internal/validation"
)

// Well known setting keys.
const (
	KeyMaintenanceMode     = "maintenance_mode"
	KeyMaintenanceMessage  = "maintenance_message"
	KeyRegistrationEnabled = "registration_enabled"
	KeyMarketplaceEnabled  = "marketplace_enabled"
	KeyForumEnabled        = "forum_enabled"
	KeyGalleryEnabled      = "gallery_enabled"
	KeyNewsletterEnabled   = "newsletter_enabled"
	KeyInsightsEnabled     = "insights_enabled"
	KeyPlatformName        = "platform_name"
)

// Store is the persistence the service needs. Both setting.Repository and
// setting.MemoryRepository satisfy it.
type Store interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	All(ctx context.Context) ([]models.Setting, error)
	ListByType(ctx context.Context, t models.SettingType) ([]models.Setting, error)
	List(ctx context.Context, f setting.Filter) ([]models.Setting, int64, error)
	Create(ctx context.Context, s *models.Setting) (*models.Setting, error)
	Upsert(ctx context.Context, s *models.Setting) (*models.Setting, error)
	Delete(ctx context.Context, key string) (bool, error)
}

// Options tunes the read cache.
type Options struct {
	CacheTTL  time.Duration // zero disables caching
	CacheSize int
}

// cached is a cache entry; a nil setting records a known absent key.
type cached struct {
	setting *models.Setting
}

// Service reads and writes organization settings.
type Service struct {
	store     Store
	enc       crypt.Encrypter
	cache     *otter.Cache[string, cached]
	validator *validation.XValidator

	// cacheMu orders cache fills against invalidations. writes counts invalidations so a
	// fill whose load overlapped a write is dropped.
	cacheMu sync.Mutex
	writes  uint64
}

// New creates the settings service.
func New(store Store, enc crypt.Encrypter, opts Options) (*Service, error) {
	s := &Service{
		store:     store,
		enc:       enc,
		validator: NewValidator(),
	}

	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 1000
		}

		c, err := otter.New(&otter.Options[string, cached]{
			MaximumSize:      size,
			ExpiryCalculator: otter.ExpiryWriting[string, cached](opts.CacheTTL),
		})
		if err != nil {
			return nil, err
		}

		s.cache = c
	}

	return s, nil
}

// Validator returns the validator used for setting payloads.
func (s *Service) Validator() *validation.XValidator {
	return s.validator
}

// lookup returns the setting row for key, nil when absent.
func (s *Service) lookup(ctx context.Context, key string) (*models.Setting, error) {
	var gen uint64

	if s.cache != nil {
		if c, ok := s.cache.GetIfPresent(key); ok {
			return copySetting(c.setting), nil
		}

		s.cacheMu.Lock()
		gen = s.writes
		s.cacheMu.Unlock()
	}

	row, err := s.store.Get(ctx, key)
	if err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		return nil, err
	}

	if s.cache != nil {
		s.cacheMu.Lock()
		if s.writes == gen {
			s.cache.Set(key, cached{setting: copySetting(row)})
		}
		s.cacheMu.Unlock()
	}

	return row, nil
}

func (s *Service) invalidate(key string) {
	if s.cache == nil {
		return
	}

	s.cacheMu.Lock()
	s.writes++
	s.cache.Invalidate(key)
	s.cacheMu.Unlock()
}

func copySetting(row *models.Setting) *models.Setting {
	if row == nil {
		return nil
	}

	c := *row

	return &c
}

// Value returns the effective typed value of key. Absent keys yield Null without error.
func (s *Service) Value(ctx context.Context, key string) (Value, error) {
	row, err := s.lookup(ctx, key)
	if err != nil {
		return Null(), err
	}

	return Resolve(row, s.enc), nil
}

// IsEnabled reports whether key resolves to exactly boolean true.
// Absent keys and storage failures count as disabled.
func (s *Service) IsEnabled(ctx context.Context, key string) bool {
	v, err := s.Value(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("setting", key).Msg("failed to read setting, treating as disabled")
		recordDecision(key, resultError)

		return false
	}

	enabled := v.IsTrue()
	if enabled {
		recordDecision(key, resultEnabled)
	} else {
		recordDecision(key, resultDisabled)
	}

	return enabled
}

// CheckAccess returns a *FeatureDisabledError unless key is enabled.
func (s *Service) CheckAccess(ctx context.Context, key, label string) error {
	if s.IsEnabled(ctx, key) {
		return nil
	}

	return NewFeatureDisabledError(key, label)
}

// String returns the effective value of key when it is a string, or def.
func (s *Service) String(ctx context.Context, key, def string) string {
	v, err := s.Value(ctx, key)
	if err != nil {
		return def
	}

	if str, ok := v.Str(); ok && str != "" {
		return str
	}

	return def
}

// Get returns the stored row of key or setting.ErrSettingNotFound.
func (s *Service) Get(ctx context.Context, key string) (*models.Setting, error) {
	row, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	if row == nil {
		return nil, setting.ErrSettingNotFound
	}

	return row, nil
}

// All returns every row ordered by type and key.
func (s *Service) All(ctx context.Context) ([]models.Setting, error) {
	return s.store.All(ctx)
}

// Resolve decodes a row already loaded by the caller.
func (s *Service) Resolve(row *models.Setting) Value {
	return Resolve(row, s.enc)
}

// List returns one page of rows matching f.
func (s *Service) List(ctx context.Context, f setting.Filter) ([]models.Setting, int64, error) {
	return s.store.List(ctx, f)
}

// Grouped returns all rows keyed by their type. Every known type is present.
func (s *Service) Grouped(ctx context.Context) (map[models.SettingType][]models.Setting, error) {
	rows, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[models.SettingType][]models.Setting, len(models.SettingTypes()))
	for _, t := range models.SettingTypes() {
		grouped[t] = []models.Setting{}
	}

	for _, row := range rows {
		grouped[row.Type] = append(grouped[row.Type], row)
	}

	return grouped, nil
}

// ByType returns the rows of one type.
func (s *Service) ByType(ctx context.Context, t models.SettingType) ([]models.Setting, error) {
	return s.store.ListByType(ctx, t)
}

// Create validates and stores a new setting. A duplicate key is a validation error.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Setting, error) {
	if err := s.validator.Check(in); err != nil {
		return nil, err
	}

	value, err := Encode(in.Value.Value, in.IsSensitive, s.enc)
	if err != nil {
		return nil, err
	}

	row, err := s.store.Create(ctx, &models.Setting{
		Key:         in.Key,
		Value:       value,
		Type:        in.Type,
		Description: in.Description,
		IsSensitive: in.IsSensitive,
	})
	if errors.Is(err, setting.ErrSettingAlreadyExists) {
		return nil, validation.NewError("key", "The key has already been taken.")
	}

	if err != nil {
		return nil, err
	}

	s.invalidate(in.Key)

	log.Info().Str("setting", in.Key).Str("type", string(in.Type)).Msg("setting created")

	return row, nil
}

// Upsert stores value under key, replacing type, description and sensitivity. It is the
// write path used by seeding and bulk updates.
func (s *Service) Upsert(ctx context.Context, key string, value *string, t models.SettingType,
	sensitive bool, description *string,
) (*models.Setting, error) {
	encoded, err := Encode(value, sensitive, s.enc)
	if err != nil {
		return nil, err
	}

	row, err := s.store.Upsert(ctx, &models.Setting{
		Key:         key,
		Value:       encoded,
		Type:        t,
		Description: description,
		IsSensitive: sensitive,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(key)

	return row, nil
}

// Update applies a partial update to an existing key. The stored value is re-encoded only
// when a new value is supplied, so flipping is_sensitive alone leaves the raw value as is.
func (s *Service) Update(ctx context.Context, key string, in UpdateInput) (*models.Setting, error) {
	if err := s.validator.Check(in); err != nil {
		return nil, err
	}

	current, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	next := *current

	if in.Type != nil {
		next.Type = *in.Type
	}

	if in.Description != nil {
		next.Description = in.Description
	}

	if in.IsSensitive != nil {
		next.IsSensitive = *in.IsSensitive
	}

	if in.Value.Present {
		next.Value, err = Encode(in.Value.Value, next.IsSensitive, s.enc)
		if err != nil {
			return nil, err
		}
	}

	row, err := s.store.Upsert(ctx, &next)
	if err != nil {
		return nil, err
	}

	s.invalidate(key)

	log.Info().Str("setting", key).Msg("setting updated")

	return row, nil
}

// BulkUpdate upserts items one by one. Each item is validated just before it is written;
// the first invalid item stops the run and earlier writes stay applied.
func (s *Service) BulkUpdate(ctx context.Context, in BulkInput) ([]models.Setting, error) {
	if len(in.Settings) == 0 {
		return nil, s.validator.Check(in)
	}

	applied := make([]models.Setting, 0, len(in.Settings))

	for i, item := range in.Settings {
		if errs := s.validator.Validate(item); errs != nil {
			out := validation.Errors{}
			out.Merge(fmt.Sprintf("settings.%d", i), errs)

			log.Warn().Int("index", i).Int("applied", len(applied)).Msg("bulk settings update stopped at invalid item")

			return applied, &validation.Error{Fields: out}
		}

		row, err := s.Upsert(ctx, item.Key, item.Value.Value, item.Type, item.IsSensitive, item.Description)
		if err != nil {
			return applied, err
		}

		applied = append(applied, *row)
	}

	log.Info().Int("count", len(applied)).Msg("bulk settings update applied")

	return applied, nil
}

// Delete removes key. Deleting an unknown key returns setting.ErrSettingNotFound.
func (s *Service) Delete(ctx context.Context, key string) error {
	deleted, err := s.store.Delete(ctx, key)
	if err != nil {
		return err
	}

	s.invalidate(key)

	if !deleted {
		return setting.ErrSettingNotFound
	}

	log.Info().Str("setting", key).Msg("setting deleted")

	return nil
}
