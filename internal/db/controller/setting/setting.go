// Package setting provides storage operations for organization settings.
package setting

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mineralhub/mineralhub/internal/db/models"
)

const (
	keyQueryPattern  = "setting_key = ?"
	typeQueryPattern = "type = ?"
	listOrder        = "type ASC, setting_key ASC"

	// DefaultPerPage is the page size used when none is requested.
	DefaultPerPage = 15
	// MaxPerPage caps the requested page size.
	MaxPerPage = 100
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to create/update a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows down List results. Zero values disable a criterion.
type Filter struct {
	Type        models.SettingType
	IsSensitive *bool
	Search      string // case-insensitive match on key or description
	Page        int
	PerPage     int
}

// Normalize applies pagination defaults and bounds.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}

	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}

	return f
}

// Get retrieves a setting by its key.
func Get(ctx context.Context, db *gorm.DB, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var s models.Setting

	result := db.WithContext(ctx).Where(keyQueryPattern, key).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &s, nil
}

// GetAll retrieves all settings ordered by type and key.
func GetAll(ctx context.Context, db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	settings := []models.Setting{}
	if err := db.WithContext(ctx).Order(listOrder).Find(&settings).Error; err != nil {
		return nil, err
	}

	return settings, nil
}

// ListByType retrieves all settings of one type ordered by key.
func ListByType(ctx context.Context, db *gorm.DB, t models.SettingType) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	settings := []models.Setting{}
	if err := db.WithContext(ctx).Where(typeQueryPattern, t).Order(listOrder).Find(&settings).Error; err != nil {
		return nil, err
	}

	return settings, nil
}

// List retrieves one page of settings matching the filter and the total match count.
func List(ctx context.Context, db *gorm.DB, f Filter) ([]models.Setting, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	f = f.Normalize()
	tx := db.WithContext(ctx).Model(&models.Setting{})

	if f.Type != "" {
		tx = tx.Where(typeQueryPattern, f.Type)
	}

	if f.IsSensitive != nil {
		tx = tx.Where("is_sensitive = ?", *f.IsSensitive)
	}

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		tx = tx.Where("LOWER(setting_key) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	settings := []models.Setting{}
	if err := tx.Order(listOrder).Limit(f.PerPage).Offset((f.Page - 1) * f.PerPage).Find(&settings).Error; err != nil {
		return nil, 0, err
	}

	return settings, total, nil
}

// Create creates a new setting in the database.
func Create(ctx context.Context, db *gorm.DB, s *models.Setting) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if s == nil || s.Key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var existing models.Setting

	result := db.WithContext(ctx).Where(keyQueryPattern, s.Key).First(&existing)
	if result.Error == nil {
		return nil, ErrSettingAlreadyExists
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSettingAlreadyExists
		}

		return nil, err
	}

	return s, nil
}

// Upsert creates the setting or fully replaces value, type, description and sensitivity
// of the existing row with the same key.
func Upsert(ctx context.Context, db *gorm.DB, s *models.Setting) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if s == nil || s.Key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var existing models.Setting

	result := db.WithContext(ctx).Where(keyQueryPattern, s.Key).First(&existing)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Create(ctx, db, s)
	}

	if result.Error != nil {
		return nil, result.Error
	}

	existing.Value = s.Value
	existing.Type = s.Type
	existing.Description = s.Description
	existing.IsSensitive = s.IsSensitive

	if err := db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, err
	}

	return &existing, nil
}

// DeleteByKey deletes a setting by key and reports whether a row was removed.
func DeleteByKey(ctx context.Context, db *gorm.DB, key string) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	if key == "" {
		return false, ErrSettingKeyEmpty
	}

	result := db.WithContext(ctx).Where(keyQueryPattern, key).Delete(&models.Setting{})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Repository binds the package functions to one database handle.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a gorm backed settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves a setting by key.
func (r *Repository) Get(ctx context.Context, key string) (*models.Setting, error) {
	return Get(ctx, r.db, key)
}

// All retrieves every setting.
func (r *Repository) All(ctx context.Context) ([]models.Setting, error) {
	return GetAll(ctx, r.db)
}

// ListByType retrieves the settings of one type.
func (r *Repository) ListByType(ctx context.Context, t models.SettingType) ([]models.Setting, error) {
	return ListByType(ctx, r.db, t)
}

// List retrieves one filtered page of settings.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.Setting, int64, error) {
	return List(ctx, r.db, f)
}

// Create inserts a new setting, failing on a duplicate key.
func (r *Repository) Create(ctx context.Context, s *models.Setting) (*models.Setting, error) {
	return Create(ctx, r.db, s)
}

// Upsert creates or replaces a setting.
func (r *Repository) Upsert(ctx context.Context, s *models.Setting) (*models.Setting, error) {
	return Upsert(ctx, r.db, s)
}

// Delete removes a setting by key.
func (r *Repository) Delete(ctx context.Context, key string) (bool, error) {
	return DeleteByKey(ctx, r.db, key)
}
