// Package product provides storage operations for marketplace listings.
package product

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mineralhub/mineralhub/internal/db/models"
)

const (
	// DefaultPerPage is the page size used when none is requested.
	DefaultPerPage = 20
	// MaxPerPage caps the requested page size.
	MaxPerPage = 100

	mineralQueryPattern = "LOWER(mineral) = LOWER(?)"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrProductNil is returned when Create receives no product.
	ErrProductNil = errors.New("product is nil")
)

// Filter narrows down List results.
type Filter struct {
	Mineral string
	Page    int
	PerPage int
}

// Normalize applies pagination defaults and bounds.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}

	f.PerPage = min(f.PerPage, MaxPerPage)

	return f
}

// Create stores a new listing.
func Create(ctx context.Context, db *gorm.DB, p *models.Product) error {
	if db == nil {
		return ErrDBNil
	}

	if p == nil {
		return ErrProductNil
	}

	return db.WithContext(ctx).Omit("User").Create(p).Error
}

// List returns one page of listings, newest first, and the total count.
func List(ctx context.Context, db *gorm.DB, f Filter) ([]models.Product, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	f = f.Normalize()

	query := db.WithContext(ctx).Model(&models.Product{})
	if f.Mineral != "" {
		query = query.Where(mineralQueryPattern, f.Mineral)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Product

	err := query.Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}
