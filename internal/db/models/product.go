package models

import "time"

// Product is a mineral listing offered on the marketplace.
type Product struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Mineral     string    `gorm:"size:100;not null;index" json:"mineral"`
	Price       float64   `gorm:"not null" json:"price"`
	Currency    string    `gorm:"size:3;not null" json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
