package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Product represents a product page being monitored for price changes.
type Product struct {
	ID                int             `json:"id" db:"id"`
	Name              string          `json:"name" db:"name"`
	URL               string          `json:"url" db:"url"`
	Description       string          `json:"description" db:"description"`
	ImageURL          string          `json:"image_url" db:"image_url"`
	Selector          string          `json:"selector" db:"selector"`
	TargetPrice       float64         `json:"target_price" db:"target_price"`
	CurrentPrice      sql.NullFloat64 `json:"current_price" db:"current_price"`
	NotificationEmail string          `json:"notification_email" db:"notification_email"`
	TargetNotified    bool            `json:"target_notified" db:"target_notified"`
	IsActive          bool            `json:"is_active" db:"is_active"`
	LastChecked       *time.Time      `json:"last_checked" db:"last_checked"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// HasPrice returns true if the product has been successfully checked at least once.
func (p *Product) HasPrice() bool {
	return p.CurrentPrice.Valid
}

// GetCurrentPrice returns the current price as float64, or 0 if never fetched.
func (p *Product) GetCurrentPrice() float64 {
	if p.CurrentPrice.Valid {
		return p.CurrentPrice.Float64
	}
	return 0.0
}

// SetCurrentPrice records a successfully extracted price.
func (p *Product) SetCurrentPrice(price float64) {
	p.CurrentPrice = sql.NullFloat64{Float64: price, Valid: true}
}

// MarshalJSON renders the nullable current price as a plain number or null.
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	var current *float64
	if p.CurrentPrice.Valid {
		v := p.CurrentPrice.Float64
		current = &v
	}
	return json.Marshal(&struct {
		Alias
		CurrentPrice *float64 `json:"current_price"`
	}{
		Alias:        (Alias)(p),
		CurrentPrice: current,
	})
}

// PriceHistory is an immutable price observation for a product.
type PriceHistory struct {
	ID         int       `json:"id" db:"id"`
	ProductID  int       `json:"product_id" db:"product_id"`
	Price      float64   `json:"price" db:"price"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// CreateProductRequest is the payload for adding a product to track.
type CreateProductRequest struct {
	Name              string  `json:"name"`
	URL               string  `json:"url"`
	Description       string  `json:"description"`
	ImageURL          string  `json:"image_url"`
	Selector          string  `json:"selector"`
	TargetPrice       float64 `json:"target_price"`
	NotificationEmail string  `json:"notification_email"`
}

// UpdateProductRequest is the payload for editing a tracked product.
type UpdateProductRequest struct {
	Name              string  `json:"name"`
	URL               string  `json:"url"`
	Description       string  `json:"description"`
	ImageURL          string  `json:"image_url"`
	Selector          string  `json:"selector"`
	TargetPrice       float64 `json:"target_price"`
	NotificationEmail string  `json:"notification_email"`
	IsActive          bool    `json:"is_active"`
}
