package models

import "time"

// Product is the read-only travel catalog: hotels, flights, tours and the
// like. Bundles reference products but never modify them.
type Product struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Name      string   `gorm:"size:255;not null" json:"name"`
	Type      string   `gorm:"size:30;not null" json:"type"` // hotel, flight, tour, sport, entertainment, other
	Price     float64  `gorm:"type:numeric(10,2);not null" json:"price"`
	SalePrice *float64 `gorm:"type:numeric(10,2)" json:"sale_price,omitempty"`
	Location  *string  `gorm:"size:255" json:"location,omitempty"`
	Rating    *float64 `gorm:"type:numeric(3,1)" json:"rating,omitempty"`
	Image     *string  `gorm:"size:500" json:"image,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
