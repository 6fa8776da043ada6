package models

import "time"

// Bundle is a priced, tiered package of catalog products. Membership lives
// in the bundle_product join table and is always replaced as a whole set,
// never merged.
type Bundle struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Type        string  `gorm:"size:20;not null" json:"type"` // Silver, Gold, Platinum
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	Active      bool    `gorm:"column:active" json:"active"`

	Products   []Product `gorm:"many2many:bundle_product;" json:"products,omitempty"`
	ProductIDs []uint    `gorm:"-" json:"product_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResolveProductIDs fills ProductIDs from the preloaded Products relation.
func (b *Bundle) ResolveProductIDs() {
	ids := make([]uint, 0, len(b.Products))
	for _, p := range b.Products {
		ids = append(ids, p.ID)
	}
	b.ProductIDs = ids
}
