package models

import "time"

type RoomType struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	BasePrice   float64 `gorm:"type:numeric(10,2);not null" json:"base_price"`
	Capacity    int     `gorm:"not null;default:2" json:"capacity"`

	Amenities  []RoomAmenity `gorm:"many2many:room_type_amenity;" json:"amenities,omitempty"`
	AmenityIDs []uint        `gorm:"-" json:"amenity_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoomAmenity struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;unique" json:"name"`
	Icon string `gorm:"size:100" json:"icon"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (rt *RoomType) ResolveAmenityIDs() {
	ids := make([]uint, 0, len(rt.Amenities))
	for _, a := range rt.Amenities {
		ids = append(ids, a.ID)
	}
	rt.AmenityIDs = ids
}
