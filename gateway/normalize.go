package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Older deployments of the bundle API disagreed on two things: whether the
// payload arrives wrapped in {"data": ...} and whether the active flag is
// spelled "active" or "is_active" (as a bool or as 0/1). Everything in this
// file exists to collapse those shapes into one canonical Bundle before any
// other code sees them.

type Bundle struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Active      bool      `json:"active"`
	ProductIDs  []uint    `json:"product_ids"`
	Products    []Product `json:"products,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Product struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"sale_price,omitempty"`
	Location  *string  `json:"location,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Image     *string  `json:"image,omitempty"`
}

// wireFlag tolerates true/false, 0/1 and null.
type wireFlag bool

func (f *wireFlag) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return errors.New("unrecognized active flag value")
	}
	return nil
}

type wireBundle struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Active      wireFlag  `json:"active"`
	IsActive    wireFlag  `json:"is_active"`
	ProductIDs  []uint    `json:"product_ids"`
	Products    []Product `json:"products"`
	CreatedAt   time.Time `json:"created_at"`
}

// unwrapEnvelope returns R.data when present and non-null, otherwise R
// itself.
func unwrapEnvelope(body []byte) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		trimmed := bytes.TrimSpace(envelope.Data)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			return trimmed
		}
	}
	return body
}

// normalizeBundle decodes one bundle from either wire shape. The effective
// active flag is the boolean OR of both spellings: a truthy value under
// either name means active. Membership ids come from product_ids when the
// server sent them, otherwise from the resolved products relation; both
// paths yield the same set.
func normalizeBundle(raw json.RawMessage) (Bundle, error) {
	var wire wireBundle
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Bundle{}, err
	}

	productIDs := wire.ProductIDs
	if productIDs == nil {
		productIDs = make([]uint, 0, len(wire.Products))
		for _, p := range wire.Products {
			productIDs = append(productIDs, p.ID)
		}
	}

	return Bundle{
		ID:          wire.ID,
		Name:        wire.Name,
		Type:        wire.Type,
		Description: wire.Description,
		Price:       wire.Price,
		Active:      bool(wire.Active) || bool(wire.IsActive),
		ProductIDs:  productIDs,
		Products:    wire.Products,
		CreatedAt:   wire.CreatedAt,
	}, nil
}

func normalizeBundleList(body []byte) ([]Bundle, error) {
	payload := unwrapEnvelope(body)

	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, err
	}

	bundles := make([]Bundle, 0, len(raws))
	for _, raw := range raws {
		bundle, err := normalizeBundle(raw)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, bundle)
	}
	return bundles, nil
}
