// Package form holds the state and validation behind the bundle editor:
// scalar fields plus the selected product set, validated with the same
// rules the API enforces so a bad submission never leaves the client.
package form

import (
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/voyago/travel_commerce/gateway"
)

var validate = validator.New()

type BundleForm struct {
	Name        string  `validate:"required,min=3"`
	Type        string  `validate:"required,oneof=Silver Gold Platinum"`
	Description string  `validate:"required,min=10"`
	Price       float64 `validate:"required,gt=0"`
	Active      bool

	selected map[uint]struct{}
}

func NewBundleForm() *BundleForm {
	return &BundleForm{
		Active:   true,
		selected: make(map[uint]struct{}),
	}
}

// LoadBundle pre-populates the form for editing. Membership comes from the
// resolved products relation when the API sent one, falling back to the
// bare id list; both paths land in the same set.
func LoadBundle(bundle gateway.Bundle) *BundleForm {
	f := &BundleForm{
		Name:        bundle.Name,
		Type:        bundle.Type,
		Description: bundle.Description,
		Price:       bundle.Price,
		Active:      bundle.Active,
		selected:    make(map[uint]struct{}),
	}

	if len(bundle.Products) > 0 {
		for _, p := range bundle.Products {
			f.selected[p.ID] = struct{}{}
		}
		return f
	}
	for _, id := range bundle.ProductIDs {
		f.selected[id] = struct{}{}
	}
	return f
}

// ToggleProduct flips a product in or out of the selection, mirroring a
// checkbox click.
func (f *BundleForm) ToggleProduct(id uint) {
	if _, ok := f.selected[id]; ok {
		delete(f.selected, id)
		return
	}
	f.selected[id] = struct{}{}
}

func (f *BundleForm) IsSelected(id uint) bool {
	_, ok := f.selected[id]
	return ok
}

func (f *BundleForm) SelectedCount() int {
	return len(f.selected)
}

// SelectedProductIDs returns the selection in stable order.
func (f *BundleForm) SelectedProductIDs() []uint {
	ids := make([]uint, 0, len(f.selected))
	for id := range f.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate checks every rule the API will enforce and returns one message
// per failing field. An empty map means the form may be submitted.
func (f *BundleForm) Validate() map[string]string {
	fieldErrors := make(map[string]string)

	if err := validate.Struct(f); err != nil {
		for _, fieldError := range err.(validator.ValidationErrors) {
			switch fieldError.Field() {
			case "Name":
				fieldErrors["name"] = "Name must be at least 3 characters"
			case "Type":
				fieldErrors["type"] = "Type must be Silver, Gold or Platinum"
			case "Description":
				fieldErrors["description"] = "Description must be at least 10 characters"
			case "Price":
				fieldErrors["price"] = "Price must be greater than zero"
			}
		}
	}

	if len(f.selected) == 0 {
		fieldErrors["product_ids"] = "Select at least one product"
	}

	return fieldErrors
}

// Payload builds the create/update input, or nil while any validation rule
// still fails. Submission is blocked until the form is clean.
func (f *BundleForm) Payload() *gateway.BundleInput {
	if len(f.Validate()) > 0 {
		return nil
	}
	return &gateway.BundleInput{
		Name:        f.Name,
		Type:        f.Type,
		Description: f.Description,
		Price:       f.Price,
		Active:      f.Active,
		ProductIDs:  f.SelectedProductIDs(),
	}
}
