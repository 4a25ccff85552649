package item

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrValidation       = errors.New("item: invalid")
	ErrNotFound         = errors.New("item: not found")
	ErrPermissionDenied = errors.New("item: permission denied")
)

// ParcelSizes are the shipping sizes a seller can pick for a listing.
var ParcelSizes = []string{"S", "M", "L", "XL"}

// Item represents one listing in the `products` collection.
//
//   - ID is the Firestore docId (client-generated UUID accepted as durable key).
//   - Taxonomy fields (Description .. Style) start empty and are filled in by
//     classification.
//   - IsLoading stays true from draft creation until classification completes;
//     only items with IsLoading=false are shown in the public catalog.
type Item struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"userId"`
	Description string   `json:"description"`
	Gender      string   `json:"gender"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Brand       string   `json:"brand"`
	Condition   string   `json:"condition"`
	Size        string   `json:"size"`
	Color       string   `json:"color"`
	Source      string   `json:"source"`
	Age         string   `json:"age"`
	Style       []string `json:"style"`
	ParcelSize  string   `json:"parcelSize"`
	Price       string   `json:"price"`
	ImageURLs   []string `json:"imageUrls"`
	IsLoading   bool     `json:"isLoading"`
}

// NewDraft builds a draft item with empty taxonomy and IsLoading=true.
// price must parse to a positive number and parcelSize must be one of
// ParcelSizes.
func NewDraft(id, ownerID, price, parcelSize string) (*Item, error) {
	id = strings.TrimSpace(id)
	ownerID = strings.TrimSpace(ownerID)
	if id == "" || ownerID == "" {
		return nil, ErrValidation
	}
	if _, err := ParsePrice(price); err != nil {
		return nil, err
	}
	if !validParcelSize(parcelSize) {
		return nil, ErrValidation
	}

	return &Item{
		ID:         id,
		OwnerID:    ownerID,
		Style:      []string{},
		ParcelSize: strings.TrimSpace(parcelSize),
		Price:      strings.TrimSpace(price),
		ImageURLs:  []string{},
		IsLoading:  true,
	}, nil
}

// ApplyAttributes copies classified taxonomy fields onto the item.
// Identity fields (ID, OwnerID, Price, ImageURLs, ParcelSize) are untouched.
func (it *Item) ApplyAttributes(a Attributes) {
	it.Description = a.Description
	it.Gender = a.Gender
	it.Category = a.Category
	it.Subcategory = a.Subcategory
	it.Brand = a.Brand
	it.Condition = a.Condition
	it.Size = a.Size
	it.Color = a.Color
	it.Source = a.Source
	it.Age = a.Age
	it.Style = append([]string{}, a.Style...)
}

// ParsePrice parses the decimal-as-string price field.
// Returns ErrValidation unless the value parses to a number > 0.
func ParsePrice(price string) (float64, error) {
	p := strings.TrimSpace(price)
	if p == "" {
		return 0, ErrValidation
	}
	v, err := strconv.ParseFloat(p, 64)
	if err != nil || v <= 0 {
		return 0, ErrValidation
	}
	return v, nil
}

func validParcelSize(s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range ParcelSizes {
		if s == v {
			return true
		}
	}
	return false
}
