package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraft(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		ownerID    string
		price      string
		parcelSize string
		wantErr    bool
	}{
		{name: "valid", id: "item-1", ownerID: "user-1", price: "25.00", parcelSize: "M"},
		{name: "missing id", id: "", ownerID: "user-1", price: "25.00", parcelSize: "M", wantErr: true},
		{name: "missing owner", id: "item-1", ownerID: "", price: "25.00", parcelSize: "M", wantErr: true},
		{name: "zero price", id: "item-1", ownerID: "user-1", price: "0", parcelSize: "M", wantErr: true},
		{name: "negative price", id: "item-1", ownerID: "user-1", price: "-5", parcelSize: "M", wantErr: true},
		{name: "garbage price", id: "item-1", ownerID: "user-1", price: "abc", parcelSize: "M", wantErr: true},
		{name: "empty price", id: "item-1", ownerID: "user-1", price: "", parcelSize: "M", wantErr: true},
		{name: "bad parcel size", id: "item-1", ownerID: "user-1", price: "25.00", parcelSize: "XXL", wantErr: true},
		{name: "empty parcel size", id: "item-1", ownerID: "user-1", price: "25.00", parcelSize: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := NewDraft(tt.id, tt.ownerID, tt.price, tt.parcelSize)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, it.ID)
			assert.Equal(t, tt.ownerID, it.OwnerID)
			assert.True(t, it.IsLoading)
			assert.Empty(t, it.Description)
			assert.NotNil(t, it.Style)
			assert.NotNil(t, it.ImageURLs)
		})
	}
}

func TestParsePrice(t *testing.T) {
	v, err := ParsePrice(" 19.99 ")
	require.NoError(t, err)
	assert.InDelta(t, 19.99, v, 1e-9)

	for _, bad := range []string{"", "0", "-1", "free"} {
		_, err := ParsePrice(bad)
		assert.ErrorIs(t, err, ErrValidation, "price %q", bad)
	}
}

func TestApplyAttributesKeepsIdentity(t *testing.T) {
	it, err := NewDraft("item-1", "user-1", "25.00", "M")
	require.NoError(t, err)
	it.ImageURLs = []string{"https://example.com/a.jpeg"}

	it.ApplyAttributes(Attributes{
		Description: "Vintage band tee",
		Gender:      "Men's",
		Category:    "Tops",
		Subcategory: "T-shirts",
		Brand:       "Hanes",
		Condition:   "Used - Good",
		Size:        "L",
		Color:       "Black",
		Source:      "Stitched",
		Age:         "90s",
		Style:       []string{"Vintage", "Grunge"},
	})

	assert.Equal(t, "item-1", it.ID)
	assert.Equal(t, "user-1", it.OwnerID)
	assert.Equal(t, "25.00", it.Price)
	assert.Equal(t, []string{"https://example.com/a.jpeg"}, it.ImageURLs)
	assert.Equal(t, "Vintage band tee", it.Description)
	assert.Equal(t, []string{"Vintage", "Grunge"}, it.Style)
	assert.True(t, it.IsLoading, "ApplyAttributes must not flip the loading flag")
}

func TestAttributesValidate(t *testing.T) {
	valid := Attributes{
		Description: "d", Gender: "Men's", Category: "Tops", Subcategory: "T-shirts",
		Brand: "b", Condition: "Brand new", Size: "M", Color: "Black",
		Source: "No Tag", Age: "Modern", Style: []string{"Casual"},
	}
	require.NoError(t, valid.Validate())

	missingStyle := valid
	missingStyle.Style = nil
	assert.Error(t, missingStyle.Validate())

	missingBrand := valid
	missingBrand.Brand = ""
	assert.Error(t, missingBrand.Validate())
}
