package gcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemImagePaths(t *testing.T) {
	assert.Equal(t,
		"users/seller-1/products/item-1/image_2.jpeg",
		itemImagePath("seller-1", "item-1", 2))

	assert.Equal(t,
		"users/seller-1/products/item-1/",
		itemImagePrefix("seller-1", "item-1"))

	assert.Equal(t,
		"https://storage.googleapis.com/drip-images/users/seller-1/products/item-1/image_0.jpeg",
		objectURL("drip-images", itemImagePath("seller-1", "item-1", 0)))
}
