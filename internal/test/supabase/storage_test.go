package supabase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bizmarket-backend/internal/supabase"
)

func TestStorageClient_GetPublicURL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://example.supabase.co/", "test-key", "seller-images")
	assert.NoError(t, err)

	url := client.GetPublicURL("listings/1700000000000-storefront.jpg")
	assert.Equal(t,
		"https://example.supabase.co/storage/v1/object/public/seller-images/listings/1700000000000-storefront.jpg",
		url)
}

func TestListingImagePathFormat(t *testing.T) {
	filename := "storefront.jpg"
	path := fmt.Sprintf("listings/%d-%s", time.Now().UnixMilli(), filename)

	assert.Contains(t, path, "listings/")
	assert.Contains(t, path, filename)
}
