package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bizmarket-backend/internal/wizard"
)

func TestListingTitle(t *testing.T) {
	f := wizard.FormData{Industry: "coffee shop", BusinessName: "Bean There"}
	assert.Equal(t, "Coffee Shop Business for Sale", wizard.ListingTitle(f))

	f = wizard.FormData{HideBusinessName: true, BusinessName: "Bean There"}
	assert.Equal(t, "Confidential Business Listing", wizard.ListingTitle(f))

	f = wizard.FormData{BusinessName: "Bean There"}
	assert.Equal(t, "Bean There", wizard.ListingTitle(f))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$250,000", wizard.FormatCurrency("250000"))
	assert.Equal(t, "$1,234,567.89", wizard.FormatCurrency("1234567.89"))
	assert.Equal(t, "$950", wizard.FormatCurrency("950"))
	assert.Equal(t, "", wizard.FormatCurrency(""))
	assert.Equal(t, "", wizard.FormatCurrency("n/a"))
}

func TestBuildPreview(t *testing.T) {
	d := wizard.NewDraft("user-123")
	form := d.Form
	form.Industry = "bakery"
	form.LocationCity = "Austin"
	form.LocationState = "Texas"
	form.AskingPrice = "250000"
	form.FinancingType = "rent-to-own"
	form.BusinessDescription = "manual text"
	d, err := d.WithForm(form)
	assert.NoError(t, err)

	d, img, err := d.AddImage("storefront.jpg", []byte("aaa"))
	assert.NoError(t, err)

	p := wizard.BuildPreview(d)
	assert.Equal(t, "Bakery Business for Sale", p.Title)
	assert.Equal(t, "Austin, Texas", p.Location)
	assert.Equal(t, "$250,000", p.AskingPrice)
	assert.Equal(t, "rent to own", p.FinancingType)
	assert.Equal(t, "manual text", p.ManualDescription)
	assert.Len(t, p.Images, 1)
	assert.Equal(t, img.Token, p.Images[0].Token)
}
