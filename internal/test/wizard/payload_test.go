package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bizmarket-backend/internal/models"
	"bizmarket-backend/internal/wizard"
)

func TestCombinedLocation_PrefersCityState(t *testing.T) {
	f := wizard.FormData{
		Location:      "ignored",
		LocationCity:  "Austin",
		LocationState: "Texas",
	}
	assert.Equal(t, "Austin, Texas", wizard.CombinedLocation(f))
}

func TestCombinedLocation_FallsBackToFreeText(t *testing.T) {
	f := wizard.FormData{Location: "somewhere in Ohio", LocationCity: "Austin"}
	assert.Equal(t, "somewhere in Ohio", wizard.CombinedLocation(f))

	f = wizard.FormData{Location: "somewhere in Ohio", LocationState: "Texas"}
	assert.Equal(t, "somewhere in Ohio", wizard.CombinedLocation(f))
}

func TestBuildPayload_NumericCoercion(t *testing.T) {
	f := wizard.FormData{
		AskingPrice:   "250000.5",
		AnnualRevenue: "not a number",
		AnnualProfit:  "",
		SDE:           " 85000 ",
		Employees:     "12",
		MonthlyLease:  "3500",
	}

	p := wizard.BuildPayload(f, nil)

	assert.Equal(t, 250000.5, p.AskingPrice)
	assert.Equal(t, 0.0, p.AnnualRevenue)
	assert.Equal(t, 0.0, p.AnnualProfit)
	assert.Equal(t, 85000.0, p.SDE)
	assert.Equal(t, 12, p.Employees)
	assert.Equal(t, 3500.0, p.MonthlyLease)
	assert.Equal(t, 0.0, p.InventoryValue)
	assert.Equal(t, 0.0, p.EquipmentValue)
}

func TestBuildPayload_AIDescriptionChoice(t *testing.T) {
	f := wizard.FormData{
		DescriptionChoice:   "ai",
		AIDescription:       "Great bakery.",
		BusinessDescription: "manual text",
	}

	p := wizard.BuildPayload(f, nil)

	assert.Equal(t, "Great bakery.", p.AIDescription)
	assert.Equal(t, "", p.OriginalDescription)
	assert.Equal(t, "manual text", p.BusinessDescription)
	assert.Equal(t, "ai", p.DescriptionChoice)
}

func TestBuildPayload_ManualDescriptionChoice(t *testing.T) {
	f := wizard.FormData{
		DescriptionChoice:   "manual",
		AIDescription:       "Great bakery.",
		BusinessDescription: "manual text",
	}

	p := wizard.BuildPayload(f, nil)

	// The generated text is not persisted when the seller publishes
	// their own description.
	assert.Equal(t, "", p.AIDescription)
	assert.Equal(t, "manual text", p.OriginalDescription)
	assert.Equal(t, "manual text", p.BusinessDescription)
}

func TestBuildPayload_ImageURLsAndFlags(t *testing.T) {
	f := wizard.FormData{
		IncludesInventory:  true,
		RealEstateIncluded: true,
		HomeBased:          true,
		FinancingType:      "seller-financed",
	}

	p := wizard.BuildPayload(f, []string{"https://cdn/a.jpg", "https://cdn/b.jpg"})
	assert.Equal(t, []string{"https://cdn/a.jpg", "https://cdn/b.jpg"}, p.ImageURLs)
	assert.True(t, p.IncludesInventory)
	assert.True(t, p.RealEstateIncluded)
	assert.True(t, p.HomeBased)
	assert.False(t, p.IncludesBuilding)
	assert.Equal(t, "seller-financed", p.FinancingType)

	p = wizard.BuildPayload(f, nil)
	assert.NotNil(t, p.ImageURLs)
	assert.Empty(t, p.ImageURLs)
}

func TestFormFromListing_RoundTrip(t *testing.T) {
	l := &models.Listing{
		Name:                "Jo Seller",
		Email:               "jo@example.com",
		BusinessName:        "Jo's Bakery",
		Industry:            "bakery",
		Location:            "Austin, Texas",
		AskingPrice:         250000.5,
		AnnualRevenue:       0,
		Employees:           3,
		BusinessDescription: "manual text",
		DescriptionChoice:   "manual",
		FinancingType:       "buyer-financed",
	}

	f := wizard.FormFromListing(l)
	assert.Equal(t, "250000.5", f.AskingPrice)
	assert.Equal(t, "", f.AnnualRevenue)
	assert.Equal(t, "3", f.Employees)
	assert.Equal(t, "Austin, Texas", f.Location)
	assert.Equal(t, "", f.LocationCity)

	p := wizard.BuildPayload(f, nil)
	assert.Equal(t, 250000.5, p.AskingPrice)
	assert.Equal(t, 0.0, p.AnnualRevenue)
	assert.Equal(t, "Austin, Texas", p.Location)
	assert.Equal(t, "manual text", p.OriginalDescription)
}
