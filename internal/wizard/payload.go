package wizard

import (
	"strconv"
	"strings"

	"bizmarket-backend/internal/models"
)

// FormFromListing seeds a draft form from a stored listing so the wizard can
// edit it. Zero-valued financials come back as empty strings (the form's
// "not provided"); the combined location round-trips through the free-text
// field since the city/state split is not stored.
func FormFromListing(l *models.Listing) FormData {
	return FormData{
		Name:                l.Name,
		Email:               l.Email,
		BusinessName:        l.BusinessName,
		HideBusinessName:    l.HideBusinessName,
		Industry:            l.Industry,
		Location:            l.Location,
		Website:             l.Website,
		AnnualRevenue:       formatAmount(l.AnnualRevenue),
		AnnualProfit:        formatAmount(l.AnnualProfit),
		SDE:                 formatAmount(l.SDE),
		AskingPrice:         formatAmount(l.AskingPrice),
		Employees:           formatCount(l.Employees),
		MonthlyLease:        formatAmount(l.MonthlyLease),
		InventoryValue:      formatAmount(l.InventoryValue),
		EquipmentValue:      formatAmount(l.EquipmentValue),
		IncludesInventory:   l.IncludesInventory,
		IncludesBuilding:    l.IncludesBuilding,
		RealEstateIncluded:  l.RealEstateIncluded,
		Relocatable:         l.Relocatable,
		HomeBased:           l.HomeBased,
		FinancingType:       l.FinancingType,
		BusinessDescription: l.BusinessDescription,
		AIDescription:       l.AIDescription,
		DescriptionChoice:   l.DescriptionChoice,
		CustomerType:        l.CustomerType,
		OwnerInvolvement:    l.OwnerInvolvement,
		GrowthPotential:     l.GrowthPotential,
		ReasonForSelling:    l.ReasonForSelling,
		TrainingOffered:     l.TrainingOffered,
		SentenceSummary:     l.SentenceSummary,
		Customers:           l.Customers,
		BestSellers:         l.BestSellers,
		CustomerLove:        l.CustomerLove,
		RepeatCustomers:     l.RepeatCustomers,
		KeepsThemComing:     l.KeepsThemComing,
		ProudOf:             l.ProudOf,
		AdviceToBuyer:       l.AdviceToBuyer,
	}
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCount(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

// CombinedLocation prefers the structured city/state pair and falls back to
// whatever free-text location was captured.
func CombinedLocation(f FormData) string {
	if f.LocationCity != "" && f.LocationState != "" {
		return f.LocationCity + ", " + f.LocationState
	}
	return f.Location
}

// parseAmount coerces a raw financial field. Empty or unparsable input is 0:
// the persisted record never distinguishes "not provided" from zero.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseCount(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// BuildPayload normalizes the draft form into the persistence payload.
// Exactly one of original_description / ai_description carries text, gated
// by the seller's publish choice; the manual text is always retained in
// business_description so the unselected variant survives an edit round-trip.
func BuildPayload(f FormData, imageURLs []string) models.ListingPayload {
	original := ""
	ai := ""
	if f.DescriptionChoice == models.DescriptionChoiceAI {
		ai = f.AIDescription
	} else {
		original = f.BusinessDescription
	}

	if imageURLs == nil {
		imageURLs = []string{}
	}

	return models.ListingPayload{
		Name:                f.Name,
		Email:               f.Email,
		BusinessName:        f.BusinessName,
		HideBusinessName:    f.HideBusinessName,
		Industry:            f.Industry,
		Location:            CombinedLocation(f),
		Website:             f.Website,
		AnnualRevenue:       parseAmount(f.AnnualRevenue),
		AnnualProfit:        parseAmount(f.AnnualProfit),
		SDE:                 parseAmount(f.SDE),
		AskingPrice:         parseAmount(f.AskingPrice),
		Employees:           parseCount(f.Employees),
		MonthlyLease:        parseAmount(f.MonthlyLease),
		InventoryValue:      parseAmount(f.InventoryValue),
		EquipmentValue:      parseAmount(f.EquipmentValue),
		IncludesInventory:   f.IncludesInventory,
		IncludesBuilding:    f.IncludesBuilding,
		RealEstateIncluded:  f.RealEstateIncluded,
		Relocatable:         f.Relocatable,
		HomeBased:           f.HomeBased,
		FinancingType:       f.FinancingType,
		BusinessDescription: f.BusinessDescription,
		OriginalDescription: original,
		AIDescription:       ai,
		DescriptionChoice:   f.DescriptionChoice,
		CustomerType:        f.CustomerType,
		OwnerInvolvement:    f.OwnerInvolvement,
		GrowthPotential:     f.GrowthPotential,
		ReasonForSelling:    f.ReasonForSelling,
		TrainingOffered:     f.TrainingOffered,
		SentenceSummary:     f.SentenceSummary,
		Customers:           f.Customers,
		BestSellers:         f.BestSellers,
		CustomerLove:        f.CustomerLove,
		RepeatCustomers:     f.RepeatCustomers,
		KeepsThemComing:     f.KeepsThemComing,
		ProudOf:             f.ProudOf,
		AdviceToBuyer:       f.AdviceToBuyer,
		ImageURLs:           imageURLs,
	}
}
