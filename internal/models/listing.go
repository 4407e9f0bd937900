package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a row in the sellers table: one business offered for sale.
type Listing struct {
	ID                  uuid.UUID
	Name                string
	Email               string
	BusinessName        string
	HideBusinessName    bool
	Industry            string
	Location            string
	Website             string
	AnnualRevenue       float64
	AnnualProfit        float64
	SDE                 float64
	AskingPrice         float64
	Employees           int
	MonthlyLease        float64
	InventoryValue      float64
	EquipmentValue      float64
	IncludesInventory   bool
	IncludesBuilding    bool
	RealEstateIncluded  bool
	Relocatable         bool
	HomeBased           bool
	FinancingType       string
	BusinessDescription string
	OriginalDescription string
	AIDescription       string
	DescriptionChoice   string
	CustomerType        string
	OwnerInvolvement    string
	GrowthPotential     string
	ReasonForSelling    string
	TrainingOffered     string
	SentenceSummary     string
	Customers           string
	BestSellers         string
	CustomerLove        string
	RepeatCustomers     string
	KeepsThemComing     string
	ProudOf             string
	AdviceToBuyer       string
	ImageURLs           []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// PublishedDescription returns the description variant selected for display.
func (l *Listing) PublishedDescription() string {
	if l.DescriptionChoice == DescriptionChoiceAI && l.AIDescription != "" {
		return l.AIDescription
	}
	return l.BusinessDescription
}

const (
	DescriptionChoiceManual = "manual"
	DescriptionChoiceAI     = "ai"
)

const (
	FinancingBuyerFinanced  = "buyer-financed"
	FinancingSellerFinanced = "seller-financed"
	FinancingRentToOwn      = "rent-to-own"
)
