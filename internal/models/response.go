package models

import "time"

type HealthResponse struct {
	Status string `json:"status"`
}

// ListingResponse is the public shape of a sellers row.
type ListingResponse struct {
	ID                  string   `json:"id"`
	BusinessName        string   `json:"business_name,omitempty"`
	HideBusinessName    bool     `json:"hide_business_name"`
	Industry            string   `json:"industry"`
	Location            string   `json:"location"`
	Website             string   `json:"website,omitempty"`
	AnnualRevenue       float64  `json:"annual_revenue"`
	AnnualProfit        float64  `json:"annual_profit"`
	SDE                 float64  `json:"sde"`
	AskingPrice         float64  `json:"asking_price"`
	Employees           int      `json:"employees"`
	MonthlyLease        float64  `json:"monthly_lease"`
	InventoryValue      float64  `json:"inventory_value"`
	EquipmentValue      float64  `json:"equipment_value"`
	IncludesInventory   bool     `json:"includes_inventory"`
	IncludesBuilding    bool     `json:"includes_building"`
	RealEstateIncluded  bool     `json:"real_estate_included"`
	Relocatable         bool     `json:"relocatable"`
	HomeBased           bool     `json:"home_based"`
	FinancingType       string   `json:"financing_type"`
	Description         string   `json:"description"`
	BusinessDescription string   `json:"business_description,omitempty"`
	AIDescription       string   `json:"ai_description,omitempty"`
	DescriptionChoice   string   `json:"description_choice"`
	CustomerType        string   `json:"customer_type,omitempty"`
	OwnerInvolvement    string   `json:"owner_involvement,omitempty"`
	ReasonForSelling    string   `json:"reason_for_selling,omitempty"`
	TrainingOffered     string   `json:"training_offered,omitempty"`
	ImageURLs           []string `json:"image_urls"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ListingDetailResponse pairs a listing with the viewer's buyer context.
// BuyerStatus is one of "anonymous", "needs_profile" or "ready"; Buyer is
// present only when the status is "ready".
type ListingDetailResponse struct {
	Listing     ListingResponse `json:"listing"`
	BuyerStatus string          `json:"buyer_status"`
	Buyer       *Buyer          `json:"buyer,omitempty"`
}

type ListingSummary struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"business_name,omitempty"`
	Industry     string    `json:"industry"`
	Location     string    `json:"location"`
	AskingPrice  float64   `json:"asking_price"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListingListResponse struct {
	Listings []ListingSummary `json:"listings"`
}

type MessageSentResponse struct {
	Status   string `json:"status"`
	SellerID string `json:"seller_id"`
}
