package models

// ListingPayload is the normalized submission body for creating or updating
// a seller listing. Numeric fields are already coerced (empty or unparsable
// input becomes 0) and exactly one of original_description / ai_description
// carries the canonical text, per description_choice.
type ListingPayload struct {
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	BusinessName        string   `json:"business_name"`
	HideBusinessName    bool     `json:"hide_business_name"`
	Industry            string   `json:"industry"`
	Location            string   `json:"location"`
	Website             string   `json:"website"`
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
	BusinessDescription string   `json:"business_description"`
	OriginalDescription string   `json:"original_description"`
	AIDescription       string   `json:"ai_description"`
	DescriptionChoice   string   `json:"description_choice"`
	CustomerType        string   `json:"customer_type"`
	OwnerInvolvement    string   `json:"owner_involvement"`
	GrowthPotential     string   `json:"growth_potential"`
	ReasonForSelling    string   `json:"reason_for_selling"`
	TrainingOffered     string   `json:"training_offered"`
	SentenceSummary     string   `json:"sentence_summary"`
	Customers           string   `json:"customers"`
	BestSellers         string   `json:"best_sellers"`
	CustomerLove        string   `json:"customer_love"`
	RepeatCustomers     string   `json:"repeat_customers"`
	KeepsThemComing     string   `json:"keeps_them_coming"`
	ProudOf             string   `json:"proud_of"`
	AdviceToBuyer       string   `json:"advice_to_buyer"`
	ImageURLs           []string `json:"image_urls"`
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
