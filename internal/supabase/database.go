package supabase

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"bizmarket-backend/internal/models"
)

// DatabaseClient talks to the Supabase Postgres directly for the sellers
// table, where create/update needs RETURNING and the full column set.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

const sellerColumns = `
	id, name, email, business_name, hide_business_name,
	industry, location, website,
	annual_revenue, annual_profit, sde, asking_price, employees,
	monthly_lease, inventory_value, equipment_value,
	includes_inventory, includes_building, real_estate_included, relocatable, home_based,
	financing_type,
	business_description, original_description, ai_description, description_choice,
	customer_type, owner_involvement, growth_potential, reason_for_selling, training_offered,
	sentence_summary, customers, best_sellers, customer_love, repeat_customers,
	keeps_them_coming, proud_of, advice_to_buyer,
	image_urls, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*models.Listing, error) {
	var l models.Listing
	var urls pq.StringArray
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.BusinessName, &l.HideBusinessName,
		&l.Industry, &l.Location, &l.Website,
		&l.AnnualRevenue, &l.AnnualProfit, &l.SDE, &l.AskingPrice, &l.Employees,
		&l.MonthlyLease, &l.InventoryValue, &l.EquipmentValue,
		&l.IncludesInventory, &l.IncludesBuilding, &l.RealEstateIncluded, &l.Relocatable, &l.HomeBased,
		&l.FinancingType,
		&l.BusinessDescription, &l.OriginalDescription, &l.AIDescription, &l.DescriptionChoice,
		&l.CustomerType, &l.OwnerInvolvement, &l.GrowthPotential, &l.ReasonForSelling, &l.TrainingOffered,
		&l.SentenceSummary, &l.Customers, &l.BestSellers, &l.CustomerLove, &l.RepeatCustomers,
		&l.KeepsThemComing, &l.ProudOf, &l.AdviceToBuyer,
		&urls, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.ImageURLs = []string(urls)
	return &l, nil
}

func payloadArgs(p models.ListingPayload) []interface{} {
	return []interface{}{
		p.Name, p.Email, p.BusinessName, p.HideBusinessName,
		p.Industry, p.Location, p.Website,
		p.AnnualRevenue, p.AnnualProfit, p.SDE, p.AskingPrice, p.Employees,
		p.MonthlyLease, p.InventoryValue, p.EquipmentValue,
		p.IncludesInventory, p.IncludesBuilding, p.RealEstateIncluded, p.Relocatable, p.HomeBased,
		p.FinancingType,
		p.BusinessDescription, p.OriginalDescription, p.AIDescription, p.DescriptionChoice,
		p.CustomerType, p.OwnerInvolvement, p.GrowthPotential, p.ReasonForSelling, p.TrainingOffered,
		p.SentenceSummary, p.Customers, p.BestSellers, p.CustomerLove, p.RepeatCustomers,
		p.KeepsThemComing, p.ProudOf, p.AdviceToBuyer,
		pq.Array(p.ImageURLs),
	}
}

// payloadColumns are the insertable columns, in payloadArgs order.
var payloadColumns = []string{
	"name", "email", "business_name", "hide_business_name",
	"industry", "location", "website",
	"annual_revenue", "annual_profit", "sde", "asking_price", "employees",
	"monthly_lease", "inventory_value", "equipment_value",
	"includes_inventory", "includes_building", "real_estate_included", "relocatable", "home_based",
	"financing_type",
	"business_description", "original_description", "ai_description", "description_choice",
	"customer_type", "owner_involvement", "growth_potential", "reason_for_selling", "training_offered",
	"sentence_summary", "customers", "best_sellers", "customer_love", "repeat_customers",
	"keeps_them_coming", "proud_of", "advice_to_buyer",
	"image_urls",
}

func insertQuery() string {
	cols := ""
	placeholders := ""
	for i, col := range payloadColumns {
		if i > 0 {
			cols += ", "
			placeholders += ", "
		}
		cols += col
		placeholders += fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO sellers (%s) VALUES (%s) RETURNING %s", cols, placeholders, sellerColumns)
}

func updateQuery() string {
	assignments := ""
	for i, col := range payloadColumns {
		if i > 0 {
			assignments += ", "
		}
		assignments += fmt.Sprintf("%s = $%d", col, i+1)
	}
	return fmt.Sprintf(
		"UPDATE sellers SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		assignments, len(payloadColumns)+1, sellerColumns,
	)
}

// CreateListing inserts a seller listing and returns the stored row.
func (d *DatabaseClient) CreateListing(payload models.ListingPayload) (*models.Listing, error) {
	listing, err := scanListing(d.db.QueryRow(insertQuery(), payloadArgs(payload)...))
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing, nil
}

// UpdateListing rewrites an existing listing from the payload.
func (d *DatabaseClient) UpdateListing(id uuid.UUID, payload models.ListingPayload) (*models.Listing, error) {
	args := append(payloadArgs(payload), id)
	listing, err := scanListing(d.db.QueryRow(updateQuery(), args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("listing %s not found", id)
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return listing, nil
}

// GetListing fetches one listing by id. sql.ErrNoRows is passed through bare
// so handlers can render the not-found state.
func (d *DatabaseClient) GetListing(id uuid.UUID) (*models.Listing, error) {
	listing, err := scanListing(d.db.QueryRow(
		"SELECT "+sellerColumns+" FROM sellers WHERE id = $1", id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

// ListListings returns listing summaries, newest first.
func (d *DatabaseClient) ListListings() ([]models.ListingSummary, error) {
	rows, err := d.db.Query(`
		SELECT id, business_name, hide_business_name, industry, location, asking_price, image_urls, created_at
		FROM sellers
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var summaries []models.ListingSummary
	for rows.Next() {
		var (
			id       uuid.UUID
			name     string
			hideName bool
			s        models.ListingSummary
			urls     pq.StringArray
		)
		if err := rows.Scan(&id, &name, &hideName, &s.Industry, &s.Location, &s.AskingPrice, &urls, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		s.ID = id.String()
		if !hideName {
			s.BusinessName = name
		}
		if len(urls) > 0 {
			s.ImageURL = urls[0]
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listings: %w", err)
	}

	return summaries, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
