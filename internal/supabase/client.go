package supabase

import (
	"encoding/json"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"bizmarket-backend/internal/config"
	"bizmarket-backend/internal/models"
)

// Client wraps the Supabase client for the row-store and session concerns
// this service delegates: resolving the current user from a session token,
// looking up buyer profiles, and appending inquiry messages.
type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// CurrentUser resolves a session token to its user. An invalid or expired
// token is an error; callers on public paths treat that as anonymous.
func (c *Client) CurrentUser(accessToken string) (*models.AuthUser, error) {
	resp, err := c.Supabase.Auth.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session user: %w", err)
	}

	return &models.AuthUser{
		ID:    resp.ID.String(),
		Email: resp.Email,
	}, nil
}

// GetBuyerByEmail looks up a buyer profile. A missing profile returns
// (nil, nil): that is the "must complete onboarding" state, not an error.
func (c *Client) GetBuyerByEmail(email string) (*models.Buyer, error) {
	data, _, err := c.Supabase.From("buyers").
		Select("*", "exact", false).
		Eq("email", email).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query buyer profile: %w", err)
	}

	var buyers []models.Buyer
	if err := json.Unmarshal(data, &buyers); err != nil {
		return nil, fmt.Errorf("failed to decode buyer profile: %w", err)
	}
	if len(buyers) == 0 {
		return nil, nil
	}

	return &buyers[0], nil
}

// CreateMessage appends one inquiry row referencing the listing.
func (c *Client) CreateMessage(msg models.NewMessage) error {
	_, _, err := c.Supabase.From("messages").
		Insert(msg, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}
