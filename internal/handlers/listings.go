package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bizmarket-backend/internal/middleware"
	"bizmarket-backend/internal/models"
)

// ListingStore is the persistence surface for seller listings.
type ListingStore interface {
	GetListing(id uuid.UUID) (*models.Listing, error)
	ListListings() ([]models.ListingSummary, error)
	CreateListing(payload models.ListingPayload) (*models.Listing, error)
	UpdateListing(id uuid.UUID, payload models.ListingPayload) (*models.Listing, error)
}

// SessionResolver resolves the viewer's session and buyer profile.
type SessionResolver interface {
	CurrentUser(accessToken string) (*models.AuthUser, error)
	GetBuyerByEmail(email string) (*models.Buyer, error)
}

type ListingsHandler struct {
	store    ListingStore
	sessions SessionResolver
}

func NewListingsHandler(store ListingStore, sessions SessionResolver) *ListingsHandler {
	return &ListingsHandler{store: store, sessions: sessions}
}

func listingResponse(l *models.Listing) models.ListingResponse {
	resp := models.ListingResponse{
		ID:                  l.ID.String(),
		HideBusinessName:    l.HideBusinessName,
		Industry:            l.Industry,
		Location:            l.Location,
		Website:             l.Website,
		AnnualRevenue:       l.AnnualRevenue,
		AnnualProfit:        l.AnnualProfit,
		SDE:                 l.SDE,
		AskingPrice:         l.AskingPrice,
		Employees:           l.Employees,
		MonthlyLease:        l.MonthlyLease,
		InventoryValue:      l.InventoryValue,
		EquipmentValue:      l.EquipmentValue,
		IncludesInventory:   l.IncludesInventory,
		IncludesBuilding:    l.IncludesBuilding,
		RealEstateIncluded:  l.RealEstateIncluded,
		Relocatable:         l.Relocatable,
		HomeBased:           l.HomeBased,
		FinancingType:       l.FinancingType,
		Description:         l.PublishedDescription(),
		BusinessDescription: l.BusinessDescription,
		AIDescription:       l.AIDescription,
		DescriptionChoice:   l.DescriptionChoice,
		CustomerType:        l.CustomerType,
		OwnerInvolvement:    l.OwnerInvolvement,
		ReasonForSelling:    l.ReasonForSelling,
		TrainingOffered:     l.TrainingOffered,
		ImageURLs:           l.ImageURLs,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
	if !l.HideBusinessName {
		resp.BusinessName = l.BusinessName
	}
	return resp
}

// GetListing godoc
// @Summary     Listing detail with buyer context
// @Description Fetches one listing. When a bearer token accompanies the request, the viewer's buyer profile is resolved: buyer_status is "anonymous", "needs_profile" or "ready".
// @Tags        listings
// @Produce     json
// @Param       listing_id path string true "Listing ID (UUID)"
// @Success     200 {object} models.ListingDetailResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /listings/{listing_id} [get]
func (h *ListingsHandler) GetListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid listing id"})
		return
	}

	listing, err := h.store.GetListing(listingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load listing",
			Message: err.Error(),
		})
		return
	}

	resp := models.ListingDetailResponse{
		Listing:     listingResponse(listing),
		BuyerStatus: models.BuyerStatusAnonymous,
	}

	// Buyer context is best effort: a missing or bad token means an
	// anonymous viewer, and a user without a buyer profile gets the
	// "complete your buyer profile" state.
	if token := middleware.BearerToken(c); token != "" {
		if user, err := h.sessions.CurrentUser(token); err == nil && user != nil {
			resp.BuyerStatus = models.BuyerStatusNeedsProfile
			buyer, err := h.sessions.GetBuyerByEmail(user.Email)
			if err != nil {
				log.Printf("Buyer profile lookup failed for %s: %v", user.Email, err)
			} else if buyer != nil {
				resp.BuyerStatus = models.BuyerStatusReady
				resp.Buyer = buyer
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ListListings godoc
// @Summary     List listings
// @Tags        listings
// @Produce     json
// @Success     200 {object} models.ListingListResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /listings [get]
func (h *ListingsHandler) ListListings(c *gin.Context) {
	summaries, err := h.store.ListListings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list listings",
			Message: err.Error(),
		})
		return
	}
	if summaries == nil {
		summaries = []models.ListingSummary{}
	}
	c.JSON(http.StatusOK, models.ListingListResponse{Listings: summaries})
}

// CreateListing godoc
// @Summary     Create a seller listing
// @Description Accepts the normalized submission payload and inserts the sellers row.
// @Tags        listings
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       payload body models.ListingPayload true "Normalized listing payload"
// @Success     201 {object} models.ListingResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /listings [post]
func (h *ListingsHandler) CreateListing(c *gin.Context) {
	var payload models.ListingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid payload",
			Message: err.Error(),
		})
		return
	}

	if payload.Name == "" || payload.Email == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name and email are required"})
		return
	}

	listing, err := h.store.CreateListing(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create listing",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, listingResponse(listing))
}

// UpdateListing godoc
// @Summary     Update a seller listing
// @Tags        listings
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       listing_id path string true "Listing ID (UUID)"
// @Param       payload body models.ListingPayload true "Normalized listing payload"
// @Success     200 {object} models.ListingResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /listings/{listing_id} [put]
func (h *ListingsHandler) UpdateListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid listing id"})
		return
	}

	var payload models.ListingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid payload",
			Message: err.Error(),
		})
		return
	}

	listing, err := h.store.UpdateListing(listingID, payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update listing",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, listingResponse(listing))
}

// GetMyBuyerProfile godoc
// @Summary     Current user's buyer profile
// @Tags        buyers
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ListingDetailResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /me/buyer [get]
func (h *ListingsHandler) GetMyBuyerProfile(c *gin.Context) {
	email, ok := c.Get(middleware.UserEmailKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "email not found in session"})
		return
	}

	buyer, err := h.sessions.GetBuyerByEmail(email.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load buyer profile",
			Message: err.Error(),
		})
		return
	}

	if buyer == nil {
		c.JSON(http.StatusOK, gin.H{"buyer_status": models.BuyerStatusNeedsProfile})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buyer_status": models.BuyerStatusReady, "buyer": buyer})
}
