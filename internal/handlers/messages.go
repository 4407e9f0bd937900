package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bizmarket-backend/internal/middleware"
	"bizmarket-backend/internal/models"
)

// MessageStore is the row-store surface for buyer inquiries.
type MessageStore interface {
	GetBuyerByEmail(email string) (*models.Buyer, error)
	CreateMessage(msg models.NewMessage) error
}

type MessagesHandler struct {
	store MessageStore
}

func NewMessagesHandler(store MessageStore) *MessagesHandler {
	return &MessagesHandler{store: store}
}

// SendMessage godoc
// @Summary     Message the seller of a listing
// @Description Creates one inquiry row. Requires an authenticated session whose email resolves to a buyer profile; without one, no row is created.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       listing_id path string true "Listing ID (UUID)"
// @Param       body body models.SendMessageRequest true "Message text"
// @Success     201 {object} models.MessageSentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /listings/{listing_id}/messages [post]
func (h *MessagesHandler) SendMessage(c *gin.Context) {
	email, ok := c.Get(middleware.UserEmailKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "email not found in session"})
		return
	}

	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid listing id"})
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "message is required"})
		return
	}

	// A buyer profile must exist before any message row is created.
	buyer, err := h.store.GetBuyerByEmail(email.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load buyer profile",
			Message: err.Error(),
		})
		return
	}
	if buyer == nil {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "buyer profile required",
			Message: "complete your buyer profile before contacting the seller",
		})
		return
	}

	msg := models.NewMessage{
		BuyerEmail: buyer.Email,
		BuyerName:  buyer.Name,
		Message:    req.Message,
		SellerID:   listingID.String(),
	}
	if err := h.store.CreateMessage(msg); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to send message",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.MessageSentResponse{
		Status:   "sent",
		SellerID: listingID.String(),
	})
}
