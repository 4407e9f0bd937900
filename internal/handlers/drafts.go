package handlers

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bizmarket-backend/internal/describe"
	"bizmarket-backend/internal/middleware"
	"bizmarket-backend/internal/models"
	"bizmarket-backend/internal/wizard"
)

// DescriptionGenerator produces marketing prose from a seller's answers.
type DescriptionGenerator interface {
	GenerateDescription(ctx context.Context, req describe.GenerateRequest) (string, error)
}

// DraftsHandler is the HTTP surface of the onboarding wizard: one draft per
// session, stepped through the wizard's stage machine and submitted at the
// end.
type DraftsHandler struct {
	drafts    *wizard.Store
	listings  ListingStore
	submitter *wizard.Submitter
	generator DescriptionGenerator
}

func NewDraftsHandler(drafts *wizard.Store, listings ListingStore, submitter *wizard.Submitter, generator DescriptionGenerator) *DraftsHandler {
	return &DraftsHandler{
		drafts:    drafts,
		listings:  listings,
		submitter: submitter,
		generator: generator,
	}
}

type createDraftRequest struct {
	// ListingID starts the wizard in edit mode, seeded from the stored
	// listing.
	ListingID string `json:"listing_id,omitempty"`
}

type draftResponse struct {
	ID        string                `json:"id"`
	Stage     string                `json:"stage"`
	ListingID string                `json:"listing_id,omitempty"`
	Form      wizard.FormData       `json:"form"`
	Images    []wizard.PreviewImage `json:"images"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func toDraftResponse(d wizard.Draft) draftResponse {
	images := make([]wizard.PreviewImage, len(d.Images))
	for i, img := range d.Images {
		images[i] = wizard.PreviewImage{Token: img.Token, Filename: img.Filename}
	}
	resp := draftResponse{
		ID:        d.ID.String(),
		Stage:     d.Stage.String(),
		Form:      d.Form,
		Images:    images,
		UpdatedAt: d.UpdatedAt,
	}
	if d.ListingID != nil {
		resp.ListingID = d.ListingID.String()
	}
	return resp
}

func ownerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return "", false
	}
	return v.(string), true
}

func (h *DraftsHandler) draftID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("draft_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid draft id"})
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *DraftsHandler) respondDraftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wizard.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "draft not found"})
	case errors.Is(err, wizard.ErrNotDraftOwner):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "draft belongs to another user"})
	default:
		var invalid wizard.ErrInvalidTransition
		if errors.As(err, &invalid) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "invalid transition", Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "draft update failed", Message: err.Error()})
	}
}

// CreateDraft godoc
// @Summary     Start an onboarding draft
// @Description Starts a fresh draft at step 1, or an edit draft seeded from an existing listing when listing_id is given.
// @Tags        drafts
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       body body createDraftRequest false "Optional listing to edit"
// @Success     201 {object} draftResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /drafts [post]
func (h *DraftsHandler) CreateDraft(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req createDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	draft := h.drafts.Create(owner)

	if req.ListingID != "" {
		listingID, err := uuid.Parse(req.ListingID)
		if err != nil {
			h.drafts.Delete(draft.ID)
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid listing id"})
			return
		}
		listing, err := h.listings.GetListing(listingID)
		if err != nil {
			h.drafts.Delete(draft.ID)
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "listing not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load listing", Message: err.Error()})
			return
		}

		draft, err = h.drafts.Update(draft.ID, owner, func(d wizard.Draft) (wizard.Draft, error) {
			d.ListingID = &listingID
			return d.WithForm(wizard.FormFromListing(listing))
		})
		if err != nil {
			h.respondDraftError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, toDraftResponse(draft))
}

// GetDraft godoc
// @Summary     Fetch a draft
// @Tags        drafts
// @Produce     json
// @Security    Bearer
// @Param       draft_id path string true "Draft ID (UUID)"
// @Success     200 {object} draftResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /drafts/{draft_id} [get]
func (h *DraftsHandler) GetDraft(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Get(id, owner)
	if err != nil {
		h.respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

// PutForm godoc
// @Summary     Replace the draft's form state
// @Tags        drafts
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       draft_id path string true "Draft ID (UUID)"
// @Param       form body wizard.FormData true "Full form state"
// @Success     200 {object} draftResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /drafts/{draft_id}/form [put]
func (h *DraftsHandler) PutForm(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	var form wizard.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid form", Message: err.Error()})
		return
	}

	draft, err := h.drafts.Update(id, owner, func(d wizard.Draft) (wizard.Draft, error) {
		return d.WithForm(form)
	})
	if err != nil {
		h.respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

// Advance godoc
// @Summary     Advance to the next step
// @Description Step 1 requires the seller's name and email, mirroring the form's required fields.
// @Tags        drafts
// @Produce     json
// @Security    Bearer
// @Param       draft_id path string true "Draft ID (UUID)"
// @Success     200 {object} draftResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /drafts/{draft_id}/next [post]
func (h *DraftsHandler) Advance(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Update(id, owner, func(d wizard.Draft) (wizard.Draft, error) {
		if d.Stage == wizard.StageStep1 && (d.Form.Name == "" || d.Form.Email == "") {
			return d, errRequiredFields
		}
		return d.Next()
	})
	if err != nil {
		if errors.Is(err, errRequiredFields) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name and email are required"})
			return
		}
		h.respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

var errRequiredFields = errors.New("required fields missing")

// Back godoc
// @Summary     Return to the previous step
// @Tags        drafts
// @Produce     json
// @Security    Bearer
// @Param       draft_id path string true "Draft ID (UUID)"
// @Success     200 {object} draftResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /drafts/{draft_id}/back [post]
func (h *DraftsHandler) Back(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Update(id, owner, wizard.Draft.Back)
	if err != nil {
		h.respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

// EnterPreview godoc
// @Summary     Enter the listing preview
// @Description Moves the draft from step 3 to preview. The first time a draft previews without an AI description, generation is kicked off in the background; its failure never blocks the wizard.
// @Tags        drafts
// @Produce     json
// @Security    Bearer
// @Param       draft_id path string true "Draft ID (UUID)"
// @Success     200 {object} wizard.Preview
// @Failure     409 {object} models.ErrorResponse
// @Router      /drafts/{draft_id}/preview [post]
func (h *DraftsHandler) EnterPreview(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Update(id, owner, wizard.Draft.EnterPreview)
	if err != nil {
		h.respondDraftError(c, err)
		return
	}

	if draft.Form.AIDescription == "" && h.generator != nil {
		go h.generateDescription(draft)
	}

	c.JSON(http.StatusOK, wizard.BuildPreview(draft))
}

// generateDescription runs off-request. The result merges into the draft
// only if it is still live and still has no AI description.
func (h *DraftsHandler) generateDescription(d wizard.Draft) {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	req := describe.GenerateRequest{
		Summary:     d.Form.SentenceSummary,
		Customers:   d.Form.Customers,
		Opportunity: d.Form.GrowthPotential,
		UniqueEdge:  d.Form.UniqueEdge(),
		Industry:    d.Form.Industry,
		Location:    d.Form.Location,
	}

	text, err := h.generator.GenerateDescription(ctx, req)
	if err != nil {
		log.Printf("AI description generation failed for draft %s: %v", d.ID, err)
		return
	}

	h.drafts.MergeAIDescription(d.ID, text)
}

// ExitPreview godoc
// @Summary     Leave the preview and edit
// @Description Always lands on step 3, never on earlier steps.
// @Tags        drafts
// @Produce     json
// @Security    Bearer
// @Param       draft_id path string true "Draft ID (UUID)"
// @Success     200 {object} draftResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /drafts/{draft_id}/edit [post]
func (h *DraftsHandler) ExitPreview(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Update(id, owner, wizard.Draft.ExitPreview)
	if err != nil {
		h.respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

// GetPreview godoc
// @Summary     Rendered preview values
// @Tags        drafts
// @Produce     json
// @Security    Bearer
// @Param       draft_id path string true "Draft ID (UUID)"
// @Success     200 {object} wizard.Preview
// @Failure     404 {object} models.ErrorResponse
// @Router      /drafts/{draft_id}/preview [get]
func (h *DraftsHandler) GetPreview(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Get(id, owner)
	if err != nil {
		h.respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, wizard.BuildPreview(draft))
}

// AddImages godoc
// @Summary     Attach images to the draft
// @Description Files are held in the draft and uploaded only at submission; adding and removing before submit costs nothing.
// @Tags        drafts
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       draft_id path string true "Draft ID (UUID)"
// @Param       images formData file true "Image files (multiple allowed)"
// @Success     200 {object} draftResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /drafts/{draft_id}/images [post]
func (h *DraftsHandler) AddImages(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}
	form := c.Request.MultipartForm
	if form == nil || len(form.File["images"]) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no images provided"})
		return
	}

	type upload struct {
		filename string
		data     []byte
	}
	uploads := make([]upload, 0, len(form.File["images"]))
	for _, header := range form.File["images"] {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to read file",
				Message: err.Error(),
			})
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to read file",
				Message: err.Error(),
			})
			return
		}
		uploads = append(uploads, upload{filename: header.Filename, data: data})
	}

	draft, err := h.drafts.Update(id, owner, func(d wizard.Draft) (wizard.Draft, error) {
		for _, u := range uploads {
			var err error
			d, _, err = d.AddImage(u.filename, u.data)
			if err != nil {
				return d, err
			}
		}
		return d, nil
	})
	if err != nil {
		h.respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

// RemoveImage godoc
// @Summary     Remove a pending image
// @Description A removed image is never uploaded and never appears in the submitted listing.
// @Tags        drafts
// @Produce     json
// @Security    Bearer
// @Param       draft_id path string true "Draft ID (UUID)"
// @Param       token path string true "Image token"
// @Success     200 {object} draftResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /drafts/{draft_id}/images/{token} [delete]
func (h *DraftsHandler) RemoveImage(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := h.draftID(c)
	if !ok {
		return
	}
	token := c.Param("token")

	draft, err := h.drafts.Update(id, owner, func(d wizard.Draft) (wizard.Draft, error) {
		return d.RemoveImage(token)
	})
	if err != nil {
		h.respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

type submitResponse struct {
	Status   string                 `json:"status"`
	Listing  models.ListingResponse `json:"listing"`
	Redirect string                 `json:"redirect"`
}

// Submit godoc
// @Summary     Submit the draft
// @Description Runs the submission pipeline: sequential image uploads, payload normalization, then the create-or-update listing write. The first upload failure aborts the whole attempt with the draft unchanged.
// @Tags        drafts
// @Produce     json
// @Security    Bearer
// @Param       draft_id path string true "Draft ID (UUID)"
// @Success     200 {object} submitResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /drafts/{draft_id}/submit [post]
func (h *DraftsHandler) Submit(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Get(id, owner)
	if err != nil {
		h.respondDraftError(c, err)
		return
	}

	// The pipeline runs outside the store lock; uploads can take a while.
	submitted, result := h.submitter.Submit(c.Request.Context(), draft)

	switch result.Outcome {
	case wizard.OutcomeSubmitted:
		if err := h.drafts.Replace(submitted); err != nil {
			log.Printf("Draft %s vanished during submission: %v", id, err)
		}
		c.JSON(http.StatusOK, submitResponse{
			Status:   "submitted",
			Listing:  listingResponse(result.Listing),
			Redirect: "/thank-you",
		})
	case wizard.OutcomeUploadFailed:
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upload_failed",
			Message: result.Message,
		})
	case wizard.OutcomeCanceled:
		c.JSON(http.StatusRequestTimeout, models.ErrorResponse{Error: "submission canceled"})
	default:
		message := result.Message
		if message == "" {
			message = "Submission failed"
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "submission_failed",
			Message: message,
		})
	}
}
