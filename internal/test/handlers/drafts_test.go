package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"bizmarket-backend/internal/describe"
	"bizmarket-backend/internal/handlers"
	"bizmarket-backend/internal/wizard"
)

type fakeGenerator struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []describe.GenerateRequest
}

func (g *fakeGenerator) GenerateDescription(ctx context.Context, req describe.GenerateRequest) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakeImageUploader struct {
	failOn  int
	uploads []string
}

func (u *fakeImageUploader) UploadListingImage(path string, data []byte) (string, error) {
	if u.failOn > 0 && len(u.uploads)+1 == u.failOn {
		return "", errors.New("storage unavailable")
	}
	u.uploads = append(u.uploads, path)
	return "https://cdn/" + path, nil
}

type draftsEnv struct {
	router    *gin.Engine
	store     *wizard.Store
	listings  *fakeListingStore
	uploader  *fakeImageUploader
	generator *fakeGenerator
}

func newDraftsEnv() *draftsEnv {
	gin.SetMode(gin.TestMode)

	env := &draftsEnv{
		store:     wizard.NewStore(),
		listings:  newFakeListingStore(),
		uploader:  &fakeImageUploader{},
		generator: &fakeGenerator{text: "A generated description."},
	}

	submitter := wizard.NewSubmitter(env.uploader, env.listings)
	handler := handlers.NewDraftsHandler(env.store, env.listings, submitter, env.generator)

	router := gin.New()
	authed := router.Group("/", authAs("user-123", "jo@example.com"))
	authed.POST("/drafts", handler.CreateDraft)
	authed.GET("/drafts/:draft_id", handler.GetDraft)
	authed.PUT("/drafts/:draft_id/form", handler.PutForm)
	authed.POST("/drafts/:draft_id/next", handler.Advance)
	authed.POST("/drafts/:draft_id/back", handler.Back)
	authed.POST("/drafts/:draft_id/preview", handler.EnterPreview)
	authed.GET("/drafts/:draft_id/preview", handler.GetPreview)
	authed.POST("/drafts/:draft_id/edit", handler.ExitPreview)
	authed.POST("/drafts/:draft_id/images", handler.AddImages)
	authed.DELETE("/drafts/:draft_id/images/:token", handler.RemoveImage)
	authed.POST("/drafts/:draft_id/submit", handler.Submit)
	env.router = router
	return env
}

func (e *draftsEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *draftsEnv) createDraft(t *testing.T) string {
	t.Helper()
	w := e.do("POST", "/drafts", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID    string `json:"id"`
		Stage string `json:"stage"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "step1", resp.Stage)
	return resp.ID
}

func (e *draftsEnv) putForm(t *testing.T, id string, form wizard.FormData) {
	t.Helper()
	w := e.do("PUT", "/drafts/"+id+"/form", form)
	assert.Equal(t, http.StatusOK, w.Code)
}

func stepOneForm() wizard.FormData {
	return wizard.FormData{
		Name:              "Jo Seller",
		Email:             "jo@example.com",
		BusinessName:      "Jo's Bakery",
		Industry:          "food service",
		LocationCity:      "Austin",
		LocationState:     "Texas",
		AskingPrice:       "250000",
		FinancingType:     "buyer-financed",
		DescriptionChoice: "manual",
		SentenceSummary:   "Family bakery on the main square",
	}
}

// walkToPreview drives a fresh draft through all three steps into preview.
func (e *draftsEnv) walkToPreview(t *testing.T) string {
	t.Helper()
	id := e.createDraft(t)
	e.putForm(t, id, stepOneForm())
	assert.Equal(t, http.StatusOK, e.do("POST", "/drafts/"+id+"/next", nil).Code)
	assert.Equal(t, http.StatusOK, e.do("POST", "/drafts/"+id+"/next", nil).Code)
	assert.Equal(t, http.StatusOK, e.do("POST", "/drafts/"+id+"/preview", nil).Code)
	return id
}

func TestDrafts_AdvanceRequiresNameAndEmail(t *testing.T) {
	env := newDraftsEnv()
	id := env.createDraft(t)

	w := env.do("POST", "/drafts/"+id+"/next", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name and email")

	env.putForm(t, id, stepOneForm())
	w = env.do("POST", "/drafts/"+id+"/next", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stage":"step2"`)
}

func TestDrafts_PreviewRendersAndKicksOffGeneration(t *testing.T) {
	env := newDraftsEnv()
	id := env.createDraft(t)
	env.putForm(t, id, stepOneForm())
	env.do("POST", "/drafts/"+id+"/next", nil)
	env.do("POST", "/drafts/"+id+"/next", nil)

	w := env.do("POST", "/drafts/"+id+"/preview", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var preview wizard.Preview
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Equal(t, "Food Service Business for Sale", preview.Title)
	assert.Equal(t, "Austin, Texas", preview.Location)
	assert.Equal(t, "$250,000", preview.AskingPrice)

	// Generation runs off-request and merges into the stored draft.
	draftID := uuid.MustParse(id)
	assert.Eventually(t, func() bool {
		d, err := env.store.Get(draftID, "user-123")
		return err == nil && d.Form.AIDescription == "A generated description."
	}, 2*time.Second, 10*time.Millisecond)

	// Re-entering preview after editing does not regenerate.
	env.do("POST", "/drafts/"+id+"/edit", nil)
	env.do("POST", "/drafts/"+id+"/preview", nil)
	assert.Equal(t, 1, env.generator.callCount())
}

func TestDrafts_GenerationFailureNeverBlocksPreview(t *testing.T) {
	env := newDraftsEnv()
	env.generator.err = errors.New("model overloaded")

	id := env.walkToPreview(t)

	w := env.do("GET", "/drafts/"+id+"/preview", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	d, err := env.store.Get(uuid.MustParse(id), "user-123")
	assert.NoError(t, err)
	assert.Equal(t, "", d.Form.AIDescription)
	assert.Equal(t, wizard.StagePreview, d.Stage)
}

func TestDrafts_PreviewFromEarlyStepConflicts(t *testing.T) {
	env := newDraftsEnv()
	id := env.createDraft(t)

	w := env.do("POST", "/drafts/"+id+"/preview", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDrafts_EditAlwaysReturnsToStepThree(t *testing.T) {
	env := newDraftsEnv()
	id := env.walkToPreview(t)

	w := env.do("POST", "/drafts/"+id+"/edit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stage":"step3"`)
}

func (e *draftsEnv) addImages(t *testing.T, id string, filenames ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range filenames {
		part, err := writer.CreateFormFile("images", name)
		assert.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		assert.NoError(t, err)
	}
	writer.Close()

	req, _ := http.NewRequest("POST", "/drafts/"+id+"/images", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestDrafts_AddAndRemoveImages(t *testing.T) {
	env := newDraftsEnv()
	id := env.createDraft(t)
	env.putForm(t, id, stepOneForm())

	w := env.addImages(t, id, "a.jpg", "b.jpg")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Images []wizard.PreviewImage `json:"images"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Images, 2)

	// Nothing reaches storage until submission.
	assert.Empty(t, env.uploader.uploads)

	w = env.do("DELETE", "/drafts/"+id+"/images/"+resp.Images[0].Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	d, err := env.store.Get(uuid.MustParse(id), "user-123")
	assert.NoError(t, err)
	assert.Len(t, d.Images, 1)
	assert.Equal(t, "b.jpg", d.Images[0].Filename)
}

func TestDrafts_SubmitCreatesListing(t *testing.T) {
	env := newDraftsEnv()
	id := env.createDraft(t)
	env.putForm(t, id, stepOneForm())
	env.addImages(t, id, "a.jpg")
	env.do("POST", "/drafts/"+id+"/next", nil)
	env.do("POST", "/drafts/"+id+"/next", nil)
	env.do("POST", "/drafts/"+id+"/preview", nil)

	w := env.do("POST", "/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"submitted"`)
	assert.Contains(t, w.Body.String(), `"redirect":"/thank-you"`)

	assert.Len(t, env.listings.created, 1)
	payload := env.listings.created[0]
	assert.Equal(t, "Jo Seller", payload.Name)
	assert.Equal(t, 250000.0, payload.AskingPrice)
	assert.Len(t, payload.ImageURLs, 1)

	d, err := env.store.Get(uuid.MustParse(id), "user-123")
	assert.NoError(t, err)
	assert.Equal(t, wizard.StageSubmitted, d.Stage)
}

func TestDrafts_SubmitUploadFailureLeavesDraftIntact(t *testing.T) {
	env := newDraftsEnv()
	env.uploader.failOn = 1

	id := env.createDraft(t)
	env.putForm(t, id, stepOneForm())
	env.addImages(t, id, "a.jpg")
	env.do("POST", "/drafts/"+id+"/next", nil)
	env.do("POST", "/drafts/"+id+"/next", nil)
	env.do("POST", "/drafts/"+id+"/preview", nil)

	w := env.do("POST", "/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Image upload failed. Please try again.")
	assert.Empty(t, env.listings.created)

	// The draft is still in preview with its image; retry succeeds.
	env.uploader.failOn = 0
	w = env.do("POST", "/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.listings.created, 1)
}

func TestDrafts_SubmitBeforePreviewFails(t *testing.T) {
	env := newDraftsEnv()
	id := env.createDraft(t)
	env.putForm(t, id, stepOneForm())

	w := env.do("POST", "/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, env.listings.created)
}

func TestDrafts_EditModeSeedsFromListing(t *testing.T) {
	env := newDraftsEnv()

	listingID := uuid.New()
	env.listings.listings[listingID] = storedListing(listingID)

	w := env.do("POST", "/drafts", map[string]string{"listing_id": listingID.String()})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID        string          `json:"id"`
		ListingID string          `json:"listing_id"`
		Form      wizard.FormData `json:"form"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, listingID.String(), resp.ListingID)
	assert.Equal(t, "Jo's Bakery", resp.Form.BusinessName)
	assert.Equal(t, "250000", resp.Form.AskingPrice)

	// Submitting the edit draft updates the existing row.
	env.putForm(t, resp.ID, resp.Form)
	env.do("POST", "/drafts/"+resp.ID+"/next", nil)
	env.do("POST", "/drafts/"+resp.ID+"/next", nil)
	env.do("POST", "/drafts/"+resp.ID+"/preview", nil)
	submit := env.do("POST", "/drafts/"+resp.ID+"/submit", nil)
	assert.Equal(t, http.StatusOK, submit.Code)
	assert.Empty(t, env.listings.created)
	assert.Contains(t, env.listings.updated, listingID)
}

func TestDrafts_EditModeUnknownListing(t *testing.T) {
	env := newDraftsEnv()

	w := env.do("POST", "/drafts", map[string]string{"listing_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDrafts_UnknownDraft(t *testing.T) {
	env := newDraftsEnv()

	w := env.do("GET", "/drafts/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
