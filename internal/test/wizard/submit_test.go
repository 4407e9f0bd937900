package wizard_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"bizmarket-backend/internal/models"
	"bizmarket-backend/internal/wizard"
)

type fakeUploader struct {
	failOn   int // 1-based index of the upload that fails; 0 means never
	uploads  []string
	uploaded [][]byte
}

func (u *fakeUploader) UploadListingImage(path string, data []byte) (string, error) {
	if u.failOn > 0 && len(u.uploads)+1 == u.failOn {
		return "", errors.New("storage unavailable")
	}
	u.uploads = append(u.uploads, path)
	u.uploaded = append(u.uploaded, data)
	return "https://cdn/" + path, nil
}

type fakeListingWriter struct {
	created []models.ListingPayload
	updated map[uuid.UUID]models.ListingPayload
	err     error
}

func (w *fakeListingWriter) CreateListing(payload models.ListingPayload) (*models.Listing, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.created = append(w.created, payload)
	return &models.Listing{ID: uuid.New(), BusinessName: payload.BusinessName, ImageURLs: payload.ImageURLs}, nil
}

func (w *fakeListingWriter) UpdateListing(id uuid.UUID, payload models.ListingPayload) (*models.Listing, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.updated == nil {
		w.updated = make(map[uuid.UUID]models.ListingPayload)
	}
	w.updated[id] = payload
	return &models.Listing{ID: id, BusinessName: payload.BusinessName, ImageURLs: payload.ImageURLs}, nil
}

func previewDraft(t *testing.T, images ...string) wizard.Draft {
	t.Helper()
	d := wizard.NewDraft("user-123")
	form := d.Form
	form.Name = "Jo Seller"
	form.Email = "jo@example.com"
	form.BusinessName = "Jo's Bakery"
	form.AskingPrice = "250000.5"
	d, err := d.WithForm(form)
	assert.NoError(t, err)
	for i, name := range images {
		d, _, err = d.AddImage(name, []byte(fmt.Sprintf("img-%d", i)))
		assert.NoError(t, err)
	}
	d, _ = d.Next()
	d, _ = d.Next()
	d, err = d.EnterPreview()
	assert.NoError(t, err)
	return d
}

func TestSubmit_UploadsThenCreates(t *testing.T) {
	uploader := &fakeUploader{}
	writer := &fakeListingWriter{}
	submitter := wizard.NewSubmitter(uploader, writer)

	d := previewDraft(t, "a.jpg", "b.jpg")
	submitted, result := submitter.Submit(context.Background(), d)

	assert.Equal(t, wizard.OutcomeSubmitted, result.Outcome)
	assert.Equal(t, wizard.StageSubmitted, submitted.Stage)
	assert.NotNil(t, result.Listing)

	assert.Len(t, writer.created, 1)
	payload := writer.created[0]
	assert.Len(t, payload.ImageURLs, 2)
	assert.Contains(t, payload.ImageURLs[0], "a.jpg")
	assert.Contains(t, payload.ImageURLs[1], "b.jpg")
	assert.Equal(t, 250000.5, payload.AskingPrice)

	// Storage paths carry a time prefix ahead of the original name.
	assert.Contains(t, uploader.uploads[0], "listings/")
	assert.Contains(t, uploader.uploads[0], "-a.jpg")
}

func TestSubmit_AbortsWhenAnUploadFails(t *testing.T) {
	uploader := &fakeUploader{failOn: 2}
	writer := &fakeListingWriter{}
	submitter := wizard.NewSubmitter(uploader, writer)

	d := previewDraft(t, "a.jpg", "b.jpg", "c.jpg")
	after, result := submitter.Submit(context.Background(), d)

	assert.Equal(t, wizard.OutcomeUploadFailed, result.Outcome)
	assert.Equal(t, "Image upload failed. Please try again.", result.Message)

	// No row was written and the draft is unchanged, so the seller can
	// retry from the same state.
	assert.Empty(t, writer.created)
	assert.Nil(t, writer.updated)
	assert.Equal(t, wizard.StagePreview, after.Stage)
	assert.Len(t, after.Images, 3)

	// Only the first image reached storage before the abort.
	assert.Len(t, uploader.uploads, 1)
}

func TestSubmit_RemovedImageNeverUploaded(t *testing.T) {
	uploader := &fakeUploader{}
	writer := &fakeListingWriter{}
	submitter := wizard.NewSubmitter(uploader, writer)

	d := wizard.NewDraft("user-123")
	form := d.Form
	form.Name = "Jo Seller"
	form.Email = "jo@example.com"
	d, _ = d.WithForm(form)
	d, _, _ = d.AddImage("keep.jpg", []byte("keep"))
	d, drop, _ := d.AddImage("drop.jpg", []byte("drop"))
	d, err := d.RemoveImage(drop.Token)
	assert.NoError(t, err)
	d, _ = d.Next()
	d, _ = d.Next()
	d, _ = d.EnterPreview()

	_, result := submitter.Submit(context.Background(), d)
	assert.Equal(t, wizard.OutcomeSubmitted, result.Outcome)

	assert.Len(t, uploader.uploads, 1)
	assert.Contains(t, uploader.uploads[0], "keep.jpg")
	assert.Len(t, writer.created[0].ImageURLs, 1)
	assert.NotContains(t, writer.created[0].ImageURLs[0], "drop.jpg")
}

func TestSubmit_UpdatesWhenEditingExistingListing(t *testing.T) {
	uploader := &fakeUploader{}
	writer := &fakeListingWriter{}
	submitter := wizard.NewSubmitter(uploader, writer)

	listingID := uuid.New()
	d := previewDraft(t)
	d.ListingID = &listingID

	_, result := submitter.Submit(context.Background(), d)

	assert.Equal(t, wizard.OutcomeSubmitted, result.Outcome)
	assert.Empty(t, writer.created)
	assert.Contains(t, writer.updated, listingID)
	assert.Equal(t, listingID, result.Listing.ID)
}

func TestSubmit_SurfacesServerError(t *testing.T) {
	uploader := &fakeUploader{}
	writer := &fakeListingWriter{err: errors.New("duplicate listing")}
	submitter := wizard.NewSubmitter(uploader, writer)

	d := previewDraft(t)
	after, result := submitter.Submit(context.Background(), d)

	assert.Equal(t, wizard.OutcomeServerError, result.Outcome)
	assert.Contains(t, result.Message, "duplicate listing")
	assert.Equal(t, wizard.StagePreview, after.Stage)
}

func TestSubmit_RequiresPreviewStage(t *testing.T) {
	submitter := wizard.NewSubmitter(&fakeUploader{}, &fakeListingWriter{})

	d := wizard.NewDraft("user-123")
	_, result := submitter.Submit(context.Background(), d)
	assert.Equal(t, wizard.OutcomeServerError, result.Outcome)
}

func TestSubmit_CanceledContext(t *testing.T) {
	uploader := &fakeUploader{}
	writer := &fakeListingWriter{}
	submitter := wizard.NewSubmitter(uploader, writer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := previewDraft(t, "a.jpg")
	after, result := submitter.Submit(ctx, d)

	assert.Equal(t, wizard.OutcomeCanceled, result.Outcome)
	assert.Equal(t, wizard.StagePreview, after.Stage)
	assert.Empty(t, uploader.uploads)
	assert.Empty(t, writer.created)
}
