package wizard

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"bizmarket-backend/internal/models"
)

// Uploader stores one image blob and returns its public URL.
type Uploader interface {
	UploadListingImage(path string, data []byte) (string, error)
}

// ListingWriter persists the normalized payload as a new or updated listing.
type ListingWriter interface {
	CreateListing(payload models.ListingPayload) (*models.Listing, error)
	UpdateListing(id uuid.UUID, payload models.ListingPayload) (*models.Listing, error)
}

// Outcome tags the result of a submission attempt.
type Outcome int

const (
	OutcomeSubmitted Outcome = iota
	OutcomeUploadFailed
	OutcomeServerError
	OutcomeCanceled
)

// Result is the tagged outcome of one run of the pipeline. Message is safe
// to show the seller; Err carries the underlying cause for logging.
type Result struct {
	Outcome Outcome
	Listing *models.Listing
	Message string
	Err     error
}

// Submitter runs the submission pipeline: upload pending images one by one,
// normalize the draft into a payload, then create or update the listing row.
// The pipeline is sequential and all-or-nothing: the first upload failure
// aborts before any row is written, so a partial listing never exists.
type Submitter struct {
	uploader Uploader
	listings ListingWriter
	now      func() time.Time
}

func NewSubmitter(uploader Uploader, listings ListingWriter) *Submitter {
	return &Submitter{
		uploader: uploader,
		listings: listings,
		now:      time.Now,
	}
}

// Submit runs the pipeline for a draft in the preview stage. On success the
// returned draft is in StageSubmitted; on any failure the draft comes back
// unchanged so the seller can retry from the same state. Cancellation via
// ctx is checked between operations; a canceled run returns OutcomeCanceled
// and the caller should discard the result.
func (s *Submitter) Submit(ctx context.Context, d Draft) (Draft, Result) {
	if d.Stage != StagePreview {
		err := ErrInvalidTransition{From: d.Stage, Action: "submit"}
		return d, Result{Outcome: OutcomeServerError, Message: err.Error(), Err: err}
	}

	imageURLs := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		if err := ctx.Err(); err != nil {
			return d, Result{Outcome: OutcomeCanceled, Err: err}
		}

		path := fmt.Sprintf("listings/%d-%s", s.now().UnixMilli(), img.Filename)
		url, err := s.uploader.UploadListingImage(path, img.Data)
		if err != nil {
			log.Printf("Image upload failed for draft %s: %v", d.ID, err)
			return d, Result{
				Outcome: OutcomeUploadFailed,
				Message: "Image upload failed. Please try again.",
				Err:     err,
			}
		}
		imageURLs = append(imageURLs, url)
	}

	if err := ctx.Err(); err != nil {
		return d, Result{Outcome: OutcomeCanceled, Err: err}
	}

	payload := BuildPayload(d.Form, imageURLs)

	var listing *models.Listing
	var err error
	if d.ListingID != nil {
		listing, err = s.listings.UpdateListing(*d.ListingID, payload)
	} else {
		listing, err = s.listings.CreateListing(payload)
	}
	if err != nil {
		log.Printf("Listing submission failed for draft %s: %v", d.ID, err)
		return d, Result{
			Outcome: OutcomeServerError,
			Message: err.Error(),
			Err:     err,
		}
	}

	submitted, err := d.finishSubmit()
	if err != nil {
		// Unreachable: stage was checked on entry.
		return d, Result{Outcome: OutcomeServerError, Message: err.Error(), Err: err}
	}

	return submitted, Result{Outcome: OutcomeSubmitted, Listing: listing}
}
