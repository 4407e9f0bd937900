// Package wizard implements the seller onboarding flow: an in-memory draft
// that accumulates the listing form across three steps, a preview stage, and
// the submission pipeline that uploads images and persists the listing.
package wizard

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage is the wizard's position. Steps 1-3 are the editing screens, Preview
// is reachable only from step 3, and Submitted is terminal.
type Stage int

const (
	StageStep1 Stage = iota + 1
	StageStep2
	StageStep3
	StagePreview
	StageSubmitted
)

func (s Stage) String() string {
	switch s {
	case StageStep1:
		return "step1"
	case StageStep2:
		return "step2"
	case StageStep3:
		return "step3"
	case StagePreview:
		return "preview"
	case StageSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// FormData is the raw form state as captured from the seller. Financial
// fields stay strings until payload normalization so that "" and bad input
// are handled in one place.
type FormData struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	BusinessName     string `json:"business_name"`
	HideBusinessName bool   `json:"hide_business_name"`

	Industry      string `json:"industry"`
	Location      string `json:"location"`
	LocationCity  string `json:"location_city"`
	LocationState string `json:"location_state"`
	Website       string `json:"website"`

	AnnualRevenue  string `json:"annual_revenue"`
	AnnualProfit   string `json:"annual_profit"`
	SDE            string `json:"sde"`
	AskingPrice    string `json:"asking_price"`
	Employees      string `json:"employees"`
	MonthlyLease   string `json:"monthly_lease"`
	InventoryValue string `json:"inventory_value"`
	EquipmentValue string `json:"equipment_value"`

	IncludesInventory  bool   `json:"includes_inventory"`
	IncludesBuilding   bool   `json:"includes_building"`
	RealEstateIncluded bool   `json:"real_estate_included"`
	Relocatable        bool   `json:"relocatable"`
	HomeBased          bool   `json:"home_based"`
	FinancingType      string `json:"financing_type"`

	BusinessDescription string `json:"business_description"`
	AIDescription       string `json:"ai_description"`
	DescriptionChoice   string `json:"description_choice"`

	CustomerType     string `json:"customer_type"`
	OwnerInvolvement string `json:"owner_involvement"`
	GrowthPotential  string `json:"growth_potential"`
	ReasonForSelling string `json:"reason_for_selling"`
	TrainingOffered  string `json:"training_offered"`
	SentenceSummary  string `json:"sentence_summary"`
	Customers        string `json:"customers"`
	BestSellers      string `json:"best_sellers"`
	CustomerLove     string `json:"customer_love"`
	RepeatCustomers  string `json:"repeat_customers"`
	KeepsThemComing  string `json:"keeps_them_coming"`
	ProudOf          string `json:"proud_of"`
	AdviceToBuyer    string `json:"advice_to_buyer"`
}

// UniqueEdge is the "what makes this business special" line fed to the
// description generator: customer love, falling back to the seller's own
// point of pride.
func (f FormData) UniqueEdge() string {
	if f.CustomerLove != "" {
		return f.CustomerLove
	}
	return f.ProudOf
}

// PendingImage is a selected image that has not been uploaded yet. Token is
// an ephemeral handle the client uses to display and remove the image before
// submission; nothing touches object storage until the draft is submitted.
type PendingImage struct {
	Token    string
	Filename string
	Data     []byte
}

// Draft is one seller's in-progress listing. Drafts are values: every
// transition returns a new Draft and never mutates the receiver, so a caller
// holding an old copy can always discard it and re-read from the store.
type Draft struct {
	ID      uuid.UUID
	OwnerID string

	// ListingID is set when the draft edits an existing listing; its
	// presence is the only thing distinguishing create from update.
	ListingID *uuid.UUID

	Stage  Stage
	Form   FormData
	Images []PendingImage

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDraft starts a fresh draft at step 1 with the form defaults the seller
// sees on first load.
func NewDraft(ownerID string) Draft {
	now := time.Now().UTC()
	return Draft{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Stage:   StageStep1,
		Form: FormData{
			FinancingType:     "buyer-financed",
			DescriptionChoice: "manual",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ErrInvalidTransition is returned when a stage change is not one of the
// enumerated legal transitions.
type ErrInvalidTransition struct {
	From   Stage
	Action string
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s from %s", e.Action, e.From)
}

func (d Draft) touched() Draft {
	d.UpdatedAt = time.Now().UTC()
	return d
}

// Next advances step 1 -> 2 or 2 -> 3.
func (d Draft) Next() (Draft, error) {
	switch d.Stage {
	case StageStep1:
		d.Stage = StageStep2
	case StageStep2:
		d.Stage = StageStep3
	default:
		return d, ErrInvalidTransition{From: d.Stage, Action: "advance"}
	}
	return d.touched(), nil
}

// Back returns step 3 -> 2 or 2 -> 1. There is no back from preview; use
// ExitPreview, which always lands on step 3.
func (d Draft) Back() (Draft, error) {
	switch d.Stage {
	case StageStep2:
		d.Stage = StageStep1
	case StageStep3:
		d.Stage = StageStep2
	default:
		return d, ErrInvalidTransition{From: d.Stage, Action: "go back"}
	}
	return d.touched(), nil
}

// EnterPreview moves from step 3 to the preview stage.
func (d Draft) EnterPreview() (Draft, error) {
	if d.Stage != StageStep3 {
		return d, ErrInvalidTransition{From: d.Stage, Action: "preview"}
	}
	d.Stage = StagePreview
	return d.touched(), nil
}

// ExitPreview is the "Edit" action: it always returns to step 3, never to
// earlier steps.
func (d Draft) ExitPreview() (Draft, error) {
	if d.Stage != StagePreview {
		return d, ErrInvalidTransition{From: d.Stage, Action: "edit"}
	}
	d.Stage = StageStep3
	return d.touched(), nil
}

// finishSubmit is the terminal transition, reachable only from preview. The
// pipeline calls it after the listing row is persisted.
func (d Draft) finishSubmit() (Draft, error) {
	if d.Stage != StagePreview {
		return d, ErrInvalidTransition{From: d.Stage, Action: "submit"}
	}
	d.Stage = StageSubmitted
	return d.touched(), nil
}

// WithForm replaces the form state. Allowed at any editing stage, including
// preview (the description choice is picked there).
func (d Draft) WithForm(f FormData) (Draft, error) {
	if d.Stage == StageSubmitted {
		return d, ErrInvalidTransition{From: d.Stage, Action: "edit form"}
	}
	d.Form = f
	return d.touched(), nil
}

// WithAIDescription merges a generated description into the draft without
// changing which description is marked for publication.
func (d Draft) WithAIDescription(text string) (Draft, error) {
	if d.Stage == StageSubmitted {
		return d, ErrInvalidTransition{From: d.Stage, Action: "set description"}
	}
	d.Form.AIDescription = text
	return d.touched(), nil
}

// AddImage queues a file for upload at submission time and hands back the
// token the client will use to reference it.
func (d Draft) AddImage(filename string, data []byte) (Draft, PendingImage, error) {
	if d.Stage == StageSubmitted {
		return d, PendingImage{}, ErrInvalidTransition{From: d.Stage, Action: "add image"}
	}
	img := PendingImage{
		Token:    uuid.NewString(),
		Filename: filename,
		Data:     data,
	}
	images := make([]PendingImage, 0, len(d.Images)+1)
	images = append(images, d.Images...)
	images = append(images, img)
	d.Images = images
	return d.touched(), img, nil
}

// RemoveImage drops a pending image by token. A removed image is never
// uploaded and never appears in the submitted listing. Removing an unknown
// token is a no-op.
func (d Draft) RemoveImage(token string) (Draft, error) {
	if d.Stage == StageSubmitted {
		return d, ErrInvalidTransition{From: d.Stage, Action: "remove image"}
	}
	images := make([]PendingImage, 0, len(d.Images))
	for _, img := range d.Images {
		if img.Token != token {
			images = append(images, img)
		}
	}
	d.Images = images
	return d.touched(), nil
}
