package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/staynest/listings-api/pkg/model"
	"github.com/staynest/listings-api/pkg/util"
)

const (
	ReviewsCollection = "reviews"
	ContactCollection = "contactRequests"
)

// ErrMissingFields is the validation failure reported to callers.
var ErrMissingFields = errors.New("missing required fields")

// ValidationError reports which field failed. Callers only see ErrMissingFields.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing or invalid field: " + e.Field
}

func (e *ValidationError) Unwrap() error {
	return ErrMissingFields
}

// Writer persists a new document and returns its id.
type Writer interface {
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
}

// Service accepts reviews and contact requests from the public forms.
type Service struct {
	store Writer
	log   zerolog.Logger
}

func NewService(store Writer, logger zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   logger.With().Str("component", "submission").Logger(),
	}
}

// PostReview validates and stores a hotel review.
func (s *Service) PostReview(ctx context.Context, r model.Review) (string, error) {
	if util.NeedsCleanup(r.UserName, r.Comment) {
		s.log.Debug().Str("hotelId", r.HotelID).Msg("cleaning review text")
	}
	r.HotelID = util.CleanText(r.HotelID)
	r.UserID = util.CleanText(r.UserID)
	r.UserName = util.CleanText(r.UserName)
	r.Comment = util.CleanText(r.Comment)

	if err := validateReview(r); err != nil {
		return "", err
	}

	id, err := s.store.Add(ctx, ReviewsCollection, map[string]any{
		"hotelId":  r.HotelID,
		"userId":   r.UserID,
		"userName": r.UserName,
		"rating":   r.Rating,
		"comment":  r.Comment,
	})
	if err != nil {
		return "", fmt.Errorf("store review: %w", err)
	}
	return id, nil
}

// SubmitContact validates and stores a contact request.
func (s *Service) SubmitContact(ctx context.Context, c model.ContactRequest) (string, error) {
	c.Name = util.CleanText(c.Name)
	c.Phone = util.CleanPhone(c.Phone)
	c.Description = util.CleanText(c.Description)

	switch {
	case c.Name == "":
		return "", &ValidationError{Field: "name"}
	case c.Phone == "":
		return "", &ValidationError{Field: "phone"}
	case c.Description == "":
		return "", &ValidationError{Field: "description"}
	}

	id, err := s.store.Add(ctx, ContactCollection, map[string]any{
		"name":        c.Name,
		"phone":       c.Phone,
		"description": c.Description,
	})
	if err != nil {
		return "", fmt.Errorf("store contact request: %w", err)
	}
	return id, nil
}

func validateReview(r model.Review) error {
	switch {
	case r.HotelID == "":
		return &ValidationError{Field: "hotelId"}
	case r.UserID == "":
		return &ValidationError{Field: "userId"}
	case r.UserName == "":
		return &ValidationError{Field: "userName"}
	case r.Comment == "":
		return &ValidationError{Field: "comment"}
	case r.Rating < 1 || r.Rating > 5:
		return &ValidationError{Field: "rating"}
	}
	return nil
}
