package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/digitalocean/framer-hubspot/pkg/clients/hubspot"
	"github.com/digitalocean/framer-hubspot/pkg/models"
	"github.com/digitalocean/framer-hubspot/pkg/normalize"
	"github.com/digitalocean/framer-hubspot/pkg/utils"
)

// Classifier maps a raw submission onto contact properties and notes
type Classifier interface {
	Classify(raw models.RawSubmission) (models.Properties, models.Notes)
}

// Upserter writes classified properties to the CRM
type Upserter interface {
	Upsert(ctx context.Context, props models.Properties, notes models.Notes) (*UpsertResult, error)
}

// SubmissionService defines the interface for handling form submissions
type SubmissionService interface {
	ProcessSubmission(ctx context.Context, raw models.RawSubmission) (*UpsertResult, error)
}

type submissionServiceImpl struct {
	classifier Classifier
	upserter   Upserter
	phone      *normalize.PhoneNormalizer
	configured bool
	logger     *zap.Logger
}

// NewSubmissionService creates a new submission service. configured is false
// when no CRM credentials exist; every submission then fails with
// ErrNotConfigured before classification results reach the network.
func NewSubmissionService(
	classifier Classifier,
	upserter Upserter,
	phone *normalize.PhoneNormalizer,
	configured bool,
	logger *zap.Logger,
) SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &submissionServiceImpl{
		classifier: classifier,
		upserter:   upserter,
		phone:      phone,
		configured: configured,
		logger:     logger,
	}
}

// ProcessSubmission classifies, validates and upserts one submission
func (s *submissionServiceImpl) ProcessSubmission(ctx context.Context, raw models.RawSubmission) (*UpsertResult, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	props, notes := s.classifier.Classify(raw)
	email := props.Get(models.PropEmail)

	log := s.logger.With(
		zap.String("email_hash", utils.ShortHash(email)),
		zap.Int("fields", len(raw)),
		zap.Int("mapped", len(props)),
		zap.Int("notes", len(notes)))

	if email == "" {
		err := NewValidationError(models.PropEmail)
		log.Warn("submission rejected", zap.Error(err))
		return nil, err
	}

	if phone := props.Get(models.PropPhone); phone != "" && s.phone != nil && !s.phone.Plausible(phone) {
		log.Warn("phone number has an unexpected length", zap.String("phone_hash", utils.ShortHash(phone)))
	}

	result, err := s.upserter.Upsert(ctx, props, notes)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		var apiErr *hubspot.APIError
		if errors.As(err, &apiErr) {
			fields = append(fields, zap.Int("status", apiErr.StatusCode), zap.String("response", apiErr.Body))
		}
		log.Error("contact upsert failed", fields...)
		return nil, err
	}

	log.Info("submission processed",
		zap.String("action", result.Action),
		zap.String("contact_id", result.ContactID),
		zap.String("matched_by", result.MatchedBy))
	return result, nil
}
