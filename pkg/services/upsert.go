package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/digitalocean/framer-hubspot/pkg/clients/hubspot"
	"github.com/digitalocean/framer-hubspot/pkg/models"
	"github.com/digitalocean/framer-hubspot/pkg/utils"
)

// Upsert outcomes
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDuplicate = "duplicate"
	ActionUnchanged = "unchanged"
)

// UpsertResult describes what the orchestrator did with one submission
type UpsertResult struct {
	Action    string `json:"action"`
	ContactID string `json:"contact_id,omitempty"`
	MatchedBy string `json:"matched_by,omitempty"`
}

// UpserterOptions configure a ContactUpserter
type UpserterOptions struct {
	// DefaultCompany fills in a missing company when a contact is created.
	// Updates never send it, so an existing company is not replaced by the
	// placeholder.
	DefaultCompany string
	NotesProperty  string
	Duplicates     DuplicateChecker
	Logger         *zap.Logger
	Now            func() time.Time
}

// ContactUpserter creates a contact or updates the one already holding the
// submission's email, or failing that its phone number.
type ContactUpserter struct {
	client         hubspot.Client
	defaultCompany string
	notesProperty  string
	duplicates     DuplicateChecker
	logger         *zap.Logger
	now            func() time.Time
}

// NewContactUpserter creates a new upsert orchestrator
func NewContactUpserter(client hubspot.Client, opts UpserterOptions) *ContactUpserter {
	if opts.NotesProperty == "" {
		opts.NotesProperty = models.PropNotes
	}
	if opts.Duplicates == nil {
		opts.Duplicates = NeverDuplicate{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &ContactUpserter{
		client:         client,
		defaultCompany: opts.DefaultCompany,
		notesProperty:  opts.NotesProperty,
		duplicates:     opts.Duplicates,
		logger:         opts.Logger,
		now:            opts.Now,
	}
}

// Upsert issues at most two searches followed by at most one create or update.
// No update is sent when the duplicate check suppresses it or nothing differs.
func (u *ContactUpserter) Upsert(ctx context.Context, props models.Properties, notes models.Notes) (*UpsertResult, error) {
	existing, matchedBy := u.find(ctx, props)
	if existing == nil {
		return u.create(ctx, props, notes)
	}

	current := existing.Properties[u.notesProperty]
	if len(notes) > 0 && u.duplicates.IsDuplicate(current, notes) {
		u.logger.Info("repeat submission, update suppressed",
			zap.String("contact_id", existing.ID),
			zap.String("matched_by", matchedBy))
		return &UpsertResult{Action: ActionDuplicate, ContactID: existing.ID, MatchedBy: matchedBy}, nil
	}

	patch, conflicts := u.diff(existing, props, matchedBy)
	incoming := append(append(models.Notes{}, notes...), conflicts...)
	if len(incoming) > 0 {
		patch[u.notesProperty] = MergeNotes(current, incoming.Join(), u.now())
	}

	if len(patch) == 0 {
		u.logger.Info("contact already up to date",
			zap.String("contact_id", existing.ID),
			zap.String("matched_by", matchedBy))
		return &UpsertResult{Action: ActionUnchanged, ContactID: existing.ID, MatchedBy: matchedBy}, nil
	}

	if _, err := u.client.UpdateContact(ctx, existing.ID, patch); err != nil {
		return nil, &UpsertError{Op: "update", Err: err}
	}

	return &UpsertResult{Action: ActionUpdated, ContactID: existing.ID, MatchedBy: matchedBy}, nil
}

// diff returns the properties whose value differs from the stored contact.
// A phone match may be a different person sharing the number, so values the
// contact already holds are kept and the submitted ones become notes.
func (u *ContactUpserter) diff(existing *hubspot.Contact, props models.Properties, matchedBy string) (models.Properties, models.Notes) {
	patch := models.Properties{}
	var conflicts models.Notes

	pruned := props.Prune()
	for _, key := range sortedKeys(pruned) {
		value := pruned[key]
		current := strings.TrimSpace(existing.Properties[key])
		switch {
		case strings.EqualFold(current, strings.TrimSpace(value)):
			continue
		case matchedBy == models.PropPhone && current != "":
			conflicts.Add("Submitted "+key, value)
			continue
		}
		patch[key] = value
	}
	return patch, conflicts
}

func sortedKeys(props models.Properties) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (u *ContactUpserter) create(ctx context.Context, props models.Properties, notes models.Notes) (*UpsertResult, error) {
	record := props.Prune()
	if !record.Has(models.PropCompany) && u.defaultCompany != "" {
		record[models.PropCompany] = u.defaultCompany
	}
	if len(notes) > 0 {
		record[u.notesProperty] = notes.Join()
	}

	id, err := u.client.CreateContact(ctx, record)
	if err != nil {
		return nil, &UpsertError{Op: "create", Err: err}
	}

	return &UpsertResult{Action: ActionCreated, ContactID: id}, nil
}

// find looks the contact up by email, then by phone. Failed searches count
// as misses.
func (u *ContactUpserter) find(ctx context.Context, props models.Properties) (*hubspot.Contact, string) {
	// Ask for every property we may patch so unchanged values can be skipped.
	requested := append(sortedKeys(props.Prune()), u.notesProperty)

	for _, key := range []string{models.PropEmail, models.PropPhone} {
		value := props.Get(key)
		if value == "" {
			continue
		}

		results, err := u.client.SearchContacts(ctx, key, value, requested...)
		if err != nil {
			u.logLookupFailure(&LookupError{Property: key, Err: err})
			continue
		}
		if len(results) > 0 {
			u.logger.Info("found existing contact",
				zap.String("contact_id", results[0].ID),
				zap.String("matched_by", key),
				zap.String("value_hash", utils.ShortHash(value)))
			return &results[0], key
		}
	}
	return nil, ""
}

func (u *ContactUpserter) logLookupFailure(err *LookupError) {
	fields := []zap.Field{zap.String("property", err.Property), zap.Error(err.Err)}
	var apiErr *hubspot.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.Int("status", apiErr.StatusCode), zap.String("response", apiErr.Body))
	}
	u.logger.Warn("contact lookup failed, treating as not found", fields...)
}
