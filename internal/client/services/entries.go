package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/harshal4412/ephemeral/internal/client/cache"
	"github.com/harshal4412/ephemeral/internal/client/models"
	"github.com/harshal4412/ephemeral/internal/client/remote"
	"github.com/harshal4412/ephemeral/internal/common"
	"github.com/harshal4412/ephemeral/internal/logging"
)

// EntryService is the synchronization layer between the entry cache and the
// remote store.
//
// Contract:
//   - FetchAll: every entry owned by the identity, never anyone else's.
//   - Refresh: FetchAll, then replace the cache — unless Invalidate ran in
//     between, in which case the stale result is discarded.
//   - Save: validated upsert keyed (owner, date); the cache reflects the
//     write only after the remote store acknowledged it.
//   - Delete: remove the (owner, date) record; cache mirrors on success.
//   - Invalidate: mark in-flight fetches stale (identity switch).
type EntryService interface {
	FetchAll(ctx context.Context, owner models.Identity) ([]models.Entry, error)
	Refresh(ctx context.Context, owner models.Identity) error
	Save(ctx context.Context, owner models.Identity, date string, mood models.Mood, note string, atts []models.Attachment) (models.Entry, error)
	Delete(ctx context.Context, owner models.Identity, date string) error
	Invalidate()
}

type entryService struct {
	store    remote.Store
	cache    *cache.EntryCache
	validate *validator.Validate
	log      logging.Logger
	gen      atomic.Int64
}

// NewEntryService constructs an EntryService writing through to store and
// mirroring acknowledged writes into c.
func NewEntryService(store remote.Store, c *cache.EntryCache, log logging.Logger) EntryService {
	return &entryService{
		store:    store,
		cache:    c,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// isTransient reports whether err is retryable by the caller.
func isTransient(err error) bool {
	return errors.Is(err, remote.ErrUnavailable)
}

// FetchAll returns every entry owned by owner. The owner filter travels
// with the request; records from any other owner are additionally dropped
// here so foreign data can never leak into the caller even if the remote
// filter misbehaves.
func (s *entryService) FetchAll(ctx context.Context, owner models.Identity) ([]models.Entry, error) {
	if owner.ID == "" {
		return nil, common.ErrorUnauthorized
	}

	recs, err := s.store.SelectEntries(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}

	out := make([]models.Entry, 0, len(recs))
	for _, r := range recs {
		if r.OwnerID != owner.ID {
			s.log.Error(ctx, "remote returned foreign record, dropping", "owner", owner.ID, "record_owner", r.OwnerID, "date", r.Date)
			continue
		}
		out = append(out, r.Entry())
	}
	return out, nil
}

// Refresh rebuilds the cache from a fresh fetch for owner. A fetch begun
// before an Invalidate call is discarded on completion instead of being
// applied to whatever identity is current by then. On fetch failure the
// cache keeps its last-known-good content.
func (s *entryService) Refresh(ctx context.Context, owner models.Identity) error {
	gen := s.gen.Load()

	entries, err := s.FetchAll(ctx, owner)
	if err != nil {
		return err
	}

	if s.gen.Load() != gen {
		s.log.Info(ctx, "discarding stale fetch result", "owner", owner.ID)
		return nil
	}
	return s.cache.Replace(owner.ID, entries)
}

// Save upserts the (owner, date) entry. The assembled entry is validated
// before any remote call; on remote failure the cache is untouched.
func (s *entryService) Save(ctx context.Context, owner models.Identity, date string, mood models.Mood, note string, atts []models.Attachment) (models.Entry, error) {
	if mood == "" {
		return models.Entry{}, fmt.Errorf("%w: mood is required", common.ErrorValidation)
	}

	e := models.Entry{
		Owner:       owner.ID,
		Date:        date,
		Mood:        mood,
		Note:        note,
		Attachments: atts,
	}
	if err := s.validate.Struct(e); err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	stored, err := s.store.UpsertEntry(ctx, remote.RecordFromEntry(e))
	if err != nil {
		return models.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	saved := stored.Entry()
	if err := s.cache.Put(saved); err != nil {
		// cache scoped to a different identity than the acknowledged write
		return models.Entry{}, err
	}
	return saved, nil
}

// Delete removes the (owner, date) record; the match is scoped by owner in
// the remote predicate, never assumed from UI state. The cache mirrors the
// removal only after the remote store confirmed it.
func (s *entryService) Delete(ctx context.Context, owner models.Identity, date string) error {
	if owner.ID == "" {
		return common.ErrorUnauthorized
	}

	if err := s.store.DeleteEntry(ctx, owner.ID, date); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	s.cache.Remove(date)
	return nil
}

// Invalidate marks every in-flight fetch stale. Called on identity switch
// so a slow fetch for the previous identity can never populate the next
// identity's cache.
func (s *entryService) Invalidate() {
	s.gen.Add(1)
}
