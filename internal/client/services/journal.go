package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/harshal4412/ephemeral/internal/client/cache"
	"github.com/harshal4412/ephemeral/internal/client/models"
	"github.com/harshal4412/ephemeral/internal/common"
	"github.com/harshal4412/ephemeral/internal/logging"
)

// JournalService ties the session, the entry cache, the sync layer and the
// draft together, and exposes the read surface the presentation layer
// renders from.
//
// On every identity transition it invalidates in-flight fetches, tears the
// previous identity's cache and draft down, and (for a login or account
// switch) refetches the new identity's entries and reseeds the draft from
// today's entry. No entry of a previous identity is ever visible once the
// transition is processed.
type JournalService interface {
	// Start restores a persisted session and begins reacting to identity
	// transitions. It returns once the initial state is settled.
	Start(ctx context.Context) error
	// Stop ends the reaction loop. The session itself is not ended.
	Stop()

	Entries() []models.Entry
	Entry(date string) (models.Entry, bool)
	Today() string

	// Edit repoints the draft at the cached entry for date.
	Edit(date string) error
	// Delete removes the entry for date, remote first, cache after.
	Delete(ctx context.Context, date string) error
}

type journalService struct {
	auth    AuthService
	entries EntryService
	draft   DraftService
	cache   *cache.EntryCache
	log     logging.Logger

	unsubscribe func()
	done        chan struct{}
	stopOnce    sync.Once
}

func NewJournalService(auth AuthService, entries EntryService, draft DraftService, c *cache.EntryCache, log logging.Logger) JournalService {
	return &journalService{auth: auth, entries: entries, draft: draft, cache: c, log: log}
}

func (j *journalService) Start(ctx context.Context) error {
	// Subscribe before restoring so the restore transition (if any) flows
	// through the same path as every later one.
	ch, unsub := j.auth.Subscribe()
	j.unsubscribe = unsub
	j.done = make(chan struct{})

	go j.loop(ch, j.done)

	if err := j.auth.Restore(ctx); err != nil {
		// A transient failure here just means we start logged out with the
		// persisted session intact for the next attempt.
		j.log.Warn(ctx, "session restore failed", "err", err)
	}
	return nil
}

// Stop is idempotent; the fields stay set so the reaction goroutine never
// observes a half-torn-down service.
func (j *journalService) Stop() {
	j.stopOnce.Do(func() {
		if j.unsubscribe != nil {
			j.unsubscribe()
		}
		if j.done != nil {
			close(j.done)
		}
	})
}

func (j *journalService) loop(ch <-chan SessionChange, done <-chan struct{}) {
	for {
		select {
		case change := <-ch:
			j.handle(change)
		case <-done:
			return
		}
	}
}

func (j *journalService) handle(change SessionChange) {
	ctx := context.Background()

	// Whatever the transition, results of fetches begun under the previous
	// identity must never land in the new state.
	j.entries.Invalidate()
	j.cache.Clear()
	j.draft.Reset()

	if change.Current == nil {
		return
	}

	owner := *change.Current
	if err := j.entries.Refresh(ctx, owner); err != nil {
		j.log.Warn(ctx, "initial refresh failed", "owner", owner.ID, "err", err)
		return
	}
	j.seedToday()
	j.log.Info(ctx, "journal ready", "owner", owner.ID, "entries", j.cache.Len())
}

func (j *journalService) seedToday() {
	if e, ok := j.cache.Get(j.Today()); ok {
		j.draft.SeedToday(&e)
	} else {
		j.draft.SeedToday(nil)
	}
}

func (j *journalService) Entries() []models.Entry {
	return j.cache.All()
}

func (j *journalService) Entry(date string) (models.Entry, bool) {
	return j.cache.Get(date)
}

func (j *journalService) Today() string {
	return models.Day(nowFn())
}

func (j *journalService) Edit(date string) error {
	e, ok := j.cache.Get(date)
	if !ok {
		return fmt.Errorf("%w: no entry for %s", common.ErrorNotFound, date)
	}
	j.draft.LoadForEdit(e)
	return nil
}

func (j *journalService) Delete(ctx context.Context, date string) error {
	owner := j.auth.Current()
	if owner == nil {
		return common.ErrorUnauthorized
	}

	if err := j.entries.Delete(ctx, *owner, date); err != nil {
		return err
	}

	// If the removed day is what the draft was pointed at, fall back to a
	// clean "today" draft.
	if j.draft.Snapshot().Date == date {
		j.seedToday()
	}
	return nil
}
