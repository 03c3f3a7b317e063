package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harshal4412/ephemeral/internal/client/attachments"
	"github.com/harshal4412/ephemeral/internal/client/models"
	"github.com/harshal4412/ephemeral/internal/common"
)

// DefaultSavedAckInterval is how long the transient "saved" acknowledgment
// stays up after a successful commit.
const DefaultSavedAckInterval = 2 * time.Second

// Draft is a read-only snapshot of the in-progress entry state.
type Draft struct {
	// Date is the calendar day a commit will save under. Today unless the
	// draft was repointed at a past entry via LoadForEdit.
	Date        string
	Mood        models.Mood
	Note        string
	Attachments []models.Attachment

	// Saved reports the transient post-commit acknowledgment.
	Saved bool
	// Editing reports that the draft targets a past entry, not today.
	Editing bool
}

// DraftService holds the transient, unpersisted state the user is
// composing. Mutations are purely local; only Commit touches the remote
// store, through EntryService.
type DraftService interface {
	SeedToday(entry *models.Entry)
	LoadForEdit(entry models.Entry)
	SetMood(m models.Mood) error
	SetNote(note string)
	Attach(ctx context.Context, paths []string) error
	RemoveAttachment(i int) error
	Commit(ctx context.Context) (models.Entry, error)
	Reset()
	Snapshot() Draft
}

type draftService struct {
	entries EntryService
	// current yields the identity a commit is scoped to; nil when logged out.
	current     func() *models.Identity
	ackInterval time.Duration

	mu       sync.Mutex
	date     string
	editing  bool
	mood     models.Mood
	note     string
	atts     []models.Attachment
	saved    bool
	ackTimer *time.Timer
}

// NewDraftService constructs a DraftService committing through entries,
// scoped to the identity returned by current at commit time. ackInterval
// <= 0 falls back to DefaultSavedAckInterval.
func NewDraftService(entries EntryService, current func() *models.Identity, ackInterval time.Duration) DraftService {
	if ackInterval <= 0 {
		ackInterval = DefaultSavedAckInterval
	}
	return &draftService{
		entries:     entries,
		current:     current,
		ackInterval: ackInterval,
		date:        models.Day(nowFn()),
	}
}

// SeedToday points the draft at today and fills it from today's cached
// entry, or clears it when there is none.
func (d *draftService) SeedToday(entry *models.Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.date = models.Day(nowFn())
	d.editing = false
	d.stopAckLocked()

	if entry == nil {
		d.mood = ""
		d.note = ""
		d.atts = nil
		return
	}
	d.mood = entry.Mood
	d.note = entry.Note
	d.atts = append([]models.Attachment(nil), entry.Attachments...)
}

// LoadForEdit repoints the draft at an existing entry's date. A subsequent
// Commit saves under that original date, not today.
func (d *draftService) LoadForEdit(entry models.Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.date = entry.Date
	d.editing = entry.Date != models.Day(nowFn())
	d.mood = entry.Mood
	d.note = entry.Note
	d.atts = append([]models.Attachment(nil), entry.Attachments...)
	d.stopAckLocked()
}

func (d *draftService) SetMood(m models.Mood) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %v", common.ErrorValidation, models.ErrUnknownMood)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mood = m
	return nil
}

func (d *draftService) SetNote(note string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.note = note
}

// Attach encodes the selected files and appends them to the draft as each
// finishes. The whole batch is rejected when it would exceed the
// per-entry attachment cap; the draft is untouched in that case.
func (d *draftService) Attach(ctx context.Context, paths []string) error {
	d.mu.Lock()
	current := len(d.atts)
	d.mu.Unlock()

	encoded, err := attachments.Encode(ctx, current, paths)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.atts = append(d.atts, encoded...)
	return nil
}

// RemoveAttachment drops the attachment at index i. Purely local; the
// remote record changes on the next Commit.
func (d *draftService) RemoveAttachment(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i < 0 || i >= len(d.atts) {
		return fmt.Errorf("%w: no attachment at index %d", common.ErrorValidation, i)
	}
	d.atts = append(d.atts[:i], d.atts[i+1:]...)
	return nil
}

// Commit validates the draft and saves it under the draft's target date.
// A draft without a mood fails validation before any remote call. On
// success the draft keeps the saved values and raises the transient
// "saved" acknowledgment.
func (d *draftService) Commit(ctx context.Context) (models.Entry, error) {
	d.mu.Lock()
	date, mood, note := d.date, d.mood, d.note
	atts := append([]models.Attachment(nil), d.atts...)
	d.mu.Unlock()

	if mood == "" {
		return models.Entry{}, fmt.Errorf("%w: pick a mood before saving", common.ErrorValidation)
	}

	owner := d.current()
	if owner == nil {
		return models.Entry{}, common.ErrorUnauthorized
	}

	saved, err := d.entries.Save(ctx, *owner, date, mood, note, atts)
	if err != nil {
		return models.Entry{}, err
	}

	d.mu.Lock()
	d.stopAckLocked()
	d.saved = true
	d.ackTimer = time.AfterFunc(d.ackInterval, func() {
		d.mu.Lock()
		d.saved = false
		d.mu.Unlock()
	})
	d.mu.Unlock()

	return saved, nil
}

// Reset clears the draft to its logged-out state.
func (d *draftService) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.date = models.Day(nowFn())
	d.editing = false
	d.mood = ""
	d.note = ""
	d.atts = nil
	d.saved = false
	d.stopAckLocked()
}

func (d *draftService) Snapshot() Draft {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Draft{
		Date:        d.date,
		Mood:        d.mood,
		Note:        d.note,
		Attachments: append([]models.Attachment(nil), d.atts...),
		Saved:       d.saved,
		Editing:     d.editing,
	}
}

// stopAckLocked cancels a pending acknowledgment expiry. Caller holds d.mu.
func (d *draftService) stopAckLocked() {
	if d.ackTimer != nil {
		d.ackTimer.Stop()
		d.ackTimer = nil
	}
	d.saved = false
}

// Greeting returns the writer prompt for the time of day.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "How is your morning starting?"
	case h < 17:
		return "How is your afternoon going?"
	default:
		return "How was your day?"
	}
}
