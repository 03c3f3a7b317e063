package models

import "time"

// DateLayout is the calendar-day key format used throughout the client and
// on the wire.
const DateLayout = "2006-01-02"

// MaxAttachments caps the number of inline images per entry.
const MaxAttachments = 3

// Attachment is a self-contained inline-encoded image
// ("data:image/png;base64,...").
type Attachment string

// Entry is one persisted mood/note/attachment record for one user on one
// calendar day. (Owner, Date) is the entry's identity and never changes
// after creation; Mood, Note and Attachments are replaced wholesale on
// every save.
type Entry struct {
	// Owner is the id of the identity the entry belongs to.
	Owner string `validate:"required"`

	// Date is the calendar day in DateLayout form; the entry's key within
	// the owner's scope.
	Date string `validate:"required,datetime=2006-01-02"`

	Mood Mood   `validate:"required,oneof=blast fun better tomorrow"`
	Note string

	// Attachments preserves stored order; at most MaxAttachments elements.
	Attachments []Attachment `validate:"max=3"`
}

// Day formats a point in time as a calendar-day key.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}
