package remote

import "github.com/harshal4412/ephemeral/internal/client/models"

// Record is the wire shape of one journal entry. ID is assigned by the
// remote store; the client treats (OwnerID, Date) as the record's key.
type Record struct {
	ID      string   `json:"id,omitempty"`
	OwnerID string   `json:"user_id"`
	Date    string   `json:"date"`
	Mood    string   `json:"mood"`
	Note    string   `json:"note"`
	Images  []string `json:"images"`
}

// RecordFromEntry converts a domain entry into its wire shape.
func RecordFromEntry(e models.Entry) Record {
	images := make([]string, 0, len(e.Attachments))
	for _, a := range e.Attachments {
		images = append(images, string(a))
	}
	return Record{
		OwnerID: e.Owner,
		Date:    e.Date,
		Mood:    string(e.Mood),
		Note:    e.Note,
		Images:  images,
	}
}

// Entry converts a wire record into a domain entry.
func (r Record) Entry() models.Entry {
	atts := make([]models.Attachment, 0, len(r.Images))
	for _, img := range r.Images {
		atts = append(atts, models.Attachment(img))
	}
	return models.Entry{
		Owner:       r.OwnerID,
		Date:        r.Date,
		Mood:        models.Mood(r.Mood),
		Note:        r.Note,
		Attachments: atts,
	}
}
