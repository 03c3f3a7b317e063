package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/harshal4412/ephemeral/internal/client/models"
	"github.com/harshal4412/ephemeral/internal/client/services"
	"github.com/harshal4412/ephemeral/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDraft struct {
	snap      services.Draft
	commitErr error
	attachErr error

	moods    []models.Mood
	notes    []string
	attached [][]string
	removed  []int
	resets   int
}

func (f *fakeDraft) SeedToday(entry *models.Entry)  {}
func (f *fakeDraft) LoadForEdit(entry models.Entry) {}
func (f *fakeDraft) SetMood(m models.Mood) error {
	f.moods = append(f.moods, m)
	return nil
}
func (f *fakeDraft) SetNote(note string) { f.notes = append(f.notes, note) }
func (f *fakeDraft) Attach(ctx context.Context, paths []string) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attached = append(f.attached, paths)
	return nil
}
func (f *fakeDraft) RemoveAttachment(i int) error {
	if i < 0 {
		return common.ErrorValidation
	}
	f.removed = append(f.removed, i)
	return nil
}
func (f *fakeDraft) Commit(ctx context.Context) (models.Entry, error) {
	if f.commitErr != nil {
		return models.Entry{}, f.commitErr
	}
	return models.Entry{}, nil
}
func (f *fakeDraft) Reset()                  { f.resets++ }
func (f *fakeDraft) Snapshot() services.Draft { return f.snap }

type fakeJournal struct {
	entries   []models.Entry
	editErr   error
	deleteErr error

	edited  []string
	deleted []string
}

func (f *fakeJournal) Start(ctx context.Context) error { return nil }
func (f *fakeJournal) Stop()                           {}
func (f *fakeJournal) Entries() []models.Entry         { return f.entries }
func (f *fakeJournal) Entry(date string) (models.Entry, bool) {
	for _, e := range f.entries {
		if e.Date == date {
			return e, true
		}
	}
	return models.Entry{}, false
}
func (f *fakeJournal) Today() string { return "2024-03-05" }
func (f *fakeJournal) Edit(date string) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edited = append(f.edited, date)
	return nil
}
func (f *fakeJournal) Delete(ctx context.Context, date string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, date)
	return nil
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimRight(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func joined(lines *[]string) string { return strings.Join(*lines, "\n") }

func TestMoodCommand(t *testing.T) {
	out := captureOutput(t)
	fd := &fakeDraft{}
	a := &App{draft: fd}

	require.NoError(t, a.Mood(context.Background(), []string{"blast"}))
	require.Len(t, fd.moods, 1)
	assert.Equal(t, models.MoodBlast, fd.moods[0])
	assert.Contains(t, joined(out), "LESSGOOO")
}

func TestMoodCommand_NoArgsListsCatalog(t *testing.T) {
	out := captureOutput(t)
	a := &App{draft: &fakeDraft{}}

	require.NoError(t, a.Mood(context.Background(), nil))
	s := joined(out)
	assert.Contains(t, s, "Freaking Blast")
	assert.Contains(t, s, "We Go Again")
}

func TestMoodCommand_Unknown(t *testing.T) {
	out := captureOutput(t)
	fd := &fakeDraft{}
	a := &App{draft: fd}

	require.Error(t, a.Mood(context.Background(), []string{"meh"}))
	assert.Empty(t, fd.moods)
	assert.Contains(t, joined(out), "Unknown mood")
}

func TestNoteCommand(t *testing.T) {
	_ = captureOutput(t)
	fd := &fakeDraft{}
	a := &App{draft: fd, reader: rdr("hello\nworld\n\n")}

	require.NoError(t, a.Note(context.Background()))
	require.Len(t, fd.notes, 1)
	assert.Equal(t, "hello\nworld", fd.notes[0])
}

func TestUnattachCommand_OneBasedIndex(t *testing.T) {
	_ = captureOutput(t)
	fd := &fakeDraft{}
	a := &App{draft: fd}

	require.NoError(t, a.Unattach(context.Background(), []string{"2"}))
	require.Len(t, fd.removed, 1)
	assert.Equal(t, 1, fd.removed[0], "user-facing indexes are 1-based")

	require.Error(t, a.Unattach(context.Background(), []string{"0"}))
	require.Error(t, a.Unattach(context.Background(), []string{"x"}))
}

func TestSaveCommand_ValidationMessage(t *testing.T) {
	out := captureOutput(t)
	fd := &fakeDraft{commitErr: fmt.Errorf("%w: pick a mood", common.ErrorValidation)}
	a := &App{draft: fd}

	require.Error(t, a.Save(context.Background()))
	assert.Contains(t, joined(out), "Pick a mood")
}

func TestSaveCommand_Success(t *testing.T) {
	out := captureOutput(t)
	a := &App{draft: &fakeDraft{}}

	require.NoError(t, a.Save(context.Background()))
	assert.Contains(t, joined(out), "Entry Saved!")
}

func TestTimelineCommand(t *testing.T) {
	out := captureOutput(t)
	fj := &fakeJournal{entries: []models.Entry{
		{Owner: "u1", Date: "2024-03-01", Mood: models.MoodBlast, Note: "great"},
		{Owner: "u1", Date: "2024-03-02", Mood: models.MoodTomorrow, Note: "rough"},
	}}
	a := &App{journal: fj}

	require.NoError(t, a.Timeline(context.Background()))
	// the table itself goes to color.Output, the empty-state line through printlnFn
	assert.NotContains(t, joined(out), "No entries yet.")
}

func TestTimelineCommand_Empty(t *testing.T) {
	out := captureOutput(t)
	a := &App{journal: &fakeJournal{}}

	require.NoError(t, a.Timeline(context.Background()))
	assert.Contains(t, joined(out), "No entries yet.")
}

func TestShowCommand(t *testing.T) {
	out := captureOutput(t)
	fj := &fakeJournal{entries: []models.Entry{
		{Owner: "u1", Date: "2024-03-01", Mood: models.MoodFun, Note: "a fine day", Attachments: []models.Attachment{"data:image/png;base64,xxxx"}},
	}}
	a := &App{journal: fj}

	require.NoError(t, a.Show(context.Background(), []string{"2024-03-01"}))
	s := joined(out)
	assert.Contains(t, s, "a fine day")
	assert.Contains(t, s, "[1] image")

	require.Error(t, a.Show(context.Background(), []string{"1999-01-01"}))
}

func TestEditCommand(t *testing.T) {
	out := captureOutput(t)
	fj := &fakeJournal{}
	a := &App{journal: fj}

	require.NoError(t, a.Edit(context.Background(), []string{"2024-03-01"}))
	assert.Equal(t, []string{"2024-03-01"}, fj.edited)

	fj.editErr = common.ErrorNotFound
	require.Error(t, a.Edit(context.Background(), []string{"1999-01-01"}))
	assert.Contains(t, joined(out), "No entry for")
}

func TestDeleteCommand(t *testing.T) {
	out := captureOutput(t)
	fj := &fakeJournal{}
	a := &App{journal: fj}

	require.NoError(t, a.Delete(context.Background(), []string{"2024-03-01"}))
	assert.Equal(t, []string{"2024-03-01"}, fj.deleted)

	fj.deleteErr = common.ErrorUnauthorized
	require.Error(t, a.Delete(context.Background(), []string{"2024-03-02"}))
	assert.Contains(t, joined(out), "Log in first.")
}

func TestTruncate_MultibyteNotes(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))

	got := truncate(strings.Repeat("я", 50), 10)
	assert.Equal(t, []rune(got)[:9], []rune(strings.Repeat("я", 9)), "cut on runes, not bytes")
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Len(t, []rune(got), 10)

	// exactly at the limit stays whole
	assert.Equal(t, strings.Repeat("日", 40), truncate(strings.Repeat("日", 40), 40))
}

func TestDraftCommand_ShowsAck(t *testing.T) {
	out := captureOutput(t)
	fd := &fakeDraft{snap: services.Draft{
		Date:  "2024-03-01",
		Mood:  models.MoodBetter,
		Note:  "keep going",
		Saved: true,
	}}
	a := &App{draft: fd}

	require.NoError(t, a.Draft(context.Background()))
	s := joined(out)
	assert.Contains(t, s, "Could Be Better")
	assert.Contains(t, s, "keep going")
	assert.Contains(t, s, "Entry Saved!")
}
