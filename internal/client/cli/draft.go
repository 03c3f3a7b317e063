package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/harshal4412/ephemeral/internal/client/models"
	"github.com/harshal4412/ephemeral/internal/common"
)

// Mood sets the draft's mood. Without an argument it lists the catalog.
func (a *App) Mood(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: mood <code>")
		for _, m := range []models.Mood{models.MoodBlast, models.MoodFun, models.MoodBetter, models.MoodTomorrow} {
			info := m.Info()
			printlnFn(fmt.Sprintf("  %-8s  %s", m, moodPrinter(m).Sprint(info.Label)))
		}
		return nil
	}

	m, err := models.ParseMood(args[0])
	if err != nil {
		printlnFn("Unknown mood:", args[0])
		return err
	}
	if err := a.draft.SetMood(m); err != nil {
		return err
	}

	printlnFn(moodPrinter(m).Sprint(m.Info().Desc))
	return nil
}

// Note reads a multi-line note body into the draft.
func (a *App) Note(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Write about your day", os.Stdout)
	if err != nil {
		return err
	}
	a.draft.SetNote(text)
	return nil
}

// Attach encodes the given image files into the draft. The whole batch is
// refused when it would push the draft over the attachment cap.
func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: attach <path> [path...]")
		return nil
	}

	if err := a.draft.Attach(ctx, args); err != nil {
		printlnFn("Attach failed:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Attached %d file(s).", len(args)))
	return nil
}

// Unattach removes one attachment from the draft. Indexes are 1-based as
// shown by the draft command.
func (a *App) Unattach(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: unattach <n>")
		return nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		printlnFn("Not a number:", args[0])
		return err
	}

	if err := a.draft.RemoveAttachment(n - 1); err != nil {
		printlnFn("No attachment", args[0])
		return err
	}
	return nil
}

// Draft prints the entry being composed.
func (a *App) Draft(ctx context.Context) error {
	snap := a.draft.Snapshot()

	header := "Today, " + snap.Date
	if snap.Editing {
		header = "Editing " + snap.Date
	}
	printlnFn(header)

	if snap.Mood == "" {
		printlnFn("Mood: (not set)")
	} else {
		printlnFn("Mood:", moodPrinter(snap.Mood).Sprint(snap.Mood.Info().Label))
	}
	if snap.Note != "" {
		printlnFn(snap.Note)
	}
	for i, att := range snap.Attachments {
		printlnFn(fmt.Sprintf("  [%d] image (%d bytes)", i+1, len(att)))
	}
	if snap.Saved {
		printlnFn("Entry Saved!")
	}
	return nil
}

// Save commits the draft.
func (a *App) Save(ctx context.Context) error {
	if _, err := a.draft.Commit(ctx); err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			printlnFn("Pick a mood before saving (see 'mood').")
		case errors.Is(err, common.ErrorUnauthorized):
			printlnFn("Log in first.")
		default:
			printlnFn("Save failed:", err.Error())
		}
		return err
	}

	printlnFn("Entry Saved!")
	return nil
}
