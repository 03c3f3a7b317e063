package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/harshal4412/ephemeral/internal/client/models"
	"github.com/harshal4412/ephemeral/internal/common"
)

// moodPrinter maps a mood's catalog color to a terminal color.
func moodPrinter(m models.Mood) *color.Color {
	hex := m.Info().Color
	if len(hex) != 7 || hex[0] != '#' {
		return color.New(color.Reset)
	}
	r, _ := strconv.ParseUint(hex[1:3], 16, 8)
	g, _ := strconv.ParseUint(hex[3:5], 16, 8)
	b, _ := strconv.ParseUint(hex[5:7], 16, 8)
	return color.RGB(int(r), int(g), int(b))
}

// truncate shortens free-form note text to n runes; byte slicing would cut
// multibyte characters in half.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Timeline lists every saved entry, newest first.
func (a *App) Timeline(ctx context.Context) error {
	entries := a.journal.Entries()
	if len(entries) == 0 {
		printlnFn("No entries yet.")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("DATE", "MOOD", "NOTE", "IMAGES")

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		imgs := ""
		if n := len(e.Attachments); n > 0 {
			imgs = strconv.Itoa(n)
		}
		tbl.AddRow(e.Date, moodPrinter(e.Mood).Sprint(e.Mood.Info().Label), truncate(e.Note, 40), imgs)
	}

	_, _ = fmt.Fprintln(color.Output, tbl)
	return nil
}

// Show prints one entry in full.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: show <date> (e.g. show 2024-03-01)")
		return nil
	}

	e, ok := a.journal.Entry(args[0])
	if !ok {
		printlnFn("No entry for", args[0])
		return fmt.Errorf("%w: %s", common.ErrorNotFound, args[0])
	}

	printlnFn(e.Date)
	printlnFn("Mood:", moodPrinter(e.Mood).Sprint(e.Mood.Info().Label))
	if e.Note != "" {
		printlnFn(e.Note)
	}
	for i, att := range e.Attachments {
		printlnFn(fmt.Sprintf("  [%d] image (%d bytes)", i+1, len(att)))
	}
	return nil
}

// Edit repoints the draft at a past entry; a following save keeps the
// entry's original date.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: edit <date>")
		return nil
	}

	if err := a.journal.Edit(args[0]); err != nil {
		printlnFn("No entry for", args[0])
		return err
	}

	printlnFn("Editing", args[0], "- change mood/note/attachments, then 'save'.")
	return nil
}

// Delete removes an entry for good.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: delete <date>")
		return nil
	}

	if err := a.journal.Delete(ctx, args[0]); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			printlnFn("Log in first.")
		} else {
			printlnFn("Delete failed:", err.Error())
		}
		return err
	}

	printlnFn("Deleted", args[0])
	return nil
}
