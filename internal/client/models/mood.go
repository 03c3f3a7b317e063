package models

import (
	"errors"
	"fmt"
)

// Mood classifies how the day went. The set is closed; anything else is
// rejected before reaching the remote store.
type Mood string

const (
	MoodBlast    Mood = "blast"
	MoodFun      Mood = "fun"
	MoodBetter   Mood = "better"
	MoodTomorrow Mood = "tomorrow"
)

var ErrUnknownMood = errors.New("unknown mood")

// MoodInfo is the static display configuration for a mood code. It is
// catalog data, not per-entry state.
type MoodInfo struct {
	Label string
	Color string
	Desc  string
}

// MoodCatalog maps every valid mood code to its display configuration.
var MoodCatalog = map[Mood]MoodInfo{
	MoodBlast:    {Label: "Freaking Blast", Color: "#2ecc71", Desc: "LESSGOOO"},
	MoodFun:      {Label: "Had Fun", Color: "#f1c40f", Desc: "All Good"},
	MoodBetter:   {Label: "Could Be Better", Color: "#e67e22", Desc: "Keep Pushing"},
	MoodTomorrow: {Label: "We Go Again", Color: "#e74c3c", Desc: "It's Not Over Yet"},
}

// Valid reports whether m is one of the catalog moods.
func (m Mood) Valid() bool {
	_, ok := MoodCatalog[m]
	return ok
}

// Info returns the display configuration for m. Zero value for unknown moods.
func (m Mood) Info() MoodInfo {
	return MoodCatalog[m]
}

// ParseMood converts user input into a Mood, or ErrUnknownMood.
func ParseMood(s string) (Mood, error) {
	m := Mood(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMood, s)
	}
	return m, nil
}
