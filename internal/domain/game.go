package domain

import (
	"encoding/json"
	"strings"

	"github.com/kitbuilder587/gamelookup/internal/htmltext"
)

// RawRecord is one game entry exactly as decoded from the upstream response.
type RawRecord map[string]any

// Keys of RawRecord that GameSummary keeps.
const (
	FieldName            = "name"
	FieldReleased        = "released"
	FieldRating          = "rating"
	FieldDescription     = "description"
	FieldBackgroundImage = "background_image"
)

// GameSummary is the display-ready projection of a RawRecord. A nil field
// means the record lacked the key or carried a value of the wrong type.
type GameSummary struct {
	Name            *string  `json:"name"`
	Released        *string  `json:"released"`
	Rating          *float64 `json:"rating"`
	Description     *string  `json:"description"`
	BackgroundImage *string  `json:"background_image"`
}

// Project extracts the summary fields from rec. It never fails.
func Project(rec RawRecord) GameSummary {
	s, _ := ProjectWithStatus(rec)
	return s
}

// ProjectWithStatus is Project that also reports whether HTML stripping of
// the description fell back to the raw text.
func ProjectWithStatus(rec RawRecord) (GameSummary, bool) {
	s := GameSummary{
		Name:            stringField(rec, FieldName),
		Released:        stringField(rec, FieldReleased),
		Rating:          numberField(rec, FieldRating),
		BackgroundImage: stringField(rec, FieldBackgroundImage),
	}

	var degraded bool
	if desc := stringField(rec, FieldDescription); desc != nil {
		text, fellBack := htmltext.StripWithStatus(*desc)
		s.Description = &text
		degraded = fellBack
	}

	return s, degraded
}

func stringField(rec RawRecord, key string) *string {
	v, ok := rec[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func numberField(rec RawRecord, key string) *float64 {
	switch v := rec[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

// DisplayName returns the name or a placeholder.
func (s GameSummary) DisplayName() string {
	if s.Name == nil || strings.TrimSpace(*s.Name) == "" {
		return "Unknown"
	}
	return *s.Name
}
