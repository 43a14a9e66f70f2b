package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSourceNotFound is returned when a label does not match any known source.
var ErrSourceNotFound = errors.New("source not found")

// SourceID identifies one of the fixed news categories.
type SourceID int

const (
	SourceUA SourceID = iota + 1
	SourceWorld
)

type sourceMeta struct {
	name   string
	labels []string
}

// The first label is the display label; the rest are extra labels accepted
// on input. TODO: swap the extra labels for the chat keyboard button texts.
var sources = map[SourceID]sourceMeta{
	SourceUA:    {name: "UA", labels: []string{"Новини України", "🇺🇦 Україна"}},
	SourceWorld: {name: "WORLD", labels: []string{"Новини Світу", "🌍 Світ"}},
}

// AllSources lists every source in ingestion order.
func AllSources() []SourceID {
	return []SourceID{SourceWorld, SourceUA}
}

// Name returns the stable identifier used in storage keys and config files.
func (s SourceID) Name() string {
	if m, ok := sources[s]; ok {
		return m.name
	}
	return fmt.Sprintf("SourceID(%d)", int(s))
}

// Label returns the human-readable label.
func (s SourceID) Label() string {
	if m, ok := sources[s]; ok {
		return m.labels[0]
	}
	return ""
}

// Labels returns every label the source answers to.
func (s SourceID) Labels() []string {
	m, ok := sources[s]
	if !ok {
		return nil
	}
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

func (s SourceID) String() string { return s.Name() }

// Valid reports whether s is one of the known variants.
func (s SourceID) Valid() bool {
	_, ok := sources[s]
	return ok
}

// MarshalText encodes the source by name.
func (s SourceID) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal %s: %w", s.Name(), ErrSourceNotFound)
	}
	return []byte(s.Name()), nil
}

// UnmarshalText decodes a source name or label.
func (s *SourceID) UnmarshalText(text []byte) error {
	id, err := Resolve(string(text))
	if err != nil {
		return err
	}
	*s = id
	return nil
}

// Resolve maps a label (or, case-insensitively, a source name) to its source.
func Resolve(label string) (SourceID, error) {
	for _, id := range AllSources() {
		m := sources[id]
		for _, l := range m.labels {
			if label == l {
				return id, nil
			}
		}
		if strings.EqualFold(strings.TrimSpace(label), m.name) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrSourceNotFound, label)
}
