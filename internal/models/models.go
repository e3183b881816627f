// package models defines the data model for the breakfast combo picker
package models

import (
	"slices"
	"strings"
	"time"
)

// ComboSeparator splits a combo into its name and price.
const ComboSeparator = " = "

// Combo is an opaque menu entry, conventionally "<name> = <price>".
type Combo = string

// SplitCombo returns the name and price of c. Without a separator the whole
// string is the name, price is empty and ok is false.
func SplitCombo(c Combo) (name, price string, ok bool) {
	name, price, ok = strings.Cut(c, ComboSeparator)
	return name, price, ok
}

// ProgressState is the resumable state of a progress session.
type ProgressState struct {
	CurrentIndex   int       `json:"currentIndex"`
	ViewedCombos   []Combo   `json:"viewedCombos"`
	ShuffledCombos []Combo   `json:"shuffledCombos"`
	SaveTime       time.Time `json:"saveTime"`
}

// Total returns the length of the shuffled sequence.
func (s ProgressState) Total() int { return len(s.ShuffledCombos) }

// Done reports whether every combo has been advanced past.
func (s ProgressState) Done() bool { return s.CurrentIndex >= len(s.ShuffledCombos) }

// Clone returns a deep copy so callers cannot mutate session-owned slices.
func (s ProgressState) Clone() ProgressState {
	s.ViewedCombos = slices.Clone(s.ViewedCombos)
	s.ShuffledCombos = slices.Clone(s.ShuffledCombos)
	return s
}

// Reconcile clamps CurrentIndex into [0, Total] and, when ViewedCombos is
// not the prefix it should be, rebuilds it from ShuffledCombos. It reports
// whether anything changed.
func (s *ProgressState) Reconcile() bool {
	changed := false

	switch {
	case s.CurrentIndex < 0:
		s.CurrentIndex = 0
		changed = true
	case s.CurrentIndex > len(s.ShuffledCombos):
		s.CurrentIndex = len(s.ShuffledCombos)
		changed = true
	}

	prefix := s.ShuffledCombos[:s.CurrentIndex]
	if !slices.Equal(s.ViewedCombos, prefix) {
		s.ViewedCombos = slices.Clone(prefix)
		changed = true
	}

	if s.ViewedCombos == nil {
		s.ViewedCombos = []Combo{}
	}
	if s.ShuffledCombos == nil {
		s.ShuffledCombos = []Combo{}
	}

	return changed
}

// ComboList is a named, ordered list of combos: a menu, or the viewed history of a session.
type ComboList struct {
	Name       string    `json:"name"`
	Combos     []Combo   `json:"combos"`
	ExportedAt time.Time `json:"exportedAt"`
}
