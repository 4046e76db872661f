package models

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return Desc
	}
	return Asc
}

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// NewCollator returns a collator for display-order string comparison.
// Collators are not safe for concurrent use; take a fresh one per sort.
func NewCollator() *collate.Collator {
	return collate.New(language.English)
}
