package utils

import (
	"math/rand/v2"
	"unicode/utf16"
)

// tagPalette is the fixed set of colors tags are drawn from
var tagPalette = [...]string{
	"#5737D7", "#D63F9A", "#F95959", "#5E7DFA", "#27CA69",
	"#43B79F", "#A100C9", "#BE02BE", "#C1AA4B", "#5ED276",
	"#3DA5BF", "#2BFCFC", "#37C015", "#92EF07", "#0808F6",
	"#1FDD91", "#B75E47", "#5E1DBF", "#EF0C67", "#9EFB61",
	"#E6E60D", "#206FE6", "#9C0EFB", "#B44C06", "#C6F609",
	"#5CDA5C", "#B47A24", "#4794C7", "#E24766", "#E318BA",
}

// TagColor returns the palette color for a tag name.
// The same name always maps to the same color: the index is a 32-bit
// rolling hash (h*31 + unit) over the UTF-16 code units of the name.
func TagColor(name string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(name)) {
		hash = hash*31 + int32(unit)
	}

	idx := int64(hash)
	if idx < 0 {
		idx = -idx
	}
	return tagPalette[idx%int64(len(tagPalette))]
}

// RandomTagColor picks a palette color uniformly at random
func RandomTagColor() string {
	return tagPalette[rand.IntN(len(tagPalette))]
}

// TagPalette returns a copy of the palette
func TagPalette() []string {
	return append([]string(nil), tagPalette[:]...)
}
