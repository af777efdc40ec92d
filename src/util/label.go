// label.go provides names for the basic blocks generated for conditionals and loops.

package util

import (
	"fmt"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Labeler hands out unique basic block labels of each type. The zero value is ready to use. A Labeler belongs to one
// compilation and is not safe for concurrent use.
type Labeler struct {
	indices [LabelAfterLoop + 1]int // Numerical suffix of the next label of each type.
}

// ---------------------
// ----- Constants -----
// ---------------------

// Labels for conditionals and loops.
const (
	LabelEntry = iota
	LabelThen
	LabelElse
	LabelMerge
	LabelLoop
	LabelAfterLoop
)

// -------------------
// ----- globals -----
// -------------------

// labelPrefixes stores the string literal prefixes for labels of types.
var labelPrefixes = [LabelAfterLoop + 1]string{
	"entry",
	"then",
	"else",
	"merge",
	"loop",
	"afterloop",
}

// ---------------------
// ----- functions -----
// ---------------------

// NewLabel returns a new label of type typ. The entry label is never numbered.
func (l *Labeler) NewLabel(typ int) string {
	if typ < 0 || typ >= len(l.indices) {
		return "label.error"
	}
	if typ == LabelEntry {
		return labelPrefixes[typ]
	}
	s := fmt.Sprintf("%s.%d", labelPrefixes[typ], l.indices[typ])
	l.indices[typ]++
	return s
}

// Prefix returns the label prefix of type typ.
func Prefix(typ int) string {
	if typ < 0 || typ >= len(labelPrefixes) {
		return ""
	}
	return labelPrefixes[typ]
}
