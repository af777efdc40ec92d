package util

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestNewLabel(t *testing.T) {
	var l Labeler
	be.Equal(t, l.NewLabel(LabelEntry), "entry")
	be.Equal(t, l.NewLabel(LabelEntry), "entry")
	be.Equal(t, l.NewLabel(LabelThen), "then.0")
	be.Equal(t, l.NewLabel(LabelElse), "else.0")
	be.Equal(t, l.NewLabel(LabelThen), "then.1")
	be.Equal(t, l.NewLabel(LabelMerge), "merge.0")
	be.Equal(t, l.NewLabel(LabelLoop), "loop.0")
	be.Equal(t, l.NewLabel(LabelAfterLoop), "afterloop.0")
	be.Equal(t, l.NewLabel(LabelLoop), "loop.1")
	be.Equal(t, l.NewLabel(-1), "label.error")
	be.Equal(t, l.NewLabel(LabelAfterLoop+1), "label.error")
}

func TestLabelersAreIndependent(t *testing.T) {
	var a, b Labeler
	be.Equal(t, a.NewLabel(LabelThen), "then.0")
	be.Equal(t, a.NewLabel(LabelThen), "then.1")
	be.Equal(t, b.NewLabel(LabelThen), "then.0")
}

func TestPrefix(t *testing.T) {
	be.Equal(t, Prefix(LabelMerge), "merge")
	be.Equal(t, Prefix(LabelAfterLoop), "afterloop")
	be.Equal(t, Prefix(99), "")
}
