package llvm

import (
	"tinygo.org/x/go-llvm"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// StringPool interns string literals. Every distinct text is materialised once as a private, constant, NUL
// terminated global, and every occurrence of that text yields the same pointer. A StringPool belongs to a single
// compilation and must not be shared between modules.
type StringPool struct {
	m     map[string]llvm.Value
	texts []string // Interned texts in order of first occurrence.
}

// -------------------
// ----- globals -----
// -------------------

var stringPrefix = "L_STR" // Prefix all global strings with this prefix.

// ---------------------
// ----- functions -----
// ---------------------

// NewStringPool returns an empty literal pool.
func NewStringPool() *StringPool {
	return &StringPool{
		m:     make(map[string]llvm.Value, mapSize),
		texts: make([]string, 0, mapSize),
	}
}

// Intern returns the i8 pointer to the global holding s. The global is created by b on the first request for s.
// The builder must have an insertion point inside a function of the target module.
func (p *StringPool) Intern(b llvm.Builder, s string) llvm.Value {
	if v, ok := p.lookup(s); ok {
		return v
	}
	v := b.CreateGlobalStringPtr(s, stringPrefix)
	p.m[s] = v
	p.texts = append(p.texts, s)
	return v
}

// lookup returns the interned pointer of s, if s has been interned.
func (p *StringPool) lookup(s string) (llvm.Value, bool) {
	v, ok := p.m[s]
	return v, ok
}

// Len returns the number of distinct interned strings.
func (p *StringPool) Len() int {
	return len(p.texts)
}

// Texts returns the interned strings in order of first occurrence.
func (p *StringPool) Texts() []string {
	res := make([]string, len(p.texts))
	copy(res, p.texts)
	return res
}
