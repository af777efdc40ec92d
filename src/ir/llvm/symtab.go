package llvm

import (
	"errors"
	"fmt"
)

import (
	"tinygo.org/x/go-llvm"
)

import (
	ast "whilec/src/ir"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// symbol is a declared variable of the entry routine.
type symbol struct {
	name string       // Name of the variable.
	typ  ast.DataType // Declared semantic type.
	addr llvm.Value   // Stack slot holding the variable.
}

// symTab maps variable names to their stack slots. Scoping is function-flat: a declaration stays visible for the
// rest of the routine regardless of the block it appears in.
type symTab struct {
	m     map[string]*symbol
	order []*symbol // Symbols in order of declaration.
}

// ---------------------
// ----- Constants -----
// ---------------------

const mapSize = 16 // Predefined size for a decently sized symbol table hash table.

var (
	ErrNotInScope      = errors.New("variable is not in scope")
	ErrAlreadyDeclared = errors.New("variable is already declared")
)

// ---------------------
// ----- functions -----
// ---------------------

// newSymTab returns an empty symbol table.
func newSymTab() *symTab {
	return &symTab{
		m:     make(map[string]*symbol, mapSize),
		order: make([]*symbol, 0, mapSize),
	}
}

// declare adds the variable name of type typ, stored at addr. It fails if name is already declared.
func (st *symTab) declare(name string, typ ast.DataType, addr llvm.Value) (*symbol, error) {
	if _, ok := st.m[name]; ok {
		return nil, fmt.Errorf("%q: %w", name, ErrAlreadyDeclared)
	}
	s := &symbol{name: name, typ: typ, addr: addr}
	st.m[name] = s
	st.order = append(st.order, s)
	return s, nil
}

// resolve returns the symbol of the declared variable name. It fails if name is undeclared.
func (st *symTab) resolve(name string) (*symbol, error) {
	if s, ok := st.m[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrNotInScope)
}

// len returns the number of declared variables.
func (st *symTab) len() int {
	return len(st.order)
}
