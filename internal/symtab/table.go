package symtab

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
	"sync"

	"irlink/internal/ir"
)

// Table is the declaration registry of one compilation. It owns every
// declaration in an arena indexed by ir.DeclID and serializes all mutations
// behind a single lock.
type Table struct {
	mu sync.RWMutex

	// decls[0] is unused so that ir.NoDeclID never resolves.
	decls   []*ir.Declaration
	bySym   map[ir.Symbol]ir.DeclID
	refs    []ir.Symbol
	refSeen map[ir.Symbol]struct{}
}

// New creates an empty table.
func New() *Table {
	return &Table{
		decls:   make([]*ir.Declaration, 1),
		bySym:   make(map[ir.Symbol]ir.DeclID),
		refSeen: make(map[ir.Symbol]struct{}),
	}
}

// Register inserts decl and returns its symbol. A symbol that was only
// referenced so far keeps its identity and becomes bound. Registering a stub
// for a symbol that is already stubbed is a no-op; any other rebinding fails
// with DuplicateDeclarationError.
func (t *Table) Register(decl *ir.Declaration) (ir.Symbol, error) {
	if decl == nil {
		return ir.Symbol{}, errors.New("nil declaration")
	}

	if decl.Symbol.IsZero() {
		return ir.Symbol{}, errors.New("declaration has no symbol")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.bySym[decl.Symbol]; ok {
		existing := t.decls[id]
		if existing.IsStub() && decl.IsStub() {
			return existing.Symbol, nil
		}

		return ir.Symbol{}, &DuplicateDeclarationError{
			Symbol:   decl.Symbol,
			Existing: existing.BindingState(),
			Incoming: decl.BindingState(),
		}
	}

	if !decl.Owner.IsValid() && decl.Symbol.Container != "" && !decl.IsStub() {
		owner, err := t.containerOf(decl.Symbol)
		if err != nil {
			return ir.Symbol{}, err
		}

		decl.Owner = owner
	} else if decl.Owner.IsValid() {
		if int(decl.Owner) >= len(t.decls) {
			return ir.Symbol{}, fmt.Errorf("%s: owner %d is not registered", decl.Symbol, decl.Owner)
		}

		if owner := t.decls[decl.Owner]; !owner.Kind().IsContainer() {
			return ir.Symbol{}, fmt.Errorf("%s: %s cannot own declarations", decl.Symbol, owner.Symbol)
		}
	}

	decl.ID = ir.DeclID(len(t.decls))
	t.decls = append(t.decls, decl)
	t.bySym[decl.Symbol] = decl.ID

	for _, ref := range decl.References {
		t.reference(ref)
	}

	return decl.Symbol, nil
}

// containerOf finds the class a member symbol belongs to. Callers hold t.mu.
func (t *Table) containerOf(sym ir.Symbol) (ir.DeclID, error) {
	outer := ir.Symbol{Package: sym.Package, Name: sym.Container}
	if i := strings.LastIndexByte(sym.Container, '.'); i >= 0 {
		outer = ir.Symbol{Package: sym.Package, Container: sym.Container[:i], Name: sym.Container[i+1:]}
	}

	id, ok := t.bySym[outer]
	if !ok {
		return ir.NoDeclID, fmt.Errorf("%s: container %s is not registered", sym, outer)
	}

	if !t.decls[id].Kind().IsContainer() {
		return ir.NoDeclID, fmt.Errorf("%s: %s is a %s, not a container", sym, outer, t.decls[id].Kind())
	}

	return id, nil
}

// Reference records that sym is used. A referenced symbol without a
// declaration is Unbound until a declaration is registered for it.
func (t *Table) Reference(sym ir.Symbol) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.reference(sym)
}

func (t *Table) reference(sym ir.Symbol) {
	if _, ok := t.refSeen[sym]; ok {
		return
	}

	t.refSeen[sym] = struct{}{}
	t.refs = append(t.refs, sym)
}

// Lookup returns the declaration bound to sym.
func (t *Table) Lookup(sym ir.Symbol) (*ir.Declaration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	id, ok := t.bySym[sym]
	if !ok {
		return nil, false
	}

	return t.decls[id], true
}

// Get returns the declaration with the given arena index.
func (t *Table) Get(id ir.DeclID) (*ir.Declaration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !id.IsValid() || int(id) >= len(t.decls) {
		return nil, false
	}

	return t.decls[id], true
}

// State returns the binding state of sym. Symbols the table has never seen
// are reported as Unbound.
func (t *Table) State(sym ir.Symbol) ir.BindingState {
	if decl, ok := t.Lookup(sym); ok {
		return decl.BindingState()
	}

	return ir.Unbound
}

// AllUnbound enumerates the symbols that are referenced but not bound, in
// first-reference order. The sequence is lazy and may be ranged over again;
// each pass sees the table as it is at that time. Registering declarations
// while ranging is allowed.
func (t *Table) AllUnbound() iter.Seq[ir.Symbol] {
	return func(yield func(ir.Symbol) bool) {
		t.mu.RLock()
		n := len(t.refs)
		t.mu.RUnlock()

		for i := range n {
			t.mu.RLock()
			sym := t.refs[i]
			_, bound := t.bySym[sym]
			t.mu.RUnlock()

			if bound {
				continue
			}

			if !yield(sym) {
				return
			}
		}
	}
}

// FirstUnbound returns the first symbol AllUnbound would yield.
func (t *Table) FirstUnbound() (ir.Symbol, bool) {
	for sym := range t.AllUnbound() {
		return sym, true
	}

	return ir.Symbol{}, false
}

// SetOwner assigns the owner of a declaration that has none. Owner links are
// assigned exactly once.
func (t *Table) SetOwner(id, owner ir.DeclID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !id.IsValid() || int(id) >= len(t.decls) {
		return fmt.Errorf("declaration %d is not registered", id)
	}

	if !owner.IsValid() || int(owner) >= len(t.decls) {
		return fmt.Errorf("owner %d is not registered", owner)
	}

	decl := t.decls[id]
	if decl.Owner.IsValid() {
		if decl.Owner == owner {
			return nil
		}

		return fmt.Errorf("%s: %w", decl.Symbol, ErrAlreadyOwned)
	}

	if !t.decls[owner].Kind().IsContainer() {
		return fmt.Errorf("%s: %s cannot own declarations", decl.Symbol, t.decls[owner].Symbol)
	}

	decl.Owner = owner

	return nil
}

// FunctionsWithoutContainer returns the locally defined callables that have
// no owner yet, in registration order.
func (t *Table) FunctionsWithoutContainer() []*ir.Declaration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []*ir.Declaration

	for _, decl := range t.decls[1:] {
		if decl.Origin == ir.OriginLocal && decl.Kind().IsCallable() && !decl.Owner.IsValid() {
			out = append(out, decl)
		}
	}

	return out
}

// Declarations returns every registered declaration in registration order.
func (t *Table) Declarations() []*ir.Declaration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*ir.Declaration, len(t.decls)-1)
	copy(out, t.decls[1:])

	return out
}

// Members returns the declarations owned by id, in registration order.
func (t *Table) Members(id ir.DeclID) []*ir.Declaration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []*ir.Declaration

	for _, decl := range t.decls[1:] {
		if decl.Owner == id {
			out = append(out, decl)
		}
	}

	return out
}

// Len returns the number of registered declarations.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.decls) - 1
}

// Stubs returns the symbols bound to external stubs, sorted by their
// textual form.
func (t *Table) Stubs() []ir.Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []ir.Symbol

	for _, decl := range t.decls[1:] {
		if decl.IsStub() {
			out = append(out, decl.Symbol)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })

	return out
}

// RegisterModule registers every declaration of the fragment in file order
// and records their references.
func (t *Table) RegisterModule(m *ir.ModuleFragment) error {
	for _, f := range m.Files {
		for _, decl := range f.Declarations {
			if decl.Source == nil {
				decl.Source = f
			}

			if _, err := t.Register(decl); err != nil {
				return fmt.Errorf("registering %s: %w", f.Path, err)
			}
		}
	}

	return nil
}
