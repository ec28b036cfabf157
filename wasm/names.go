package wasm

import (
	"fmt"
	"sort"

	"github.com/ewasm/wasm-chisel/wasm/internal/binary"
)

// NameSectionName is the custom section holding debug names.
const NameSectionName = "name"

// Name subsection IDs.
const (
	NameSubsectionModule   byte = 0
	NameSubsectionFunction byte = 1
	NameSubsectionLocal    byte = 2
)

// NameAssoc pairs an index with a name.
type NameAssoc struct {
	Name  string
	Index uint32
}

// NameMap is a list of index/name pairs sorted by index.
type NameMap []NameAssoc

// Lookup returns the name recorded for idx.
func (nm NameMap) Lookup(idx uint32) (string, bool) {
	i := sort.Search(len(nm), func(i int) bool { return nm[i].Index >= idx })
	if i < len(nm) && nm[i].Index == idx {
		return nm[i].Name, true
	}
	return "", false
}

// IndirectNameAssoc pairs a function index with its local names.
type IndirectNameAssoc struct {
	Names NameMap
	Index uint32
}

// IndirectNameMap is a list of per-function name maps sorted by function index.
type IndirectNameMap []IndirectNameAssoc

// NameSubsection is an unrecognised subsection kept verbatim.
type NameSubsection struct {
	Data []byte
	ID   byte
}

// NameSection is the decoded "name" custom section.
type NameSection struct {
	ModuleName    *string
	FunctionNames NameMap
	LocalNames    IndirectNameMap
	Other         []NameSubsection
}

// ParseNames materialises the first "name" custom section into m.Names.
// Modules without a name section are left untouched. Once materialised, the
// encoder writes m.Names in place of the raw section, so passes that rewrite
// function indices can keep the names consistent.
func (m *Module) ParseNames() error {
	if m.Names != nil {
		return nil
	}
	cs, ok := m.CustomSection(NameSectionName)
	if !ok {
		return nil
	}
	ns, err := DecodeNameSection(cs.Data)
	if err != nil {
		return fmt.Errorf("name section: %w", err)
	}
	m.Names = ns
	return nil
}

// DropNames removes the name section in both materialised and raw form and
// reports whether anything was removed.
func (m *Module) DropNames() bool {
	removed := m.Names != nil
	m.Names = nil
	if m.RemoveCustomSections(NameSectionName) > 0 {
		removed = true
	}
	return removed
}

// FunctionName returns the debug name of a function, if known.
func (m *Module) FunctionName(idx uint32) (string, bool) {
	if m.Names == nil {
		return "", false
	}
	return m.Names.FunctionNames.Lookup(idx)
}

// DecodeNameSection decodes the payload of a "name" custom section.
func DecodeNameSection(data []byte) (*NameSection, error) {
	r := binary.NewReader(data)
	ns := &NameSection{}
	lastID := -1

	for r.Len() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if int(id) <= lastID {
			return nil, fmt.Errorf("subsection %d out of order", id)
		}
		lastID = int(id)

		size, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		sr, err := r.Sub(int(size))
		if err != nil {
			return nil, r.WrapError("name subsection", err)
		}

		switch id {
		case NameSubsectionModule:
			name, err := sr.ReadName()
			if err != nil {
				return nil, err
			}
			ns.ModuleName = &name
		case NameSubsectionFunction:
			ns.FunctionNames, err = readNameMap(sr)
			if err != nil {
				return nil, fmt.Errorf("function names: %w", err)
			}
		case NameSubsectionLocal:
			count, err := sr.ReadU32()
			if err != nil {
				return nil, err
			}
			for i := uint32(0); i < count; i++ {
				idx, err := sr.ReadU32()
				if err != nil {
					return nil, err
				}
				names, err := readNameMap(sr)
				if err != nil {
					return nil, fmt.Errorf("local names of function %d: %w", idx, err)
				}
				ns.LocalNames = append(ns.LocalNames, IndirectNameAssoc{Index: idx, Names: names})
			}
		default:
			rest, _ := sr.ReadRemaining()
			ns.Other = append(ns.Other, NameSubsection{ID: id, Data: rest})
			continue
		}
		if sr.Len() != 0 {
			return nil, fmt.Errorf("subsection %d: %d trailing bytes", id, sr.Len())
		}
	}
	return ns, nil
}

func readNameMap(r *binary.Reader) (NameMap, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	var nm NameMap
	for i := uint32(0); i < count; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		nm = append(nm, NameAssoc{Index: idx, Name: name})
	}
	// producers are required to sort, but not all do
	sort.SliceStable(nm, func(i, j int) bool { return nm[i].Index < nm[j].Index })
	return nm, nil
}

// Encode returns the payload of the "name" custom section.
func (ns *NameSection) Encode() []byte {
	w := binary.NewWriter()

	if ns.ModuleName != nil {
		sub := binary.NewWriter()
		sub.WriteName(*ns.ModuleName)
		w.Section(NameSubsectionModule, sub.Bytes())
	}
	if len(ns.FunctionNames) > 0 {
		sub := binary.NewWriter()
		writeNameMap(sub, ns.FunctionNames)
		w.Section(NameSubsectionFunction, sub.Bytes())
	}
	if len(ns.LocalNames) > 0 {
		sub := binary.NewWriter()
		sub.WriteU32(uint32(len(ns.LocalNames)))
		for _, fn := range ns.LocalNames {
			sub.WriteU32(fn.Index)
			writeNameMap(sub, fn.Names)
		}
		w.Section(NameSubsectionLocal, sub.Bytes())
	}
	for _, o := range ns.Other {
		w.Section(o.ID, o.Data)
	}
	return w.Bytes()
}

func writeNameMap(w *binary.Writer, nm NameMap) {
	w.WriteU32(uint32(len(nm)))
	for _, a := range nm {
		w.WriteU32(a.Index)
		w.WriteName(a.Name)
	}
}

// RemapFunctions rewrites function indices in the function and local name
// maps. Entries for which remap returns false are dropped.
func (ns *NameSection) RemapFunctions(remap func(uint32) (uint32, bool)) {
	var fns NameMap
	for _, a := range ns.FunctionNames {
		if idx, ok := remap(a.Index); ok {
			fns = append(fns, NameAssoc{Index: idx, Name: a.Name})
		}
	}
	sort.SliceStable(fns, func(i, j int) bool { return fns[i].Index < fns[j].Index })
	ns.FunctionNames = fns

	var locals IndirectNameMap
	for _, l := range ns.LocalNames {
		if idx, ok := remap(l.Index); ok {
			locals = append(locals, IndirectNameAssoc{Index: idx, Names: l.Names})
		}
	}
	sort.SliceStable(locals, func(i, j int) bool { return locals[i].Index < locals[j].Index })
	ns.LocalNames = locals
}
