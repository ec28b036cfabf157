package wasm

import "bytes"

// Clone returns a deep copy of m.
func (m *Module) Clone() *Module {
	if m == nil {
		return nil
	}
	c := &Module{
		Types:     make([]FuncType, len(m.Types)),
		Imports:   make([]Import, len(m.Imports)),
		Funcs:     cloneSlice(m.Funcs),
		Tables:    make([]TableType, len(m.Tables)),
		Memories:  make([]MemoryType, len(m.Memories)),
		Globals:   make([]Global, len(m.Globals)),
		Exports:   cloneSlice(m.Exports),
		Start:     clonePtr(m.Start),
		Elements:  make([]Element, len(m.Elements)),
		Data:      make([]DataSegment, len(m.Data)),
		DataCount: clonePtr(m.DataCount),
	}
	for i, ft := range m.Types {
		c.Types[i] = FuncType{Params: cloneSlice(ft.Params), Results: cloneSlice(ft.Results)}
	}
	for i, imp := range m.Imports {
		c.Imports[i] = imp
		if imp.Desc.Table != nil {
			t := imp.Desc.Table.clone()
			c.Imports[i].Desc.Table = &t
		}
		if imp.Desc.Memory != nil {
			mem := MemoryType{Limits: imp.Desc.Memory.Limits.clone()}
			c.Imports[i].Desc.Memory = &mem
		}
		c.Imports[i].Desc.Global = clonePtr(imp.Desc.Global)
	}
	for i, t := range m.Tables {
		c.Tables[i] = t.clone()
	}
	for i, mem := range m.Memories {
		c.Memories[i] = MemoryType{Limits: mem.Limits.clone()}
	}
	for i, g := range m.Globals {
		c.Globals[i] = Global{Type: g.Type, Init: cloneSlice(g.Init)}
	}
	for i, e := range m.Elements {
		c.Elements[i] = e
		c.Elements[i].Offset = cloneSlice(e.Offset)
		c.Elements[i].FuncIdxs = cloneSlice(e.FuncIdxs)
		if e.Exprs != nil {
			c.Elements[i].Exprs = make([][]byte, len(e.Exprs))
			for j, x := range e.Exprs {
				c.Elements[i].Exprs[j] = cloneSlice(x)
			}
		}
	}
	if m.Code != nil {
		c.Code = make([]FuncBody, len(m.Code))
	}
	for i, b := range m.Code {
		c.Code[i] = FuncBody{Locals: cloneSlice(b.Locals), Code: cloneSlice(b.Code)}
	}
	for i, d := range m.Data {
		c.Data[i] = d
		c.Data[i].Offset = cloneSlice(d.Offset)
		c.Data[i].Init = cloneSlice(d.Init)
	}
	if m.CustomSections != nil {
		c.CustomSections = make([]CustomSection, len(m.CustomSections))
		for i, cs := range m.CustomSections {
			c.CustomSections[i] = CustomSection{Name: cs.Name, Data: cloneSlice(cs.Data)}
		}
	}
	if m.Names != nil {
		c.Names = m.Names.Clone()
	}
	return c
}

// Clone returns a deep copy of ns.
func (ns *NameSection) Clone() *NameSection {
	c := &NameSection{
		ModuleName:    clonePtr(ns.ModuleName),
		FunctionNames: cloneSlice(ns.FunctionNames),
	}
	for _, l := range ns.LocalNames {
		c.LocalNames = append(c.LocalNames, IndirectNameAssoc{Index: l.Index, Names: cloneSlice(l.Names)})
	}
	for _, o := range ns.Other {
		c.Other = append(c.Other, NameSubsection{ID: o.ID, Data: cloneSlice(o.Data)})
	}
	return c
}

// Equal reports whether m and other are structurally equal, i.e. whether
// their canonical encodings are identical.
func (m *Module) Equal(other *Module) bool {
	if m == nil || other == nil {
		return m == other
	}
	return bytes.Equal(m.Encode(), other.Encode())
}

func (t TableType) clone() TableType {
	return TableType{ElemType: t.ElemType, Limits: t.Limits.clone()}
}

func (l Limits) clone() Limits {
	l.Max = clonePtr(l.Max)
	return l
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
