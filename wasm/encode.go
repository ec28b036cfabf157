package wasm

import (
	"github.com/ewasm/wasm-chisel/wasm/internal/binary"
)

// Encode encodes the module to WebAssembly binary format.
//
// Sections are written in standard order. Custom sections follow the data
// section in their original relative order; a materialised name section is
// written first among them.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()

	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	if len(m.Types) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec.Byte(FuncTypeByte)
			writeValTypes(sec, ft.Params)
			writeValTypes(sec, ft.Results)
		}
		w.Section(SectionType, sec.Bytes())
	}

	if len(m.Imports) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			sec.WriteName(imp.Module)
			sec.WriteName(imp.Name)
			sec.Byte(imp.Desc.Kind)
			switch imp.Desc.Kind {
			case KindFunc:
				sec.WriteU32(imp.Desc.TypeIdx)
			case KindTable:
				writeTableType(sec, *imp.Desc.Table)
			case KindMemory:
				writeLimits(sec, imp.Desc.Memory.Limits)
			case KindGlobal:
				writeGlobalType(sec, *imp.Desc.Global)
			}
		}
		w.Section(SectionImport, sec.Bytes())
	}

	if len(m.Funcs) > 0 {
		sec := binary.NewWriter()
		writeU32Vec(sec, m.Funcs)
		w.Section(SectionFunction, sec.Bytes())
	}

	if len(m.Tables) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Tables)))
		for _, t := range m.Tables {
			writeTableType(sec, t)
		}
		w.Section(SectionTable, sec.Bytes())
	}

	if len(m.Memories) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Memories)))
		for _, mem := range m.Memories {
			writeLimits(sec, mem.Limits)
		}
		w.Section(SectionMemory, sec.Bytes())
	}

	if len(m.Globals) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Globals)))
		for _, g := range m.Globals {
			writeGlobalType(sec, g.Type)
			sec.WriteBytes(g.Init)
		}
		w.Section(SectionGlobal, sec.Bytes())
	}

	if len(m.Exports) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.WriteName(exp.Name)
			sec.Byte(exp.Kind)
			sec.WriteU32(exp.Idx)
		}
		w.Section(SectionExport, sec.Bytes())
	}

	if m.Start != nil {
		sec := binary.NewWriter()
		sec.WriteU32(*m.Start)
		w.Section(SectionStart, sec.Bytes())
	}

	if len(m.Elements) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Elements)))
		for i := range m.Elements {
			writeElement(sec, &m.Elements[i])
		}
		w.Section(SectionElement, sec.Bytes())
	}

	if m.DataCount != nil {
		sec := binary.NewWriter()
		sec.WriteU32(*m.DataCount)
		w.Section(SectionDataCount, sec.Bytes())
	}

	if m.Code != nil {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Code)))
		for _, body := range m.Code {
			bodyBuf := binary.NewWriter()
			bodyBuf.WriteU32(uint32(len(body.Locals)))
			for _, local := range body.Locals {
				bodyBuf.WriteU32(local.Count)
				bodyBuf.Byte(byte(local.ValType))
			}
			bodyBuf.WriteBytes(body.Code)
			sec.WriteU32(uint32(bodyBuf.Len()))
			sec.WriteBytes(bodyBuf.Bytes())
		}
		w.Section(SectionCode, sec.Bytes())
	}

	if len(m.Data) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Data)))
		for _, d := range m.Data {
			sec.WriteU32(d.Flags)
			if d.Flags == 2 {
				sec.WriteU32(d.MemIdx)
			}
			if d.Flags != 1 {
				sec.WriteBytes(d.Offset)
			}
			sec.WriteU32(uint32(len(d.Init)))
			sec.WriteBytes(d.Init)
		}
		w.Section(SectionData, sec.Bytes())
	}

	if m.Names != nil {
		writeCustomSection(w, NameSectionName, m.Names.Encode())
	}
	for _, cs := range m.CustomSections {
		if m.Names != nil && cs.Name == NameSectionName {
			continue
		}
		writeCustomSection(w, cs.Name, cs.Data)
	}

	return w.Bytes()
}

func writeCustomSection(w *binary.Writer, name string, data []byte) {
	sec := binary.NewWriter()
	sec.WriteName(name)
	sec.WriteBytes(data)
	w.Section(SectionCustom, sec.Bytes())
}

func writeElement(sec *binary.Writer, elem *Element) {
	sec.WriteU32(elem.Flags)

	if elem.Flags&0x02 != 0 && elem.Flags&0x01 == 0 {
		sec.WriteU32(elem.TableIdx)
	}
	if elem.Active() {
		sec.WriteBytes(elem.Offset)
	}
	if elem.Flags&0x03 != 0 {
		if elem.UsesExprs() {
			sec.Byte(byte(elem.Type))
		} else {
			sec.Byte(elem.ElemKind)
		}
	}

	if elem.UsesExprs() {
		sec.WriteU32(uint32(len(elem.Exprs)))
		for _, expr := range elem.Exprs {
			sec.WriteBytes(expr)
		}
		return
	}
	writeU32Vec(sec, elem.FuncIdxs)
}

func writeU32Vec(w *binary.Writer, vals []uint32) {
	w.WriteU32(uint32(len(vals)))
	for _, v := range vals {
		w.WriteU32(v)
	}
}

func writeValTypes(w *binary.Writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}

func writeLimits(w *binary.Writer, l Limits) {
	var flags byte
	if l.Max != nil {
		flags |= LimitsHasMax
	}
	if l.Shared {
		flags |= LimitsShared
	}
	if l.Memory64 {
		flags |= LimitsMemory64
	}
	w.Byte(flags)

	w.WriteU64(l.Min)
	if l.Max != nil {
		w.WriteU64(*l.Max)
	}
}

func writeTableType(w *binary.Writer, t TableType) {
	w.Byte(byte(t.ElemType))
	writeLimits(w, t.Limits)
}

func writeGlobalType(w *binary.Writer, g GlobalType) {
	w.Byte(byte(g.ValType))
	if g.Mutable {
		w.Byte(1)
	} else {
		w.Byte(0)
	}
}
