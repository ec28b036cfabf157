// Package imports holds the fixed host import catalogs that chisel passes
// check and rewrite modules against.
package imports

import (
	"fmt"
	"strings"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/wasm"
)

// Preset names understood by WithPreset.
const (
	PresetEwasm  = "ewasm"
	PresetEth2   = "eth2"
	PresetDebug  = "debug"
	PresetBignum = "bignum"
	PresetWasi   = "wasi"
)

// Presets lists every catalog in a stable order.
var Presets = []string{PresetEwasm, PresetEth2, PresetDebug, PresetBignum, PresetWasi}

// ImportType describes one expected host import.
// Sig is set only for function imports.
type ImportType struct {
	Sig       *wasm.FuncType
	Namespace string
	Field     string
	Kind      byte
}

func fn(namespace, field string, params, results []wasm.ValType) ImportType {
	return ImportType{
		Namespace: namespace,
		Field:     field,
		Kind:      wasm.KindFunc,
		Sig:       &wasm.FuncType{Params: params, Results: results},
	}
}

func (it ImportType) String() string {
	if it.Sig != nil {
		return fmt.Sprintf("%s.%s %s", it.Namespace, it.Field, it.Sig)
	}
	return fmt.Sprintf("%s.%s (%s)", it.Namespace, it.Field, wasm.KindName(it.Kind))
}

// Matches reports whether imp has the same namespace, kind and, for
// functions, signature sig.
func (it ImportType) Matches(imp wasm.Import, sig *wasm.FuncType) bool {
	if imp.Module != it.Namespace || imp.Desc.Kind != it.Kind {
		return false
	}
	if it.Kind != wasm.KindFunc {
		return true
	}
	return sig != nil && it.Sig != nil && wasm.FuncTypesEqual(*sig, *it.Sig)
}

// ImportList is an ordered, read-only list of expected imports.
type ImportList struct {
	entries []ImportType
}

// NewImportList returns a list holding a copy of entries.
func NewImportList(entries ...ImportType) ImportList {
	return ImportList{entries: append([]ImportType(nil), entries...)}
}

// WithPreset returns the catalog for preset. Several catalogs can be joined
// with commas ("ewasm,debug"); their entries are concatenated in order.
func WithPreset(preset string) (ImportList, error) {
	var list ImportList
	for _, name := range strings.Split(preset, ",") {
		name = strings.TrimSpace(name)
		entries, ok := catalog(name)
		if !ok {
			return ImportList{}, errors.New(errors.PhaseConfig, errors.KindUnsupportedConfiguration).
				Value(name).
				Detail("unknown import preset %q", name).
				Build()
		}
		list.entries = append(list.entries, entries...)
	}
	return list, nil
}

func catalog(name string) ([]ImportType, bool) {
	switch name {
	case PresetEwasm:
		return ewasmImports, true
	case PresetEth2:
		return eth2Imports, true
	case PresetDebug:
		return debugImports, true
	case PresetBignum:
		return bignumImports, true
	case PresetWasi:
		return wasiImports, true
	}
	return nil, false
}

// Len returns the number of entries.
func (l ImportList) Len() int { return len(l.entries) }

// Entries returns a copy of the entries.
func (l ImportList) Entries() []ImportType {
	return append([]ImportType(nil), l.entries...)
}

// Concat returns a list with the entries of l followed by other.
func (l ImportList) Concat(other ImportList) ImportList {
	out := make([]ImportType, 0, len(l.entries)+len(other.entries))
	out = append(out, l.entries...)
	return ImportList{entries: append(out, other.entries...)}
}

// LookupByField returns the first entry whose field name is field.
func (l ImportList) LookupByField(field string) (ImportType, bool) {
	for _, e := range l.entries {
		if e.Field == field {
			return e, true
		}
	}
	return ImportType{}, false
}

// Lookup returns the entry for namespace and field.
func (l ImportList) Lookup(namespace, field string) (ImportType, bool) {
	for _, e := range l.entries {
		if e.Namespace == namespace && e.Field == field {
			return e, true
		}
	}
	return ImportType{}, false
}
