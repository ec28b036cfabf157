package passes

import (
	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/imports"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

// VerifyImportsName is the registry name of VerifyImports.
const VerifyImportsName = "verifyimports"

var importPresets = imports.Presets

// VerifyImports checks every import of a module against a host interface
// catalog.
type VerifyImports struct {
	list          imports.ImportList
	requireAll    bool
	allowUnlisted bool
}

// NewVerifyImports builds the validator for a catalog preset, or several
// joined with commas.
func NewVerifyImports(preset string) (*VerifyImports, error) {
	list, err := imports.WithPreset(preset)
	if err != nil {
		return nil, err
	}
	return &VerifyImports{list: list}, nil
}

// NewVerifyImportsList builds the validator for an explicit list.
func NewVerifyImportsList(list imports.ImportList, requireAll, allowUnlisted bool) *VerifyImports {
	return &VerifyImports{list: list, requireAll: requireAll, allowUnlisted: allowUnlisted}
}

func verifyImportsFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(VerifyImportsName, pass.PresetKey, "require_all", "allow_unlisted"); err != nil {
		return nil, err
	}
	preset, err := cfg.RequirePreset(VerifyImportsName)
	if err != nil {
		return nil, err
	}
	v, err := NewVerifyImports(preset)
	if err != nil {
		return nil, err
	}
	if v.requireAll, err = cfg.Bool(VerifyImportsName, "require_all", false); err != nil {
		return nil, err
	}
	if v.allowUnlisted, err = cfg.Bool(VerifyImportsName, "allow_unlisted", false); err != nil {
		return nil, err
	}
	return v, nil
}

func (*VerifyImports) Name() string    { return VerifyImportsName }
func (*VerifyImports) Kind() pass.Kind { return pass.KindValidator }

// Validate looks every import up by field name and requires the catalog
// entry to agree on namespace, kind and signature. It never returns an error.
func (v *VerifyImports) Validate(m *wasm.Module) (bool, error) {
	for _, imp := range m.Imports {
		entry, ok := v.list.LookupByField(imp.Name)
		if !ok {
			if v.allowUnlisted {
				continue
			}
			Logger().Debug("import not in catalog",
				zap.String("module", imp.Module), zap.String("field", imp.Name))
			return false, nil
		}
		if !entry.Matches(imp, importSignature(m, imp)) {
			Logger().Debug("import does not match catalog",
				zap.String("module", imp.Module), zap.String("field", imp.Name),
				zap.Stringer("expected", entry))
			return false, nil
		}
	}

	if v.requireAll {
		for _, entry := range v.list.Entries() {
			if !hasImport(m, entry) {
				Logger().Debug("required import missing", zap.Stringer("import", entry))
				return false, nil
			}
		}
	}
	return true, nil
}

func importSignature(m *wasm.Module, imp wasm.Import) *wasm.FuncType {
	if imp.Desc.Kind != wasm.KindFunc || int(imp.Desc.TypeIdx) >= len(m.Types) {
		return nil
	}
	return &m.Types[imp.Desc.TypeIdx]
}

func hasImport(m *wasm.Module, entry imports.ImportType) bool {
	for _, imp := range m.Imports {
		if imp.Name == entry.Field && entry.Matches(imp, importSignature(m, imp)) {
			return true
		}
	}
	return false
}
