package passes

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/imports"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

// RemapImportsName is the registry name of RemapImports.
const RemapImportsName = "remapimports"

// envNamespace is where toolchains without namespace support put imports.
const envNamespace = "env"

var remapPresets = []string{imports.PresetEwasm, imports.PresetEth2, imports.PresetDebug, imports.PresetBignum}

// ImportName is a namespace/field pair.
type ImportName struct {
	Namespace string
	Field     string
}

func (n ImportName) String() string { return n.Namespace + "." + n.Field }

// ParseImportName splits "namespace.field" at the first dot.
func ParseImportName(s string) (ImportName, error) {
	ns, field, ok := strings.Cut(s, ".")
	if !ok || ns == "" || field == "" {
		return ImportName{}, fmt.Errorf("import name %q is not of the form namespace.field", s)
	}
	return ImportName{Namespace: ns, Field: field}, nil
}

// Remapping moves one import to a new namespace and field.
type Remapping struct {
	From ImportName
	To   ImportName
}

// RemapImports moves imports from the flat "env" namespace into the
// namespaces of a host interface, and applies explicit renames.
type RemapImports struct {
	catalog  imports.ImportList
	explicit []Remapping
}

// NewRemapImports builds the translator for a catalog preset or a comma
// separated combination. The wasi catalog is not accepted.
func NewRemapImports(preset string) (*RemapImports, error) {
	for _, name := range strings.Split(preset, ",") {
		if strings.TrimSpace(name) == imports.PresetWasi {
			return nil, errors.UnknownPreset(RemapImportsName, preset)
		}
	}
	list, err := imports.WithPreset(preset)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindUnsupportedConfiguration).
			Pass(RemapImportsName).
			Value(preset).
			Cause(err).
			Build()
	}
	return &RemapImports{catalog: list}, nil
}

// NewRemapImportsExplicit builds the translator from explicit renames only.
func NewRemapImportsExplicit(remaps ...Remapping) *RemapImports {
	return &RemapImports{explicit: append([]Remapping(nil), remaps...)}
}

func remapImportsFromConfig(cfg pass.Config) (pass.Pass, error) {
	r := &RemapImports{}
	if preset, ok := cfg.Preset(); ok {
		var err error
		if r, err = NewRemapImports(preset); err != nil {
			return nil, err
		}
	}
	for _, key := range cfg.Keys() {
		if key == pass.PresetKey {
			continue
		}
		from, err := ParseImportName(key)
		if err != nil {
			return nil, errors.UnsupportedConfiguration(RemapImportsName, err.Error())
		}
		to, err := ParseImportName(strings.TrimSpace(cfg[key]))
		if err != nil {
			return nil, errors.UnsupportedConfiguration(RemapImportsName, err.Error())
		}
		r.explicit = append(r.explicit, Remapping{From: from, To: to})
	}
	if r.catalog.Len() == 0 && len(r.explicit) == 0 {
		return nil, errors.UnsupportedConfiguration(RemapImportsName, "a preset or explicit remappings are required")
	}
	return r, nil
}

func (*RemapImports) Name() string    { return RemapImportsName }
func (*RemapImports) Kind() pass.Kind { return pass.KindTranslator }

// Translate rewrites matching imports, keeping their descriptors. Explicit
// remappings win over the catalog. An explicit source missing from the
// module fails the pass and leaves the module untouched.
func (r *RemapImports) Translate(m *wasm.Module) (pass.Result, error) {
	out := m.Clone()
	used := make([]bool, len(r.explicit))
	changed := false

	for i := range out.Imports {
		imp := &out.Imports[i]
		to, ok := r.target(imp, used)
		if !ok || (to.Namespace == imp.Module && to.Field == imp.Name) {
			continue
		}
		Logger().Debug("remapping import",
			zap.String("from", imp.Module+"."+imp.Name), zap.Stringer("to", to))
		imp.Module, imp.Name = to.Namespace, to.Field
		changed = true
	}

	for i, u := range used {
		if !u {
			return pass.Unchanged(), errors.TranslationFailed(RemapImportsName,
				fmt.Errorf("import %s not found", r.explicit[i].From))
		}
	}

	if changed {
		*m = *out
	}
	return pass.MutatedIf(changed), nil
}

func (r *RemapImports) target(imp *wasm.Import, used []bool) (ImportName, bool) {
	for i, rm := range r.explicit {
		if rm.From.Namespace == imp.Module && rm.From.Field == imp.Name {
			used[i] = true
			return rm.To, true
		}
	}
	if imp.Module != envNamespace {
		return ImportName{}, false
	}
	for _, entry := range r.catalog.Entries() {
		if imp.Name == entry.Namespace+"_"+entry.Field {
			return ImportName{Namespace: entry.Namespace, Field: entry.Field}, true
		}
	}
	return ImportName{}, false
}
