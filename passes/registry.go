package passes

import (
	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
)

// Descriptor describes a pass that can be built by name.
type Descriptor struct {
	New     pass.Constructor
	Name    string
	Summary string
	Presets []string
	Kind    pass.Kind
}

// Registry maps pass names to their constructors.
type Registry struct {
	byName map[string]Descriptor
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Descriptor)}
}

// Register adds d. Names must be unique.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" || d.New == nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Pass(d.Name).
			Detail("descriptor needs a name and a constructor").
			Build()
	}
	if _, dup := r.byName[d.Name]; dup {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Pass(d.Name).
			Detail("already registered").
			Build()
	}
	r.byName[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Build constructs the pass registered under name from cfg.
// Unknown names and rejected configurations are unsupported_configuration
// errors.
func (r *Registry) Build(name string, cfg pass.Config) (pass.Pass, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, errors.UnsupportedConfiguration(name, "unknown pass")
	}
	if cfg == nil {
		cfg = pass.Config{}
	}
	p, err := d.New(cfg)
	if err != nil {
		if errors.IsKind(err, errors.KindUnsupportedConfiguration) {
			return nil, err
		}
		return nil, errors.New(errors.PhaseConfig, errors.KindUnsupportedConfiguration).
			Pass(name).
			Cause(err).
			Build()
	}
	return p, nil
}

var builtin = []Descriptor{
	{Name: CheckFloatName, Kind: pass.KindValidator, New: checkFloatFromConfig,
		Summary: "reject floating point instructions"},
	{Name: VerifyImportsName, Kind: pass.KindValidator, New: verifyImportsFromConfig,
		Presets: importPresets, Summary: "check imports against a host interface"},
	{Name: VerifyExportsName, Kind: pass.KindValidator, New: verifyExportsFromConfig,
		Presets: []string{PresetEwasm, PresetPwasm}, Summary: "check exported entry points"},
	{Name: CheckStartFuncName, Kind: pass.KindValidator, New: checkStartFuncFromConfig,
		Summary: "check for a start function"},
	{Name: DropNamesName, Kind: pass.KindTranslator, New: dropNamesFromConfig,
		Summary: "remove the name section"},
	{Name: DropSectionName, Kind: pass.KindTranslator, New: dropSectionFromConfig,
		Presets: []string{PresetNames}, Summary: "remove a custom section"},
	{Name: RemapImportsName, Kind: pass.KindTranslator, New: remapImportsFromConfig,
		Presets: remapPresets, Summary: "move prefixed env imports to their namespace"},
	{Name: TrimExportsName, Kind: pass.KindTranslator, New: trimExportsFromConfig,
		Presets: []string{PresetEwasm, PresetPwasm}, Summary: "remove exports outside the interface"},
	{Name: TrimStartFuncName, Kind: pass.KindTranslator, New: trimStartFuncFromConfig,
		Presets: []string{PresetEwasm}, Summary: "remove the start function"},
	{Name: RemapStartName, Kind: pass.KindTranslator, New: remapStartFromConfig,
		Presets: []string{PresetEwasm}, Summary: "export the start function as main"},
	{Name: DeployerName, Kind: pass.KindTranslator, New: deployerFromConfig,
		Presets: []string{PresetMemory, PresetCustomSection}, Summary: "wrap the module in a deployer"},
	{Name: RepackName, Kind: pass.KindTranslator, New: repackFromConfig,
		Summary: "deduplicate and prune function types"},
	{Name: SnipName, Kind: pass.KindTranslator, New: snipFromConfig,
		Summary: "remove unreachable functions"},
}

// Default returns a registry holding every built-in pass.
func Default() *Registry {
	r := NewRegistry()
	for _, d := range builtin {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// Preset names shared by several passes.
const (
	PresetEwasm         = "ewasm"
	PresetPwasm         = "pwasm"
	PresetNames         = "names"
	PresetMemory        = "memory"
	PresetCustomSection = "customsection"
)
