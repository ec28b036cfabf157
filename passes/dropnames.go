package passes

import (
	"fmt"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/wasm"
)

// Registry names of the section removal passes.
const (
	DropNamesName   = "dropnames"
	DropSectionName = "dropsection"
)

// DropNames removes the debug name section.
type DropNames struct{}

// NewDropNames returns the dropnames translator.
func NewDropNames() *DropNames { return &DropNames{} }

func dropNamesFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(DropNamesName, pass.PresetKey); err != nil {
		return nil, err
	}
	return NewDropNames(), nil
}

func (*DropNames) Name() string    { return DropNamesName }
func (*DropNames) Kind() pass.Kind { return pass.KindTranslator }

func (*DropNames) Translate(m *wasm.Module) (pass.Result, error) {
	return pass.MutatedIf(m.DropNames()), nil
}

// SectionSelector picks the custom section removed by DropSection.
type SectionSelector struct {
	Name  string
	Index int
	ByPos bool
}

func (s SectionSelector) String() string {
	if s.ByPos {
		return fmt.Sprintf("custom section #%d", s.Index)
	}
	return fmt.Sprintf("custom section %q", s.Name)
}

// DropSection removes one custom section, selected by name or position.
type DropSection struct {
	sel SectionSelector
}

// NewDropSectionByName removes every custom section called name.
func NewDropSectionByName(name string) *DropSection {
	return &DropSection{sel: SectionSelector{Name: name}}
}

// NewDropSectionByIndex removes the index-th custom section.
func NewDropSectionByIndex(index int) *DropSection {
	return &DropSection{sel: SectionSelector{Index: index, ByPos: true}}
}

// NewDropSection builds the pass from a preset. Only "names" is known.
func NewDropSection(preset string) (*DropSection, error) {
	if preset != PresetNames {
		return nil, errors.UnknownPreset(DropSectionName, preset)
	}
	return NewDropSectionByName(wasm.NameSectionName), nil
}

func dropSectionFromConfig(cfg pass.Config) (pass.Pass, error) {
	if err := cfg.CheckKeys(DropSectionName, pass.PresetKey, "custom", "index"); err != nil {
		return nil, err
	}
	preset, hasPreset := cfg.Preset()
	custom, hasCustom := cfg["custom"]
	index, hasIndex, err := cfg.Uint32(DropSectionName, "index")
	if err != nil {
		return nil, err
	}

	selected := 0
	for _, b := range []bool{hasPreset, hasCustom, hasIndex} {
		if b {
			selected++
		}
	}
	if selected != 1 {
		return nil, errors.UnsupportedConfiguration(DropSectionName,
			"exactly one of preset, custom or index is required")
	}

	switch {
	case hasPreset:
		return NewDropSection(preset)
	case hasCustom:
		if custom == "" {
			return nil, errors.UnsupportedConfiguration(DropSectionName, "custom section name is empty")
		}
		return NewDropSectionByName(custom), nil
	default:
		return NewDropSectionByIndex(int(index)), nil
	}
}

func (*DropSection) Name() string    { return DropSectionName }
func (*DropSection) Kind() pass.Kind { return pass.KindTranslator }

// Translate removes the selected section. Dropping the "name" section also
// discards materialised names. A position past the last custom section
// leaves the module unchanged.
func (d *DropSection) Translate(m *wasm.Module) (pass.Result, error) {
	name := d.sel.Name
	if d.sel.ByPos {
		if d.sel.Index >= len(m.CustomSections) {
			return pass.Unchanged(), nil
		}
		name = m.CustomSections[d.sel.Index].Name
		m.CustomSections = append(m.CustomSections[:d.sel.Index], m.CustomSections[d.sel.Index+1:]...)
		if name == wasm.NameSectionName {
			m.Names = nil
		}
		return pass.Mutated(), nil
	}

	if name == wasm.NameSectionName {
		return pass.MutatedIf(m.DropNames()), nil
	}
	return pass.MutatedIf(m.RemoveCustomSections(name) > 0), nil
}
