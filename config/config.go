// Package config loads chisel ruleset documents.
//
// A document is a YAML mapping from ruleset name to ruleset. Each ruleset
// names the module to process and lists the passes to run on it, in order:
//
//	ewasm:
//	  file: contract.wasm
//	  output: contract.chiselled.wasm
//	  verifyimports:
//	    preset: ewasm
//	  trimexports:
//	    preset: ewasm
//	  snip:
//
// Order of rulesets and of passes follows the document.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ewasm/wasm-chisel/errors"
	"github.com/ewasm/wasm-chisel/pass"
)

// DefaultPath is the ruleset document used when none is given.
const DefaultPath = "chisel.yml"

// Reserved ruleset keys. Every other key names a pass.
const (
	KeyFile   = "file"
	KeyOutput = "output"
)

// PassEntry is one configured pass of a ruleset.
type PassEntry struct {
	Config pass.Config
	Name   string
}

// Ruleset is a target module with its ordered pass list.
type Ruleset struct {
	Name   string
	File   string
	Output string // empty writes back to File
	Passes []PassEntry
}

// OutputPath returns where the processed module is written.
func (r Ruleset) OutputPath() string {
	if r.Output != "" {
		return r.Output
	}
	return r.File
}

// Document is a parsed ruleset document.
type Document struct {
	Rulesets []Ruleset
}

// Lookup returns the ruleset called name.
func (d *Document) Lookup(name string) (*Ruleset, bool) {
	for i := range d.Rulesets {
		if d.Rulesets[i].Name == name {
			return &d.Rulesets[i], true
		}
	}
	return nil, false
}

// Load reads and parses the document at path.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.IO("read config", path, err)
	}
	return Parse(data)
}

// Parse parses a ruleset document. Top-level entries whose value is not a
// mapping are ignored.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "invalid YAML")
	}

	doc := &Document{}
	if root.Kind == 0 {
		return doc, nil
	}
	top := &root
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = top.Content[0]
	}
	if top.Kind != yaml.MappingNode {
		return nil, invalid(nil, "top-level value must be a mapping")
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, invalid(nil, "line %d: ruleset name must be a string", key.Line)
		}
		if val.Kind != yaml.MappingNode {
			continue
		}
		rs, err := parseRuleset(key.Value, val)
		if err != nil {
			return nil, err
		}
		doc.Rulesets = append(doc.Rulesets, rs)
	}
	return doc, nil
}

func parseRuleset(name string, node *yaml.Node) (Ruleset, error) {
	rs := Ruleset{Name: name}
	hasFile := false

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return rs, invalid([]string{name}, "line %d: key must be a string", key.Line)
		}
		switch key.Value {
		case KeyFile:
			if !isString(val) {
				return rs, invalid([]string{name, KeyFile}, "the value of %q must be a string", KeyFile)
			}
			rs.File, hasFile = val.Value, true
		case KeyOutput:
			if !isString(val) {
				return rs, invalid([]string{name, KeyOutput}, "the value of %q must be a string", KeyOutput)
			}
			rs.Output = val.Value
		default:
			cfg, err := parsePassConfig(name, key.Value, val)
			if err != nil {
				return rs, err
			}
			rs.Passes = append(rs.Passes, PassEntry{Name: key.Value, Config: cfg})
		}
	}

	if !hasFile {
		return rs, invalid([]string{name}, "missing required field %q", KeyFile)
	}
	return rs, nil
}

func parsePassConfig(ruleset, name string, node *yaml.Node) (pass.Config, error) {
	cfg := pass.Config{}
	if isNull(node) {
		return cfg, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, invalid([]string{ruleset, name}, "pass configuration must be a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, invalid([]string{ruleset, name}, "line %d: key must be a scalar", key.Line)
		}
		if val.Kind != yaml.ScalarNode {
			return nil, invalid([]string{ruleset, name, key.Value}, "value must be a scalar")
		}
		if isNull(val) {
			cfg[key.Value] = ""
			continue
		}
		cfg[key.Value] = val.Value
	}
	return cfg, nil
}

func isString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func invalid(path []string, format string, args ...any) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Path(path...).
		Detail(format, args...).
		Build()
}

// String renders the ruleset the way it appears in the document.
func (r Ruleset) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", r.Name, r.File)
	if r.Output != "" {
		fmt.Fprintf(&b, " -> %s", r.Output)
	}
	for _, p := range r.Passes {
		fmt.Fprintf(&b, "\n  %s", p.Name)
		for _, k := range p.Config.Keys() {
			fmt.Fprintf(&b, " %s=%s", k, p.Config[k])
		}
	}
	return b.String()
}
