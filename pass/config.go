package pass

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ewasm/wasm-chisel/errors"
)

// PresetKey is the configuration key naming a pass preset.
const PresetKey = "preset"

// Config is the flat key/value configuration of one pass.
type Config map[string]string

// Preset returns the configured preset, if any.
func (c Config) Preset() (string, bool) {
	v, ok := c[PresetKey]
	return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
}

// Bool parses key as a boolean, returning def when the key is absent.
func (c Config) Bool(pass, key string, def bool) (bool, error) {
	v, ok := c[key]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, errors.New(errors.PhaseConfig, errors.KindUnsupportedConfiguration).
			Pass(pass).
			Path(key).
			Value(v).
			Detail("expected a boolean").
			Build()
	}
	return b, nil
}

// Uint32 parses key as an unsigned 32-bit integer.
func (c Config) Uint32(pass, key string) (uint32, bool, error) {
	v, ok := c[key]
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return 0, true, errors.New(errors.PhaseConfig, errors.KindUnsupportedConfiguration).
			Pass(pass).
			Path(key).
			Value(v).
			Detail("expected an unsigned 32-bit integer").
			Build()
	}
	return uint32(n), true, nil
}

// CheckKeys rejects keys outside allowed.
func (c Config) CheckKeys(pass string, allowed ...string) error {
	for _, k := range c.Keys() {
		if !slices.Contains(allowed, k) {
			return errors.UnsupportedConfiguration(pass, fmt.Sprintf("unknown configuration key %q", k))
		}
	}
	return nil
}

// Keys returns the configured keys in sorted order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// RequirePreset returns the preset or an unsupported_configuration error.
func (c Config) RequirePreset(pass string) (string, error) {
	p, ok := c.Preset()
	if !ok {
		return "", errors.UnsupportedConfiguration(pass, "a preset is required")
	}
	return p, nil
}
