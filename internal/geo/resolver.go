// Package geo maps region name variants onto the canonical names used by
// map geometry.
package geo

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pulse-analytics/internal/metrics"
)

//go:embed aliases.yaml
var builtinAliases []byte

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// Resolver resolves alternate region names. Lookups are case-insensitive.
type Resolver struct {
	canonical map[string]string // lower-cased alias -> canonical
}

// NewResolver returns a resolver loaded with the built-in alias table.
func NewResolver() (*Resolver, error) {
	r := &Resolver{canonical: map[string]string{}}
	if err := r.merge(builtinAliases); err != nil {
		return nil, fmt.Errorf("builtin aliases: %w", err)
	}
	return r, nil
}

// LoadFile merges aliases from a YAML file of the form {aliases: {alt: canonical}}.
// Entries in the file override built-in ones.
func (r *Resolver) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := r.merge(b); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (r *Resolver) merge(b []byte) error {
	var f aliasFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("parse aliases: %w", err)
	}
	for alt, canon := range f.Aliases {
		r.canonical[key(alt)] = canon
	}
	return nil
}

// Canonical returns the canonical name for name, or name itself when no alias
// is known.
func (r *Resolver) Canonical(name string) string {
	if c, ok := r.canonical[key(name)]; ok {
		return c
	}
	return name
}

// Len is the number of known aliases.
func (r *Resolver) Len() int { return len(r.canonical) }

// Index keys region summaries by canonical name for joining with geometry.
// When two variants resolve to the same name the first summary wins.
func (r *Resolver) Index(regions []metrics.RegionSummary) map[string]metrics.RegionSummary {
	out := make(map[string]metrics.RegionSummary, len(regions))
	for _, reg := range regions {
		k := r.Canonical(reg.Region)
		if _, ok := out[k]; !ok {
			out[k] = reg
		}
	}
	return out
}

func key(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
