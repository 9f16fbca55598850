/*
NAME
  catalogue.go

DESCRIPTION
  catalogue.go implements spec.md §4.5.5: dumping a finalised
  backend.Config to JSON, loading one back (clearing every dirty flag,
  since a loaded config is definitionally clean), and merging only the
  byte ranges a caller's dirty-bit set actually touched from one Config
  into another.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package catalogue implements the JSON debug interface and dirty-range
// merge semantics of spec.md §4.5.5 and §6, built over a small
// reflect-derived table of {name, field} entries mirroring
// backend.Config's exported block fields.
package catalogue

import (
	"encoding/json"
	"reflect"

	"github.com/ausocean/pisp/backend"
	"github.com/pkg/errors"
)

// Entry names one top-level field of backend.Config, for diagnostic
// enumeration and selective merge (spec.md §4.5.5's "per-block byte
// ranges").
type Entry struct {
	Name  string
	Index int // field index within backend.Config, for reflect.Value.Field.
}

// blockEntries enumerates backend.Config's direct exported fields. It
// is computed once via reflect and cached, mirroring revid/config's
// table-of-fields idiom but built automatically instead of by hand,
// since backend.Config has far more fields than revid's flat settings
// struct.
var blockEntries = buildEntries()

func buildEntries() []Entry {
	t := reflect.TypeOf(backend.Config{})
	entries := make([]Entry, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		entries = append(entries, Entry{Name: f.Name, Index: i})
	}
	return entries
}

// Entries returns the catalogue of backend.Config's top-level blocks.
func Entries() []Entry {
	out := make([]Entry, len(blockEntries))
	copy(out, blockEntries)
	return out
}

// DumpJSON marshals cfg as an indented JSON object keyed by Go field
// name (spec.md §6's JSON debug interface).
func DumpJSON(cfg backend.Config) ([]byte, error) {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "catalogue: marshal config")
	}
	return b, nil
}

// LoadJSON unmarshals data into a fresh Config. The result carries no
// dirty state: a config loaded from a JSON snapshot is, by definition,
// already finalised (spec.md §4.5.5) — callers that want to re-trigger
// finalisation or retiling must explicitly re-apply the relevant
// setters afterwards.
func LoadJSON(data []byte) (backend.Config, error) {
	var cfg backend.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return backend.Config{}, errors.Wrap(err, "catalogue: unmarshal config")
	}
	return cfg, nil
}

// Merge copies every top-level block named in names from src into dst,
// leaving every other field of dst untouched. This is the "apply only
// the dirty ranges" half of spec.md §4.5.5: a caller that knows which
// blocks changed (e.g. from a prior BackEnd's dirty bits, surfaced
// through its own diagnostic hooks) can merge just those blocks into a
// separately-held snapshot without clobbering the rest.
func Merge(dst *backend.Config, src backend.Config, names []string) error {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	dstV := reflect.ValueOf(dst).Elem()
	srcV := reflect.ValueOf(src)

	for _, e := range blockEntries {
		if !want[e.Name] {
			continue
		}
		df := dstV.Field(e.Index)
		if !df.CanSet() {
			return errors.Errorf("catalogue: field %s is not settable", e.Name)
		}
		df.Set(srcV.Field(e.Index))
	}
	return nil
}
