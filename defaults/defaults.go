/*
NAME
  defaults.go

DESCRIPTION
  defaults.go implements the defaults asset of spec.md §6: a JSON file
  of per-block default coefficients (debin taps, demosaic/false-colour
  settings, gamma LUT, named resample filters, the smart-resize
  selection tables, the sharpen band bank, and named colour-encoding
  matrices), loaded by an explicit Load call into a process-wide value
  and optionally hot-reloaded via fsnotify.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package defaults loads and serves the back-end's JSON defaults asset
// (spec.md §6) as a process-wide, mutex-guarded singleton, with an
// optional fsnotify watch that reloads it in place when the file on
// disk changes. Nothing is loaded until Load (or Watch) is called; Get
// does not load the asset on first use.
package defaults

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Point is a single (x, y) knot of a piecewise-linear curve (the gamma
// LUT), matching backend.Point's JSON shape without importing backend
// (defaults does not depend on backend, and backend does not import
// defaults).
type Point struct {
	X, Y uint16
}

// Defaults is the parsed shape of the JSON asset from spec.md §6.
type Defaults struct {
	Debin struct {
		Coefs [4]int16 `json:"coefs"`
	} `json:"debin"`

	Demosaic struct {
		Sharper bool   `json:"sharper"`
		FCMode  uint8  `json:"fc_mode"`
	} `json:"demosaic"`

	FalseColour struct {
		Distance uint16 `json:"distance"`
	} `json:"false_colour"`

	Gamma struct {
		LUT []Point `json:"lut"`
	} `json:"gamma"`

	Resample struct {
		Filters        map[string][96]int16 `json:"filters"`
		SmartSelection struct {
			Downscale []uint32 `json:"downscale"`
			Filter    []string `json:"filter"`
		} `json:"smart_selection"`
	} `json:"resample"`

	Sharpen struct {
		Filters [5]struct {
			Kernel         [5]int16 `json:"kernel"`
			Offset         int16    `json:"offset"`
			ThresholdSlope uint16   `json:"threshold_slope"`
			Scale          uint16   `json:"scale"`
		} `json:"filters"`
		Positive      sharpenLimitJSON `json:"positive"`
		Negative      sharpenLimitJSON `json:"negative"`
		Enables       string           `json:"enables"` // hex string, spec.md §6.
		White         uint8            `json:"white"`
		Black         uint8            `json:"black"`
		Grey          uint8            `json:"grey"`
		ShfcYFactor   uint16           `json:"shfc_y_factor"`
	} `json:"sharpen"`

	ColourEncoding map[string]struct {
		YCbCr struct {
			Coeffs  [9]int16 `json:"coeffs"`
			Offsets [3]int16 `json:"offsets"`
		} `json:"ycbcr"`
		YCbCrInverse struct {
			Coeffs  [9]int16 `json:"coeffs"`
			Offsets [3]int16 `json:"offsets"`
		} `json:"ycbcr_inverse"`
	} `json:"colour_encoding"`
}

type sharpenLimitJSON struct {
	Strength uint16   `json:"strength"`
	PreLimit uint16   `json:"pre_limit"`
	Function [9]int16 `json:"function"`
	Limit    uint16   `json:"limit"`
}

var (
	mu      sync.Mutex
	current *Defaults
)

// Load parses the defaults asset at path and installs it as the
// process-wide singleton, replacing any previous value. Concurrent
// calls to Get observe either the old or the new value, never a
// partially-constructed one.
func Load(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "defaults: reading %s", path)
	}

	var d Defaults
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrapf(err, "defaults: parsing %s", path)
	}

	mu.Lock()
	current = &d
	mu.Unlock()

	return &d, nil
}

// Get returns the currently-loaded defaults, or nil if Load has never
// been called. Callers needing guaranteed-non-nil defaults should call
// Load explicitly at startup instead of relying on a fallback here: a
// silently-absent defaults asset would mask a deployment error (missing
// the asset file) that callers need to see.
func Get() *Defaults {
	mu.Lock()
	defer mu.Unlock()
	return current
}
