/*
NAME
  defaults_test.go

DESCRIPTION
  defaults_test.go tests loading the defaults JSON asset of defaults.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package defaults

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleJSON = `{
  "debin": {"coefs": [1, 2, 3, 4]},
  "demosaic": {"sharper": true, "fc_mode": 2},
  "false_colour": {"distance": 16},
  "gamma": {"lut": [{"X":0,"Y":0},{"X":4095,"Y":4095}]},
  "resample": {
    "filters": {"bilinear": [256,256,256,256,256,256]},
    "smart_selection": {"downscale": [4096, 8192], "filter": ["bilinear", "lanczos3"]}
  },
  "sharpen": {
    "enables": "1f",
    "white": 235,
    "black": 16,
    "grey": 128,
    "shfc_y_factor": 256
  },
  "colour_encoding": {
    "bt601": {
      "ycbcr": {"coeffs": [77,150,29,-43,-85,128,128,-107,-21], "offsets": [0,128,128]},
      "ycbcr_inverse": {"coeffs": [256,0,351,256,-86,-179,256,444,0], "offsets": [0,-128,-128]}
    }
  }
}`

func TestLoadParsesAsset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if d.Debin.Coefs != [4]int16{1, 2, 3, 4} {
		t.Errorf("Debin.Coefs = %v", d.Debin.Coefs)
	}
	if !d.Demosaic.Sharper || d.Demosaic.FCMode != 2 {
		t.Errorf("Demosaic = %+v", d.Demosaic)
	}
	if got := d.Resample.Filters["bilinear"]; got[0] != 256 {
		t.Errorf("Resample.Filters[bilinear][0] = %d, want 256", got[0])
	}
	if len(d.Resample.SmartSelection.Downscale) != 2 {
		t.Errorf("SmartSelection.Downscale = %v", d.Resample.SmartSelection.Downscale)
	}
	enc, ok := d.ColourEncoding["bt601"]
	if !ok {
		t.Fatalf("ColourEncoding missing bt601")
	}
	if enc.YCbCr.Coeffs[0] != 77 {
		t.Errorf("bt601 ycbcr coeffs[0] = %d, want 77", enc.YCbCr.Coeffs[0])
	}

	if Get() != d {
		t.Errorf("Get() did not return the freshly loaded singleton")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load of a missing file should fail")
	}
}
