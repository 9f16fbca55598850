/*
NAME
  catalogue_test.go

DESCRIPTION
  catalogue_test.go tests the block catalogue, dirty-range Merge, and
  DumpJSON/LoadJSON round-tripping of catalogue.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package catalogue

import (
	"testing"

	"github.com/ausocean/pisp/backend"
	"github.com/google/go-cmp/cmp"
)

func TestDumpLoadRoundTrip(t *testing.T) {
	var cfg backend.Config
	cfg.Enables.Bayer = 1
	cfg.Input.Width = 1920
	cfg.Input.Height = 1080
	cfg.Debin.Coefs = [4]int16{1, 2, 3, 4}

	data, err := DumpJSON(cfg)
	if err != nil {
		t.Fatalf("DumpJSON: %v", err)
	}

	got, err := LoadJSON(data)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeOnlyNamedBlocks(t *testing.T) {
	var dst backend.Config
	dst.Input.Width = 640
	dst.Debin.Coefs = [4]int16{9, 9, 9, 9}

	var src backend.Config
	src.Input.Width = 1920
	src.Debin.Coefs = [4]int16{1, 2, 3, 4}

	if err := Merge(&dst, src, []string{"Input"}); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if dst.Input.Width != 1920 {
		t.Errorf("Input.Width = %d, want 1920 (merged)", dst.Input.Width)
	}
	if dst.Debin.Coefs != [4]int16{9, 9, 9, 9} {
		t.Errorf("Debin.Coefs = %v, want unchanged (not in merge set)", dst.Debin.Coefs)
	}
}

func TestEntriesCoverExportedFields(t *testing.T) {
	names := map[string]bool{}
	for _, e := range Entries() {
		names[e.Name] = true
	}
	for _, want := range []string{"Enables", "Input", "Debin", "Branches", "HOG"} {
		if !names[want] {
			t.Errorf("Entries() missing block %q", want)
		}
	}
}
