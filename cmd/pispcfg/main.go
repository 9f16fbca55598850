/*
NAME
  main.go

DESCRIPTION
  pispcfg is a CLI front-end for the back-end preparer: it reads a
  frame-descriptor JSON document and an optional defaults asset, drives
  backend.BackEnd through one Prepare call, and writes the resulting
  {config, tiles} payload to stdout, matching spec.md §1's "thin CLI
  glue, not a domain component" framing.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ausocean/pisp/backend"
	"github.com/ausocean/pisp/catalogue"
	"github.com/ausocean/pisp/defaults"
	"github.com/ausocean/pisp/format"
	"github.com/ausocean/pisp/logx"
)

// request is the minimal caller-facing JSON document pispcfg accepts:
// an input format plus a single branch request. It deliberately does
// not expose every block setter backend.BackEnd has — it is a
// demonstration/debug harness, not the programmatic API.
type request struct {
	Input struct {
		Format format.ImageFormatConfig `json:"format"`
		Bayer  bool                     `json:"bayer"`
	} `json:"input"`
	Branch0 struct {
		Width, Height uint32                     `json:"width,omitempty"`
		CropLeft      uint32                     `json:"crop_left,omitempty"`
		CropRight     uint32                     `json:"crop_right,omitempty"`
		CropTop       uint32                     `json:"crop_top,omitempty"`
		CropBottom    uint32                     `json:"crop_bottom,omitempty"`
		OutputFormat  backend.OutputFormatConfig `json:"output_format"`
	} `json:"branch0"`
}

func main() {
	inputPath := flag.String("input", "", "path to the frame-descriptor JSON request")
	defaultsPath := flag.String("defaults", "", "path to the defaults JSON asset (optional)")
	logPath := flag.String("log", "", "path to a log file (logging disabled if empty)")
	flag.Parse()

	log := logx.NoOp()
	if *logPath != "" {
		log = logx.New(*logPath, logx.Config{})
	}

	if *defaultsPath != "" {
		if _, err := defaults.Load(*defaultsPath); err != nil {
			fmt.Fprintf(os.Stderr, "pispcfg: loading defaults: %v\n", err)
			os.Exit(1)
		}
	}

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "pispcfg: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pispcfg: reading input: %v\n", err)
		os.Exit(1)
	}

	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		fmt.Fprintf(os.Stderr, "pispcfg: parsing input: %v\n", err)
		os.Exit(1)
	}

	be := backend.New(log)
	if err := applyRequest(be, &req); err != nil {
		fmt.Fprintf(os.Stderr, "pispcfg: applying request: %v\n", err)
		os.Exit(1)
	}

	tiles, err := be.Prepare()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pispcfg: prepare failed: %v\n", err)
		os.Exit(1)
	}

	out, err := catalogue.DumpJSON(tiles.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pispcfg: dumping config: %v\n", err)
		os.Exit(1)
	}

	tilesOut, err := json.Marshal(tiles.Tiles[:tiles.NumTiles])
	if err != nil {
		fmt.Fprintf(os.Stderr, "pispcfg: dumping tiles: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf(`{"config":%s,"tiles":%s,"num_tiles":%d}`+"\n", out, tilesOut, tiles.NumTiles)
}

func applyRequest(be *backend.BackEnd, req *request) error {
	if err := be.SetInputFormat(req.Input.Format); err != nil {
		return err
	}
	if req.Input.Bayer {
		if err := be.SetBayerInputEnabled(true); err != nil {
			return err
		}
	} else {
		if err := be.SetRGBInputEnabled(true); err != nil {
			return err
		}
	}

	if err := be.SetBranchCrop(0, backend.CropConfig{
		Left: req.Branch0.CropLeft, Right: req.Branch0.CropRight,
		Top: req.Branch0.CropTop, Bottom: req.Branch0.CropBottom,
	}); err != nil {
		return err
	}
	if req.Branch0.Width != 0 && req.Branch0.Height != 0 {
		if err := be.SetBranchSmartResize(0, req.Branch0.Width, req.Branch0.Height); err != nil {
			return err
		}
	}
	return be.SetBranchOutputFormat(0, req.Branch0.OutputFormat, true)
}
