/*
NAME
  watch.go

DESCRIPTION
  watch.go implements an optional fsnotify-driven reload of the defaults
  asset, so a long-running process picks up an updated defaults file
  without restarting.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package defaults

import (
	"github.com/ausocean/pisp/logx"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watch loads path once, then watches it for writes/creates and
// reloads on every change until stop is closed. Reload errors are
// logged but do not stop the watch: a transient write-in-progress
// state (the writer hasn't finished the file yet) should not tear down
// a running process's defaults.
func Watch(path string, log logx.Logger, stop <-chan struct{}) (*Defaults, error) {
	d, err := Load(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "defaults: creating watcher")
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "defaults: watching %s", path)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if _, err := Load(path); err != nil {
					log.Warn("defaults: reload failed", "path", path, "error", err)
				} else {
					log.Info("defaults: reloaded", "path", path)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("defaults: watcher error", "error", err)
			}
		}
	}()

	return d, nil
}
