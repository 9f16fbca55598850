/*
NAME
  mutex_unix.go

DESCRIPTION
  mutex_unix.go implements the inter-process mutex of spec.md §5: an
  flock(2)-based advisory lock over a path shared by every process that
  maps the same BackEnd's configuration record into shared memory.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package backend

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// procMutex is an advisory, exclusive flock(2) held across every setter
// and Prepare call on a BackEnd instance shared across processes
// (spec.md §5). It is reentrant-unsafe by design: flock blocks the
// calling thread, matching the reference implementation's "one
// configuring process at a time" contract.
type procMutex struct {
	f *os.File
}

// newProcMutex opens (creating if necessary) the lock file at path and
// returns a procMutex ready to Lock/Unlock.
func newProcMutex(path string) (*procMutex, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "backend: opening lock file %s", path)
	}
	return &procMutex{f: f}, nil
}

// Lock blocks until the exclusive flock is acquired.
func (m *procMutex) Lock() error {
	if err := unix.Flock(int(m.f.Fd()), unix.LOCK_EX); err != nil {
		return errors.Wrap(err, "backend: flock acquire")
	}
	return nil
}

// Unlock releases the flock.
func (m *procMutex) Unlock() error {
	if err := unix.Flock(int(m.f.Fd()), unix.LOCK_UN); err != nil {
		return errors.Wrap(err, "backend: flock release")
	}
	return nil
}
