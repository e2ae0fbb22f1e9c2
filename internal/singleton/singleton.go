// SPDX-License-Identifier: AGPL-3.0-only
package singleton

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock guards the run-history database against concurrent writers.
// Two CLI invocations sharing one database could otherwise race the
// schema migrations on first open.
type Lock struct {
	flock *flock.Flock
}

// TryAcquire attempts to acquire the history lock for the given database
// path. It returns the lock and true if acquired, or nil and false if
// another invocation currently holds it. Callers that fail to acquire
// should run without history rather than block or fail the run.
func TryAcquire(dbPath string) (*Lock, bool, error) {
	lockPath := dbPath + ".lock"

	// First-run scenario: the history directory may not exist yet.
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, false, fmt.Errorf("singleton: create lock directory: %w", err)
	}

	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("singleton: try lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, false, nil
	}
	return &Lock{flock: fl}, true, nil
}

// Release releases the history lock.
func (l *Lock) Release() error {
	return l.flock.Unlock()
}
