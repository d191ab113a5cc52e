// Package options holds the process-wide tunables described in bitformat's
// external interface: the default byte-alignment for search/replace, the
// colour suppression flag, and the pretty-print indent size. It is the one
// piece of global mutable state in the module, guarded by a RWMutex rather
// than exposed as bare package variables.
package options

import (
	"os"
	"sync"
)

// Options is a snapshot of the process-wide tunables. Values are copied in
// and out of the singleton; callers never hold a pointer into it.
type Options struct {
	ByteAligned bool
	NoColor     bool
	IndentSize  int
}

var (
	mu      sync.RWMutex
	current = Options{
		ByteAligned: false,
		NoColor:     !isTerminal(),
		IndentSize:  4,
	}
)

// Get returns a copy of the current options.
func Get() Options {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set applies mutate to the current options under an exclusive lock.
func Set(mutate func(*Options)) {
	mu.Lock()
	defer mu.Unlock()
	mutate(&current)
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
