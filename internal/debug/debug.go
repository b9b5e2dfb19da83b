// Package debug provides the diagnostics side-channel: an optional trace
// writer for the pipeline and a human-readable dump of extracted modules.
// Nothing in here is on the extraction path; the core never logs.
package debug

import (
	"fmt"
	"io"
	"sync"
)

// EnableDebug can be flipped at build time:
// go build -ldflags "-X github.com/hiegraph/hiegraph/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	debugMutex  sync.Mutex
	debugOutput io.Writer
)

// SetOutput sets the writer trace lines go to. Pass nil to disable tracing.
func SetOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// Enabled reports whether tracing is currently active.
func Enabled() bool {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput != nil || EnableDebug == "true"
}

// Logf writes one formatted trace line if tracing is active.
func Logf(format string, args ...any) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	if debugOutput == nil {
		return
	}
	fmt.Fprintf(debugOutput, format+"\n", args...)
}
