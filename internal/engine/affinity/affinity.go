// Package affinity asserts that render-affecting calls stay on the goroutine
// that owns the renderer.
//
// Go exposes no thread identity, so ownership is tracked per goroutine. The
// render goroutine is pinned to its OS thread by the window package, which
// makes the two equivalent for the GL context.
package affinity

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
)

// Owner records the goroutine that created it.
// The zero value is disabled and never panics.
type Owner struct {
	name    string
	id      uint64
	enabled bool
}

// New captures the calling goroutine as owner. When enabled is false every
// Check is a no-op.
func New(name string, enabled bool) Owner {
	return Owner{name: name, id: goroutineID(), enabled: enabled}
}

// Check panics if called from a goroutine other than the owner.
// Violations are programming errors and are not recoverable.
func (o Owner) Check(op string) {
	if !o.enabled {
		return
	}
	if id := goroutineID(); id != o.id {
		panic(fmt.Sprintf("%s: %s called from goroutine %d, owned by goroutine %d", o.name, op, id, o.id))
	}
}

// Enabled reports whether checks are active.
func (o Owner) Enabled() bool {
	return o.enabled
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID parses the id out of the "goroutine N [running]:" stack header.
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		panic(fmt.Sprintf("affinity: cannot parse goroutine id from %q", b))
	}
	return id
}
