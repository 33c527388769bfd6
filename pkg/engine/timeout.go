package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/procmesh/pkg/scene"
)

// EvalTimeout bounds a single Evaluate call unless the engine was given
// another limit.
const EvalTimeout = 5 * time.Second

// errSuperseded is returned when a newer Evaluate started while this one ran.
var errSuperseded = errors.New("evaluation superseded by newer request")

// evalResult carries one evaluation back from its goroutine.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// current reports whether gen is still the latest evaluation.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation == gen
}

// await blocks until the evaluation numbered gen reports on ch or the
// engine's timeout expires. A timed out goroutine keeps running; its
// result lands in the buffered channel and is dropped.
func (e *Engine) await(ch <-chan evalResult, gen uint64) (*scene.Scene, []EvalError, error) {
	limit := e.timeout
	if limit <= 0 {
		limit = EvalTimeout
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()

	var res evalResult
	select {
	case res = <-ch:
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", limit)
	}
	if !e.current(gen) {
		return nil, nil, errSuperseded
	}
	return res.scene, res.errors, res.err
}
