package engine

import (
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/errtype"
	"github.com/chazu/detnav/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// haltSignal is raised inside the interpreter once an evaluation is stopped.
type haltSignal struct{}

type evalResult struct {
	graph  *graph.DetectorGraph
	errors []EvalError
	err    error
}

// evaluation is one Evaluate call in flight.
type evaluation struct {
	gen  uint64
	done chan evalResult
	halt chan struct{}
	once sync.Once
}

func newEvaluation(gen uint64) *evaluation {
	return &evaluation{
		gen:  gen,
		done: make(chan evalResult, 1),
		halt: make(chan struct{}),
	}
}

// stop makes the interpreter abort at its next function call.
func (ev *evaluation) stop() {
	ev.once.Do(func() { close(ev.halt) })
}

// haltHook is installed as a zygomys pre-hook. It runs before every function
// call and unwinds the interpreter once stop was called.
func (ev *evaluation) haltHook(*zygo.Zlisp, string, []zygo.Sexp) {
	select {
	case <-ev.halt:
		panic(haltSignal{})
	default:
	}
}

// await returns the result of ev, or a timeout error once timeout elapses.
// A timed out evaluation is stopped. The result of an evaluation that is no
// longer the latest one is dropped.
func (e *Engine) await(ev *evaluation, timeout time.Duration) (*graph.DetectorGraph, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ev.done:
		if !e.isCurrent(ev.gen) {
			return nil, nil, errors.New("evaluation superseded by newer request").
				WithType(errtype.Evaluation)
		}
		return res.graph, res.errors, res.err

	case <-timer.C:
		ev.stop()
		return nil, nil, errors.Newf("evaluation timed out after %s", timeout).
			WithType(errtype.Evaluation)
	}
}

func (e *Engine) isCurrent(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation == gen
}
