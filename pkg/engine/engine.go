// Package engine evaluates detector descriptions. It wraps zygomys in a
// sandboxed environment and produces a DetectorGraph from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/errtype"
	"github.com/chazu/detnav/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for detector evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	timeout time.Duration
	running atomic.Int32

	mu         sync.Mutex
	generation uint64
	latest     *evaluation
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{timeout: EvalTimeout}
}

// Evaluate takes a detector description and produces a new DetectorGraph.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns graph + nil errors + nil error
//   - On parse/eval failure: returns nil graph + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
//
// A newer call, or the timeout, stops the interpreter of the older
// evaluation at its next function call.
func (e *Engine) Evaluate(source string) (*graph.DetectorGraph, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	ev := newEvaluation(e.generation)
	if e.latest != nil {
		e.latest.stop()
	}
	e.latest = ev
	e.mu.Unlock()

	timeout := e.timeout
	if timeout <= 0 {
		timeout = EvalTimeout
	}

	e.running.Add(1)
	go func() {
		defer e.running.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(haltSignal); ok {
					ev.done <- evalResult{err: errors.New("evaluation halted").
						WithType(errtype.Evaluation)}
					return
				}
				ev.done <- evalResult{err: errors.Newf("panic during evaluation: %v", r).
					WithType(errtype.Evaluation)}
			}
		}()

		g, evalErrs, err := e.evaluate(source, ev)
		ev.done <- evalResult{graph: g, errors: evalErrs, err: err}
	}()

	return e.await(ev, timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string, ev *evaluation) (*graph.DetectorGraph, []EvalError, error) {
	// Empty source is a valid program that produces an empty graph.
	if strings.TrimSpace(source) == "" {
		return graph.New(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	env.AddPreHook(ev.haltHook)

	g := graph.New()
	registerBuiltins(env, g)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	return g, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// No line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
