package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/detnav/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so solids can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	kind graph.NodeKind
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(%s %q)", n.kind, n.name)
	}
	return fmt.Sprintf("(%s %s)", n.kind, n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	form       string
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(form string, args []zygo.Sexp) kwArgs {
	result := kwArgs{form: form, kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			// Trailing keyword with no value.
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// number returns the required numeric keyword argument key.
func (a kwArgs) number(key string) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return 0, formError(a.form, nil, "missing :%s", key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, formError(a.form, err, "%s", key)
	}
	return f, nil
}

// optionalNumber returns the numeric keyword argument key, or def when it
// is absent.
func (a kwArgs) optionalNumber(key string, def float64) (float64, error) {
	if _, ok := a.kw[key]; !ok {
		return def, nil
	}
	return a.number(key)
}

// optionalVec3 returns the vec3 keyword argument key, or nil when it is absent.
func (a kwArgs) optionalVec3(key string) (*graph.Vec3, error) {
	v, ok := a.kw[key]
	if !ok {
		return nil, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return nil, formError(a.form, err, "%s", key)
	}
	return &vec, nil
}

// FormError is a problem with a DSL form. Builtins hand it to zygomys, so its
// text is what ends up in EvalError.Message and must read as plain prose.
type FormError struct {
	Form    string
	Message string
	Err     error
}

func (e *FormError) Error() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.Form, e.Message} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *FormError) Unwrap() error { return e.Err }

// formError reports a problem with a DSL form, wrapping cause when non-nil.
func formError(form string, cause error, format string, args ...any) error {
	return &FormError{
		Form:    form,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// valueError reports an argument of the wrong kind.
func valueError(format string, args ...any) error {
	return &FormError{Message: fmt.Sprintf(format, args...)}
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, valueError("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", valueError("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a solid reference. Volumes are not solids.
func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	ref, ok := s.(*sexpNodeRef)
	if !ok {
		return nil, valueError("expected solid, got %T (%s)", s, s.SexpString(nil))
	}
	if ref.kind == graph.NodeVolume {
		return nil, valueError("volume %q cannot be used as a solid", ref.name)
	}
	return ref, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return graph.Vec3{}, valueError("expected vec3, got %T (%s)", s, s.SexpString(nil))
}
