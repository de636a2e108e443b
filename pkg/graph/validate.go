package graph

import (
	"fmt"
	"math"
	"strings"
)

// ValidationSeverity indicates whether a validation finding blocks assembly
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks assembly
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Errors returns only the error-severity findings.
func Errors(findings []ValidationError) []ValidationError {
	var errs []ValidationError
	for _, f := range findings {
		if f.Severity == SeverityError {
			errs = append(errs, f)
		}
	}
	return errs
}

// Summary joins the messages of the given findings with "; ".
func Summary(findings []ValidationError) string {
	msgs := make([]string, len(findings))
	for i, f := range findings {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate runs all structural and shape checks on the detector graph and
// returns the findings. A result without error-severity findings means the
// graph can be assembled. Validate never mutates the graph.
func Validate(g *DetectorGraph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateArity(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateShapes(g)...)
	return errs
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
func validateDAG(g *DetectorGraph) []ValidationError {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	var errs []ValidationError
	color := make(map[NodeID]int, len(g.Nodes))

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "cycle detected",
				Severity: SeverityError,
			})
			return true
		case black:
			return false
		}

		color[id] = gray

		node, ok := g.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	for id := range g.Nodes {
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child reference points to a node
// that exists in g.Nodes.
func validateReferences(g *DetectorGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		for _, childID := range node.Children {
			if _, ok := g.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateArity checks the number of children and the payload type of every
// node against its kind, and that volumes are only referenced as roots.
func validateArity(g *DetectorGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		if want := node.Kind.arity(); len(node.Children) != want {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s node has %d children, want %d", node.Kind, len(node.Children), want),
				Severity: SeverityError,
			})
		}

		var ok bool
		switch node.Kind {
		case NodeShape:
			_, ok = node.Data.(ShapeData)
		case NodeBoolean:
			_, ok = node.Data.(BooleanData)
		case NodeTransform:
			_, ok = node.Data.(TransformData)
		case NodeVolume:
			_, ok = node.Data.(VolumeData)
		}
		if !ok {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s node carries %T data", node.Kind, node.Data),
				Severity: SeverityError,
			})
		}

		for _, childID := range node.Children {
			if child := g.Nodes[childID]; child != nil && child.Kind == NodeVolume {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("volume %q used as a child, volumes cannot be nested", child.Name),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateNames checks that the NameIndex points to existing nodes and that
// no two nodes share a name.
func validateNames(g *DetectorGraph) []ValidationError {
	var errs []ValidationError

	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range g.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root is an existing, named volume node that
// appears once, and warns about nodes unreachable from any root.
func validateRoots(g *DetectorGraph) []ValidationError {
	var errs []ValidationError

	seen := make(map[NodeID]bool, len(g.Roots))
	for _, rid := range g.Roots {
		node, ok := g.Nodes[rid]
		switch {
		case !ok:
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
			continue
		case node.Kind != NodeVolume:
			errs = append(errs, ValidationError{
				NodeID:   rid,
				Message:  fmt.Sprintf("root is a %s node, not a volume", node.Kind),
				Severity: SeverityError,
			})
		case node.Name == "":
			errs = append(errs, ValidationError{
				NodeID:   rid,
				Message:  "volume has no name",
				Severity: SeverityError,
			})
		}
		if seen[rid] {
			errs = append(errs, ValidationError{
				NodeID:   rid,
				Message:  fmt.Sprintf("root %q declared more than once", node.Name),
				Severity: SeverityError,
			})
		}
		seen[rid] = true
	}

	if len(g.Nodes) == 0 {
		return errs
	}

	// Orphan detection: BFS from all roots through Children edges.
	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range g.Nodes {
		if !reachable[id] {
			name := node.Name
			if name == "" {
				name = id.Short()
			}
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any volume (orphan)", name),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateShapes checks that every shape has finite, positive dimensions and
// that tubes have an inner radius in [0, radius).
func validateShapes(g *DetectorGraph) []ValidationError {
	var errs []ValidationError

	positive := func(node *Node, what string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s must be positive and finite, got %g", what, v),
				Severity: SeverityError,
			})
		}
	}

	for _, node := range g.Nodes {
		sd, ok := node.Data.(ShapeData)
		if !ok {
			continue
		}
		switch sd.Shape {
		case ShapeBox:
			positive(node, "box x", sd.Size.X)
			positive(node, "box y", sd.Size.Y)
			positive(node, "box z", sd.Size.Z)
		case ShapeCylinder:
			positive(node, "cylinder radius", sd.Radius)
			positive(node, "cylinder height", sd.Height)
		case ShapeTube:
			positive(node, "tube rmax", sd.Radius)
			positive(node, "tube height", sd.Height)
			if !(sd.InnerRadius >= 0) || sd.InnerRadius >= sd.Radius {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("tube rmin %g must be in [0, %g)", sd.InnerRadius, sd.Radius),
					Severity: SeverityError,
				})
			}
		case ShapeSphere:
			positive(node, "sphere radius", sd.Radius)
		default:
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("unknown shape %s", sd.Shape),
				Severity: SeverityError,
			})
		}
	}

	return errs
}
