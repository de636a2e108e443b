// Package errtype holds the error type tags shared across detnav packages.
// Errors are built with github.com/aukilabs/go-tooling/pkg/errors and
// checked with errors.IsType.
package errtype

const (
	// Configuration marks invalid builder input: an empty volume set, an
	// empty or malformed cast list, or a bad binning prescription.
	Configuration = "configuration-error"

	// DegenerateGeometry marks a bounding extent that is non-finite or has
	// zero width on a cast direction.
	DegenerateGeometry = "degenerate-geometry"

	// Validation marks a detector description graph that failed validation.
	Validation = "validation-error"

	// Evaluation marks a detector description script that failed to run.
	Evaluation = "evaluation-error"
)
