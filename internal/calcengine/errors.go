package calcengine

import "errors"

// Sentinel errors. Check with errors.Is.
var (
	// ErrInvalidInput covers bad caller input: empty formula, a visible
	// required number field with an unparsable value.
	ErrInvalidInput = errors.New("calcengine: invalid input")

	// ErrBadExpression covers formulas that fail to parse.
	ErrBadExpression = errors.New("calcengine: malformed expression")

	// ErrUnknownIdentifier is returned when a formula references a name
	// not bound to a numeric field value or known constant.
	ErrUnknownIdentifier = errors.New("calcengine: unknown identifier")

	// ErrUnknownFunction is returned for calls outside the allow list.
	ErrUnknownFunction = errors.New("calcengine: unknown function")

	// ErrNotFinite is returned when a formula evaluates to NaN or ±Inf.
	ErrNotFinite = errors.New("calcengine: formula result is not finite")

	// ErrInvalidOperator is returned for a condition operator outside
	// ==, !=, >, <, >=, <=.
	ErrInvalidOperator = errors.New("calcengine: invalid condition operator")
)
