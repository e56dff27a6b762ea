package calcengine

import (
	"fmt"
	"strconv"
	"strings"
)

// foldChain combines per-condition verdicts left to right. The logical
// operator stored on condition i joins its verdict with condition i+1's;
// an empty operator in a non-terminal position defaults to AND. There is
// no short-circuiting and no AND-over-OR precedence: mixed chains fold
// strictly left to right, which is load-bearing for existing topic
// definitions and must not be "fixed".
func foldChain(verdicts []bool, joins []LogicalOp) bool {
	if len(verdicts) == 0 {
		return false
	}
	result := verdicts[0]
	for i := 1; i < len(verdicts); i++ {
		// joins[i-1] is the operator attached to the previous condition.
		if joins[i-1] == LogicalOr {
			result = result || verdicts[i]
		} else {
			result = result && verdicts[i]
		}
	}
	return result
}

// compareNumeric applies op between two numbers.
func compareNumeric(left float64, op string, right float64) (bool, error) {
	switch op {
	case "==":
		return left == right, nil
	case "!=":
		return left != right, nil
	case ">":
		return left > right, nil
	case "<":
		return left < right, nil
	case ">=":
		return left >= right, nil
	case "<=":
		return left <= right, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}
}

// compareRaw applies op between two raw input strings: numerically when
// both parse as numbers, otherwise by string equality for ==/!=. Ordering
// operators on non-numeric values never match.
func compareRaw(left, op, right string) (bool, error) {
	lv, lok := parseNumber(left)
	rv, rok := parseNumber(right)
	if lok && rok {
		return compareNumeric(lv, op, rv)
	}

	switch op {
	case "==":
		return strings.TrimSpace(left) == strings.TrimSpace(right), nil
	case "!=":
		return strings.TrimSpace(left) != strings.TrimSpace(right), nil
	case ">", "<", ">=", "<=":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}
}

// parseNumber reports whether s is purely a floating-point number.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
