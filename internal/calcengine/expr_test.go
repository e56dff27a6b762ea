package calcengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		formula  string
		vars     map[string]float64
		expected float64
	}{
		{"literal", "42", nil, 42},
		{"decimal literal", "3.5", nil, 3.5},
		{"addition", "1 + 2 + 3", nil, 6},
		{"precedence", "2 + 3 * 4", nil, 14},
		{"parens", "(2 + 3) * 4", nil, 20},
		{"unary minus", "-5 + 8", nil, 3},
		{"double unary", "--5", nil, 5},
		{"modulo", "10 % 3", nil, 1},
		{"division chain", "100 / 5 / 2", nil, 10},
		{"variable", "weight * 2", map[string]float64{"weight": 35}, 70},
		{"two variables", "weight / ((height/100) * (height/100))", map[string]float64{"weight": 70, "height": 175}, 22.857142857142858},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalExpression(tt.formula, tt.vars)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestEvalMathFunctions(t *testing.T) {
	tests := []struct {
		name     string
		formula  string
		vars     map[string]float64
		expected float64
	}{
		{"sqrt", "sqrt(16)", nil, 4},
		{"math prefix", "Math.sqrt(16)", nil, 4},
		{"pow", "Math.pow(2, 10)", nil, 1024},
		{"abs", "abs(-3)", nil, 3},
		{"round", "round(2.5)", nil, 3},
		{"floor", "floor(2.9)", nil, 2},
		{"ceil", "ceil(2.1)", nil, 3},
		{"min variadic", "min(4, 2, 9)", nil, 2},
		{"max variadic", "Math.max(4, 2, 9)", nil, 9},
		{"nested calls", "sqrt(pow(3, 2) + pow(4, 2))", nil, 5},
		{"bsa mosteller", "Math.sqrt((height * weight) / 3600)", map[string]float64{"height": 170, "weight": 65}, 1.7519830034690533},
		{"pi constant", "Math.PI", nil, 3.141592653589793},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalExpression(tt.formula, tt.vars)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		vars    map[string]float64
		wantErr error
	}{
		{"unknown identifier", "weight + 1", nil, ErrUnknownIdentifier},
		{"unknown function", "evil(1)", nil, ErrUnknownFunction},
		{"function outside allow list", "Math.random()", nil, ErrUnknownFunction},
		{"pow arity", "pow(2)", nil, ErrBadExpression},
		{"min no args", "min()", nil, ErrBadExpression},
		{"dangling operator", "1 +", nil, ErrBadExpression},
		{"unbalanced parens", "(1 + 2", nil, ErrBadExpression},
		{"trailing garbage", "1 + 2 )", nil, ErrBadExpression},
		{"bad character", "1 $ 2", nil, ErrBadExpression},
		{"bad number", "1..2 + 3", nil, ErrBadExpression},
		{"empty", "", nil, ErrBadExpression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evalExpression(tt.formula, tt.vars)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEvalNoCodeInjection(t *testing.T) {
	// Anything resembling host-language syntax must fail to parse, not
	// execute.
	for _, formula := range []string{
		"process.exit(1)",
		"require('fs')",
		"a = 1",
		"weight; height",
		"[1,2,3]",
	} {
		_, err := evalExpression(formula, map[string]float64{"weight": 1, "height": 1})
		assert.Error(t, err, "formula %q must be rejected", formula)
	}
}

func TestEvalDivisionByZeroYieldsInf(t *testing.T) {
	// The evaluator itself lets ±Inf through; Evaluate rejects it via the
	// finiteness check.
	got, err := evalExpression("1 / 0", nil)
	require.NoError(t, err)
	assert.True(t, got > 0 && got*2 == got, "expected +Inf")
}
