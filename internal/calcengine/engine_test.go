package calcengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bmiTopic() *Topic {
	return &Topic{
		Title:       "Body Mass Index",
		Formula:     "weight / ((height/100) * (height/100))",
		ResultLabel: "BMI",
		ResultUnit:  "kg/m²",
		Fields: []Field{
			{Key: "weight", Type: FieldNumber, Label: "Weight", Unit: "kg", Required: true},
			{Key: "height", Type: FieldNumber, Label: "Height", Unit: "cm", Required: true},
		},
		Classifications: []Classification{
			{
				Name: "BMI Category",
				Options: []ClassificationOption{
					{Value: "underweight", Label: "Underweight", Conditions: []ResultCondition{
						{Operator: "<", Value: 18.5},
					}},
					{Value: "normal", Label: "Normal", Conditions: []ResultCondition{
						{Operator: ">=", Value: 18.5, LogicalOp: LogicalAnd},
						{Operator: "<", Value: 25},
					}},
					{Value: "overweight", Label: "Overweight", Conditions: []ResultCondition{
						{Operator: ">=", Value: 25, LogicalOp: LogicalAnd},
						{Operator: "<", Value: 30},
					}},
					{Value: "obese", Label: "Obese", Conditions: []ResultCondition{
						{Operator: ">=", Value: 30},
					}},
				},
			},
		},
	}
}

func TestEvaluateBMI(t *testing.T) {
	res, err := Evaluate(bmiTopic(), map[string]string{"weight": "70", "height": "175"})
	require.NoError(t, err)

	assert.InDelta(t, 22.857142857142858, res.Value, 1e-9)
	assert.Equal(t, "BMI", res.ResultLabel)
	require.Len(t, res.Classifications, 1)
	require.Len(t, res.Classifications[0].Options, 1)
	assert.Equal(t, "normal", res.Classifications[0].Options[0].Value)
}

func TestEvaluateBMIObese(t *testing.T) {
	res, err := Evaluate(bmiTopic(), map[string]string{"weight": "95", "height": "170"})
	require.NoError(t, err)
	require.Len(t, res.Classifications, 1)
	assert.Equal(t, "obese", res.Classifications[0].Options[0].Value)
}

func TestEvaluateBoundaryNotMatched(t *testing.T) {
	// result == 30 fails the "normal" chain (>=18.5 AND <25).
	topic := bmiTopic()
	topic.Formula = "30"
	res, err := Evaluate(topic, map[string]string{"weight": "1", "height": "1"})
	require.NoError(t, err)
	require.Len(t, res.Classifications, 1)
	require.Len(t, res.Classifications[0].Options, 1)
	assert.Equal(t, "obese", res.Classifications[0].Options[0].Value)
}

func TestEvaluateMissingInputContributesZero(t *testing.T) {
	topic := &Topic{
		Title:   "Sum",
		Formula: "a + b",
		Fields: []Field{
			{Key: "a", Type: FieldNumber},
			{Key: "b", Type: FieldNumber},
		},
	}
	res, err := Evaluate(topic, map[string]string{"a": "5"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Value)
}

func TestEvaluateRequiredNumberUnparsable(t *testing.T) {
	topic := bmiTopic()
	_, err := Evaluate(topic, map[string]string{"weight": "heavy", "height": "175"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEvaluateOptionalNumberUnparsable(t *testing.T) {
	topic := &Topic{
		Title:   "Optional",
		Formula: "a + 1",
		Fields:  []Field{{Key: "a", Type: FieldNumber}},
	}
	res, err := Evaluate(topic, map[string]string{"a": "junk"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Value)
}

func TestEvaluateHiddenFieldContributesZero(t *testing.T) {
	topic := &Topic{
		Title:   "Conditional dose",
		Formula: "base + bonus",
		Fields: []Field{
			{Key: "mode", Type: FieldDropdown, Options: []FieldOption{
				{Value: "simple", Label: "Simple"},
				{Value: "extended", Label: "Extended"},
			}},
			{Key: "base", Type: FieldNumber, Required: true},
			{Key: "bonus", Type: FieldNumber, DisplayConditions: []DisplayCondition{
				{FieldKey: "mode", Operator: "==", Value: "extended"},
			}},
		},
	}

	// Caller supplies a bonus, but the field is hidden: it must be zeroed.
	res, err := Evaluate(topic, map[string]string{"mode": "simple", "base": "10", "bonus": "99"})
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Value)

	// Same inputs with the field visible.
	res, err = Evaluate(topic, map[string]string{"mode": "extended", "base": "10", "bonus": "99"})
	require.NoError(t, err)
	assert.Equal(t, 109.0, res.Value)
}

func TestEvaluateNumericDisplayCondition(t *testing.T) {
	topic := &Topic{
		Title:   "Age gate",
		Formula: "adjustment",
		Fields: []Field{
			{Key: "age", Type: FieldNumber, Required: true},
			{Key: "adjustment", Type: FieldNumber, DisplayConditions: []DisplayCondition{
				{FieldKey: "age", Operator: ">=", Value: "65"},
			}},
		},
	}

	res, err := Evaluate(topic, map[string]string{"age": "70", "adjustment": "4"})
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.Value)

	res, err = Evaluate(topic, map[string]string{"age": "40", "adjustment": "4"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Value)
}

func TestEvaluateAllMatchesReturned(t *testing.T) {
	topic := &Topic{
		Title:   "Overlap",
		Formula: "x",
		Fields:  []Field{{Key: "x", Type: FieldNumber, Required: true}},
		Classifications: []Classification{
			{
				Name: "Risk",
				Options: []ClassificationOption{
					{Value: "elevated", Label: "Elevated", Conditions: []ResultCondition{
						{Operator: ">", Value: 10},
					}},
					{Value: "critical", Label: "Critical", Conditions: []ResultCondition{
						{Operator: ">", Value: 50},
					}},
				},
			},
			{
				Name: "Action",
				Options: []ClassificationOption{
					{Value: "refer", Label: "Refer to specialist", Conditions: []ResultCondition{
						{Operator: ">=", Value: 60},
					}},
				},
			},
		},
	}

	res, err := Evaluate(topic, map[string]string{"x": "75"})
	require.NoError(t, err)
	require.Len(t, res.Classifications, 2)

	risk := res.Classifications[0]
	assert.Equal(t, "Risk", risk.Name)
	require.Len(t, risk.Options, 2, "overlapping options must both be returned")
	assert.Equal(t, "elevated", risk.Options[0].Value)
	assert.Equal(t, "critical", risk.Options[1].Value)

	assert.Equal(t, "Action", res.Classifications[1].Name)
}

func TestEvaluateOptionWithoutConditionsNeverMatches(t *testing.T) {
	topic := &Topic{
		Title:   "Bare option",
		Formula: "1",
		Classifications: []Classification{
			{Name: "Empty", Options: []ClassificationOption{
				{Value: "always", Label: "Always"},
			}},
		},
	}
	res, err := Evaluate(topic, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Classifications)
}

func TestEvaluateLeftFoldMixedChain(t *testing.T) {
	// (true OR true) AND false folds to false left-to-right, whereas
	// conventional precedence (AND binds tighter) would give true.
	topic := &Topic{
		Title:   "Fold order",
		Formula: "5",
		Classifications: []Classification{
			{Name: "Quirk", Options: []ClassificationOption{
				{Value: "folded", Label: "Folded", Conditions: []ResultCondition{
					{Operator: "==", Value: 5, LogicalOp: LogicalOr},
					{Operator: ">", Value: 0, LogicalOp: LogicalAnd},
					{Operator: "<", Value: 0},
				}},
			}},
		},
	}
	res, err := Evaluate(topic, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Classifications, "left fold must not apply AND-over-OR precedence")
}

func TestEvaluateNonTerminalEmptyOperatorDefaultsToAnd(t *testing.T) {
	topic := &Topic{
		Title:   "Default join",
		Formula: "5",
		Classifications: []Classification{
			{Name: "Join", Options: []ClassificationOption{
				{Value: "both", Label: "Both", Conditions: []ResultCondition{
					{Operator: ">", Value: 0}, // no operator: defaults to AND
					{Operator: "<", Value: 10},
				}},
			}},
		},
	}
	res, err := Evaluate(topic, nil)
	require.NoError(t, err)
	require.Len(t, res.Classifications, 1)
}

func TestEvaluateInvalidConditionOperator(t *testing.T) {
	topic := &Topic{
		Title:   "Bad op",
		Formula: "1",
		Classifications: []Classification{
			{Name: "Bad", Options: []ClassificationOption{
				{Value: "x", Label: "X", Conditions: []ResultCondition{
					{Operator: "~", Value: 1},
				}},
			}},
		},
	}
	_, err := Evaluate(topic, nil)
	assert.ErrorIs(t, err, ErrInvalidOperator)
}

func TestEvaluateNonFiniteRejected(t *testing.T) {
	topic := &Topic{
		Title:   "Div by zero",
		Formula: "weight / height",
		Fields: []Field{
			{Key: "weight", Type: FieldNumber, Required: true},
			{Key: "height", Type: FieldNumber, Required: true},
		},
	}
	_, err := Evaluate(topic, map[string]string{"weight": "70", "height": "0"})
	assert.ErrorIs(t, err, ErrNotFinite)
}

func TestEvaluateEmptyFormula(t *testing.T) {
	_, err := Evaluate(&Topic{Title: "No formula"}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEvaluateStringFieldInFormula(t *testing.T) {
	// A non-numeric dropdown value never reaches the formula context.
	topic := &Topic{
		Title:   "String in formula",
		Formula: "route * 2",
		Fields: []Field{
			{Key: "route", Type: FieldDropdown, Options: []FieldOption{
				{Value: "oral", Label: "Oral"},
			}},
		},
	}
	_, err := Evaluate(topic, map[string]string{"route": "oral"})
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
}

func TestEvaluateNumericDropdownValue(t *testing.T) {
	// Dropdown values that parse as numbers join the formula context.
	topic := &Topic{
		Title:   "Scored dropdown",
		Formula: "consciousness + 1",
		Fields: []Field{
			{Key: "consciousness", Type: FieldDropdown, Options: []FieldOption{
				{Value: "0", Label: "Alert"},
				{Value: "3", Label: "Unresponsive"},
			}},
		},
	}
	res, err := Evaluate(topic, map[string]string{"consciousness": "3"})
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.Value)
}
