// Package calcengine evaluates declarative medical-calculator topics: a
// set of input fields with visibility conditions, an arithmetic formula
// over the field values, and classification rules matched against the
// computed result.
//
// The formula runs through a small hand-written expression evaluator with
// an allow-listed math function table. Formula strings are data supplied
// by content editors, so they are never handed to anything resembling
// eval.
package calcengine

import "time"

// FieldType enumerates the supported input widgets.
type FieldType string

const (
	FieldNumber   FieldType = "number"
	FieldText     FieldType = "text"
	FieldDropdown FieldType = "dropdown"
	FieldRadio    FieldType = "radio"
)

// LogicalOp joins a condition with the condition that follows it in the
// chain. Empty means the condition is last (or defaults to AND when it
// is not — chains fold left to right, see foldChain).
type LogicalOp string

const (
	LogicalAnd LogicalOp = "AND"
	LogicalOr  LogicalOp = "OR"
)

// DisplayCondition controls field visibility based on raw input values.
type DisplayCondition struct {
	FieldKey  string
	Operator  string // ==, !=, >, <, >=, <=
	Value     string
	LogicalOp LogicalOp
}

// FieldOption is one choice of a dropdown or radio field.
type FieldOption struct {
	Value string
	Label string
}

// Field describes one input of a topic.
type Field struct {
	Key               string
	Type              FieldType
	Label             string
	Placeholder       string
	Unit              string
	Required          bool
	Options           []FieldOption
	DisplayConditions []DisplayCondition
}

// ResultCondition is a threshold test against the computed formula result.
type ResultCondition struct {
	Operator  string // ==, !=, >, <, >=, <=
	Value     float64
	LogicalOp LogicalOp
}

// ClassificationOption is a labeled rule. It matches when its condition
// chain evaluates true against the result; an option with no conditions
// never matches.
type ClassificationOption struct {
	Value      string
	Label      string
	Conditions []ResultCondition
}

// Classification groups options under a name, e.g. "BMI Category".
// Options are not mutually exclusive.
type Classification struct {
	Name    string
	Options []ClassificationOption
}

// Topic is a complete calculator definition.
type Topic struct {
	Title           string
	Formula         string
	ResultLabel     string
	ResultUnit      string
	Fields          []Field
	Classifications []Classification
}

// MatchedOption is one classification option whose conditions held.
type MatchedOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// MatchedClassification lists every matched option of one classification.
type MatchedClassification struct {
	Name    string          `json:"name"`
	Options []MatchedOption `json:"options"`
}

// Result is the outcome of evaluating a topic against user inputs.
type Result struct {
	Value           float64                 `json:"value"`
	ResultLabel     string                  `json:"result_label,omitempty"`
	ResultUnit      string                  `json:"result_unit,omitempty"`
	Classifications []MatchedClassification `json:"classifications"`
	EvaluatedAt     time.Time               `json:"evaluated_at"`
}
