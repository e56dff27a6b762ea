package calcengine

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Evaluate computes a topic's formula result and matching classifications
// from raw user inputs (field key → raw string value).
//
// Evaluation happens in four steps:
//  1. resolve field visibility from display conditions against raw inputs;
//  2. build the numeric context: hidden fields contribute 0 no matter
//     what the caller sent, empty visible fields contribute 0, dropdown
//     and radio values fall back to strings when not purely numeric
//     (string values are only usable in display conditions, never in the
//     formula);
//  3. evaluate the formula; the result must be finite;
//  4. match every classification option's condition chain against the
//     result and return all matches.
func Evaluate(topic *Topic, inputs map[string]string) (*Result, error) {
	if topic == nil {
		return nil, fmt.Errorf("%w: nil topic", ErrInvalidInput)
	}
	if strings.TrimSpace(topic.Formula) == "" {
		return nil, fmt.Errorf("%w: topic %q has an empty formula", ErrInvalidInput, topic.Title)
	}
	if inputs == nil {
		inputs = map[string]string{}
	}

	visible, err := resolveVisibility(topic.Fields, inputs)
	if err != nil {
		return nil, err
	}

	vars, err := buildContext(topic.Fields, visible, inputs)
	if err != nil {
		return nil, err
	}

	value, err := evalExpression(topic.Formula, vars)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: topic %q", ErrNotFinite, topic.Title)
	}

	matched, err := matchClassifications(topic.Classifications, value)
	if err != nil {
		return nil, err
	}

	return &Result{
		Value:           value,
		ResultLabel:     topic.ResultLabel,
		ResultUnit:      topic.ResultUnit,
		Classifications: matched,
		EvaluatedAt:     time.Now().UTC(),
	}, nil
}

// resolveVisibility evaluates each field's display condition chain against
// the raw inputs. A field with no conditions is always visible.
func resolveVisibility(fields []Field, inputs map[string]string) (map[string]bool, error) {
	visible := make(map[string]bool, len(fields))
	for _, f := range fields {
		if len(f.DisplayConditions) == 0 {
			visible[f.Key] = true
			continue
		}

		verdicts := make([]bool, len(f.DisplayConditions))
		joins := make([]LogicalOp, len(f.DisplayConditions))
		for i, c := range f.DisplayConditions {
			ok, err := compareRaw(inputs[c.FieldKey], c.Operator, c.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q display condition %d: %w", f.Key, i, err)
			}
			verdicts[i] = ok
			joins[i] = c.LogicalOp
		}
		visible[f.Key] = foldChain(verdicts, joins)
	}
	return visible, nil
}

// buildContext maps field keys to the numeric values the formula sees.
func buildContext(fields []Field, visible map[string]bool, inputs map[string]string) (map[string]float64, error) {
	vars := make(map[string]float64, len(fields))
	for _, f := range fields {
		if !visible[f.Key] {
			vars[f.Key] = 0
			continue
		}

		raw := strings.TrimSpace(inputs[f.Key])
		if raw == "" {
			vars[f.Key] = 0
			continue
		}

		v, ok := parseNumber(raw)
		if ok {
			vars[f.Key] = v
			continue
		}

		switch f.Type {
		case FieldNumber:
			if f.Required {
				return nil, fmt.Errorf("%w: field %q requires a numeric value, got %q", ErrInvalidInput, f.Key, raw)
			}
			vars[f.Key] = 0
		default:
			// Dropdown, radio, and text values that are not purely
			// numeric stay out of the formula context. Display
			// conditions still see the raw string; a formula that
			// references the key fails with ErrUnknownIdentifier.
		}
	}
	return vars, nil
}

// matchClassifications returns every option, across every classification,
// whose condition chain holds for the result. No short-circuit on first
// match; options with zero conditions are defined to never match.
func matchClassifications(classifications []Classification, result float64) ([]MatchedClassification, error) {
	matched := make([]MatchedClassification, 0, len(classifications))
	for _, cls := range classifications {
		var options []MatchedOption
		for _, opt := range cls.Options {
			if len(opt.Conditions) == 0 {
				continue
			}

			verdicts := make([]bool, len(opt.Conditions))
			joins := make([]LogicalOp, len(opt.Conditions))
			for i, c := range opt.Conditions {
				ok, err := compareNumeric(result, c.Operator, c.Value)
				if err != nil {
					return nil, fmt.Errorf("classification %q option %q condition %d: %w", cls.Name, opt.Value, i, err)
				}
				verdicts[i] = ok
				joins[i] = c.LogicalOp
			}
			if foldChain(verdicts, joins) {
				options = append(options, MatchedOption{Value: opt.Value, Label: opt.Label})
			}
		}
		if len(options) > 0 {
			matched = append(matched, MatchedClassification{Name: cls.Name, Options: options})
		}
	}
	return matched, nil
}
