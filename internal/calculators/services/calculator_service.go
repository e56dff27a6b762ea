package services

import (
	stderrors "errors"
	"fmt"
	"regexp"

	"github.com/medikahub/medika-backend/internal/calcengine"
	"github.com/medikahub/medika-backend/internal/calculators/models"
	"github.com/medikahub/medika-backend/internal/calculators/repository"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/metrics"
)

// CreateTopic validates and stores a calculator definition.
func CreateTopic(req models.CreateTopicRequest) (*models.CalculatorTopic, error) {
	if err := validateTopic(req); err != nil {
		return nil, err
	}

	topic := &models.CalculatorTopic{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Formula:     req.Formula,
		ResultLabel: req.ResultLabel,
		ResultUnit:  req.ResultUnit,
	}

	for i, f := range req.Fields {
		field := models.CalculatorField{
			Key:          f.Key,
			Type:         f.Type,
			Label:        f.Label,
			Placeholder:  f.Placeholder,
			Unit:         f.Unit,
			Required:     f.Required,
			DisplayOrder: f.DisplayOrder,
		}
		if field.DisplayOrder == 0 {
			field.DisplayOrder = i
		}
		for _, o := range f.Options {
			field.Options = append(field.Options, models.FieldOption{
				Value: o.Value,
				Label: o.Label,
			})
		}
		for pos, dc := range f.DisplayConditions {
			field.DisplayConditions = append(field.DisplayConditions, models.FieldDisplayCondition{
				FieldKey:  dc.FieldKey,
				Operator:  dc.Operator,
				Value:     dc.Value,
				LogicalOp: dc.LogicalOp,
				Position:  pos,
			})
		}
		topic.Fields = append(topic.Fields, field)
	}

	for _, cl := range req.Classifications {
		classification := models.CalculatorClassification{Name: cl.Name}
		for _, opt := range cl.Options {
			option := models.ClassificationOption{
				Value: opt.Value,
				Label: opt.Label,
			}
			for pos, cond := range opt.Conditions {
				option.Conditions = append(option.Conditions, models.OptionCondition{
					Operator:  cond.Operator,
					Value:     cond.Value,
					LogicalOp: cond.LogicalOp,
					Position:  pos,
				})
			}
			classification.Options = append(classification.Options, option)
		}
		topic.Classifications = append(topic.Classifications, classification)
	}

	if err := repository.CreateTopic(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// validateTopic enforces the structural invariants the evaluator assumes:
// unique field keys, a formula that references every key, and at least
// one complete option on every dropdown or radio field.
func validateTopic(req models.CreateTopicRequest) error {
	seen := make(map[string]bool, len(req.Fields))
	for _, f := range req.Fields {
		if seen[f.Key] {
			return errors.Validation("duplicate field key", fmt.Sprintf("field key %q appears more than once", f.Key))
		}
		seen[f.Key] = true

		if !formulaReferences(req.Formula, f.Key) {
			return errors.Validation("formula does not use every field", fmt.Sprintf("field key %q never appears in the formula", f.Key))
		}

		if f.Type == string(calcengine.FieldDropdown) || f.Type == string(calcengine.FieldRadio) {
			usable := false
			for _, o := range f.Options {
				if o.Value != "" {
					usable = true
					break
				}
			}
			if !usable {
				return errors.Validation("choice field needs options", fmt.Sprintf("field %q must carry at least one option with a value", f.Key))
			}
		}

		for _, dc := range f.DisplayConditions {
			if !seen[dc.FieldKey] && !referencesAnyField(req.Fields, dc.FieldKey) {
				return errors.Validation("display condition references unknown field", fmt.Sprintf("field %q conditions on undefined key %q", f.Key, dc.FieldKey))
			}
		}
	}
	return nil
}

func referencesAnyField(fields []models.FieldRequest, key string) bool {
	for _, f := range fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// formulaReferences reports whether key appears in formula as a whole
// word, so "bmi" does not count as a reference to "b".
func formulaReferences(formula, key string) bool {
	pattern := fmt.Sprintf(`\b%s\b`, regexp.QuoteMeta(key))
	matched, err := regexp.MatchString(pattern, formula)
	return err == nil && matched
}

func GetTopic(topicID uint) (*models.CalculatorTopic, error) {
	return repository.GetTopic(topicID)
}

func ListTopics(category string) ([]*models.CalculatorTopic, error) {
	return repository.ListTopics(category)
}

func DeleteTopic(topicID uint) error {
	return repository.DeleteTopic(topicID)
}

// EvaluateTopic runs a stored calculator against the user's raw inputs.
func EvaluateTopic(topicID uint, req models.EvaluateRequest) (*calcengine.Result, error) {
	topic, err := repository.GetTopic(topicID)
	if err != nil {
		return nil, err
	}

	result, err := calcengine.Evaluate(topic.ToEngineTopic(), req.Inputs)
	if err != nil {
		metrics.CalculatorEvaluations.WithLabelValues("error").Inc()
		return nil, translateEngineError(err)
	}

	metrics.CalculatorEvaluations.WithLabelValues("ok").Inc()
	return result, nil
}

// translateEngineError maps evaluator sentinels onto HTTP-shaped errors.
// Bad formulas are a content problem (the stored definition is broken),
// bad inputs are the caller's.
func translateEngineError(err error) error {
	switch {
	case stderrors.Is(err, calcengine.ErrInvalidInput):
		return errors.Validation("invalid calculator input", err.Error())
	case stderrors.Is(err, calcengine.ErrNotFinite):
		return errors.Unprocessable("calculation has no finite result", err.Error())
	case stderrors.Is(err, calcengine.ErrBadExpression),
		stderrors.Is(err, calcengine.ErrUnknownIdentifier),
		stderrors.Is(err, calcengine.ErrUnknownFunction),
		stderrors.Is(err, calcengine.ErrInvalidOperator):
		return errors.Unprocessable("calculator definition cannot be evaluated", err.Error())
	default:
		return errors.Internal("calculator evaluation failed", err.Error())
	}
}
