package models

import (
	"time"

	"github.com/medikahub/medika-backend/internal/calcengine"
)

// CalculatorTopic is a stored calculator definition. The nested rows are
// loaded with Preload and converted to a calcengine.Topic before use.
type CalculatorTopic struct {
	ID              uint                       `gorm:"primaryKey" json:"id"`
	Title           string                     `gorm:"not null" json:"title"`
	Description     string                     `json:"description"`
	Category        string                     `gorm:"index" json:"category"`
	Formula         string                     `gorm:"not null" json:"formula"`
	ResultLabel     string                     `json:"result_label"`
	ResultUnit      string                     `json:"result_unit"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
	Fields          []CalculatorField          `gorm:"foreignKey:TopicID" json:"fields,omitempty"`
	Classifications []CalculatorClassification `gorm:"foreignKey:TopicID" json:"classifications,omitempty"`
}

// CalculatorField is one input of a topic.
type CalculatorField struct {
	ID                uint                    `gorm:"primaryKey" json:"id"`
	TopicID           uint                    `gorm:"not null;index" json:"topic_id"`
	Key               string                  `gorm:"not null" json:"key"`
	Type              string                  `gorm:"not null" json:"type"`
	Label             string                  `json:"label"`
	Placeholder       string                  `json:"placeholder"`
	Unit              string                  `json:"unit"`
	Required          bool                    `json:"required"`
	DisplayOrder      int                     `gorm:"default:0" json:"display_order"`
	Options           []FieldOption           `gorm:"foreignKey:FieldID" json:"options,omitempty"`
	DisplayConditions []FieldDisplayCondition `gorm:"foreignKey:FieldID" json:"display_conditions,omitempty"`
}

// FieldOption is one choice of a dropdown or radio field.
type FieldOption struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	FieldID uint   `gorm:"not null;index" json:"field_id"`
	Value   string `gorm:"not null" json:"value"`
	Label   string `json:"label"`
}

// FieldDisplayCondition gates a field's visibility on another field's
// raw value. Position orders the chain; LogicalOp joins a condition with
// the one after it.
type FieldDisplayCondition struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FieldID   uint   `gorm:"not null;index" json:"field_id"`
	FieldKey  string `gorm:"not null" json:"field_key"`
	Operator  string `gorm:"not null" json:"operator"`
	Value     string `gorm:"not null" json:"value"`
	LogicalOp string `json:"logical_op"`
	Position  int    `gorm:"default:0" json:"position"`
}

// CalculatorClassification names a group of result rules.
type CalculatorClassification struct {
	ID      uint                   `gorm:"primaryKey" json:"id"`
	TopicID uint                   `gorm:"not null;index" json:"topic_id"`
	Name    string                 `gorm:"not null" json:"name"`
	Options []ClassificationOption `gorm:"foreignKey:ClassificationID" json:"options,omitempty"`
}

// ClassificationOption is one labeled rule of a classification.
type ClassificationOption struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	ClassificationID uint              `gorm:"not null;index" json:"classification_id"`
	Value            string            `gorm:"not null" json:"value"`
	Label            string            `json:"label"`
	Conditions       []OptionCondition `gorm:"foreignKey:OptionID" json:"conditions,omitempty"`
}

// OptionCondition is a threshold test against the computed result.
type OptionCondition struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OptionID  uint    `gorm:"not null;index" json:"option_id"`
	Operator  string  `gorm:"not null" json:"operator"`
	Value     float64 `gorm:"not null" json:"value"`
	LogicalOp string  `json:"logical_op"`
	Position  int     `gorm:"default:0" json:"position"`
}

// ToEngineTopic converts the stored rows to the evaluator's form.
// Condition chains keep their stored Position order; gorm is asked to
// preload them sorted, so the slices arrive in chain order.
func (t *CalculatorTopic) ToEngineTopic() *calcengine.Topic {
	topic := &calcengine.Topic{
		Title:       t.Title,
		Formula:     t.Formula,
		ResultLabel: t.ResultLabel,
		ResultUnit:  t.ResultUnit,
	}

	for _, f := range t.Fields {
		field := calcengine.Field{
			Key:         f.Key,
			Type:        calcengine.FieldType(f.Type),
			Label:       f.Label,
			Placeholder: f.Placeholder,
			Unit:        f.Unit,
			Required:    f.Required,
		}
		for _, o := range f.Options {
			field.Options = append(field.Options, calcengine.FieldOption{
				Value: o.Value,
				Label: o.Label,
			})
		}
		for _, dc := range f.DisplayConditions {
			field.DisplayConditions = append(field.DisplayConditions, calcengine.DisplayCondition{
				FieldKey:  dc.FieldKey,
				Operator:  dc.Operator,
				Value:     dc.Value,
				LogicalOp: calcengine.LogicalOp(dc.LogicalOp),
			})
		}
		topic.Fields = append(topic.Fields, field)
	}

	for _, cl := range t.Classifications {
		classification := calcengine.Classification{Name: cl.Name}
		for _, opt := range cl.Options {
			option := calcengine.ClassificationOption{
				Value: opt.Value,
				Label: opt.Label,
			}
			for _, cond := range opt.Conditions {
				option.Conditions = append(option.Conditions, calcengine.ResultCondition{
					Operator:  cond.Operator,
					Value:     cond.Value,
					LogicalOp: calcengine.LogicalOp(cond.LogicalOp),
				})
			}
			classification.Options = append(classification.Options, option)
		}
		topic.Classifications = append(topic.Classifications, classification)
	}

	return topic
}

// Request/Response Models

type CreateTopicRequest struct {
	Title           string                  `json:"title" binding:"required,min=1,max=200"`
	Description     string                  `json:"description"`
	Category        string                  `json:"category"`
	Formula         string                  `json:"formula" binding:"required"`
	ResultLabel     string                  `json:"result_label"`
	ResultUnit      string                  `json:"result_unit"`
	Fields          []FieldRequest          `json:"fields" binding:"required,min=1,dive"`
	Classifications []ClassificationRequest `json:"classifications" binding:"dive"`
}

type FieldRequest struct {
	Key               string                    `json:"key" binding:"required"`
	Type              string                    `json:"type" binding:"required,oneof=number text dropdown radio"`
	Label             string                    `json:"label"`
	Placeholder       string                    `json:"placeholder"`
	Unit              string                    `json:"unit"`
	Required          bool                      `json:"required"`
	DisplayOrder      int                       `json:"display_order"`
	Options           []FieldOptionRequest      `json:"options" binding:"dive"`
	DisplayConditions []DisplayConditionRequest `json:"display_conditions" binding:"dive"`
}

type FieldOptionRequest struct {
	Value string `json:"value" binding:"required"`
	Label string `json:"label"`
}

type DisplayConditionRequest struct {
	FieldKey  string `json:"field_key" binding:"required"`
	Operator  string `json:"operator" binding:"required,oneof=== != > < >= <="`
	Value     string `json:"value" binding:"required"`
	LogicalOp string `json:"logical_op" binding:"omitempty,oneof=AND OR"`
}

type ClassificationRequest struct {
	Name    string                        `json:"name" binding:"required"`
	Options []ClassificationOptionRequest `json:"options" binding:"required,min=1,dive"`
}

type ClassificationOptionRequest struct {
	Value      string                   `json:"value" binding:"required"`
	Label      string                   `json:"label"`
	Conditions []OptionConditionRequest `json:"conditions" binding:"dive"`
}

type OptionConditionRequest struct {
	Operator  string  `json:"operator" binding:"required,oneof=== != > < >= <="`
	Value     float64 `json:"value"`
	LogicalOp string  `json:"logical_op" binding:"omitempty,oneof=AND OR"`
}

// EvaluateRequest carries the user's raw field values keyed by field key.
type EvaluateRequest struct {
	Inputs map[string]string `json:"inputs" binding:"required"`
}
