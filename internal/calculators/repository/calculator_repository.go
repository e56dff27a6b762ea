package repository

import (
	"github.com/medikahub/medika-backend/internal/calculators/models"
	"github.com/medikahub/medika-backend/internal/common/database"
	"github.com/medikahub/medika-backend/internal/common/errors"
	"gorm.io/gorm"
)

// CreateTopic stores a topic with its fields, conditions and
// classifications in one transaction. gorm cascades the associations.
func CreateTopic(topic *models.CalculatorTopic) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(topic).Error
	})
	if err != nil {
		return errors.Internal("failed to create calculator topic", err.Error())
	}
	return nil
}

// GetTopic loads a topic with every nested row, condition chains sorted
// by position so they evaluate in stored order.
func GetTopic(topicID uint) (*models.CalculatorTopic, error) {
	var topic models.CalculatorTopic
	result := database.DB.
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		Preload("Fields.Options").
		Preload("Fields.DisplayConditions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Classifications").
		Preload("Classifications.Options").
		Preload("Classifications.Options.Conditions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&topic, topicID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("calculator topic")
		}
		return nil, errors.Internal("failed to fetch calculator topic", result.Error.Error())
	}
	return &topic, nil
}

// ListTopics returns topic headers without their nested rows.
func ListTopics(category string) ([]*models.CalculatorTopic, error) {
	var topics []*models.CalculatorTopic
	query := database.DB.Order("title ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if result := query.Find(&topics); result.Error != nil {
		return nil, errors.Internal("failed to list calculator topics", result.Error.Error())
	}
	return topics, nil
}

// DeleteTopic removes a topic and every dependent row.
func DeleteTopic(topicID uint) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var topic models.CalculatorTopic
		if err := tx.First(&topic, topicID).Error; err != nil {
			return err
		}

		var fieldIDs []uint
		if err := tx.Model(&models.CalculatorField{}).
			Where("topic_id = ?", topicID).
			Pluck("id", &fieldIDs).Error; err != nil {
			return err
		}
		if len(fieldIDs) > 0 {
			if err := tx.Where("field_id IN ?", fieldIDs).Delete(&models.FieldOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("field_id IN ?", fieldIDs).Delete(&models.FieldDisplayCondition{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("topic_id = ?", topicID).Delete(&models.CalculatorField{}).Error; err != nil {
			return err
		}

		var classificationIDs []uint
		if err := tx.Model(&models.CalculatorClassification{}).
			Where("topic_id = ?", topicID).
			Pluck("id", &classificationIDs).Error; err != nil {
			return err
		}
		if len(classificationIDs) > 0 {
			var optionIDs []uint
			if err := tx.Model(&models.ClassificationOption{}).
				Where("classification_id IN ?", classificationIDs).
				Pluck("id", &optionIDs).Error; err != nil {
				return err
			}
			if len(optionIDs) > 0 {
				if err := tx.Where("option_id IN ?", optionIDs).Delete(&models.OptionCondition{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("classification_id IN ?", classificationIDs).Delete(&models.ClassificationOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("topic_id = ?", topicID).Delete(&models.CalculatorClassification{}).Error; err != nil {
			return err
		}

		return tx.Delete(&topic).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NotFound("calculator topic")
		}
		return errors.Internal("failed to delete calculator topic", err.Error())
	}
	return nil
}
