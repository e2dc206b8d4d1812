package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-hub/student-registry/internal/models"
	"github.com/campus-hub/student-registry/internal/repositories"
)

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) repositories.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *activityRepository) Record(ctx context.Context, tx *gorm.DB, activity *models.Activity) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

func (r *activityRepository) Recent(ctx context.Context, tx *gorm.DB, filters repositories.ActivityFilters) ([]*models.Activity, error) {
	db := r.getDB(tx)
	var activities []*models.Activity

	query := db.WithContext(ctx).Model(&models.Activity{})
	if filters.StudentID != "" {
		query = query.Where("student_id = ?", filters.StudentID)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 10
	}

	if err := query.Order("created_at DESC").Limit(limit).Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("list recent activities: %w", err)
	}
	return activities, nil
}
