package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-hub/student-registry/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// StudentFilters describes the list-view query: free-text search over name
// and department, exact department match, and whitelisted ordering. Both
// filter conditions combine with AND when present. No pagination: the full
// filtered result set is returned.
type StudentFilters struct {
	Search     string `json:"search"`     // case-insensitive substring over name OR department
	Department string `json:"department"` // exact, case-sensitive
	SortBy     string `json:"sort_by"`    // "name" or "gpa"
	SortOrder  string `json:"sort_order"` // "asc" or "desc"
}

type ActivityFilters struct {
	StudentID string `json:"student_id"`
	Limit     int    `json:"limit"`
}

// ===== REPOSITORY INTERFACES =====

// StudentRepository owns all Student persistence. Create and Update enforce
// roll-number and email uniqueness and report violations as *ConflictError.
type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, error)

	ExistsByRollNumber(ctx context.Context, tx *gorm.DB, rollNumber int, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID string) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

// ActivityRepository appends and reads the mutation trail.
type ActivityRepository interface {
	Record(ctx context.Context, tx *gorm.DB, activity *models.Activity) error
	Recent(ctx context.Context, tx *gorm.DB, filters ActivityFilters) ([]*models.Activity, error)
}
