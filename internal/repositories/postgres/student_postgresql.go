package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-hub/student-registry/internal/models"
	"github.com/campus-hub/student-registry/internal/repositories"
)

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) repositories.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== BASIC CRUD OPERATIONS =====

func (r *studentRepository) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)

	conflict, err := r.checkUniqueness(ctx, db, student.RollNumber, student.Email, "")
	if err != nil {
		return fmt.Errorf("check student uniqueness: %w", err)
	}
	if conflict != nil {
		return conflict
	}

	if err := db.WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student

	if err := db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}
	return &student, nil
}

func (r *studentRepository) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)

	conflict, err := r.checkUniqueness(ctx, db, student.RollNumber, student.Email, student.ID)
	if err != nil {
		return fmt.Errorf("check student uniqueness: %w", err)
	}
	if conflict != nil {
		return conflict
	}

	// Save writes all fields including a NULL gpa when the pointer is nil.
	if err := db.WithContext(ctx).Save(student).Error; err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Student{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *studentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, error) {
	db := r.getDB(tx)
	var students []*models.Student

	query := db.WithContext(ctx).Model(&models.Student{})
	query = r.applyStudentFilters(query, filters)
	query = r.applySorting(query, filters.SortBy, filters.SortOrder)

	if err := query.Find(&students).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

func (r *studentRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Student{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

func (r *studentRepository) ExistsByRollNumber(ctx context.Context, tx *gorm.DB, rollNumber int, excludeID string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	query := db.WithContext(ctx).Model(&models.Student{}).Where("roll_number = ?", rollNumber)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *studentRepository) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	query := db.WithContext(ctx).Model(&models.Student{}).Where("email = ?", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ===== HELPERS =====

func (r *studentRepository) applyStudentFilters(query *gorm.DB, filters repositories.StudentFilters) *gorm.DB {
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("(name ILIKE ? OR department ILIKE ?)", pattern, pattern)
	}
	if filters.Department != "" {
		query = query.Where("department = ?", filters.Department)
	}
	return query
}

// applySorting orders with SQL injection protection: only whitelisted
// columns reach the ORDER BY clause, everything else falls back to name.
func (r *studentRepository) applySorting(query *gorm.DB, sortBy, sortOrder string) *gorm.DB {
	allowedSortColumns := map[string]bool{
		"name": true,
		"gpa":  true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "name"
	}

	if sortOrder == "desc" || sortOrder == "DESC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	return query.Order(sortBy + " " + sortOrder)
}

// checkUniqueness runs the explicit pre-write conflict lookup. The email
// check runs last so that a simultaneous conflict reports email after
// rollNumber, matching the translation override order downstream.
func (r *studentRepository) checkUniqueness(ctx context.Context, db *gorm.DB, rollNumber int, email, excludeID string) (*repositories.ConflictError, error) {
	var fields []string

	taken, err := r.ExistsByRollNumber(ctx, db, rollNumber, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		fields = append(fields, repositories.ConflictFieldRollNumber)
	}

	taken, err = r.ExistsByEmail(ctx, db, email, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		fields = append(fields, repositories.ConflictFieldEmail)
	}

	if len(fields) > 0 {
		return &repositories.ConflictError{Fields: fields}, nil
	}
	return nil, nil
}
