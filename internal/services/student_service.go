package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/campus-hub/student-registry/internal/events"
	"github.com/campus-hub/student-registry/internal/models"
	"github.com/campus-hub/student-registry/internal/repositories"
	"github.com/campus-hub/student-registry/internal/validator"
)

type studentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher) StudentService {
	return &studentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// ===== QUERY BUILDING =====

// BuildStudentFilters translates the raw list-view parameters into a store
// query. Unrecognized sort fields and orders fall back to name ascending.
func BuildStudentFilters(query validator.ListQuery) repositories.StudentFilters {
	sortBy := query.Sort
	if sortBy != "name" && sortBy != "gpa" {
		sortBy = "name"
	}

	sortOrder := "asc"
	if query.Order == "desc" {
		sortOrder = "desc"
	}

	return repositories.StudentFilters{
		Search:     query.Search,
		Department: query.Department,
		SortBy:     sortBy,
		SortOrder:  sortOrder,
	}
}

// ===== CRUD OPERATIONS =====

func (s *studentService) List(ctx context.Context, query validator.ListQuery) ([]*models.Student, error) {
	students, err := s.repo.Student().List(ctx, nil, BuildStudentFilters(query))
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *studentService) GetByID(ctx context.Context, id string) (*models.Student, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *studentService) Create(ctx context.Context, input *validator.StudentInput) (*models.Student, error) {
	s.logger.Info("Creating student", "roll_number", input.RollNumber)

	student := &models.Student{
		Name:       input.Name,
		RollNumber: input.RollNumber,
		Email:      input.Email,
		Department: input.Department,
		GPA:        input.GPA,
	}

	if err := s.repo.Student().Create(ctx, nil, student); err != nil {
		return nil, err
	}

	s.logger.Info("Student created", "student_id", student.ID)

	s.recordActivity(ctx, models.ActivityStudentCreated, student,
		fmt.Sprintf("%s joined %s", student.Name, student.Department))
	s.publishEvent(ctx, events.TypeStudentCreated, student)

	return student, nil
}

func (s *studentService) Update(ctx context.Context, id string, input *validator.StudentInput) (*models.Student, error) {
	s.logger.Info("Updating student", "student_id", id)

	if err := checkID(id); err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	student.ApplyUpdate(input.Name, input.RollNumber, input.Email, input.Department, input.GPA)

	if err := s.repo.Student().Update(ctx, nil, student); err != nil {
		return nil, err
	}

	s.logger.Info("Student updated", "student_id", student.ID)

	s.recordActivity(ctx, models.ActivityStudentUpdated, student,
		fmt.Sprintf("%s's record was updated", student.Name))
	s.publishEvent(ctx, events.TypeStudentUpdated, student)

	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	s.logger.Info("Deleting student", "student_id", id)

	if err := checkID(id); err != nil {
		return err
	}

	// Look the record up first so the trail can name it. Deleting an absent
	// id is idempotent and still succeeds.
	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil && !repositories.IsNotFoundError(err) {
		return fmt.Errorf("failed to get student: %w", err)
	}

	if err := s.repo.Student().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if student != nil {
		s.recordActivity(ctx, models.ActivityStudentDeleted, student,
			fmt.Sprintf("%s left the registry", student.Name))
		s.publishEvent(ctx, events.TypeStudentDeleted, student)
	}

	return nil
}

func (s *studentService) RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error) {
	activities, err := s.repo.Activity().Recent(ctx, nil, repositories.ActivityFilters{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activity: %w", err)
	}
	return activities, nil
}

// ===== HELPERS =====

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// recordActivity appends to the mutation trail. Failures are logged and
// swallowed; the trail never fails a request.
func (s *studentService) recordActivity(ctx context.Context, action models.ActivityAction, student *models.Student, summary string) {
	details, err := json.Marshal(map[string]interface{}{
		"name":        student.Name,
		"roll_number": student.RollNumber,
		"department":  student.Department,
	})
	if err != nil {
		s.logger.Warn("Failed to marshal activity details", "error", err)
		return
	}

	activity := &models.Activity{
		Action:    action,
		StudentID: student.ID,
		Summary:   summary,
		Details:   datatypes.JSON(details),
	}
	if err := s.repo.Activity().Record(ctx, nil, activity); err != nil {
		s.logger.Warn("Failed to record activity", "action", action, "error", err)
	}
}

// publishEvent is fire-and-forget; delivery problems are logged only.
func (s *studentService) publishEvent(ctx context.Context, eventType string, student *models.Student) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(eventType, &events.StudentEvent{
		StudentID:  student.ID,
		Name:       student.Name,
		RollNumber: student.RollNumber,
		Department: student.Department,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "type", eventType, "error", err)
	}
}
