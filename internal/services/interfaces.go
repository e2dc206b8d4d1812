package services

import (
	"context"
	"io"

	"github.com/campus-hub/student-registry/internal/models"
	"github.com/campus-hub/student-registry/internal/validator"
)

// StudentService orchestrates the Entity Store for the five CRUD
// operations plus the activity trail behind the landing page.
type StudentService interface {
	// List returns the full filtered, sorted result set. No pagination.
	List(ctx context.Context, query validator.ListQuery) ([]*models.Student, error)

	GetByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, input *validator.StudentInput) (*models.Student, error)
	Update(ctx context.Context, id string, input *validator.StudentInput) (*models.Student, error)
	Delete(ctx context.Context, id string) error

	RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error)
}

// ExportService writes roster snapshots for download.
type ExportService interface {
	// WriteRoster streams an xlsx workbook of the students matching the
	// same query the list view accepts.
	WriteRoster(ctx context.Context, w io.Writer, query validator.ListQuery) error
}

// ServiceManager provides access to all services and manages their lifecycle
type ServiceManager interface {
	Student() StudentService
	Export() ExportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
