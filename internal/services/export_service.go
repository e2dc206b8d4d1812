package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/campus-hub/student-registry/internal/repositories"
	"github.com/campus-hub/student-registry/internal/validator"
)

const rosterSheet = "Students"

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// WriteRoster builds an xlsx workbook of the filtered, sorted roster and
// writes it to w. It accepts the same query parameters as the list view so
// the download always matches what the user is looking at.
func (s *exportService) WriteRoster(ctx context.Context, w io.Writer, query validator.ListQuery) error {
	s.logger.Info("Exporting roster", "search", query.Search, "department", query.Department)

	students, err := s.repo.Student().List(ctx, nil, BuildStudentFilters(query))
	if err != nil {
		return fmt.Errorf("failed to list students for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return fmt.Errorf("failed to name roster sheet: %w", err)
	}

	headers := []string{"Roll Number", "Name", "Department", "Email", "GPA", "Created At"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(rosterSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, student := range students {
		values := []interface{}{
			student.RollNumber,
			student.Name,
			student.Department,
			student.Email,
			"",
			student.CreatedAt.Format("2006-01-02 15:04"),
		}
		if student.GPA != nil {
			values[4] = *student.GPA
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(rosterSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write roster row: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Roster exported", "students", len(students))
	return nil
}
