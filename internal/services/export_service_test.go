package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/campus-hub/student-registry/internal/validator"
)

func TestExportService_WriteRoster(t *testing.T) {
	repo := newMemRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewStudentService(repo, logger, nil)
	export := NewExportService(repo, logger)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &validator.StudentInput{
		Name: "Ann", RollNumber: 101, Email: "a@x.com", Department: "CS", GPA: gpa(3.9),
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, &validator.StudentInput{
		Name: "Bob", RollNumber: 102, Email: "b@x.com", Department: "EE",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var buf bytes.Buffer
	if err := export.WriteRoster(ctx, &buf, validator.ListQuery{}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(rosterSheet)
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 3 { // header + 2 students
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Roll Number" || rows[0][1] != "Name" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	// Default ordering is name ascending.
	if rows[1][1] != "Ann" || rows[2][1] != "Bob" {
		t.Errorf("unexpected roster order: %v / %v", rows[1], rows[2])
	}
	// Blank gpa stays blank rather than zero. Trailing empty cells may be
	// trimmed by the reader.
	if len(rows[2]) > 4 && rows[2][4] != "" {
		t.Errorf("expected empty gpa cell, got %q", rows[2][4])
	}
}

func TestExportService_FilterApplied(t *testing.T) {
	repo := newMemRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewStudentService(repo, logger, nil)
	export := NewExportService(repo, logger)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &validator.StudentInput{
		Name: "Ann", RollNumber: 101, Email: "a@x.com", Department: "Engineering",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, &validator.StudentInput{
		Name: "Bob", RollNumber: 102, Email: "b@x.com", Department: "Math",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var buf bytes.Buffer
	if err := export.WriteRoster(ctx, &buf, validator.ListQuery{Department: "Math"}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(rosterSheet)
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Bob" {
		t.Errorf("expected only Bob in the export, got %v", rows)
	}
}
