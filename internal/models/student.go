package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student is the single persisted entity of the registry.
// RollNumber and Email carry unique indexes; the repository additionally
// performs an explicit conflict lookup before writes so violations surface
// as structured errors instead of driver error codes.
type Student struct {
	ID         string   `json:"id" gorm:"primaryKey;size:36"`
	Name       string   `json:"name" gorm:"not null;size:100;index"`
	RollNumber int      `json:"roll_number" gorm:"uniqueIndex;not null"`
	Email      string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Department string   `json:"department" gorm:"not null;size:100;index"`
	GPA        *float64 `json:"gpa"` // optional, [0, 4] when present

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

// BeforeCreate assigns the opaque identifier. IDs are store-generated and
// immutable for the lifetime of the record.
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ApplyUpdate replaces the five editable fields. ID and CreatedAt are never
// touched by updates.
func (s *Student) ApplyUpdate(name string, rollNumber int, email, department string, gpa *float64) {
	s.Name = name
	s.RollNumber = rollNumber
	s.Email = email
	s.Department = department
	s.GPA = gpa
}
