package models

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityAction string

const (
	ActivityStudentCreated ActivityAction = "student.created"
	ActivityStudentUpdated ActivityAction = "student.updated"
	ActivityStudentDeleted ActivityAction = "student.deleted"
)

// Activity is an append-only trail of registry mutations, shown on the
// landing page. Details holds a snapshot of the affected fields.
type Activity struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Action    ActivityAction `json:"action" gorm:"not null;size:50;index"`
	StudentID string         `json:"student_id" gorm:"size:36;index"`
	Summary   string         `json:"summary" gorm:"size:255"`
	Details   datatypes.JSON `json:"details" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}
