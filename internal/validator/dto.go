package validator

// StudentForm carries the raw submitted form fields for create and update.
// Everything is a string at this boundary; numeric coercion happens during
// validation so the original input can be redisplayed untouched on failure.
type StudentForm struct {
	Name       string `form:"name" validate:"required"`
	RollNumber string `form:"rollNumber" validate:"required"`
	Email      string `form:"email" validate:"required"`
	Department string `form:"department" validate:"required"`
	GPA        string `form:"gpa"`
}

// ListQuery carries the raw list-view query parameters. All four are
// optional; unrecognized sort and order values fall back to name ascending.
type ListQuery struct {
	Search     string `form:"search"`
	Department string `form:"department"`
	Sort       string `form:"sort"`
	Order      string `form:"order"`
}

// StudentInput is the normalized, typed result of a successful validation,
// ready for persistence.
type StudentInput struct {
	Name       string
	RollNumber int
	Email      string
	Department string
	GPA        *float64 // nil when the field was left blank
}
