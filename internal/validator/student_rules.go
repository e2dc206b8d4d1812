package validator

import (
	"strconv"
	"strings"
)

// User-facing validation messages. The required rule is deliberately a
// single aggregate message no matter how many fields are missing.
const (
	MsgFieldsRequired    = "All fields except GPA are required."
	MsgRollNumberNumeric = "Roll Number must be a number."
	MsgGPARange          = "GPA must be between 0 and 4."
)

// CheckStudentForm validates the raw form and either returns the normalized
// input or a non-empty list of messages, never both. The required rule and
// the GPA range rule are independent and can both fire.
//
// Uniqueness is not checked here; that is the store's responsibility.
func (v *Validator) CheckStudentForm(form *StudentForm) (*StudentInput, []string) {
	var errs []string

	trimmed := &StudentForm{
		Name:       strings.TrimSpace(form.Name),
		RollNumber: strings.TrimSpace(form.RollNumber),
		Email:      strings.TrimSpace(form.Email),
		Department: strings.TrimSpace(form.Department),
		GPA:        strings.TrimSpace(form.GPA),
	}

	if err := v.validate.Struct(trimmed); err != nil {
		errs = append(errs, MsgFieldsRequired)
	}

	rollNumber := 0
	if trimmed.RollNumber != "" {
		n, err := strconv.Atoi(trimmed.RollNumber)
		if err != nil {
			errs = append(errs, MsgRollNumberNumeric)
		}
		rollNumber = n
	}

	var gpa *float64
	if trimmed.GPA != "" {
		value, err := strconv.ParseFloat(trimmed.GPA, 64)
		if err != nil || value < 0 || value > 4 {
			errs = append(errs, MsgGPARange)
		} else {
			gpa = &value
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &StudentInput{
		Name:       trimmed.Name,
		RollNumber: rollNumber,
		Email:      trimmed.Email,
		Department: trimmed.Department,
		GPA:        gpa,
	}, nil
}
