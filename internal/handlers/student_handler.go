package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/student-registry/internal/models"
	"github.com/campus-hub/student-registry/internal/notice"
	"github.com/campus-hub/student-registry/internal/services"
	"github.com/campus-hub/student-registry/internal/utils"
	"github.com/campus-hub/student-registry/internal/validator"
)

// Redirect notice texts.
const (
	noticeStudentAdded   = "Student added successfully"
	noticeStudentUpdated = "Student updated successfully"
	noticeStudentDeleted = "Student deleted"
	noticeStudentMissing = "Student not found"
)

type StudentHandler struct {
	BaseHandler
	service   services.StudentService
	export    services.ExportService
	validator *validator.Validator
	notices   *notice.Store
}

func NewStudentHandler(service services.StudentService, export services.ExportService, v *validator.Validator, notices *notice.Store, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
		validator:   v,
		notices:     notices,
	}
}

// ===== LIST =====

// List handles GET /students. The four query parameters are echoed back to
// the view so the filter form keeps its state.
func (h *StudentHandler) List(c *gin.Context) {
	var query validator.ListQuery
	_ = c.ShouldBindQuery(&query)

	students, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		h.LogError(c, err, "Failed to list students")
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Title":   "Error",
			"Message": "Could not load students.",
		})
		return
	}

	c.HTML(http.StatusOK, "students.html", gin.H{
		"Title":    "Students",
		"Students": students,
		"Query":    query,
		"Notice":   h.resolveNotice(c),
	})
}

// ===== CREATE =====

// ShowCreateForm handles GET /students/add.
func (h *StudentHandler) ShowCreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "student_add.html", gin.H{
		"Title":  "Add Student",
		"Errors": nil,
		"Data":   validator.StudentForm{},
	})
}

// Create handles POST /students/add. Validation failures and store
// conflicts re-render the form with the submitted values so nothing the
// user typed is lost.
func (h *StudentHandler) Create(c *gin.Context) {
	h.LogRequest(c, "Creating student")

	var form validator.StudentForm
	_ = c.ShouldBind(&form)

	input, validationErrs := h.validator.CheckStudentForm(&form)
	if len(validationErrs) > 0 {
		c.HTML(http.StatusBadRequest, "student_add.html", gin.H{
			"Title":  "Add Student",
			"Errors": validationErrs,
			"Data":   form,
		})
		return
	}

	if _, err := h.service.Create(c.Request.Context(), input); err != nil {
		c.HTML(http.StatusBadRequest, "student_add.html", gin.H{
			"Title":  "Add Student",
			"Errors": []string{h.storeErrorMessage(c, err)},
			"Data":   form,
		})
		return
	}

	h.redirectWithNotice(c, notice.LevelSuccess, noticeStudentAdded)
}

// ===== DETAILS =====

// Show handles GET /students/:id. A missing record gets a distinct
// not-found page; a malformed id gets the generic error page. The edit
// form treats the same conditions differently, see ShowEditForm.
func (h *StudentHandler) Show(c *gin.Context) {
	student, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			c.HTML(http.StatusNotFound, "not_found.html", gin.H{
				"Title": "Not found",
			})
			return
		}
		h.LogError(c, err, "Failed to get student")
		c.HTML(http.StatusBadRequest, "error.html", gin.H{
			"Title":   "Error",
			"Message": err.Error(),
		})
		return
	}

	c.HTML(http.StatusOK, "student_details.html", gin.H{
		"Title":   "Student Details",
		"Student": student,
	})
}

// ===== UPDATE =====

// ShowEditForm handles GET /students/edit/:id. Unlike the details page,
// a missing or malformed id sends the user back to the list with a notice.
func (h *StudentHandler) ShowEditForm(c *gin.Context) {
	student, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			h.redirectWithNotice(c, notice.LevelError, noticeStudentMissing)
			return
		}
		h.redirectWithNotice(c, notice.LevelError, err.Error())
		return
	}

	c.HTML(http.StatusOK, "student_edit.html", gin.H{
		"Title":  "Edit Student",
		"Errors": nil,
		"Data":   formFromStudent(student),
		"ID":     student.ID,
	})
}

// Update handles POST /students/edit/:id.
func (h *StudentHandler) Update(c *gin.Context) {
	h.LogRequest(c, "Updating student")
	id := c.Param("id")

	var form validator.StudentForm
	_ = c.ShouldBind(&form)

	input, validationErrs := h.validator.CheckStudentForm(&form)
	if len(validationErrs) > 0 {
		c.HTML(http.StatusBadRequest, "student_edit.html", gin.H{
			"Title":  "Edit Student",
			"Errors": validationErrs,
			"Data":   form,
			"ID":     id,
		})
		return
	}

	if _, err := h.service.Update(c.Request.Context(), id, input); err != nil {
		message := h.storeErrorMessage(c, err)
		if errors.Is(err, services.ErrStudentNotFound) {
			message = noticeStudentMissing
		}
		c.HTML(http.StatusBadRequest, "student_edit.html", gin.H{
			"Title":  "Edit Student",
			"Errors": []string{message},
			"Data":   form,
			"ID":     id,
		})
		return
	}

	h.redirectWithNotice(c, notice.LevelSuccess, noticeStudentUpdated)
}

// ===== DELETE =====

// Delete handles POST /students/delete/:id. Both outcomes land on the
// list; failures carry the failure text as a notice.
func (h *StudentHandler) Delete(c *gin.Context) {
	h.LogRequest(c, "Deleting student")

	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.LogError(c, err, "Failed to delete student")
		h.redirectWithNotice(c, notice.LevelError, err.Error())
		return
	}

	h.redirectWithNotice(c, notice.LevelSuccess, noticeStudentDeleted)
}

// ===== EXPORT =====

// Export handles GET /students/export: the current filtered, sorted
// roster as an xlsx download. The workbook is buffered so a late failure
// can still render the error page.
func (h *StudentHandler) Export(c *gin.Context) {
	h.LogRequest(c, "Exporting roster")

	var query validator.ListQuery
	_ = c.ShouldBindQuery(&query)

	var buf bytes.Buffer
	if err := h.export.WriteRoster(c.Request.Context(), &buf, query); err != nil {
		h.LogError(c, err, "Failed to export roster")
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Title":   "Error",
			"Message": "Could not export students.",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="students.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ===== HELPERS =====

// redirectWithNotice stores the notice under a one-time token and
// redirects to the list. Without a notice store the text travels as a
// plain msg query parameter, which List echoes as-is.
func (h *StudentHandler) redirectWithNotice(c *gin.Context, level notice.Level, text string) {
	if h.notices.Available() {
		token, err := h.notices.Put(c.Request.Context(), notice.Notice{Level: level, Text: text})
		if err == nil {
			c.Redirect(http.StatusFound, "/students?notice="+token)
			return
		}
		h.LogError(c, err, "Failed to store notice")
	}
	c.Redirect(http.StatusFound, "/students?msg="+url.QueryEscape(text))
}

// resolveNotice pops a stored notice by token, falling back to the msg
// parameter echoed straight from the request.
func (h *StudentHandler) resolveNotice(c *gin.Context) *notice.Notice {
	n, err := h.notices.Pop(c.Request.Context(), c.Query("notice"))
	if err != nil {
		h.LogError(c, err, "Failed to resolve notice")
	}
	if n != nil {
		return n
	}
	if msg := c.Query("msg"); msg != "" {
		return &notice.Notice{Level: notice.LevelInfo, Text: msg}
	}
	return nil
}

// storeErrorMessage translates uniqueness conflicts into their fixed
// messages; every other store failure surfaces its own description.
func (h *StudentHandler) storeErrorMessage(c *gin.Context, err error) string {
	if msg, ok := services.ConflictMessage(err); ok {
		return msg
	}
	h.LogError(c, err, "Store operation failed")
	return err.Error()
}

// formFromStudent turns a stored record back into the raw form shape used
// to pre-fill the edit view.
func formFromStudent(s *models.Student) validator.StudentForm {
	form := validator.StudentForm{
		Name:       s.Name,
		RollNumber: strconv.Itoa(s.RollNumber),
		Email:      s.Email,
		Department: s.Department,
	}
	if s.GPA != nil {
		form.GPA = strconv.FormatFloat(*s.GPA, 'f', -1, 64)
	}
	return form
}
