package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/campus-hub/student-registry/internal/models"
	"github.com/campus-hub/student-registry/internal/notice"
	"github.com/campus-hub/student-registry/internal/repositories"
	"github.com/campus-hub/student-registry/internal/services"
	"github.com/campus-hub/student-registry/internal/utils"
	"github.com/campus-hub/student-registry/internal/validator"
)

// stubStudentService lets each test script the service layer.
type stubStudentService struct {
	listFn     func(ctx context.Context, query validator.ListQuery) ([]*models.Student, error)
	getFn      func(ctx context.Context, id string) (*models.Student, error)
	createFn   func(ctx context.Context, input *validator.StudentInput) (*models.Student, error)
	updateFn   func(ctx context.Context, id string, input *validator.StudentInput) (*models.Student, error)
	deleteFn   func(ctx context.Context, id string) error
	activityFn func(ctx context.Context, limit int) ([]*models.Activity, error)
}

func (s *stubStudentService) List(ctx context.Context, query validator.ListQuery) ([]*models.Student, error) {
	if s.listFn != nil {
		return s.listFn(ctx, query)
	}
	return nil, nil
}

func (s *stubStudentService) GetByID(ctx context.Context, id string) (*models.Student, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, services.ErrStudentNotFound
}

func (s *stubStudentService) Create(ctx context.Context, input *validator.StudentInput) (*models.Student, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &models.Student{ID: "stub"}, nil
}

func (s *stubStudentService) Update(ctx context.Context, id string, input *validator.StudentInput) (*models.Student, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, input)
	}
	return &models.Student{ID: id}, nil
}

func (s *stubStudentService) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubStudentService) RecentActivity(ctx context.Context, limit int) ([]*models.Activity, error) {
	if s.activityFn != nil {
		return s.activityFn(ctx, limit)
	}
	return nil, nil
}

type stubExportService struct {
	writeFn func(ctx context.Context, w io.Writer, query validator.ListQuery) error
}

func (s *stubExportService) WriteRoster(ctx context.Context, w io.Writer, query validator.ListQuery) error {
	if s.writeFn != nil {
		return s.writeFn(ctx, w, query)
	}
	_, err := w.Write([]byte("workbook"))
	return err
}

type stubServiceManager struct {
	student services.StudentService
	export  services.ExportService
}

func (m *stubServiceManager) Student() services.StudentService     { return m.student }
func (m *stubServiceManager) Export() services.ExportService       { return m.export }
func (m *stubServiceManager) Initialize(ctx context.Context) error { return nil }
func (m *stubServiceManager) Shutdown(ctx context.Context) error   { return nil }

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newNoticeStore(t *testing.T) *notice.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return notice.NewStore(client)
}

func newTestRouter(t *testing.T, svc services.StudentService, exp services.ExportService, notices *notice.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.LoadHTMLGlob("../../web/templates/*.html")

	hm := NewHandlerManager(&stubServiceManager{student: svc, export: exp}, validator.New(), notices, testLogger())
	hm.SetupRoutes(router)
	return router
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validForm() url.Values {
	return url.Values{
		"name":       {"Ada Lovelace"},
		"rollNumber": {"17"},
		"email":      {"ada@example.com"},
		"department": {"Mathematics"},
		"gpa":        {"3.9"},
	}
}

func popNotice(t *testing.T, store *notice.Store, location string) *notice.Notice {
	t.Helper()
	token := strings.TrimPrefix(location, "/students?notice=")
	n, err := store.Pop(context.Background(), token)
	if err != nil {
		t.Fatalf("pop notice: %v", err)
	}
	if n == nil {
		t.Fatalf("no notice stored for redirect %q", location)
	}
	return n
}

func TestListEchoesQuery(t *testing.T) {
	var captured validator.ListQuery
	svc := &stubStudentService{
		listFn: func(ctx context.Context, query validator.ListQuery) ([]*models.Student, error) {
			captured = query
			return []*models.Student{{ID: "s1", Name: "Grace Hopper", RollNumber: 7, Email: "grace@example.com", Department: "Engineering"}}, nil
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, newNoticeStore(t))

	w := get(router, "/students?search=grace&department=Engineering&sort=gpa&order=desc")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if captured.Search != "grace" || captured.Department != "Engineering" || captured.Sort != "gpa" || captured.Order != "desc" {
		t.Errorf("query not bound: %+v", captured)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Grace Hopper") {
		t.Errorf("roster row missing from body")
	}
	// The filter form keeps its state.
	if !strings.Contains(body, "grace") || !strings.Contains(body, "Engineering") {
		t.Errorf("query values not echoed back")
	}
}

func TestListResolvesNoticeOnce(t *testing.T) {
	store := newNoticeStore(t)
	router := newTestRouter(t, &stubStudentService{}, &stubExportService{}, store)

	token, err := store.Put(context.Background(), notice.Notice{Level: notice.LevelSuccess, Text: "Student added successfully"})
	if err != nil {
		t.Fatalf("put notice: %v", err)
	}

	w := get(router, "/students?notice="+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Student added successfully") {
		t.Errorf("notice text missing from body")
	}
	if !strings.Contains(w.Body.String(), "alert-success") {
		t.Errorf("notice level missing from body")
	}

	// One-shot: a reload does not resurface the notice.
	w = get(router, "/students?notice="+token)
	if strings.Contains(w.Body.String(), "Student added successfully") {
		t.Errorf("notice shown twice")
	}
}

func TestListMsgFallbackWithoutStore(t *testing.T) {
	router := newTestRouter(t, &stubStudentService{}, &stubExportService{}, notice.NewStore(nil))

	w := get(router, "/students?msg="+url.QueryEscape("Student deleted"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Student deleted") {
		t.Errorf("msg fallback not echoed")
	}
}

func TestCreateRedirectsWithNotice(t *testing.T) {
	store := newNoticeStore(t)
	var gotInput *validator.StudentInput
	svc := &stubStudentService{
		createFn: func(ctx context.Context, input *validator.StudentInput) (*models.Student, error) {
			gotInput = input
			return &models.Student{ID: "s1"}, nil
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, store)

	w := postForm(router, "/students/add", validForm())

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	n := popNotice(t, store, w.Header().Get("Location"))
	if n.Level != notice.LevelSuccess || n.Text != "Student added successfully" {
		t.Errorf("unexpected notice %+v", n)
	}
	if gotInput == nil || gotInput.RollNumber != 17 || gotInput.GPA == nil || *gotInput.GPA != 3.9 {
		t.Errorf("input not normalized: %+v", gotInput)
	}
}

func TestCreateRerendersOnValidationFailure(t *testing.T) {
	created := false
	svc := &stubStudentService{
		createFn: func(ctx context.Context, input *validator.StudentInput) (*models.Student, error) {
			created = true
			return &models.Student{}, nil
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, newNoticeStore(t))

	form := validForm()
	form.Set("email", "")
	form.Set("gpa", "4.5")
	w := postForm(router, "/students/add", form)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if created {
		t.Errorf("service called despite validation failure")
	}
	body := w.Body.String()
	if !strings.Contains(body, validator.MsgFieldsRequired) || !strings.Contains(body, validator.MsgGPARange) {
		t.Errorf("validation messages missing from body")
	}
	// Submitted values survive the round trip.
	if !strings.Contains(body, "Ada Lovelace") {
		t.Errorf("submitted name not preserved")
	}
}

func TestCreateRerendersOnConflict(t *testing.T) {
	svc := &stubStudentService{
		createFn: func(ctx context.Context, input *validator.StudentInput) (*models.Student, error) {
			return nil, &repositories.ConflictError{Fields: []string{repositories.ConflictFieldEmail}}
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, newNoticeStore(t))

	w := postForm(router, "/students/add", validForm())

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), services.MsgEmailUnique) {
		t.Errorf("conflict message missing from body")
	}
}

func TestShowRendersDetails(t *testing.T) {
	gpa := 3.5
	svc := &stubStudentService{
		getFn: func(ctx context.Context, id string) (*models.Student, error) {
			return &models.Student{ID: id, Name: "Alan Turing", RollNumber: 1, Email: "alan@example.com", Department: "Computing", GPA: &gpa}, nil
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, newNoticeStore(t))

	w := get(router, "/students/s1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Alan Turing") {
		t.Errorf("student missing from details page")
	}
}

func TestShowMissingAndMalformed(t *testing.T) {
	svc := &stubStudentService{
		getFn: func(ctx context.Context, id string) (*models.Student, error) {
			if id == "missing" {
				return nil, services.ErrStudentNotFound
			}
			return nil, services.ErrInvalidID
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, newNoticeStore(t))

	w := get(router, "/students/missing")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing record: expected 404, got %d", w.Code)
	}

	w = get(router, "/students/not-a-uuid")
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed id: expected 400, got %d", w.Code)
	}
}

func TestEditFormRedirectsWhenMissing(t *testing.T) {
	store := newNoticeStore(t)
	svc := &stubStudentService{
		getFn: func(ctx context.Context, id string) (*models.Student, error) {
			if id == "missing" {
				return nil, services.ErrStudentNotFound
			}
			return nil, services.ErrInvalidID
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, store)

	w := get(router, "/students/edit/missing")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	n := popNotice(t, store, w.Header().Get("Location"))
	if n.Level != notice.LevelError || n.Text != "Student not found" {
		t.Errorf("unexpected notice %+v", n)
	}

	// A malformed id takes the same redirect path, unlike the details view.
	w = get(router, "/students/edit/not-a-uuid")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	n = popNotice(t, store, w.Header().Get("Location"))
	if n.Text != services.ErrInvalidID.Error() {
		t.Errorf("unexpected notice text %q", n.Text)
	}
}

func TestEditFormPrefilled(t *testing.T) {
	svc := &stubStudentService{
		getFn: func(ctx context.Context, id string) (*models.Student, error) {
			return &models.Student{ID: id, Name: "Ada Lovelace", RollNumber: 17, Email: "ada@example.com", Department: "Mathematics"}, nil
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, newNoticeStore(t))

	w := get(router, "/students/edit/s1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Ada Lovelace") || !strings.Contains(body, "ada@example.com") {
		t.Errorf("form not prefilled")
	}
	if !strings.Contains(body, "/students/edit/s1") {
		t.Errorf("form action missing the id")
	}
}

func TestUpdateRedirectsWithNotice(t *testing.T) {
	store := newNoticeStore(t)
	router := newTestRouter(t, &stubStudentService{}, &stubExportService{}, store)

	w := postForm(router, "/students/edit/s1", validForm())
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	n := popNotice(t, store, w.Header().Get("Location"))
	if n.Text != "Student updated successfully" {
		t.Errorf("unexpected notice text %q", n.Text)
	}
}

func TestUpdateRerenderKeepsID(t *testing.T) {
	svc := &stubStudentService{
		updateFn: func(ctx context.Context, id string, input *validator.StudentInput) (*models.Student, error) {
			return nil, services.ErrStudentNotFound
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, newNoticeStore(t))

	w := postForm(router, "/students/edit/s9", validForm())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Student not found") {
		t.Errorf("not-found message missing")
	}
	if !strings.Contains(body, "/students/edit/s9") {
		t.Errorf("form action lost the id on re-render")
	}
}

func TestDeleteRedirects(t *testing.T) {
	store := newNoticeStore(t)
	svc := &stubStudentService{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "bad" {
				return services.ErrInvalidID
			}
			return nil
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, store)

	w := postForm(router, "/students/delete/s1", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	n := popNotice(t, store, w.Header().Get("Location"))
	if n.Level != notice.LevelSuccess || n.Text != "Student deleted" {
		t.Errorf("unexpected notice %+v", n)
	}

	w = postForm(router, "/students/delete/bad", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	n = popNotice(t, store, w.Header().Get("Location"))
	if n.Level != notice.LevelError {
		t.Errorf("expected error notice, got %+v", n)
	}
}

func TestExportSetsDownloadHeaders(t *testing.T) {
	var captured validator.ListQuery
	exp := &stubExportService{
		writeFn: func(ctx context.Context, w io.Writer, query validator.ListQuery) error {
			captured = query
			_, err := w.Write([]byte("workbook"))
			return err
		},
	}
	router := newTestRouter(t, &stubStudentService{}, exp, newNoticeStore(t))

	w := get(router, "/students/export?department=Physics&sort=gpa")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "students.xlsx") {
		t.Errorf("unexpected Content-Disposition %q", got)
	}
	if captured.Department != "Physics" || captured.Sort != "gpa" {
		t.Errorf("export query not bound: %+v", captured)
	}
	if w.Body.String() != "workbook" {
		t.Errorf("workbook bytes not streamed")
	}
}

func TestHomeRendersActivityTrail(t *testing.T) {
	svc := &stubStudentService{
		activityFn: func(ctx context.Context, limit int) ([]*models.Activity, error) {
			return []*models.Activity{{Action: models.ActivityStudentCreated, Summary: "Ada Lovelace enrolled"}}, nil
		},
	}
	router := newTestRouter(t, svc, &stubExportService{}, newNoticeStore(t))

	w := get(router, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Ada Lovelace enrolled") {
		t.Errorf("activity trail missing from landing page")
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubStudentService{}, &stubExportService{}, newNoticeStore(t))

	w := get(router, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("unexpected health body %q", w.Body.String())
	}
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	router := newTestRouter(t, &stubStudentService{}, &stubExportService{}, newNoticeStore(t))

	w := get(router, "/nowhere")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
