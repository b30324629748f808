package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldservice/internal/models"
	"fieldservice/internal/repositories"
	"fieldservice/internal/services"
)

// Stubs for the notification path. The lookup stubs fail when their
// context is already canceled, so a notification that reused the dead
// request context would never reach the email recorder.

type stubAssignmentService struct {
	assignment *models.Assignment
}

func (s *stubAssignmentService) Assign(_ context.Context, _, _, _ int64, _ string) (*models.Assignment, error) {
	return s.assignment, nil
}

func (s *stubAssignmentService) Start(context.Context, int64) (*models.Assignment, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubAssignmentService) Complete(context.Context, int64, string) (*models.Assignment, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubAssignmentService) UpdateNotes(context.Context, int64, string) (*models.Assignment, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubAssignmentService) EditFields(context.Context, int64, *string, *time.Time, *time.Time) (*models.Assignment, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubAssignmentService) Unassign(context.Context, int64) error {
	return repositories.ErrNotFound
}

func (s *stubAssignmentService) GetByID(context.Context, int64) (*models.Assignment, error) {
	return s.assignment, nil
}

func (s *stubAssignmentService) GetByTaskID(context.Context, int64) (*models.Assignment, error) {
	return s.assignment, nil
}

type stubTaskService struct {
	task *models.Task
}

func (s *stubTaskService) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	return task, nil
}

func (s *stubTaskService) GetByID(ctx context.Context, _ int64) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.task, nil
}

func (s *stubTaskService) List(context.Context, int64, string, models.TaskFilter, models.TaskSort) ([]models.Task, error) {
	return nil, nil
}

func (s *stubTaskService) Update(context.Context, int64, *models.Task) (*models.Task, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubTaskService) Close(context.Context, int64) (*models.Task, error) {
	return nil, repositories.ErrNotFound
}

type recordingEmail struct {
	sent chan string
}

func (r *recordingEmail) SendAssignmentEmail(_, taskTitle, _ string) error {
	r.sent <- taskTitle
	return nil
}

func (r *recordingEmail) SendCompletionEmail(_, taskTitle, _ string) error {
	r.sent <- taskTitle
	return nil
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByID(ctx context.Context, _ int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubUserRepo) FindByRefreshToken(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubUserRepo) UpdateRefresh(context.Context, int64, string, time.Time) error {
	return nil
}

func (s *stubUserRepo) RotateRefresh(context.Context, string, string, time.Time) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

var _ services.AssignmentService = (*stubAssignmentService)(nil)
var _ services.TaskService = (*stubTaskService)(nil)
var _ services.EmailService = (*recordingEmail)(nil)
var _ repositories.UserRepository = (*stubUserRepo)(nil)

func TestAssignmentNotificationOutlivesRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	email := &recordingEmail{sent: make(chan string, 2)}
	h := NewAssignmentHandler(
		&stubAssignmentService{assignment: &models.Assignment{ID: 1, TaskID: 5, TeknisiID: 7, SupervisorID: 2}},
		&stubTaskService{task: &models.Task{ID: 5, Title: "replace filter"}},
		nil,
		email,
		&stubUserRepo{user: &models.User{ID: 2, Name: "Dewi", Email: "dewi@example.com"}},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// the client is already gone by the time the response is written
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	body := bytes.NewBufferString(`{"task_id":5,"teknisi_id":7,"supervisor_id":2}`)
	req := httptest.NewRequest(http.MethodPost, "/assignments", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req.WithContext(ctx)
	c.Set("user_id", int64(2))
	c.Set("role", "supervisor")

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	select {
	case title := <-email.sent:
		assert.Equal(t, "replace filter", title)
	case <-time.After(2 * time.Second):
		t.Fatal("assignment email was never sent")
	}
}
