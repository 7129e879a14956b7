package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/zephyr-app/core/internal/adapters/repository"
	"github.com/zephyr-app/core/internal/application/services"
	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/infrastructure/storage"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func newTaskHandler(t *testing.T) (*echo.Echo, *TaskHandler) {
	t.Helper()

	mem := storage.NewMemory()
	log := logger.NewNop()
	taskRepo := repository.NewTaskRepository(mem, log)
	folderRepo := repository.NewFolderRepository(mem, repository.KeyTaskFolders, log, taskRepo.ClearFolder)
	svc := services.NewTaskService(taskRepo, folderRepo, log)

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e, NewTaskHandler(svc, log)
}

func TestTaskHandler_CreateAndList(t *testing.T) {
	e, h := newTaskHandler(t)

	body := `{"title": "buy milk", "priority": "high", "tags": ["errand"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.CreateTask(e.NewContext(req, rec)); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var created entities.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" || created.Priority != entities.PriorityHigh {
		t.Errorf("created = %+v", created)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tasks?tag=errand", nil)
	rec = httptest.NewRecorder()
	if err := h.ListTasks(e.NewContext(req, rec)); err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var tasks []entities.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestTaskHandler_CreateRejectsMissingTitle(t *testing.T) {
	e, h := newTaskHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.CreateTask(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestTaskHandler_GetUnknownIDReturns404(t *testing.T) {
	e, h := newTaskHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.GetTask(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestTaskHandler_ToggleAndDelete(t *testing.T) {
	e, h := newTaskHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"title": "t"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.CreateTask(e.NewContext(req, rec)); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	var created entities.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/"+created.ID+"/toggle", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	if err := h.ToggleTask(c); err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	var toggled entities.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !toggled.Completed {
		t.Error("expected completed after toggle")
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/"+created.ID, nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	if err := h.DeleteTask(c); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}
