package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/clock"
	"github.com/homeharmony/backend/pkg/httpcontext"
	"github.com/homeharmony/backend/pkg/idgen"
	"github.com/homeharmony/backend/repository/memory"
	itemUC "github.com/homeharmony/backend/usecase/item"
	memberUC "github.com/homeharmony/backend/usecase/member"
	taskUC "github.com/homeharmony/backend/usecase/task"
)

var now = time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func request(method, body string, params map[string]string, memberID string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	for k, v := range params {
		ctx.SetUserValue(k, v)
	}
	if memberID != "" {
		ctx.Request.Header.Set(httpcontext.HeaderMemberID, memberID)
	}
	return ctx
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(ctx.Response.Body(), &env); err != nil {
		t.Fatalf("invalid response body %q: %v", ctx.Response.Body(), err)
	}
	return env
}

func newTaskHandler(seed ...domain.Task) *TaskHandler {
	uc := taskUC.New(taskUC.Deps{
		Tasks:   memory.NewTaskRepository(seed...),
		Members: memory.NewMemberRepository(domain.Member{ID: "a", Name: "Ann"}, domain.Member{ID: "b", Name: "Bob"}),
		Clock:   clock.NewFixed(now),
		IDs:     idgen.NewSequence("task"),
	})
	return NewTaskHandler(uc, clock.NewFixed(now), httpcontext.NewAdapter(time.Second), nil)
}

func TestCreateTaskHandler(t *testing.T) {
	h := newTaskHandler()
	ctx := request(http.MethodPost, `{"name":"Vacuum","weight":3,"due_date":"2024-07-03T10:00:00Z"}`, nil, "a")

	h.CreateTask(ctx)

	if ctx.Response.StatusCode() != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	env := decodeEnvelope(t, ctx)
	var task struct {
		ID         string `json:"id"`
		AssignedTo string `json:"assigned_to"`
		TimeLeft   string `json:"time_left"`
	}
	if err := json.Unmarshal(env.Data, &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.ID != "task-1" || task.AssignedTo != "a" || task.TimeLeft != "2 days left" {
		t.Fatalf("unexpected task payload: %+v", task)
	}
	if len(ctx.Response.Header.Peek("X-Request-ID")) == 0 {
		t.Fatalf("expected request id header")
	}
}

func TestCreateTaskHandlerValidation(t *testing.T) {
	h := newTaskHandler()

	bad := request(http.MethodPost, `{"name":"x","weight":9}`, nil, "a")
	h.CreateTask(bad)
	if bad.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", bad.Response.StatusCode())
	}
	if env := decodeEnvelope(t, bad); env.Code != string(domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID code, got %s", env.Code)
	}

	garbage := request(http.MethodPost, `{`, nil, "a")
	h.CreateTask(garbage)
	if garbage.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", garbage.Response.StatusCode())
	}
}

func TestToggleAndMissingTask(t *testing.T) {
	h := newTaskHandler(domain.Task{ID: "t1", Name: "Dishes", AssignedTo: "a", Weight: 2, Priority: domain.PriorityLow, DueDate: now.AddDate(0, 0, 2)})

	ctx := request(http.MethodPost, "", map[string]string{"id": "t1"}, "a")
	h.ToggleTask(ctx)
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	var task domain.Task
	_ = json.Unmarshal(decodeEnvelope(t, ctx).Data, &task)
	if !task.Completed || !task.DueDate.Equal(now) {
		t.Fatalf("unexpected toggled task: %+v", task)
	}

	missing := request(http.MethodPost, "", map[string]string{"id": "nope"}, "a")
	h.ToggleTask(missing)
	if missing.Response.StatusCode() != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Response.StatusCode())
	}
}

func TestListTasksFilters(t *testing.T) {
	h := newTaskHandler(
		domain.Task{ID: "t1", Name: "A", AssignedTo: "a", Weight: 1, Priority: domain.PriorityLow},
		domain.Task{ID: "t2", Name: "B", AssignedTo: "b", Weight: 1, Priority: domain.PriorityLow, Completed: true},
	)

	ctx := request(http.MethodGet, "", nil, "a")
	ctx.Request.SetRequestURI("/api/v1/tasks?assigned_to=me")
	h.GetTasks(ctx)
	var tasks []domain.Task
	_ = json.Unmarshal(decodeEnvelope(t, ctx).Data, &tasks)
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Fatalf("expected only t1, got %+v", tasks)
	}

	bad := request(http.MethodGet, "", nil, "a")
	bad.Request.SetRequestURI("/api/v1/tasks?completed=maybe")
	h.GetTasks(bad)
	if bad.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", bad.Response.StatusCode())
	}
}

func TestMemberHandlerHidesHashAndMapsErrors(t *testing.T) {
	repo := memory.NewMemberRepository(
		domain.Member{ID: "admin", Name: "Ann", IsAdmin: true, PasswordHash: "secret-hash"},
		domain.Member{ID: "bob", Name: "Bob"},
	)
	h := NewMemberHandler(memberUC.New(memberUC.Deps{Members: repo, Tasks: memory.NewTaskRepository()}), nil, nil)

	list := request(http.MethodGet, "", nil, "admin")
	h.ListMembers(list)
	if len(list.Response.Body()) == 0 || bytes.Contains(list.Response.Body(), []byte("secret-hash")) {
		t.Fatalf("password hash leaked: %s", list.Response.Body())
	}

	self := request(http.MethodDelete, "", map[string]string{"id": "admin"}, "admin")
	h.DeleteMember(self)
	if self.Response.StatusCode() != http.StatusForbidden {
		t.Fatalf("expected 403 for self deletion, got %d", self.Response.StatusCode())
	}

	demote := request(http.MethodPost, "", map[string]string{"id": "admin"}, "admin")
	h.ToggleAdmin(demote)
	if demote.Response.StatusCode() != http.StatusConflict {
		t.Fatalf("expected 409 for last admin, got %d", demote.Response.StatusCode())
	}
	if env := decodeEnvelope(t, demote); env.Code != string(domain.ErrCodeInvalidState) {
		t.Fatalf("expected INVALID_STATE, got %s", env.Code)
	}

	anon := request(http.MethodPost, `{"name":"Cat"}`, nil, "")
	h.AddMember(anon)
	if anon.Response.StatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401 without member, got %d", anon.Response.StatusCode())
	}

	notAdmin := request(http.MethodPost, `{"name":"Cat"}`, nil, "bob")
	h.AddMember(notAdmin)
	if notAdmin.Response.StatusCode() != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", notAdmin.Response.StatusCode())
	}
}

func TestItemAdjustHandler(t *testing.T) {
	uc := itemUC.New(itemUC.Deps{Items: memory.NewItemRepository(domain.Item{ID: "i1", Name: "Eggs", Quantity: 6, MinQuantity: 2})})
	h := NewItemHandler(uc, nil, nil)

	ctx := request(http.MethodPost, `{"delta":-5}`, map[string]string{"id": "i1"}, "a")
	h.AdjustItem(ctx)
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	var item struct {
		Quantity int    `json:"quantity"`
		Status   string `json:"status"`
	}
	_ = json.Unmarshal(decodeEnvelope(t, ctx).Data, &item)
	if item.Quantity != 1 || item.Status != string(domain.StockLow) {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrAdminRequired, http.StatusForbidden},
		{domain.Invalidf("bad"), http.StatusBadRequest},
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{domain.ErrNoMembers, http.StatusConflict},
		{domain.ErrMemberHasTasks, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if status, _ := mapError(tc.err); status != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, status)
		}
	}
}
