package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/api/transport"
	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/clock"
	"github.com/homeharmony/backend/pkg/httpcontext"
	"github.com/homeharmony/backend/repository"
	taskUC "github.com/homeharmony/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc    *taskUC.UseCase
	clock clock.Clock
}

func NewTaskHandler(uc *taskUC.UseCase, clk clock.Clock, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	if clk == nil {
		clk = clock.System{}
	}
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		clock:       clk,
	}
}

// @Summary List tasks
// @Tags tasks
// @Param assigned_to query string false "member id, or \"me\""
// @Param completed query bool false "completion filter"
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	filter := repository.TaskFilter{
		AssignedTo: string(args.Peek("assigned_to")),
		Limit:      parseInt(string(args.Peek("limit")), 0),
		Offset:     parseInt(string(args.Peek("offset")), 0),
	}
	if filter.AssignedTo == "me" {
		filter.AssignedTo = httpcontext.MemberID(ctx)
	}
	if raw := string(args.Peek("completed")); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			h.respondInvalid(ctx, "completed must be a boolean")
			return
		}
		filter.Completed = &completed
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskResponses(tasks, h.clock.Now()))
}

// @Summary Get one task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskResponse(*task, h.clock.Now()))
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.TaskCreateRequest
	if !h.decode(ctx, &req) {
		return
	}

	task := &domain.Task{
		Name:        req.Name,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Schedule:    req.Schedule,
		Priority:    domain.Priority(req.Priority),
		Duration:    req.Duration,
		Weight:      req.Weight,
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewTaskResponse(*created, h.clock.Now()))
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.TaskUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	patch := taskUC.Patch{
		Name:        req.Name,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Schedule:    req.Schedule,
		Duration:    req.Duration,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Weight:      req.Weight,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskResponse(*updated, h.clock.Now()))
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Toggle completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.ToggleTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskResponse(*task, h.clock.Now()))
}

// @Summary Rebalance open tasks across members
// @Tags tasks
// @Router /api/v1/tasks/redistribute [post]
func (h *TaskHandler) Redistribute(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.Redistribute(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskResponses(tasks, h.clock.Now()))
}

// @Summary Create due follow-ups now
// @Tags tasks
// @Router /api/v1/tasks/followups [post]
func (h *TaskHandler) MaterializeFollowUps(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.MaterializeFollowUps(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.log(stdCtx).Debug("manual follow-up sweep", zap.Int("created", len(created)))
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskResponses(created, h.clock.Now()))
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
