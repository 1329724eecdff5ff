package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/api/transport"
	"github.com/fastygo/tasktimer/pkg/httpcontext"
	"github.com/fastygo/tasktimer/usecase/session"
	taskUC "github.com/fastygo/tasktimer/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc      *taskUC.UseCase
	session *session.Controller
}

func NewTaskHandler(uc *taskUC.UseCase, ctrl *session.Controller, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		session:     ctrl,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.List(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondList(ctx, tasks, len(tasks))
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, pathID(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Add(stdCtx, taskUC.AddTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		DailyTime:   req.DailyTime,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Edit task details
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseTask(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.session.Edit(stdCtx, taskUC.EditTaskInput{
		ID:          pathID(ctx),
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		DailyTime:   req.DailyTime,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.session.Delete(stdCtx, pathID(ctx)); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

// @Summary Start or resume the task session
// @Tags session
// @Router /api/v1/tasks/{id}/start [post]
func (h *TaskHandler) StartTask(ctx *fasthttp.RequestCtx) {
	h.transition(ctx, h.session.Start)
}

// @Summary Pause the task session
// @Tags session
// @Router /api/v1/tasks/{id}/pause [post]
func (h *TaskHandler) PauseTask(ctx *fasthttp.RequestCtx) {
	h.transition(ctx, h.session.Pause)
}

// @Summary Complete the task
// @Tags session
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	h.transition(ctx, h.session.Complete)
}

type transitionFunc func(ctx context.Context, id string) (*taskUC.TaskView, error)

func (h *TaskHandler) transition(ctx *fasthttp.RequestCtx, op transitionFunc) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := op(stdCtx, pathID(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx) (*transport.TaskRequest, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.badRequest(ctx, "invalid payload")
		return nil, false
	}
	return &req, true
}
