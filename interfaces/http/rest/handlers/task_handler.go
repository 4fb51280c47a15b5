package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tasklist-backend/application/services"
	"tasklist-backend/pkg/auth"
	"tasklist-backend/pkg/common"
	apperrors "tasklist-backend/pkg/errors"
)

// TaskHandler serves the /tasks routes. Every route is scoped to the
// authenticated caller; there is no way to address another user's tasks.
type TaskHandler struct {
	tasks  *services.TaskService
	errors *apperrors.Handler
	logger *zap.Logger
}

// NewTaskHandler creates the task routes handler.
func NewTaskHandler(tasks *services.TaskService, errors *apperrors.Handler, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		errors: errors,
		logger: logger,
	}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	lastKey := r.URL.Query().Get("lastEvaluatedKey")
	items, nextKey, err := h.tasks.List(r.Context(), user.UserID, lastKey, filter)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.ListResponse{
		Data:             items,
		LastEvaluatedKey: nextKey,
	})
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var in services.CreateTaskInput
	if err := common.DecodeJSONBody(r, &in, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	task, err := h.tasks.Create(r.Context(), user.UserID, in)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, common.DataResponse{Data: task})
}

// Get handles GET /tasks/{itemId}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	task, err := h.tasks.Get(r.Context(), user.UserID, chi.URLParam(r, "itemId"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.DataResponse{Data: task})
}

// Update handles PUT /tasks/{itemId}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var in services.UpdateTaskInput
	if err := common.DecodeJSONBody(r, &in, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	task, err := h.tasks.Update(r.Context(), user.UserID, chi.URLParam(r, "itemId"), in)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.DataResponse{Data: task})
}

// Delete handles DELETE /tasks/{itemId}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), user.UserID, chi.URLParam(r, "itemId")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondNoContent(w)
}
