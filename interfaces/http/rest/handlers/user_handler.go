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

// UserHandler serves the /users and /me routes. Reads are open to any
// authenticated caller; writes and deletes are restricted to the record's
// own user.
type UserHandler struct {
	users  *services.UserService
	errors *apperrors.Handler
	logger *zap.Logger
}

// NewUserHandler creates the user routes handler.
func NewUserHandler(users *services.UserService, errors *apperrors.Handler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		errors: errors,
		logger: logger,
	}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	lastKey := r.URL.Query().Get("lastEvaluatedKey")
	users, nextKey, err := h.users.List(r.Context(), lastKey, filter)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.ListResponse{
		Data:             users,
		LastEvaluatedKey: nextKey,
	})
}

// Create handles POST /users. Most records are created by the identity sync
// hooks on first login; this route covers explicit creation.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateUserInput
	if err := common.DecodeJSONBody(r, &in, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	user, err := h.users.Create(r.Context(), "", in)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, common.DataResponse{Data: user})
}

// Get handles GET /users/{userId}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.DataResponse{Data: user})
}

// Me handles GET /me, returning the caller's own record.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), caller.UserID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.DataResponse{Data: user})
}

// Update handles PUT /users/{userId}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := h.requireSelf(r, userID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var in services.UpdateUserInput
	if err := common.DecodeJSONBody(r, &in, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	user, err := h.users.Update(r.Context(), userID, in)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.DataResponse{Data: user})
}

// Delete handles DELETE /users/{userId}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := h.requireSelf(r, userID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondNoContent(w)
}

// requireSelf rejects writes against another user's record.
func (h *UserHandler) requireSelf(r *http.Request, userID string) error {
	caller, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return err
	}
	if caller.UserID != userID {
		return apperrors.NewForbiddenError("cannot modify another user's record")
	}
	return nil
}
