package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/infrastructure/http/response"
	"github.com/chatlens/chatlens/infrastructure/http/validator"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

type UserManagementHandler struct {
	userManagement inbound.UserManagementUseCase
	logger         logger.Logger
}

func NewUserManagementHandler(userManagement inbound.UserManagementUseCase, log logger.Logger) *UserManagementHandler {
	return &UserManagementHandler{
		userManagement: userManagement,
		logger:         log,
	}
}

// CreateUser handles POST /v1/admin/users.
func (h *UserManagementHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "Invalid email format")
		return
	}
	if !validator.ValidatePassword(req.Password) {
		response.BadRequest(w, "Password must be at least 8 characters")
		return
	}

	if err := h.userManagement.CreateUser(r.Context(), req); err != nil {
		if errors.Is(err, outbound.ErrUserAlreadyExists) {
			response.Conflict(w, "User already exists")
			return
		}
		h.logger.Error(r.Context(), "Failed to create user", err, nil)
		response.BadRequest(w, err.Error())
		return
	}

	response.Success(w, http.StatusCreated, "User created", nil)
}

// UpdateUser handles PATCH /v1/admin/users/{id}.
func (h *UserManagementHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	var req inbound.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.userManagement.UpdateUser(r.Context(), userID, req); err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		h.logger.Error(r.Context(), "Failed to update user", err, map[string]interface{}{"user_id": userID})
		response.BadRequest(w, err.Error())
		return
	}

	response.Success(w, http.StatusOK, "User updated", nil)
}

// DeleteUser handles DELETE /v1/admin/users/{id}.
func (h *UserManagementHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	if err := h.userManagement.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		h.logger.Error(r.Context(), "Failed to delete user", err, map[string]interface{}{"user_id": userID})
		response.InternalServerError(w, "Failed to delete user")
		return
	}

	response.Success(w, http.StatusOK, "User deleted", nil)
}

// GetUser handles GET /v1/admin/users/{id}.
func (h *UserManagementHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	detail, err := h.userManagement.GetUserDetail(r.Context(), userID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		h.logger.Error(r.Context(), "Failed to load user", err, map[string]interface{}{"user_id": userID})
		response.InternalServerError(w, "Failed to load user")
		return
	}

	response.Success(w, http.StatusOK, "success", detail)
}

// ListUsers handles GET /v1/admin/users.
func (h *UserManagementHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := inbound.ListUsersRequest{
		Page:  intQuery(query.Get("page"), 1),
		Limit: intQuery(query.Get("limit"), 20),
		Filter: inbound.UserFilter{
			Name:   query.Get("name"),
			Role:   query.Get("role"),
			Status: query.Get("status"),
		},
	}

	list, err := h.userManagement.ListUsers(r.Context(), req)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to list users", err, nil)
		response.InternalServerError(w, "Failed to list users")
		return
	}

	response.Success(w, http.StatusOK, "success", list)
}
