package inbound

import (
	"context"
)

type CreateUserRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

type UserFilter struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type ListUsersRequest struct {
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
	Filter UserFilter `json:"filter"`
}

type UserDetail struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListUsersResponse struct {
	Users []UserDetail `json:"users"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type UserManagementUseCase interface {
	CreateUser(ctx context.Context, req CreateUserRequest) error
	UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) error
	DeleteUser(ctx context.Context, userID string) error
	GetUserDetail(ctx context.Context, userID string) (*UserDetail, error)
	ListUsers(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error)
}
