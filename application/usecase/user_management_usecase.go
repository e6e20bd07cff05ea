package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/domain/entity"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

type UserManagementUseCase struct {
	userRepository  outbound.UserRepository
	passwordService inbound.PasswordService
	logger          logger.Logger
}

func NewUserManagementUseCase(
	userRepo outbound.UserRepository,
	passwordService inbound.PasswordService,
	log logger.Logger,
) inbound.UserManagementUseCase {
	return &UserManagementUseCase{
		userRepository:  userRepo,
		passwordService: passwordService,
		logger:          log,
	}
}

func (uc *UserManagementUseCase) CreateUser(ctx context.Context, req inbound.CreateUserRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if req.Email == "" {
		return fmt.Errorf("email is required")
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if !entity.ValidRole(req.Role) {
		return fmt.Errorf("invalid role: %s", req.Role)
	}
	if req.Status != "" && !entity.ValidStatus(req.Status) {
		return fmt.Errorf("invalid status: %s", req.Status)
	}

	exists, err := uc.userRepository.ExistsByEmail(ctx, req.Email)
	if err != nil {
		uc.logger.Error(ctx, "Failed to check email existence", err, map[string]interface{}{"email": req.Email})
		return fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return outbound.ErrUserAlreadyExists
	}

	hash, err := uc.passwordService.HashPassword(req.Password)
	if err != nil {
		uc.logger.Error(ctx, "Failed to hash password", err, nil)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	user := entity.NewUser(id, req.Name, req.Email, hash, req.Role)
	if req.Status != "" {
		user.Status = req.Status
	}

	if err := uc.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, outbound.ErrUserAlreadyExists) {
			return err
		}
		uc.logger.Error(ctx, "Failed to create user", err, map[string]interface{}{"email": req.Email})
		return fmt.Errorf("failed to create user: %w", err)
	}

	uc.logger.Info(ctx, "User created", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return nil
}

func (uc *UserManagementUseCase) UpdateUser(ctx context.Context, userID string, req inbound.UpdateUserRequest) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}

	user, err := uc.userRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return err
		}
		uc.logger.Error(ctx, "Failed to find user", err, map[string]interface{}{"user_id": userID})
		return fmt.Errorf("failed to find user: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return fmt.Errorf("name cannot be empty")
		}
		user.Name = *req.Name
	}
	if req.Role != nil {
		if !entity.ValidRole(*req.Role) {
			return fmt.Errorf("invalid role: %s", *req.Role)
		}
		user.Role = *req.Role
	}
	if req.Status != nil {
		if !entity.ValidStatus(*req.Status) {
			return fmt.Errorf("invalid status: %s", *req.Status)
		}
		user.Status = *req.Status
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepository.Update(ctx, user); err != nil {
		uc.logger.Error(ctx, "Failed to update user", err, map[string]interface{}{"user_id": userID})
		return fmt.Errorf("failed to update user: %w", err)
	}

	uc.logger.Info(ctx, "User updated", map[string]interface{}{"user_id": userID})
	return nil
}

func (uc *UserManagementUseCase) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}

	if err := uc.userRepository.SoftDelete(ctx, userID); err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return err
		}
		uc.logger.Error(ctx, "Failed to delete user", err, map[string]interface{}{"user_id": userID})
		return fmt.Errorf("failed to delete user: %w", err)
	}

	uc.logger.Info(ctx, "User deleted", map[string]interface{}{"user_id": userID})
	return nil
}

func (uc *UserManagementUseCase) GetUserDetail(ctx context.Context, userID string) (*inbound.UserDetail, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	user, err := uc.userRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return nil, err
		}
		uc.logger.Error(ctx, "Failed to find user", err, map[string]interface{}{"user_id": userID})
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	detail := toUserDetail(user)
	return &detail, nil
}

func (uc *UserManagementUseCase) ListUsers(ctx context.Context, req inbound.ListUsersRequest) (*inbound.ListUsersResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	filters := outbound.UserFilters{
		Name:   req.Filter.Name,
		Role:   req.Filter.Role,
		Status: req.Filter.Status,
	}

	users, total, err := uc.userRepository.FindAll(ctx, (page-1)*limit, limit, filters)
	if err != nil {
		uc.logger.Error(ctx, "Failed to list users", err, nil)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	details := make([]inbound.UserDetail, 0, len(users))
	for _, user := range users {
		details = append(details, toUserDetail(user))
	}

	return &inbound.ListUsersResponse{
		Users: details,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func toUserDetail(user *entity.User) inbound.UserDetail {
	return inbound.UserDetail{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}
