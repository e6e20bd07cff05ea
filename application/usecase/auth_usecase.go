package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/application/port/outbound"
	"github.com/chatlens/chatlens/domain/entity"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

type AuthUseCase struct {
	userRepository         outbound.UserRepository
	refreshTokenRepository outbound.RefreshTokenRepository
	tokenService           outbound.TokenService
	passwordService        inbound.PasswordService
	rateLimitService       inbound.RateLimitService
	logger                 logger.Logger
	accessTokenTTL         time.Duration
	refreshTokenTTL        time.Duration
}

func NewAuthUseCase(
	userRepo outbound.UserRepository,
	refreshTokenRepo outbound.RefreshTokenRepository,
	tokenService outbound.TokenService,
	passwordService inbound.PasswordService,
	rateLimitService inbound.RateLimitService,
	log logger.Logger,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) inbound.AuthUseCase {
	return &AuthUseCase{
		userRepository:         userRepo,
		refreshTokenRepository: refreshTokenRepo,
		tokenService:           tokenService,
		passwordService:        passwordService,
		rateLimitService:       rateLimitService,
		logger:                 log,
		accessTokenTTL:         accessTokenTTL,
		refreshTokenTTL:        refreshTokenTTL,
	}
}

func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	logger.LogAuthEvent(ctx, uc.logger, "login_attempt", "", "", true, map[string]interface{}{
		"email": req.Email,
	})

	if req.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if req.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	ip := clientIPFromContext(ctx)
	if uc.rateLimitService != nil {
		isBlocked, err := uc.rateLimitService.IsBlocked(ctx, fmt.Sprintf("ip:%s", ip))
		if err != nil {
			uc.logger.Error(ctx, "Failed to check IP block status", err, map[string]interface{}{"ip": ip})
		}
		if isBlocked {
			logger.LogSecurityEvent(ctx, uc.logger, "blocked_ip_login_attempt", "MEDIUM", map[string]interface{}{
				"ip":    ip,
				"email": req.Email,
			})
			return nil, fmt.Errorf("IP address is blocked due to too many failed attempts")
		}

		allowed, err := uc.rateLimitService.CheckLimit(ctx, fmt.Sprintf("ip:%s", ip), 5, 15*time.Minute)
		if err != nil {
			uc.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{"ip": ip})
		}
		if !allowed {
			uc.rateLimitService.Block(ctx, fmt.Sprintf("ip:%s", ip), 30*time.Minute, "Rate limit exceeded")
			logger.LogSecurityEvent(ctx, uc.logger, "ip_rate_limit_exceeded", "HIGH", map[string]interface{}{
				"ip":    ip,
				"email": req.Email,
			})
			return nil, fmt.Errorf("Too many login attempts. Please try again later.")
		}
	}

	user, err := uc.userRepository.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			uc.recordFailedAttempt(ctx, ip, "")
			logger.LogAuthEvent(ctx, uc.logger, "login_failed_user_not_found", "", ip, false, map[string]interface{}{
				"email": req.Email,
			})
			return nil, fmt.Errorf("Invalid credentials")
		}
		uc.logger.Error(ctx, "Failed to find user", err, map[string]interface{}{"email": req.Email})
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || user.Status != entity.UserStatusActive {
		uc.recordFailedAttempt(ctx, ip, "")
		return nil, fmt.Errorf("Invalid credentials")
	}

	start := time.Now()
	isValid, err := uc.passwordService.VerifyPassword(req.Password, user.Password)
	logger.LogPerformance(ctx, uc.logger, "password_verification", time.Since(start), map[string]interface{}{
		"user_id": user.ID,
	})
	if err != nil {
		uc.logger.Error(ctx, "Password verification error", err, map[string]interface{}{"user_id": user.ID})
		return nil, fmt.Errorf("password verification failed")
	}
	if !isValid {
		uc.recordFailedAttempt(ctx, ip, user.ID)
		logger.LogAuthEvent(ctx, uc.logger, "login_failed_invalid_password", user.ID, ip, false, map[string]interface{}{
			"email": req.Email,
		})
		return nil, fmt.Errorf("Invalid credentials")
	}

	accessToken, err := uc.tokenService.GenerateAccessToken(outbound.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		uc.logger.Error(ctx, "Failed to generate access token", err, map[string]interface{}{"user_id": user.ID})
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := uc.tokenService.GenerateRefreshToken()
	if err != nil {
		uc.logger.Error(ctx, "Failed to generate refresh token", err, map[string]interface{}{"user_id": user.ID})
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Short refresh TTL unless the user asked to stay signed in.
	refreshTTL := uc.refreshTokenTTL
	if !req.RememberMe {
		if refreshTTL >= 14*24*time.Hour {
			refreshTTL = 7 * 24 * time.Hour
		} else {
			refreshTTL = refreshTTL / 2
		}
	}

	refreshTokenEntity := entity.NewRefreshToken(
		uuid.New().String(),
		user.ID,
		refreshToken,
		time.Now().Add(refreshTTL),
	)
	if err := uc.refreshTokenRepository.Create(ctx, refreshTokenEntity); err != nil {
		uc.logger.Error(ctx, "Failed to store refresh token", err, map[string]interface{}{"user_id": user.ID})
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "login_successful", user.ID, ip, true, map[string]interface{}{
		"email":               req.Email,
		"remember_me":         req.RememberMe,
		"refresh_ttl_seconds": int(refreshTTL.Seconds()),
	})

	return &inbound.LoginResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        int(uc.accessTokenTTL.Seconds()),
		RefreshExpiresIn: int(refreshTTL.Seconds()),
		User: inbound.MeResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

func (uc *AuthUseCase) Refresh(ctx context.Context, req inbound.RefreshRequest) (*inbound.RefreshResponse, error) {
	if req.RefreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}

	refreshTokenEntity, err := uc.refreshTokenRepository.FindByToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, outbound.ErrRefreshTokenNotFound) {
			logger.LogSecurityEvent(ctx, uc.logger, "refresh_token_not_found", "MEDIUM", nil)
			return nil, fmt.Errorf("invalid refresh token")
		}
		uc.logger.Error(ctx, "Failed to find refresh token", err, nil)
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	if refreshTokenEntity.IsExpired() {
		logger.LogSecurityEvent(ctx, uc.logger, "refresh_token_expired", "MEDIUM", map[string]interface{}{
			"user_id": refreshTokenEntity.UserID,
		})
		return nil, fmt.Errorf("refresh token expired")
	}
	if refreshTokenEntity.IsRevoked() {
		logger.LogSecurityEvent(ctx, uc.logger, "refresh_token_revoked", "HIGH", map[string]interface{}{
			"user_id": refreshTokenEntity.UserID,
		})
		return nil, fmt.Errorf("refresh token revoked")
	}

	// Rotate: the presented token is dead from here on.
	if err := uc.refreshTokenRepository.Revoke(ctx, req.RefreshToken); err != nil {
		uc.logger.Error(ctx, "Failed to revoke refresh token", err, map[string]interface{}{
			"user_id": refreshTokenEntity.UserID,
		})
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	user, err := uc.userRepository.FindByID(ctx, refreshTokenEntity.UserID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			logger.LogSecurityEvent(ctx, uc.logger, "refresh_user_not_found", "HIGH", map[string]interface{}{
				"user_id": refreshTokenEntity.UserID,
			})
			return nil, fmt.Errorf("user not found")
		}
		uc.logger.Error(ctx, "Failed to find user", err, map[string]interface{}{
			"user_id": refreshTokenEntity.UserID,
		})
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	accessToken, err := uc.tokenService.GenerateAccessToken(outbound.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		uc.logger.Error(ctx, "Failed to generate access token", err, map[string]interface{}{"user_id": user.ID})
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken, err := uc.tokenService.GenerateRefreshToken()
	if err != nil {
		uc.logger.Error(ctx, "Failed to generate refresh token", err, map[string]interface{}{"user_id": user.ID})
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	newEntity := entity.NewRefreshToken(
		uuid.New().String(),
		user.ID,
		newRefreshToken,
		time.Now().Add(uc.refreshTokenTTL),
	)
	if err := uc.refreshTokenRepository.Create(ctx, newEntity); err != nil {
		uc.logger.Error(ctx, "Failed to store refresh token", err, map[string]interface{}{"user_id": user.ID})
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "token_refresh_successful", user.ID, "", true, nil)

	return &inbound.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(uc.accessTokenTTL.Seconds()),
	}, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, req inbound.LogoutRequest) error {
	if req.RefreshToken != "" {
		if err := uc.refreshTokenRepository.Revoke(ctx, req.RefreshToken); err != nil {
			if errors.Is(err, outbound.ErrRefreshTokenNotFound) {
				return fmt.Errorf("token not found")
			}
			uc.logger.Error(ctx, "Failed to revoke refresh token", err, nil)
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		logger.LogAuthEvent(ctx, uc.logger, "logout_successful", "", "", true, nil)
		return nil
	}

	if req.UserID != "" {
		if err := uc.refreshTokenRepository.RevokeByUserID(ctx, req.UserID); err != nil {
			uc.logger.Error(ctx, "Failed to revoke refresh tokens by user", err, map[string]interface{}{
				"user_id": req.UserID,
			})
			return fmt.Errorf("failed to revoke refresh tokens by user: %w", err)
		}
		logger.LogAuthEvent(ctx, uc.logger, "logout_successful", req.UserID, "", true, nil)
		return nil
	}

	return fmt.Errorf("access token required")
}

func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*inbound.MeResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	user, err := uc.userRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		uc.logger.Error(ctx, "Failed to find user", err, map[string]interface{}{"user_id": userID})
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &inbound.MeResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (uc *AuthUseCase) recordFailedAttempt(ctx context.Context, ip, userID string) {
	if uc.rateLimitService == nil {
		return
	}
	uc.rateLimitService.Increment(ctx, fmt.Sprintf("ip:%s", ip), 15*time.Minute)
	if userID != "" {
		uc.rateLimitService.Increment(ctx, fmt.Sprintf("user:%s", userID), time.Hour)
	}
}

type contextKey string

// ClientIPKey carries the caller's IP from the HTTP layer into use cases.
const ClientIPKey contextKey = "client_ip"

func clientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return "unknown"
}
