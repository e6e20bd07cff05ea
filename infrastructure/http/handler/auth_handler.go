package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chatlens/chatlens/application/port/inbound"
	"github.com/chatlens/chatlens/application/usecase"
	"github.com/chatlens/chatlens/infrastructure/http/middleware"
	"github.com/chatlens/chatlens/infrastructure/http/response"
	"github.com/chatlens/chatlens/infrastructure/http/validator"
	apperror "github.com/chatlens/chatlens/pkg/error"
)

const refreshTokenCookie = "refresh_token"

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
}

func NewAuthHandler(authUseCase inbound.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "Invalid email format")
		return
	}
	if !validator.ValidateRequired(req.Password) {
		response.BadRequest(w, "Password is required")
		return
	}

	ctx := context.WithValue(r.Context(), usecase.ClientIPKey, middleware.GetClientIP(r))

	loginRes, err := h.authUseCase.Login(ctx, req)
	if err != nil {
		appErr := apperror.MapError(err)
		if appErr.Status == http.StatusUnauthorized {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		response.Error(w, appErr.Status, appErr.Message)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    loginRes.RefreshToken,
		Path:     "/v1/auth/refresh",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   loginRes.RefreshExpiresIn,
	})

	response.Success(w, http.StatusOK, "success", map[string]interface{}{
		"access_token": loginRes.AccessToken,
		"expires_in":   loginRes.ExpiresIn,
		"user":         loginRes.User,
	})
}

// Refresh handles POST /v1/auth/refresh. The token comes from the cookie
// set at login, with the request body as fallback.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		refreshToken = cookie.Value
	} else {
		var req inbound.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	if refreshToken == "" {
		response.Unauthorized(w, "Refresh token required")
		return
	}

	refreshRes, err := h.authUseCase.Refresh(r.Context(), inbound.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		response.Unauthorized(w, "Invalid or expired refresh token")
		return
	}

	response.Success(w, http.StatusOK, "success", refreshRes)
}

// Logout handles POST /v1/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	req := inbound.LogoutRequest{}
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		req.RefreshToken = cookie.Value
	} else {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if claims := middleware.GetUserClaims(r.Context()); claims != nil {
		req.UserID = claims.UserID
	}

	if req.RefreshToken == "" && req.UserID == "" {
		response.BadRequest(w, "Nothing to log out")
		return
	}

	if err := h.authUseCase.Logout(r.Context(), req); err != nil {
		appErr := apperror.MapError(err)
		response.Error(w, appErr.Status, appErr.Message)
		return
	}

	// Clear the refresh cookie
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     "/v1/auth/refresh",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	response.Success(w, http.StatusOK, "success", nil)
}

// Me handles GET /v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	me, err := h.authUseCase.Me(r.Context(), claims.UserID)
	if err != nil {
		appErr := apperror.MapError(err)
		response.Error(w, appErr.Status, appErr.Message)
		return
	}

	response.Success(w, http.StatusOK, "success", me)
}
