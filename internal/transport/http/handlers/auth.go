package http_handlers

import (
	"net/http"

	"github.com/baechuer/commerce-api/internal/application/auth"
	"github.com/baechuer/commerce-api/internal/domain"
	"github.com/baechuer/commerce-api/internal/transport/http/dto"
	"github.com/baechuer/commerce-api/internal/transport/http/middleware"
	"github.com/baechuer/commerce-api/internal/transport/http/response"
)

const (
	msgForgotPassword  = "If the email exists, a reset link has been sent."
	msgPasswordChanged = "Password changed successfully."
	msgPasswordReset   = "Password has been reset successfully."
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// decodeValid decodes the body into req and runs its Validate method.
func decodeValid(w http.ResponseWriter, r *http.Request, req interface{ Validate() error }) bool {
	if err := response.DecodeJSON(r, req); err != nil {
		response.WriteError(w, r, err)
		return false
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return false
	}
	return true
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeValid(w, r, &req) {
		return
	}

	bundle, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, dto.NewTokenResponse(bundle))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeValid(w, r, &req) {
		return
	}

	outcome, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues("error").Inc()
		response.WriteError(w, r, err)
		return
	}

	switch o := outcome.(type) {
	case auth.LoginSucceeded:
		middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()
		response.OK(w, dto.NewTokenResponse(o.Bundle))
	default:
		middleware.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		response.WriteError(w, r, domain.ErrInvalidCredentials())
	}
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		middleware.PasswordResetsTotal.WithLabelValues("requested", "error").Inc()
		response.WriteError(w, r, err)
		return
	}

	middleware.PasswordResetsTotal.WithLabelValues("requested", "success").Inc()
	response.OK(w, dto.MessageResponse{Message: msgForgotPassword})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		middleware.PasswordResetsTotal.WithLabelValues("completed", "error").Inc()
		response.WriteError(w, r, err)
		return
	}

	middleware.PasswordResetsTotal.WithLabelValues("completed", "success").Inc()
	response.OK(w, dto.MessageResponse{Message: msgPasswordReset})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.ChangePasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if err := h.svc.ChangePassword(r.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MessageResponse{Message: msgPasswordChanged})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.GetUser(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewUserView(u))
}
