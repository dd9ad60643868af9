package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/foodshelter/internal/actorctx"
	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/domain/user"
	"github.com/geocoder89/foodshelter/internal/forms"
	"github.com/gin-gonic/gin"
)

type AccountService interface {
	Register(ctx context.Context, email, password string) (user.User, error)
	Authenticate(ctx context.Context, email, password string) (user.User, error)
	RequestPasswordReset(ctx context.Context, email, linkBase string) error
	CheckResetToken(ctx context.Context, token string) (user.User, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	Profile(ctx context.Context, userID int64) (user.User, error)
	UpdateProfile(ctx context.Context, userID int64, p user.Profile) (user.User, error)
}

// SessionManager starts and ends the login session behind the cookie.
type SessionManager interface {
	Start(c *gin.Context, p actorctx.Principal) error
	End(c *gin.Context) error
}

const (
	msgInvalidCredentials = "Invalid email or password"
	msgResetSent          = "If that email is registered, a password reset link is on its way."
	msgResetInvalid       = "That password reset link is invalid or has expired. Please request a new one."
)

type AuthHandler struct {
	accounts AccountService
	sessions SessionManager
	baseURL  string
	log      *slog.Logger
}

func NewAuthHandler(accounts AccountService, sessions SessionManager, baseURL string, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		baseURL:  baseURL,
		log:      log,
	}
}

func (h *AuthHandler) LoginPage(ctx *gin.Context) {
	if _, ok := principal(ctx); ok {
		redirect(ctx, "/dashboard")
		return
	}
	render(ctx, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var form forms.LoginForm

	if err := BindForm(ctx, &form); err != nil {
		// never echo which part was wrong
		redirectWithFlash(ctx, "/login", FlashError, msgInvalidCredentials)
		return
	}

	// short timeout: one lookup plus a bcrypt compare
	cctx, cancel := reqCtx(ctx, 3*time.Second)
	defer cancel()

	u, err := h.accounts.Authenticate(cctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			h.log.InfoContext(ctx.Request.Context(), "login failed")
			redirectWithFlash(ctx, "/login", FlashError, msgInvalidCredentials)
			return
		}
		respondInternalPage(ctx, h.log, err)
		return
	}

	err = h.sessions.Start(ctx, actorctx.Principal{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		respondInternalPage(ctx, h.log, err)
		return
	}

	redirect(ctx, "/dashboard")
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	if err := h.sessions.End(ctx); err != nil {
		h.log.WarnContext(ctx.Request.Context(), "session delete failed", "err", err)
	}
	redirect(ctx, "/")
}

func (h *AuthHandler) RegisterPage(ctx *gin.Context) {
	render(ctx, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var form forms.RegisterForm

	if err := BindForm(ctx, &form); err != nil {
		respondFormError(ctx, h.log, err, "/register")
		return
	}

	cctx, cancel := reqCtx(ctx, 3*time.Second)
	defer cancel()

	_, err := h.accounts.Register(cctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicateIdentifier) {
			redirectWithFlash(ctx, "/register", FlashError, "That email is already registered")
			return
		}
		respondFormError(ctx, h.log, err, "/register")
		return
	}

	redirectWithFlash(ctx, "/login", FlashSuccess, "Registered successfully! Please log in.")
}

func (h *AuthHandler) ForgotPasswordPage(ctx *gin.Context) {
	render(ctx, http.StatusOK, "forgot_password.html", gin.H{"Title": "Forgot password"})
}

func (h *AuthHandler) ForgotPassword(ctx *gin.Context) {
	var form forms.ForgotPasswordForm

	if err := BindForm(ctx, &form); err != nil {
		respondFormError(ctx, h.log, err, "/forgot_password")
		return
	}

	cctx, cancel := reqCtx(ctx, 10*time.Second)
	defer cancel()

	err := h.accounts.RequestPasswordReset(cctx, form.Email, h.baseURL+"/reset_password")
	if err != nil {
		if errors.Is(err, apperr.ErrExternalService) {
			h.log.WarnContext(ctx.Request.Context(), "reset mail not sent", "err", err)
			redirectWithFlash(ctx, "/forgot_password", FlashWarning, "We could not send the reset email right now. Please try again later.")
			return
		}
		respondFormError(ctx, h.log, err, "/forgot_password")
		return
	}

	redirectWithFlash(ctx, "/login", FlashSuccess, msgResetSent)
}

func (h *AuthHandler) ResetPasswordPage(ctx *gin.Context) {
	token := ctx.Param("token")

	cctx, cancel := reqCtx(ctx, 3*time.Second)
	defer cancel()

	if _, err := h.accounts.CheckResetToken(cctx, token); err != nil {
		if errors.Is(err, apperr.ErrExpiredOrInvalidToken) {
			redirectWithFlash(ctx, "/forgot_password", FlashError, msgResetInvalid)
			return
		}
		respondInternalPage(ctx, h.log, err)
		return
	}

	render(ctx, http.StatusOK, "reset_password.html", gin.H{"Title": "Reset password", "Token": token})
}

func (h *AuthHandler) ResetPassword(ctx *gin.Context) {
	token := ctx.Param("token")

	var form forms.ResetPasswordForm

	if err := BindForm(ctx, &form); err != nil {
		respondFormError(ctx, h.log, err, "/reset_password/"+token)
		return
	}

	cctx, cancel := reqCtx(ctx, 3*time.Second)
	defer cancel()

	if err := h.accounts.ResetPassword(cctx, token, form.Password); err != nil {
		if errors.Is(err, apperr.ErrExpiredOrInvalidToken) {
			redirectWithFlash(ctx, "/forgot_password", FlashError, msgResetInvalid)
			return
		}
		respondFormError(ctx, h.log, err, "/reset_password/"+token)
		return
	}

	redirectWithFlash(ctx, "/login", FlashSuccess, "Your password has been reset. Please log in.")
}
