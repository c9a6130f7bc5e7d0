package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/fasthttp/router"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/services"
	xhttp "github.com/juninhokosta/jp-forro-2-sub000/pkg/http"
)

const sessionUserValue = "session"

type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Authenticate(ctx context.Context, token string) (*model.Session, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{svc: authService}
}

func RegisterAuthRoutes(e *router.Group, h *AuthHandler) {
	e.POST("/auth/login", h.Login)
	e.POST("/auth/logout", h.Logout)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(ctx *xhttp.RequestCtx) {
	var req loginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	session, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(ctx, xhttp.StatusUnauthorized, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(ctx, xhttp.StatusOK, session)
}

func (h *AuthHandler) Logout(ctx *xhttp.RequestCtx) {
	if err := h.svc.Logout(ctx, bearerToken(ctx)); err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.Response.SetStatusCode(xhttp.StatusNoContent)
}

// RequireSession guards every data route. The resolved session lands in
// the request user values for handlers that attribute mutations.
func RequireSession(svc AuthService) func(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			session, err := svc.Authenticate(ctx, bearerToken(ctx))
			if err != nil {
				writeError(ctx, xhttp.StatusUnauthorized, services.ErrUnauthorized.Error())
				return
			}
			ctx.SetUserValue(sessionUserValue, session)
			next(ctx)
		}
	}
}

func bearerToken(ctx *xhttp.RequestCtx) string {
	auth := string(ctx.Request.Header.Peek("Authorization"))
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func sessionFrom(ctx *xhttp.RequestCtx) *model.Session {
	if s, ok := ctx.UserValue(sessionUserValue).(*model.Session); ok {
		return s
	}
	return &model.Session{}
}
