package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rmelnikov/authgate/internal/auth/service"
	commonhttp "github.com/rmelnikov/authgate/internal/common/http"
	"github.com/rmelnikov/authgate/internal/common/logger"
	"github.com/rmelnikov/authgate/internal/token"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"loginpassword"`
}

type changePasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type Handler struct {
	auth    *service.AuthService
	timeout time.Duration
	log     *logger.Logger
}

// NewHandler wires the three API endpoints, the health check and the static
// file server for everything under "/".
func NewHandler(auth *service.AuthService, requestTimeout time.Duration, staticDir string, log *logger.Logger) http.Handler {
	h := &Handler{auth: auth, timeout: requestTimeout, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/register", h.register)
	mux.HandleFunc("/api/login", h.login)
	mux.HandleFunc("/api/change-password", h.changePassword)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteFailStatus(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.auth.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	commonhttp.WriteOK(w)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteFailStatus(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tokenString, err := h.auth.Login(ctx, service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	commonhttp.WriteData(w, tokenString)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteFailStatus(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.auth.ChangePassword(ctx, service.ChangePasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	commonhttp.WriteOK(w)
}

// decode reads the JSON body into v. A wrong-typed field maps to the same
// message a missing field would produce, so clients see one message per
// field regardless of how the input was broken.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := commonhttp.DecodeJSON(r, v); err != nil {
		h.log.Warnf("request decode failed: %v", err)

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			switch typeErr.Field {
			case "username":
				commonhttp.WriteFail(w, service.MsgInvalidUsername)
				return false
			case "password", "loginpassword", "newPassword":
				commonhttp.WriteFail(w, service.MsgInvalidPassword)
				return false
			}
		}

		commonhttp.WriteFail(w, "Invalid request body")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if vErr, ok := service.AsValidationError(err); ok {
		commonhttp.WriteFail(w, vErr.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		commonhttp.WriteFail(w, "Username already in use!")
	case errors.Is(err, service.ErrInvalidCredentials):
		commonhttp.WriteFail(w, "Invalid username/password")
	case errors.Is(err, token.ErrInvalidToken):
		commonhttp.WriteFail(w, "Invalid token")
	default:
		h.log.Errorf("request failed: %v", err)
		commonhttp.WriteFail(w, "internal error")
	}
}
