// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/view"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, username, password, confirmPassword string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はユーザー登録・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	config   AuthHandlerConfig
	renderer *view.Renderer
	metrics  metrics.Recorder
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, renderer *view.Renderer, recorder metrics.Recorder) *AuthHandler {
	return &AuthHandler{
		service:  service,
		config:   config,
		renderer: renderer,
		metrics:  recorder,
	}
}

// ShowRegister はユーザー登録フォームを表示する。
// GET /register
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "register.html", &view.Data{
		Title:     "ユーザー登録",
		Notice:    popNotice(w, r, h.config.CookieSecure),
		CSRFToken: middleware.CSRFTokenFromRequest(r),
	})
}

// Register は新規ユーザーを登録する。
// POST /register
//
// 成功してもセッションは発行しない。ログインフォームへ誘導する。
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	confirmPassword := r.PostFormValue("confirm_password")

	_, err := h.service.Register(r.Context(), username, password, confirmPassword)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			redirectWithNotice(w, r, h.config.CookieSecure, "/register", &model.Notice{
				Severity: model.NoticeError,
				Message:  appErr.Message,
			})
			return
		}
		slog.Error("failed to register user", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordUserRegistered()

	redirectWithNotice(w, r, h.config.CookieSecure, "/login", &model.Notice{
		Severity: model.NoticeSuccess,
		Message:  "登録が完了しました。ログインしてください。",
	})
}

// ShowLogin はログインフォームを表示する。
// GET /login
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "login.html", &view.Data{
		Title:     "ログイン",
		Notice:    popNotice(w, r, h.config.CookieSecure),
		CSRFToken: middleware.CSRFTokenFromRequest(r),
	})
}

// Login は認証情報を検証してセッションを発行する。
// POST /login
//
// 認証失敗の理由（ユーザー不存在かパスワード不一致か）は応答から
// 区別できないようにする。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	session, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			h.metrics.RecordLoginFailure()
			redirectWithNotice(w, r, h.config.CookieSecure, "/login", &model.Notice{
				Severity: model.NoticeError,
				Message:  appErr.Message,
			})
			return
		}
		slog.Error("failed to login", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordLoginSuccess()

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	redirectWithNotice(w, r, h.config.CookieSecure, "/", &model.Notice{
		Severity: model.NoticeSuccess,
		Message:  "ログインしました。",
	})
}

// Logout はセッションを破棄する。
// POST /logout
//
// セッションが既に存在しない場合もエラーにはしない。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	// セッションCookieをクリア
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	redirectWithNotice(w, r, h.config.CookieSecure, "/login", &model.Notice{
		Severity: model.NoticeSuccess,
		Message:  "ログアウトしました。",
	})
}

func (h *AuthHandler) renderPage(w http.ResponseWriter, name string, data *view.Data) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, name, data); err != nil {
		slog.Error("failed to render template", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
