package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/view"
)

// TodoServiceInterface はToDoハンドラーが必要とするサービスインターフェース。
type TodoServiceInterface interface {
	ListByOwner(ctx context.Context, ownerID int64) (*model.TodoList, error)
	Create(ctx context.Context, ownerID int64, title, date, content string) (*model.Todo, error)
	Get(ctx context.Context, requesterID, todoID int64) (*model.Todo, error)
	Update(ctx context.Context, requesterID, todoID int64, title, date, content string) (*model.Todo, error)
	Delete(ctx context.Context, requesterID, todoID int64) error
}

// TodoHandler はToDo項目のCRUD操作のHTTPハンドラー。
type TodoHandler struct {
	service      TodoServiceInterface
	renderer     *view.Renderer
	metrics      metrics.Recorder
	cookieSecure bool
}

// NewTodoHandler はTodoHandlerを生成する。
func NewTodoHandler(service TodoServiceInterface, renderer *view.Renderer, recorder metrics.Recorder, cookieSecure bool) *TodoHandler {
	return &TodoHandler{
		service:      service,
		renderer:     renderer,
		metrics:      recorder,
		cookieSecure: cookieSecure,
	}
}

// List はログインユーザーのToDo一覧を日付ごとにグルーピングして表示する。
// GET /
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	list, err := h.service.ListByOwner(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list todos", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.renderPage(w, "index.html", &view.Data{
		Title:       "ToDo一覧",
		Notice:      popNotice(w, r, h.cookieSecure),
		CSRFToken:   middleware.CSRFTokenFromRequest(r),
		Todos:       list.Todos,
		UniqueDates: list.UniqueDates,
	})
}

// ShowAdd はToDo追加フォームを表示する。
// GET /add
func (h *TodoHandler) ShowAdd(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "add.html", &view.Data{
		Title:     "ToDo追加",
		Notice:    popNotice(w, r, h.cookieSecure),
		CSRFToken: middleware.CSRFTokenFromRequest(r),
	})
}

// Add は新しいToDo項目を作成する。
// POST /add
//
// 各フィールドは空文字でも受理する。
func (h *TodoHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	title := r.PostFormValue("title")
	date := r.PostFormValue("date")
	content := r.PostFormValue("content")

	if _, err := h.service.Create(r.Context(), userID, title, date, content); err != nil {
		slog.Error("failed to create todo", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordTodoCreated()

	redirectWithNotice(w, r, h.cookieSecure, "/", &model.Notice{
		Severity: model.NoticeSuccess,
		Message:  "ToDoを追加しました。",
	})
}

// View はToDo項目の詳細を表示する。
// GET /todo/{id}
func (h *TodoHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	todoID, err := todoIDFromRequest(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	todo, err := h.service.Get(r.Context(), userID, todoID)
	if err != nil {
		h.handleTodoError(w, r, err)
		return
	}

	h.renderPage(w, "todo.html", &view.Data{
		Title: todo.Title,
		Todo:  todo,
	})
}

// ShowUpdate はToDo編集フォームを現在の値入りで表示する。
// GET /update/{id}
func (h *TodoHandler) ShowUpdate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	todoID, err := todoIDFromRequest(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	todo, err := h.service.Get(r.Context(), userID, todoID)
	if err != nil {
		h.handleTodoError(w, r, err)
		return
	}

	h.renderPage(w, "update.html", &view.Data{
		Title:     "ToDo編集",
		CSRFToken: middleware.CSRFTokenFromRequest(r),
		Todo:      todo,
	})
}

// Update はToDo項目の全フィールドを置き換える。
// POST /update/{id}
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	todoID, err := todoIDFromRequest(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	title := r.PostFormValue("title")
	date := r.PostFormValue("date")
	content := r.PostFormValue("content")

	if _, err := h.service.Update(r.Context(), userID, todoID, title, date, content); err != nil {
		h.handleTodoError(w, r, err)
		return
	}

	redirectWithNotice(w, r, h.cookieSecure, "/", &model.Notice{
		Severity: model.NoticeSuccess,
		Message:  "ToDoを更新しました。",
	})
}

// Delete はToDo項目を削除する。
// POST /delete/{id}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	todoID, err := todoIDFromRequest(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.service.Delete(r.Context(), userID, todoID); err != nil {
		h.handleTodoError(w, r, err)
		return
	}

	h.metrics.RecordTodoDeleted()

	redirectWithNotice(w, r, h.cookieSecure, "/", &model.Notice{
		Severity: model.NoticeSuccess,
		Message:  "ToDoを削除しました。",
	})
}

// todoIDFromRequest はパスパラメータからToDo IDを取り出す。
func todoIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// handleTodoError はToDo操作のエラーをレスポンスに変換する。
// 存在しないIDは404、他人の項目への操作は通知付きで一覧へのリダイレクト。
func (h *TodoHandler) handleTodoError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case model.ErrCodeTodoNotFound:
			http.NotFound(w, r)
			return
		case model.ErrCodeForbidden:
			redirectWithNotice(w, r, h.cookieSecure, "/", &model.Notice{
				Severity: model.NoticeError,
				Message:  appErr.Message,
			})
			return
		}
	}

	slog.Error("todo operation failed", slog.String("error", err.Error()))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (h *TodoHandler) renderPage(w http.ResponseWriter, name string, data *view.Data) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, name, data); err != nil {
		slog.Error("failed to render template", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
