// Package todo はToDo項目のライフサイクルと所有者認可のドメインロジックを提供する。
package todo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// Service はToDo項目のサービス層。
// 項目単位の操作（Get/Update/Delete）はすべて所有者認可を通す。
type Service struct {
	todoRepo repository.TodoRepository
}

// NewService はServiceを生成する。
func NewService(todoRepo repository.TodoRepository) *Service {
	return &Service{todoRepo: todoRepo}
}

// ListByOwner は所有者のToDo項目一覧と、出現順を保持した重複なし日付列を返す。
// 一覧はdate文字列の辞書順（昇順）で、日付のグルーピング表示に使う。
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) (*model.TodoList, error) {
	todos, err := s.todoRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ToDo項目一覧の取得に失敗しました: %w", err)
	}

	return &model.TodoList{
		Todos:       todos,
		UniqueDates: uniqueDates(todos),
	}, nil
}

// Create は現在のユーザーを所有者とするToDo項目を作成する。
// 元実装と同じく、空文字列も「入力あり」として受け付ける。
func (s *Service) Create(ctx context.Context, ownerID int64, title, date, content string) (*model.Todo, error) {
	now := time.Now()
	todo, err := s.todoRepo.Create(ctx, &model.Todo{
		UserID:    ownerID,
		Title:     title,
		Date:      date,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("ToDo項目の作成に失敗しました: %w", err)
	}

	slog.Info("todo created",
		slog.Int64("todo_id", todo.ID),
		slog.Int64("user_id", ownerID),
	)

	return todo, nil
}

// Get は指定IDのToDo項目を所有者認可付きで取得する。
// 存在しない場合はTodoNotFound、所有者以外の場合はForbiddenを返す。
func (s *Service) Get(ctx context.Context, requesterID, todoID int64) (*model.Todo, error) {
	return s.fetchOwned(ctx, requesterID, todoID)
}

// Update はtitle、date、contentの3フィールドを無条件に置き換える。
// 所有者以外は変更できない。同時編集は後勝ちで上書きされる（楽観ロックなし）。
func (s *Service) Update(ctx context.Context, requesterID, todoID int64, title, date, content string) (*model.Todo, error) {
	todo, err := s.fetchOwned(ctx, requesterID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Title = title
	todo.Date = date
	todo.Content = content
	todo.UpdatedAt = time.Now()

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("ToDo項目の更新に失敗しました: %w", err)
	}

	slog.Info("todo updated",
		slog.Int64("todo_id", todo.ID),
		slog.Int64("user_id", requesterID),
	)

	return todo, nil
}

// Delete は指定IDのToDo項目を完全に削除する。所有者以外は削除できない。
func (s *Service) Delete(ctx context.Context, requesterID, todoID int64) error {
	todo, err := s.fetchOwned(ctx, requesterID, todoID)
	if err != nil {
		return err
	}

	if err := s.todoRepo.Delete(ctx, todo.ID); err != nil {
		return fmt.Errorf("ToDo項目の削除に失敗しました: %w", err)
	}

	slog.Info("todo deleted",
		slog.Int64("todo_id", todo.ID),
		slog.Int64("user_id", requesterID),
	)

	return nil
}

// fetchOwned は項目を取得し、所有者認可を適用する。
// 未検出（TodoNotFound）と認可失敗（Forbidden）はハンドラーで
// 404とリダイレクト通知に振り分けられる。
func (s *Service) fetchOwned(ctx context.Context, requesterID, todoID int64) (*model.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("ToDo項目の取得に失敗しました: %w", err)
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError(todoID)
	}
	if err := authorize(todo, requesterID); err != nil {
		return nil, err
	}
	return todo, nil
}

// authorize は所有者のみが項目を操作できることを強制する。
func authorize(todo *model.Todo, requesterID int64) error {
	if todo.UserID != requesterID {
		slog.Warn("todo access denied",
			slog.Int64("todo_id", todo.ID),
			slog.Int64("owner_id", todo.UserID),
			slog.Int64("requester_id", requesterID),
		)
		return model.NewForbiddenError()
	}
	return nil
}

// uniqueDates は一覧順に日付を走査し、初出順を保って重複を取り除く。
// 日付はパースせず、純粋な文字列一致で比較する。
func uniqueDates(todos []*model.Todo) []string {
	seen := make(map[string]struct{}, len(todos))
	var dates []string
	for _, todo := range todos {
		if _, ok := seen[todo.Date]; ok {
			continue
		}
		seen[todo.Date] = struct{}{}
		dates = append(dates, todo.Date)
	}
	return dates
}
