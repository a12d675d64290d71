package todo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/hitoshi/todoman/internal/model"
)

// --- モック ---

type mockTodoRepo struct {
	findByIDFn    func(ctx context.Context, id int64) (*model.Todo, error)
	listByOwnerFn func(ctx context.Context, ownerID int64) ([]*model.Todo, error)
	createFn      func(ctx context.Context, todo *model.Todo) (*model.Todo, error)
	updateFn      func(ctx context.Context, todo *model.Todo) error
	deleteFn      func(ctx context.Context, id int64) error
}

func (m *mockTodoRepo) FindByID(ctx context.Context, id int64) (*model.Todo, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTodoRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Todo, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTodoRepo) Create(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	if m.createFn != nil {
		return m.createFn(ctx, todo)
	}
	todo.ID = 1
	return todo, nil
}

func (m *mockTodoRepo) Update(ctx context.Context, todo *model.Todo) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, todo)
	}
	return nil
}

func (m *mockTodoRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("AppErrorではありません: %v", err)
	}
	return appErr.Code
}

// --- ListByOwner ---

// TestService_ListByOwner_UniqueDates は日付の重複排除が初出順を保つことを検証する。
func TestService_ListByOwner_UniqueDates(t *testing.T) {
	repo := &mockTodoRepo{
		listByOwnerFn: func(ctx context.Context, ownerID int64) ([]*model.Todo, error) {
			// リポジトリはdate昇順で返す
			return []*model.Todo{
				{ID: 1, UserID: ownerID, Date: "2024-01-01"},
				{ID: 2, UserID: ownerID, Date: "2024-01-01"},
				{ID: 3, UserID: ownerID, Date: "2024-01-02"},
				{ID: 4, UserID: ownerID, Date: "2024-01-02"},
				{ID: 5, UserID: ownerID, Date: "2024-02-01"},
			}, nil
		},
	}

	svc := NewService(repo)

	list, err := svc.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}

	if len(list.Todos) != 5 {
		t.Errorf("len(Todos) = %d, want %d", len(list.Todos), 5)
	}

	want := []string{"2024-01-01", "2024-01-02", "2024-02-01"}
	if !reflect.DeepEqual(list.UniqueDates, want) {
		t.Errorf("UniqueDates = %v, want %v", list.UniqueDates, want)
	}
}

// TestService_ListByOwner_Empty は項目なしの場合に空の一覧が返ることを検証する。
func TestService_ListByOwner_Empty(t *testing.T) {
	svc := NewService(&mockTodoRepo{})

	list, err := svc.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(list.Todos) != 0 {
		t.Errorf("len(Todos) = %d, want 0", len(list.Todos))
	}
	if len(list.UniqueDates) != 0 {
		t.Errorf("len(UniqueDates) = %d, want 0", len(list.UniqueDates))
	}
}

// TestService_ListByOwner_OpaqueDateStrings は日付をパースせず
// 文字列として扱うことを検証する（不正な書式もそのまま通る）。
func TestService_ListByOwner_OpaqueDateStrings(t *testing.T) {
	repo := &mockTodoRepo{
		listByOwnerFn: func(ctx context.Context, ownerID int64) ([]*model.Todo, error) {
			return []*model.Todo{
				{ID: 1, UserID: ownerID, Date: "not-a-date"},
				{ID: 2, UserID: ownerID, Date: "明日"},
				{ID: 3, UserID: ownerID, Date: "not-a-date"},
			}, nil
		},
	}

	svc := NewService(repo)

	list, err := svc.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	want := []string{"not-a-date", "明日"}
	if !reflect.DeepEqual(list.UniqueDates, want) {
		t.Errorf("UniqueDates = %v, want %v", list.UniqueDates, want)
	}
}

// --- Create ---

// TestService_Create_SetsOwner は作成される項目の所有者が現在のユーザーになることを検証する。
func TestService_Create_SetsOwner(t *testing.T) {
	var created *model.Todo
	repo := &mockTodoRepo{
		createFn: func(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
			todo.ID = 10
			created = todo
			return todo, nil
		},
	}

	svc := NewService(repo)

	todo, err := svc.Create(context.Background(), 7, "x", "2024-01-02", "c")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if todo.ID != 10 {
		t.Errorf("todo.ID = %d, want %d", todo.ID, 10)
	}
	if created.UserID != 7 {
		t.Errorf("created.UserID = %d, want %d", created.UserID, 7)
	}
}

// TestService_Create_AcceptsEmptyFields は空文字列のフィールドも受け付けることを検証する。
func TestService_Create_AcceptsEmptyFields(t *testing.T) {
	svc := NewService(&mockTodoRepo{})

	todo, err := svc.Create(context.Background(), 7, "", "", "")
	if err != nil {
		t.Fatalf("空フィールドのCreateがエラーを返しました: %v", err)
	}
	if todo == nil {
		t.Fatal("expected non-nil todo")
	}
}

// --- Get / 所有者認可 ---

// TestService_Get_Owner は所有者が自分の項目を取得できることを検証する。
func TestService_Get_Owner(t *testing.T) {
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Todo, error) {
			return &model.Todo{ID: id, UserID: 7, Title: "x"}, nil
		},
	}

	svc := NewService(repo)

	todo, err := svc.Get(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if todo.Title != "x" {
		t.Errorf("todo.Title = %q, want %q", todo.Title, "x")
	}
}

// TestService_Get_NotFound は存在しないIDでTodoNotFoundになることを検証する。
func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(&mockTodoRepo{})

	_, err := svc.Get(context.Background(), 7, 999)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := appErrorCode(t, err); code != model.ErrCodeTodoNotFound {
		t.Errorf("code = %q, want %q", code, model.ErrCodeTodoNotFound)
	}
}

// TestService_Get_NonOwner は所有者以外のアクセスがForbiddenになり、
// 項目の内容が返らないことを検証する。
func TestService_Get_NonOwner(t *testing.T) {
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Todo, error) {
			return &model.Todo{ID: id, UserID: 7, Title: "secret"}, nil
		},
	}

	svc := NewService(repo)

	todo, err := svc.Get(context.Background(), 8, 1)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := appErrorCode(t, err); code != model.ErrCodeForbidden {
		t.Errorf("code = %q, want %q", code, model.ErrCodeForbidden)
	}
	if todo != nil {
		t.Error("所有者以外に項目の内容が返されました")
	}
}

// --- Update ---

// TestService_Update_ReplacesAllFields は3フィールドが無条件に置き換わることを検証する。
func TestService_Update_ReplacesAllFields(t *testing.T) {
	var updated *model.Todo
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Todo, error) {
			return &model.Todo{ID: id, UserID: 7, Title: "old", Date: "2024-01-01", Content: "old"}, nil
		},
		updateFn: func(ctx context.Context, todo *model.Todo) error {
			updated = todo
			return nil
		},
	}

	svc := NewService(repo)

	_, err := svc.Update(context.Background(), 7, 1, "new", "2024-02-02", "body")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "new" || updated.Date != "2024-02-02" || updated.Content != "body" {
		t.Errorf("updated = %+v, want title/date/content replaced", updated)
	}
	if updated.UserID != 7 {
		t.Error("更新で所有者が変わってしまいました")
	}
}

// TestService_Update_NonOwner は所有者以外の更新が拒否され、書き込みが起きないことを検証する。
func TestService_Update_NonOwner(t *testing.T) {
	updateCalled := false
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Todo, error) {
			return &model.Todo{ID: id, UserID: 7}, nil
		},
		updateFn: func(ctx context.Context, todo *model.Todo) error {
			updateCalled = true
			return nil
		},
	}

	svc := NewService(repo)

	_, err := svc.Update(context.Background(), 8, 1, "hacked", "", "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := appErrorCode(t, err); code != model.ErrCodeForbidden {
		t.Errorf("code = %q, want %q", code, model.ErrCodeForbidden)
	}
	if updateCalled {
		t.Error("認可失敗なのにUpdateが呼ばれました")
	}
}

// TestService_Update_NotFound は存在しないIDの更新がTodoNotFoundになることを検証する。
func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(&mockTodoRepo{})

	_, err := svc.Update(context.Background(), 7, 999, "t", "d", "c")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := appErrorCode(t, err); code != model.ErrCodeTodoNotFound {
		t.Errorf("code = %q, want %q", code, model.ErrCodeTodoNotFound)
	}
}

// --- Delete ---

// TestService_Delete_Owner は所有者が自分の項目を削除できることを検証する。
func TestService_Delete_Owner(t *testing.T) {
	var deletedID int64
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Todo, error) {
			return &model.Todo{ID: id, UserID: 7}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}

	svc := NewService(repo)

	if err := svc.Delete(context.Background(), 7, 3); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if deletedID != 3 {
		t.Errorf("deletedID = %d, want %d", deletedID, 3)
	}
}

// TestService_Delete_NonOwner は所有者以外の削除が拒否され、削除が起きないことを検証する。
func TestService_Delete_NonOwner(t *testing.T) {
	deleteCalled := false
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Todo, error) {
			return &model.Todo{ID: id, UserID: 7}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deleteCalled = true
			return nil
		},
	}

	svc := NewService(repo)

	err := svc.Delete(context.Background(), 8, 3)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := appErrorCode(t, err); code != model.ErrCodeForbidden {
		t.Errorf("code = %q, want %q", code, model.ErrCodeForbidden)
	}
	if deleteCalled {
		t.Error("認可失敗なのにDeleteが呼ばれました")
	}
}

// TestService_Delete_NotFound は存在しないIDの削除がTodoNotFoundになることを検証する。
func TestService_Delete_NotFound(t *testing.T) {
	svc := NewService(&mockTodoRepo{})

	err := svc.Delete(context.Background(), 7, 999)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := appErrorCode(t, err); code != model.ErrCodeTodoNotFound {
		t.Errorf("code = %q, want %q", code, model.ErrCodeTodoNotFound)
	}
}
