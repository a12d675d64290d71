// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/todoman/internal/model"
)

// ErrDuplicateUsername はユーザー名のユニーク制約違反を表す。
// 事前チェックをすり抜けた同時登録でもDB制約によってこのエラーに正規化される。
var ErrDuplicateUsername = errors.New("username already exists")

// UserRepository はユーザーデータの永続化インターフェース。
// ユーザーの更新・削除操作は提供しない。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成し、採番されたIDを反映して返す。
	// ユーザー名が重複している場合はErrDuplicateUsernameを返す。
	Create(ctx context.Context, user *model.User) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しないIDでもエラーにしない。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID int64) error
}

// TodoRepository はToDo項目の永続化インターフェース。
type TodoRepository interface {
	// FindByID は指定IDのToDo項目を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Todo, error)

	// ListByOwner は所有者のToDo項目をdate文字列の辞書順（昇順）で返す。
	ListByOwner(ctx context.Context, ownerID int64) ([]*model.Todo, error)

	// Create はToDo項目を作成し、採番されたIDを反映して返す。
	Create(ctx context.Context, todo *model.Todo) (*model.Todo, error)

	// Update はtitle、date、contentを無条件に上書きする。
	// 部分更新や楽観ロックは行わない。
	Update(ctx context.Context, todo *model.Todo) error

	// Delete は指定IDのToDo項目を完全に削除する。
	Delete(ctx context.Context, id int64) error
}
