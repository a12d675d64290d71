package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresTodoRepo はPostgreSQLを使用したToDo項目リポジトリ。
type PostgresTodoRepo struct {
	db *sql.DB
}

// NewPostgresTodoRepo はPostgresTodoRepoを生成する。
func NewPostgresTodoRepo(db *sql.DB) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: db}
}

// FindByID は指定IDのToDo項目を取得する。見つからない場合はnilを返す。
func (r *PostgresTodoRepo) FindByID(ctx context.Context, id int64) (*model.Todo, error) {
	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, date, content, created_at, updated_at
		 FROM todos WHERE id = $1`,
		id,
	).Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Date, &todo.Content,
		&todo.CreatedAt, &todo.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ToDo項目の取得に失敗しました: %w", err)
	}

	return todo, nil
}

// ListByOwner は所有者のToDo項目をdate文字列の辞書順（昇順）で返す。
// dateはTEXT列のため、並び順はカレンダー順ではなく文字列比較に従う。
// 同一dateの項目はid昇順で安定させる。
func (r *PostgresTodoRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, date, content, created_at, updated_at
		 FROM todos
		 WHERE user_id = $1
		 ORDER BY date ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ToDo項目一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var todos []*model.Todo
	for rows.Next() {
		todo := &model.Todo{}
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Date,
			&todo.Content, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ToDo項目の読み取りに失敗しました: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ToDo項目一覧の走査に失敗しました: %w", err)
	}

	return todos, nil
}

// Create はToDo項目を作成し、採番されたIDを反映して返す。
func (r *PostgresTodoRepo) Create(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO todos (user_id, title, date, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		todo.UserID, todo.Title, todo.Date, todo.Content, todo.CreatedAt, todo.UpdatedAt,
	).Scan(&todo.ID)

	if err != nil {
		return nil, fmt.Errorf("ToDo項目の作成に失敗しました: %w", err)
	}

	return todo, nil
}

// Update はtitle、date、contentを無条件に上書きする。
// 同時編集に対する楽観ロックは行わない。後勝ちの上書きは元実装の
// 観測可能な挙動であり、変更しない。
func (r *PostgresTodoRepo) Update(ctx context.Context, todo *model.Todo) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos
		 SET title = $1, date = $2, content = $3, updated_at = $4
		 WHERE id = $5`,
		todo.Title, todo.Date, todo.Content, todo.UpdatedAt, todo.ID,
	)
	if err != nil {
		return fmt.Errorf("ToDo項目の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新行数の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ToDo項目が見つかりません: %d", todo.ID)
	}
	return nil
}

// Delete は指定IDのToDo項目を完全に削除する。
func (r *PostgresTodoRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("ToDo項目の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除行数の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ToDo項目が見つかりません: %d", id)
	}
	return nil
}

// compile-time interface check
var _ TodoRepository = (*PostgresTodoRepo)(nil)
