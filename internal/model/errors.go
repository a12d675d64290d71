// Package model はドメインモデルを定義する。
package model

import "fmt"

// AppError は統一エラーフォーマットを表す。
// ハンドラーがレスポンス種別（リダイレクト通知/404/500）を決めるための
// カテゴリと、画面に表示する通知メッセージを含む。
type AppError struct {
	Code     string // エラーコード
	Message  string // ユーザー向けメッセージ
	Category string // カテゴリ: auth, validation, todo, system
}

// Error はerrorインターフェースを実装する。
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodePasswordMismatch   = "PASSWORD_MISMATCH"
	ErrCodeUsernameTaken      = "USERNAME_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTodoNotFound       = "TODO_NOT_FOUND"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
)

// NewPasswordMismatchError はパスワードと確認用パスワードの不一致エラーを生成する。
func NewPasswordMismatchError() *AppError {
	return &AppError{
		Code:     ErrCodePasswordMismatch,
		Message:  "パスワードと確認用パスワードが一致しません。もう一度お試しください。",
		Category: "validation",
	}
}

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError(username string) *AppError {
	return &AppError{
		Code:     ErrCodeUsernameTaken,
		Message:  fmt.Sprintf("ユーザー名 %q は既に使用されています。別の名前を選んでください。", username),
		Category: "validation",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー不存在とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "アカウントが存在しないか、パスワードが正しくありません。もう一度お試しください。",
		Category: "auth",
	}
}

// NewTodoNotFoundError はToDo項目未検出エラーを生成する。
func NewTodoNotFoundError(todoID int64) *AppError {
	return &AppError{
		Code:     ErrCodeTodoNotFound,
		Message:  fmt.Sprintf("指定されたToDo項目が見つかりません: %d", todoID),
		Category: "todo",
	}
}

// NewForbiddenError は所有者以外によるアクセスのエラーを生成する。
// メッセージはToDo項目の存在有無を漏らさない一般的な文言にする。
func NewForbiddenError() *AppError {
	return &AppError{
		Code:     ErrCodeForbidden,
		Message:  "このToDo項目に対する権限がありません。",
		Category: "auth",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *AppError {
	return &AppError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。ログインし直してください。",
		Category: "auth",
	}
}
