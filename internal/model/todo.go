// Package model はドメインモデルを定義する。
package model

import "time"

// Todo は1件のToDo項目を表す。
// Dateは書式検証を行わない不透明な文字列で、一覧の並び順は
// この文字列の辞書順（昇順）に従う。
type Todo struct {
	ID        int64
	UserID    int64
	Title     string
	Date      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoList は所有者のToDo項目一覧と、出現順を保持した日付の重複排除結果を表す。
// UniqueDatesは一覧表示で日付ごとのグルーピングに使用する。
type TodoList struct {
	Todos       []*Todo
	UniqueDates []string
}
