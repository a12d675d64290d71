// Package view は埋め込みテンプレートによるHTML描画を提供する。
// 挙動の中心はハンドラー側にあり、このパッケージは描画のみを担当する。
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/hitoshi/todoman/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Data はテンプレートに渡す描画データ。
// ページごとに使用するフィールドは異なる。
type Data struct {
	Title       string
	Notice      *model.Notice
	CSRFToken   string
	Todos       []*model.Todo
	UniqueDates []string
	Todo        *model.Todo
}

// Renderer は埋め込みテンプレートを描画する。
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer は埋め込みテンプレートをすべてパースしてRendererを生成する。
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("テンプレートのパースに失敗しました: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render は指定された名前のテンプレートを描画する。
func (r *Renderer) Render(w io.Writer, name string, data *Data) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("テンプレート %q の描画に失敗しました: %w", name, err)
	}
	return nil
}
