// Package view отвечает за серверный рендеринг HTML-страниц
// из встроенных шаблонов.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/darusc/expense-tracker/web"
)

// PageData содержит поля, общие для всех страниц.
type PageData struct {
	Title     string
	LoggedIn  bool
	CSRFToken string
}

var pages = []string{
	"login",
	"register",
	"dashboard",
	"expenses",
	"expense_create",
	"expense_edit",
}

// Renderer рендерит страницы, собранные из общего каркаса
// и шаблона конкретной страницы. Все шаблоны разбираются один раз
// при старте приложения.
type Renderer struct {
	templates map[string]*template.Template
}

// New разбирает встроенные шаблоны всех страниц.
func New() (*Renderer, error) {
	const op = "view.New"

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(web.Templates,
			"templates/layout.html",
			"templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		templates[page] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

// Render выполняет шаблон страницы и пишет результат в ответ.
// Страница сначала собирается в буфер, чтобы ошибка шаблона
// не оставила клиенту половину страницы.
func (r *Renderer) Render(w http.ResponseWriter, page string, data any) error {
	const op = "view.Render"

	tmpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("%s: unknown page %q", op, page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
