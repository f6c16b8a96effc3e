package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmpl "html/template"
	"strconv"
	"strings"
	"sync"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// Template names. Each has <name>.subject.tmpl, <name>.text.tmpl and
// <name>.html.tmpl.
const (
	OrderConfirmation = "order_confirmation"
	OrderStatus       = "order_status"
)

var ErrUnknownTemplate = errors.New("unknown email template")

// blank reports whether a pipeline value should be replaced by default.
func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case int:
		return x == 0
	case float64:
		return x == 0
	}
	return false
}

func money(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case int:
		return strconv.Itoa(x) + ".00"
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return strconv.FormatFloat(f, 'f', 2, 64)
		}
		return x
	}
	return "0.00"
}

var funcs = map[string]any{
	// {{ .Value | default "fallback" }}
	"default": func(fallback, v any) any {
		if blank(v) {
			return fallback
		}
		return v
	},
	"money": money,
	"upper": strings.ToUpper,
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

// The embedded set is parsed once; a broken template fails every Render.
var (
	loadOnce sync.Once
	textSet  *texttpl.Template
	htmlSet  *htmpl.Template
	loadErr  error
)

func load() error {
	loadOnce.Do(func() {
		textSet, loadErr = texttpl.New("text").Funcs(funcs).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl")
		if loadErr != nil {
			loadErr = fmt.Errorf("parse text templates: %w", loadErr)
			return
		}
		htmlSet, loadErr = htmpl.New("html").Funcs(funcs).ParseFS(FS, "*.html.tmpl")
		if loadErr != nil {
			loadErr = fmt.Errorf("parse html templates: %w", loadErr)
		}
	})
	return loadErr
}

func execText(name string, data any) (string, error) {
	t := textSet.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render produces the subject, plain text and HTML bodies of one email.
func Render(name string, data any) (subject, text, html string, err error) {
	if err = load(); err != nil {
		return "", "", "", err
	}
	if subject, err = execText(name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execText(name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	t := htmlSet.Lookup(name + ".html.tmpl")
	if t == nil {
		return "", "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	var buf bytes.Buffer
	if err = t.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %q: %w", name+".html.tmpl", err)
	}
	return strings.TrimSpace(subject), text, buf.String(), nil
}
