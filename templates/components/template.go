package components

import (
	"chatpilot_site/middleware"
	"chatpilot_site/services/i18n"
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/a-h/templ"
)

// Funcs are the helpers every view can call, bound to the request context
func Funcs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"t": func(key string, pairs ...interface{}) string {
			if len(pairs) == 0 {
				return i18n.T(ctx, key)
			}
			return i18n.T(ctx, key, argsFromPairs(pairs))
		},
		"lang":  func() string { return i18n.GetLocale(ctx) },
		"nonce": func() string { return middleware.GetNonce(ctx) },
		"asset": func(name string) string { return middleware.AssetURL(ctx, name) },
		"json":  JSON,
	}
}

// argsFromPairs turns "name", value, ... into placeholder args
func argsFromPairs(pairs []interface{}) map[string]interface{} {
	args := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		args[fmt.Sprint(pairs[i])] = pairs[i+1]
	}
	return args
}

// MustParse parses the files matching patterns in fsys into one set.
// The set is never executed directly; Render works on clones.
func MustParse(fsys fs.FS, patterns ...string) *template.Template {
	return template.Must(template.New("").Funcs(Funcs(context.Background())).ParseFS(fsys, patterns...))
}

// Render wraps the named template of set as a templ component. The request
// context is bound into the helper functions of a per-render clone.
func Render(set *template.Template, name string, data interface{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, err := set.Clone()
		if err != nil {
			return fmt.Errorf("failed to clone templates: %w", err)
		}
		if err := t.Funcs(Funcs(ctx)).ExecuteTemplate(w, name, data); err != nil {
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		return nil
	})
}
