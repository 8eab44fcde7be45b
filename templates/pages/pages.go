package pages

import (
	"chatpilot_site/templates/components"
	"embed"

	"github.com/a-h/templ"
)

//go:embed *.html
var files embed.FS

var set = components.MustParse(files, "*.html")

// Landing renders the full marketing page
func Landing(vm LandingViewModel) templ.Component {
	return components.Render(set, "layout", vm)
}
