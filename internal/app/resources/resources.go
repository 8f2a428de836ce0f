// internal/app/resources/resources.go
package resources

import (
	"embed"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
)

// FS holds the partials every page uses: page_head, page_foot and the
// console's dashboard_nav.
//
//go:embed templates/*.gohtml
var FS embed.FS

var once sync.Once

// LoadSharedTemplates registers the partials with the template engine. It
// must run before the engine boots; repeated calls are no-ops.
func LoadSharedTemplates() {
	once.Do(func() {
		templates.Register(templates.Set{Name: "layout", FS: FS, Patterns: []string{"templates/*.gohtml"}})
	})
}
