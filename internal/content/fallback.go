package content

import (
	"embed"

	"church-site/internal/querycache"
)

// Content shown when the CMS is unconfigured or unreachable and no
// snapshot exists. One file per query name.
//
//go:embed fallback/*.json
var fallbackFS embed.FS

func loadFallback[T any](name string) (T, bool) {
	var zero T
	data, err := fallbackFS.ReadFile("fallback/" + name + ".json")
	if err != nil {
		return zero, false
	}
	v, ok, err := querycache.Decode[T](querycache.State{Data: data})
	if err != nil {
		return zero, false
	}
	return v, ok
}
