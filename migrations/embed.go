package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var Files embed.FS

// FS returns the embedded migration filesystem.
func FS() fs.FS {
	return Files
}
