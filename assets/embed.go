package assets

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed content.yaml sql/*.sql
var FS embed.FS

// Content returns the site content document. A non-empty override path
// is read from disk instead of the embedded copy.
func Content(override string) ([]byte, error) {
	if override != "" {
		return os.ReadFile(override)
	}
	return FS.ReadFile("content.yaml")
}

// Migrations returns the SQL migration files rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err) // the directory is embedded above
	}
	return sub
}
