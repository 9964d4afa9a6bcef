package api

import (
	"html/template"
	"io/fs"
)

func LoadTemplates(fsys fs.FS) (*template.Template, error) {
	t := template.New("base")

	patterns := []string{
		"templates/layouts/*.html",
		"templates/pages/*.html",
	}
	for _, p := range patterns {
		if matches, _ := fs.Glob(fsys, p); len(matches) == 0 {
			continue
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, err
		}
	}

	return t, nil
}
