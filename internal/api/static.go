package api

import (
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
)

// servicesPage is the document served at /services.
const servicesPage = "services.html"

// publicFileSystem serves a directory without listings: a directory is only
// served when it contains an index.html.
type publicFileSystem struct {
	root http.FileSystem
}

func (p publicFileSystem) Open(name string) (http.File, error) {
	f, err := p.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		index, err := p.root.Open(path.Join(name, "index.html"))
		if err != nil {
			_ = f.Close()
			return nil, fs.ErrNotExist
		}
		_ = index.Close()
	}
	return f, nil
}

// staticHandler serves files under dir for GET and HEAD requests.
func staticHandler(dir string) http.Handler {
	files := http.FileServer(publicFileSystem{root: http.Dir(dir)})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// servicesHandler serves the services page from dir.
func servicesHandler(dir string) http.HandlerFunc {
	page := filepath.Join(dir, servicesPage)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, page)
	}
}
