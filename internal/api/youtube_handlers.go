package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/vytor/rebux/internal/errors"
	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/models"
)

func (s *Server) handleYouTube(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	data := pageData{"title": "YouTube", "query": query}

	if query != "" {
		videos, err := s.VideoService.Search(r.Context(), query)
		if err != nil {
			data["error"] = errors.AsAppError(err).Message
		} else {
			data["videos"] = videos
		}
	}
	s.render(w, r, "pages/youtube.html", data)
}

func (s *Server) handleYouTubeDownload(w http.ResponseWriter, r *http.Request) {
	file, err := s.VideoService.DownloadURL(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	serveAttachment(w, r, file)
}

type videoJSON struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	ID    string `json:"id"`
}

func (s *Server) handleYouTubeSearchAPI(w http.ResponseWriter, r *http.Request) {
	videos, err := s.VideoService.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	out := make([]videoJSON, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoJSON{Title: v.Title, URL: v.URL, ID: v.ID})
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"videos": out})
}

func (s *Server) handleYouTubeDownloadAPI(w http.ResponseWriter, r *http.Request) {
	title, err := downloadTitle(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	file, err := s.VideoService.DownloadByTitle(r.Context(), title)
	if err != nil {
		handleError(w, r, err)
		return
	}
	serveAttachment(w, r, file)
}

// downloadTitle reads "title" from a JSON body or from form values.
func downloadTitle(r *http.Request) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var body struct {
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", errors.NewBadRequestError("invalid JSON body")
		}
		return body.Title, nil
	}
	return r.FormValue("title"), nil
}

func serveAttachment(w http.ResponseWriter, r *http.Request, file *models.DownloadedFile) {
	log := logger.FromContext(r.Context())

	f, err := os.Open(file.Path)
	if err != nil {
		handleError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("serving %s (%d bytes)", file.Filename, info.Size())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	http.ServeContent(w, r, file.Filename, info.ModTime(), f)
}
