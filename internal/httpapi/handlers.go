package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jhong93/multilang-captions/internal/service"
)

// Caption and translation responses are content-addressed on disk, so
// clients may cache them for a while.
const cacheControlValue = "max-age=3600"

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	videos, err := s.svc.Videos(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	videoID := pathParam(r, "/api/videos/")
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "missing video id")
		return
	}
	video, err := s.svc.Video(r.Context(), videoID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (s *Server) handleCaptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	videoID := pathParam(r, "/api/captions/")
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "missing video id")
		return
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		writeError(w, http.StatusBadRequest, "missing lang parameter")
		return
	}
	orig := r.URL.Query().Get("orig")

	lines, err := s.svc.CaptionsFor(r.Context(), videoID, lang, orig)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Cache-Control", cacheControlValue)
	writeJSON(w, http.StatusOK, lines)
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	videoID := pathParam(r, "/api/translations/")
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "missing video id")
		return
	}
	src := r.URL.Query().Get("src")
	dst := r.URL.Query().Get("dst")
	if src == "" || dst == "" {
		writeError(w, http.StatusBadRequest, "missing src or dst parameter")
		return
	}

	translations, err := s.svc.WordTranslationsFor(r.Context(), videoID, src, dst)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Cache-Control", cacheControlValue)
	writeJSON(w, http.StatusOK, translations)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	videoID := pathParam(r, "/thumbnail/")
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "missing video id")
		return
	}
	path, err := s.svc.ThumbnailPath(videoID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}

func pathParam(r *http.Request, prefix string) string {
	param := strings.TrimPrefix(r.URL.Path, prefix)
	return strings.TrimSuffix(param, "/")
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, service.HTTPStatus(err), err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
