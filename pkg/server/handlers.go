package server

import (
	"encoding/json"
	"net/http"

	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/pkg/router"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.router.Routes())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	target := query.Get("to")
	if target == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "missing \"to\" parameter"})
		return
	}

	var opts []router.NavigateOption
	if src := query.Get(router.WebviewSourceParam); src != "" {
		opts = append(opts, router.WithWebviewSource(src))
	}

	loc, err := s.router.Navigate(r.Context(), target, opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.router.Cache().ToArray())
}

func (s *Server) handleControllers(w http.ResponseWriter, r *http.Request) {
	var tr router.Translator
	if s.bundle != nil {
		lang := r.URL.Query().Get("lang")
		if lang == "" {
			lang = r.Header.Get("Accept-Language")
		}
		tr = s.bundle.Printer(s.bundle.Match(lang))
	}

	pages := s.router.ControllerPages(tr)
	if pages == nil {
		pages = []router.ControllerPage{}
	}
	writeJSON(w, http.StatusOK, pages)
}

// writeError maps coded errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	pe := errors.FromError(err, "")
	status := http.StatusInternalServerError
	switch {
	case errors.HasCode(err, "E211"):
		status = http.StatusBadRequest
	case errors.HasCode(err, "E210"):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	resp := errorResponse{Code: pe.Code, Message: pe.Message, Detail: pe.Detail}
	if pe.Code == "" {
		resp.Message = err.Error()
	}
	if pe.Wrapped != nil {
		resp.Detail = pe.Wrapped.Error()
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
