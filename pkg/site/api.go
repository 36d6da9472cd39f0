package site

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gnana997/reactatoms/pkg/catalog"
)

type componentList struct {
	Components []catalog.Component `json:"components"`
	Count      int                 `json:"count"`
}

type apiError struct {
	Error string `json:"error"`
	Slug  string `json:"slug,omitempty"`
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.holder.Current().Catalog.ListCategories())
}

// apiComponents filters by ?category=, ?q= and ?new=true.
func (s *Server) apiComponents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	comps := s.holder.Current().Catalog.FilterComponents(q.Get("category"), q.Get("q"))
	if onlyNew, _ := strconv.ParseBool(q.Get("new")); onlyNew {
		filtered := comps[:0]
		for _, c := range comps {
			if c.IsNew {
				filtered = append(filtered, c)
			}
		}
		comps = filtered
	}
	if comps == nil {
		comps = []catalog.Component{}
	}
	s.writeJSON(w, r, http.StatusOK, componentList{Components: comps, Count: len(comps)})
}

func (s *Server) apiComponent(w http.ResponseWriter, r *http.Request) {
	b := s.holder.Current()
	slug := chi.URLParam(r, "slug")
	detail, ok := b.Detail(slug)
	if !ok {
		s.writeJSON(w, r, http.StatusNotFound, apiError{Error: "component not found", Slug: slug})
		return
	}
	s.writeJSON(w, r, http.StatusOK, detail)
}

func (s *Server) apiNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusNotFound, apiError{Error: "not found"})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Warn("failed to write JSON response",
			"request_id", RequestID(r.Context()),
			"error", err)
	}
}
