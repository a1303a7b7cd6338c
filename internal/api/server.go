package api

import (
	"net/http"

	"github.com/Belphemur/ShowRegistry/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// server holds the HTTP handlers of the show registry API
type server struct {
	shows services.ShowService
}

type healthResponse struct {
	Status string `json:"status"`
	Shows  int    `json:"shows"`
}

// listShows handles GET /api/shows
func (s *server) listShows(w http.ResponseWriter, r *http.Request) {
	data, err := s.shows.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

// getShow handles GET /api/shows/{id}
func (s *server) getShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hlog.FromRequest(r).Debug().Str("id", id).Msg("getShow called")

	show, err := s.shows.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

// createShow handles POST /api/shows
func (s *server) createShow(w http.ResponseWriter, r *http.Request) {
	in, err := decodeShowInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := s.shows.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

// updateShow handles PUT /api/shows/{id}
func (s *server) updateShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hlog.FromRequest(r).Debug().Str("id", id).Msg("updateShow called")

	in, err := decodeShowInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := s.shows.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

// deleteShow handles DELETE /api/shows/{id}
func (s *server) deleteShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hlog.FromRequest(r).Debug().Str("id", id).Msg("deleteShow called")

	data, err := s.shows.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

// listEntries handles GET /api/entries
func (s *server) listEntries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.shows.Entries(r.Context()))
}

// getEntry handles GET /api/entries/{entryID}
func (s *server) getEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.shows.Entry(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// createEntry handles POST /api/entries
func (s *server) createEntry(w http.ResponseWriter, r *http.Request) {
	in, err := decodeShowInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	e, err := s.shows.CreateEntry(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/entries/"+e.ID.String())
	writeJSON(w, http.StatusCreated, e)
}

// replaceEntry handles PUT /api/entries/{entryID}
func (s *server) replaceEntry(w http.ResponseWriter, r *http.Request) {
	in, err := decodeShowInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	e, err := s.shows.ReplaceEntry(r.Context(), chi.URLParam(r, "entryID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// removeEntry handles DELETE /api/entries/{entryID}
func (s *server) removeEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.shows.RemoveEntry(r.Context(), chi.URLParam(r, "entryID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// health handles GET /healthz
func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Shows: s.shows.Len()})
}
