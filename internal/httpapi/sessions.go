package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianbeese/luxury_estate/internal/domain"
)

type navigateRequest struct {
	Action string `json:"action"`
	Page   int    `json:"page,omitempty"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var c domain.Criteria
	if err := decodeJSON(r, &c, true); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	sess, err := s.deps.Sessions.Create(c)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.Header().Set("Location", apiPrefix+"/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setSessionCriteria(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	var c domain.Criteria
	if err := decodeJSON(r, &c, false); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	effects, err := sess.SetCriteria(c)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	view := sess.View()
	view.Effects = effects
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) navigateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	var req navigateRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	effects, err := sess.Navigate(req.Action, req.Page)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	view := sess.View()
	view.Effects = effects
	writeJSON(w, http.StatusOK, view)
}
