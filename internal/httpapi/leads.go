package httpapi

import (
	"net/http"

	"github.com/julianbeese/luxury_estate/internal/domain"
)

func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	receipt, err := s.deps.Leads.SubmitContact(r.Context(), clientKey(r), req)
	s.writeReceipt(w, r, receipt, err)
}

func (s *Server) submitInquiry(w http.ResponseWriter, r *http.Request) {
	var inq domain.PropertyInquiry
	if err := decodeJSON(r, &inq, false); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	receipt, err := s.deps.Leads.SubmitInquiry(r.Context(), clientKey(r), inq)
	s.writeReceipt(w, r, receipt, err)
}

func (s *Server) submitBooking(w http.ResponseWriter, r *http.Request) {
	var b domain.TourBooking
	if err := decodeJSON(r, &b, false); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	receipt, err := s.deps.Leads.SubmitBooking(r.Context(), clientKey(r), b)
	s.writeReceipt(w, r, receipt, err)
}

func (s *Server) writeReceipt(w http.ResponseWriter, r *http.Request, receipt domain.Receipt, err error) {
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}
