package plot

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/raykavin/chartspec/pkg/core"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, core.ErrPairNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrEmptyEquity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, pair string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.log.WithField("pair", pair).WithError(err).Error("chart request failed")
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("JSON encoding failed: ", err)
	}
}

// handleHealth fails once the source has not been updated for longer than the stale threshold
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	tracker, ok := s.source.(updateTracker)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	lastUpdate := tracker.LastUpdate()
	if time.Since(lastUpdate) > s.staleAfter {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(lastUpdate.String())); err != nil {
			s.log.Error("Failed to write health status: ", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	pairs, err := s.source.Pairs(r.Context())
	if err != nil {
		s.writeError(w, "", err)
		return
	}

	pair := r.URL.Query().Get("pair")
	if pair == "" && len(pairs) > 0 {
		http.Redirect(w, r, "/?pair="+url.QueryEscape(pairs[0]), http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	err = s.indexHTML.Execute(w, map[string]any{
		"pair":  pair,
		"pairs": pairs,
	})
	if err != nil {
		s.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	if _, err := w.Write([]byte(s.scriptContent)); err != nil {
		s.log.Error("Failed writing chart script: ", err)
	}
}

// handleData answers with the raw payload of a pair
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("pair")
	if pair == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	payload, err := s.source.Payload(r.Context(), pair)
	if err != nil {
		s.writeError(w, pair, err)
		return
	}

	s.writeJSON(w, payload)
}

// handleSpec answers with the composed chart of a pair
func (s *Server) handleSpec(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("pair")
	if pair == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	spec, err := s.composeSpec(r.Context(), pair)
	if err != nil {
		s.writeError(w, pair, err)
		return
	}

	s.writeJSON(w, spec)
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, PayloadSchema())
}

// handleTradingHistoryData exports the orders of a pair as CSV
func (s *Server) handleTradingHistoryData(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("pair")
	if pair == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	payload, err := s.source.Payload(r.Context(), pair)
	if err != nil {
		s.writeError(w, pair, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename=history_"+pair+".csv")

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(historyHeader); err != nil {
		s.log.Error("Failed writing CSV header: ", err)
		return
	}
	if err := csvWriter.WriteAll(historyRows(payload)); err != nil {
		s.log.Error("Failed writing CSV data: ", err)
	}
}
