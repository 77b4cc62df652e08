package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// GetDocument отдает снимок документа. ?since=<version> вернет 304,
// если с тех пор ничего не менялось.
func (h *UIHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	if since := r.URL.Query().Get("since"); since != "" {
		v, err := strconv.ParseUint(since, 10, 64)
		if err != nil {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		if v == h.doc.Version() {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(h.doc.Snapshot()); err != nil {
		h.logger.Debug("failed to write snapshot", zap.Error(err))
	}
}
