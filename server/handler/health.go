package handler

import (
	"encoding/json"
	"net/http"
)

// SessionCounter は接続中のセッション数を返します。
type SessionCounter interface {
	Len() int
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func NewHealthHandler(sessions SessionCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Sessions: sessions.Len()})
	}
}
