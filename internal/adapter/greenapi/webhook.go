package greenapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"avtobot/internal/platform/logger"
)

// WebhookServer is the push-delivery alternative to the poller: Green API
// POSTs each notification to /webhook.
type WebhookServer struct {
	handler Handler
	secret  string
	log     logger.Logger
}

func NewWebhookServer(handler Handler, secret string, log logger.Logger) *WebhookServer {
	return &WebhookServer{handler: handler, secret: secret, log: log}
}

func (s *WebhookServer) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/webhook", s.handleWebhook)
	return r
}

func (s *WebhookServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" && r.Header.Get("Authorization") != "Bearer "+s.secret {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var n Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		s.log.Warnf("webhook: bad payload: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.handler(r.Context(), &n)
	w.WriteHeader(http.StatusOK)
}
