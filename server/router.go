package server

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"skirmish/server/domain"
	"skirmish/server/handler"
)

type RouteConfig struct {
	Endpoint   domain.EndpointConfig
	AuthSecret []byte // 空なら /ws は認証なし
}

func Route(dispatcher domain.Dispatcher, hub *domain.Hub, codec domain.Codec, config RouteConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.NewHealthHandler(hub))
	r.With(handler.RequireToken(config.AuthSecret)).
		Handle("/ws", handler.NewAcceptHandler(dispatcher, hub, codec, config.Endpoint))
	return otelhttp.NewHandler(r, "skirmish")
}
