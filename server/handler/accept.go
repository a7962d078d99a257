package handler

import (
	"log/slog"
	"net/http"

	adapterwebsocket "skirmish/server/adapter/websocket"
	"skirmish/server/domain"

	"github.com/coder/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type AcceptHandler struct {
	dispatcher domain.Dispatcher
	hub        *domain.Hub
	codec      domain.Codec
	config     domain.EndpointConfig
}

func NewAcceptHandler(dispatcher domain.Dispatcher, hub *domain.Hub, codec domain.Codec, config domain.EndpointConfig) *AcceptHandler {
	return &AcceptHandler{dispatcher: dispatcher, hub: hub, codec: codec, config: config}
}

func (h *AcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // 開発用: Origin チェックをスキップ
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to accept", "err", err)
		return
	}

	session := domain.NewSession()
	transport := adapterwebsocket.NewTransportFrom(conn, h.codec.Binary())
	connection := domain.NewConnection(session.ID(), transport)
	endpoint, err := domain.NewSessionEndpoint(session, connection, h.dispatcher, h.hub, h.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create session endpoint", "err", err)
		conn.CloseNow()
		return
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("session.id", session.ID().String()),
		attribute.String("session.subject", SubjectFromContext(ctx)),
	)
	slog.DebugContext(ctx, "accepted new connection", "sessionID", session.ID(), "subject", SubjectFromContext(ctx), "codec", h.codec.Name())
	if err := endpoint.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to run session endpoint", "sessionID", session.ID(), "err", err)
	}
}
