package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/middleware"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/response"
	ws "github.com/stemsi/daycare-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the change feed to connected admin clients.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ChangeStream godoc
// WS /ws/v1/admin/changes?token=...
// Forwards every recorded change as it is published. Clients may narrow the
// feed with {"action":"filter","entities":["student"]}.
func (h *WSHandler) ChangeStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Subscribe before upgrading so a Redis outage is still a plain HTTP error.
	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.ChangesChannel())
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.Error().Err(err).Msg("Change feed subscribe failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrInternal)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("admin_id", claims.UserID).Logger()
	wsLog.Info().Msg("Admin attached to change feed")

	ws.KeepAlive(conn)
	requests := make(chan ws.Request)
	go h.readLoop(ctx, cancel, conn, wsLog, requests)

	filter := newEntityFilter(nil)
	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, Entities: []string{}}); err != nil {
		return
	}

	ping := time.NewTicker(ws.PingPeriod)
	defer ping.Stop()

	changes := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			wsLog.Info().Msg("Admin detached from change feed")
			return

		case msg, ok := <-changes:
			if !ok {
				ws.WriteError(conn, "change feed closed")
				return
			}
			var entry model.ActivityEntry
			if err := json.Unmarshal([]byte(msg.Payload), &entry); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed change payload")
				continue
			}
			if !filter.allows(entry.Entity) {
				continue
			}
			if err := ws.WriteTyped(conn, ws.ChangeResponse{Event: ws.EventChange, Data: entry}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}

		case req := <-requests:
			var err error
			switch req.Action {
			case ws.ActionPing:
				err = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			case ws.ActionFilter:
				filter = newEntityFilter(req.Entities)
				err = ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, Entities: filter.list()})
			default:
				wsLog.Warn().Str("action", string(req.Action)).Msg("Unknown action")
				err = ws.WriteError(conn, "unknown action: "+string(req.Action))
			}
			if err != nil {
				return
			}

		case <-ping.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop owns the read side of conn; all writes stay on the caller's goroutine.
func (h *WSHandler) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, wsLog zerolog.Logger, out chan<- ws.Request) {
	defer cancel()
	for {
		var req ws.Request
		if err := ws.ReadJSON(conn, &req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		select {
		case out <- req:
		case <-ctx.Done():
			return
		}
	}
}

// entityFilter is the set of entities a client wants; empty allows all.
type entityFilter map[string]struct{}

func newEntityFilter(entities []string) entityFilter {
	f := make(entityFilter, len(entities))
	for _, e := range entities {
		if e = strings.TrimSpace(e); e != "" {
			f[e] = struct{}{}
		}
	}
	return f
}

func (f entityFilter) allows(entity string) bool {
	if len(f) == 0 {
		return true
	}
	_, ok := f[entity]
	return ok
}

func (f entityFilter) list() []string {
	out := make([]string, 0, len(f))
	for e := range f {
		out = append(out, e)
	}
	return out
}
