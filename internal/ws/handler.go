package ws

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/hub"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/lobby"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	pingInterval = 20 * time.Second
	outboxSize   = 64
	readLimit    = 4 << 20 // asset uploads travel inside update_piece
)

type Options struct {
	// OriginPatterns is passed to websocket.Accept; empty means same origin.
	OriginPatterns []string
}

// Handler attaches a websocket peer to the lobby named by ?code=. The peer id
// comes from ?player= so a reconnecting peer keeps its seat; name and
// spectator are optional.
func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		spectator := false
		if s := q.Get("spectator"); s != "" {
			var err error
			if spectator, err = strconv.ParseBool(s); err != nil {
				http.Error(w, "bad spectator flag", http.StatusBadRequest)
				return
			}
		}

		lb := h.Lookup(r.Context(), code)
		if lb == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: opts.OriginPatterns})
		if err != nil {
			zap.L().Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")
		conn.SetReadLimit(readLimit)

		peerID := q.Get("player")
		if peerID == "" {
			peerID = ulid.Make().String()
		}
		log := zap.L().With(zap.String("code", code), zap.String("peer", peerID))

		out := make(chan engine.GameEvent, outboxSize)
		if !deliver(r.Context(), lb, lobby.Join{PeerID: peerID, Name: q.Get("name"), Spectator: spectator, Outbox: out}) {
			return
		}
		defer deliver(context.Background(), lb, lobby.Leave{PeerID: peerID, Outbox: out})

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go writeLoop(ctx, conn, out, log)

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if !errors.Is(err, context.Canceled) {
						log.Debug("peer read failed", zap.Error(err))
					}
				}
				return
			}

			ev, err := types.DecodeClientEvent(data)
			if err != nil {
				log.Warn("dropping bad message", zap.Error(err))
				continue
			}
			if !deliver(ctx, lb, lobby.FromClient{PeerID: peerID, Event: ev}) {
				return
			}
		}
	}
}

// deliver hands msg to the lobby unless the lobby or ctx finishes first.
func deliver(ctx context.Context, lb *lobby.Lobby, msg lobby.Msg) bool {
	select {
	case lb.Inbox() <- msg:
		return true
	case <-lb.Done():
		return false
	case <-ctx.Done():
		return false
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan engine.GameEvent, log *zap.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-out:
			if !ok {
				// lobby dropped us or shut down
				conn.Close(websocket.StatusGoingAway, "session closed")
				return
			}
			payload, err := types.EncodeGameEvent(ev)
			if err != nil {
				log.Error("encode event", zap.String("event", ev.Kind()), zap.Error(err))
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				log.Debug("peer write failed", zap.Error(err))
				conn.Close(websocket.StatusInternalError, "write failed")
				return
			}

		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				conn.Close(websocket.StatusGoingAway, "ping timeout")
				return
			}
		}
	}
}
