package hub

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/lobby"
)

// ErrClosed is returned by requests made after the hub has shut down.
var ErrClosed = errors.New("hub closed")

type HubMsg interface{ isHubMsg() }

type Created struct {
	Lobby *lobby.Lobby
	Err   error
}

// CreateLobby hosts game under code, or returns the lobby already there.
type CreateLobby struct {
	Code    string
	Game    engine.Game
	Options lobby.Options
	Reply   chan Created
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

// RemoveLobby forgets code. With Lobby set it only does so while code still
// maps to that lobby.
type RemoveLobby struct {
	Code  string
	Lobby *lobby.Lobby
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (RemoveLobby) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

// Lookup asks the hub for the lobby hosted under code. It returns nil if
// there is none, or if ctx or the hub ends first.
func (h *Hub) Lookup(ctx context.Context, code string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	if !h.request(ctx, GetLobby{Code: code, Reply: reply}) {
		return nil
	}
	select {
	case lb := <-reply:
		return lb
	case <-h.ctx.Done():
	case <-ctx.Done():
	}
	return nil
}

// Create hosts game under code; see CreateLobby.
func (h *Hub) Create(ctx context.Context, code string, game engine.Game, opts lobby.Options) (*lobby.Lobby, error) {
	reply := make(chan Created, 1)
	if !h.request(ctx, CreateLobby{Code: code, Game: game, Options: opts, Reply: reply}) {
		return nil, errors.Join(ErrClosed, ctx.Err())
	}
	select {
	case c := <-reply:
		return c.Lobby, c.Err
	case <-h.ctx.Done():
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) request(ctx context.Context, m HubMsg) bool {
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
	case <-ctx.Done():
	}
	return false
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				if lb := h.lobbies[msg.Code]; lb != nil {
					msg.Reply <- Created{Lobby: lb}
					break
				}
				lb, err := lobby.NewLobby(h.ctx, msg.Game, msg.Options)
				if err != nil {
					msg.Reply <- Created{Err: err}
					break
				}
				h.lobbies[msg.Code] = lb
				go h.forgetWhenDone(msg.Code, lb)
				zap.L().Info("lobby created", zap.String("code", msg.Code), zap.String("game", msg.Game.ID))
				msg.Reply <- Created{Lobby: lb}

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // may be nil

			case RemoveLobby:
				if msg.Lobby != nil && h.lobbies[msg.Code] != msg.Lobby {
					break
				}
				delete(h.lobbies, msg.Code)

			case ShutdownHub:
				h.shutdown()
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) forgetWhenDone(code string, lb *lobby.Lobby) {
	select {
	case <-lb.Done():
		select {
		case h.inbox <- RemoveLobby{Code: code, Lobby: lb}:
		case <-h.ctx.Done():
		}
	case <-h.ctx.Done():
	}
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		select {
		case lb.Inbox() <- lobby.Shutdown{}:
		default:
		}
	}
	clear(h.lobbies)
}
