package lobby

import (
	"context"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
)

type Msg interface{ isLobbyMsg() }

// FromClient carries one decoded event from a connected peer.
type FromClient struct {
	PeerID string
	Event  engine.ClientEvent
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	PeerID    string
	Name      string
	Spectator bool
	Outbox    chan engine.GameEvent // where this peer wants to receive events
}

func (Join) isLobbyMsg() {}

// Leave detaches a peer. Outbox names the connection that is leaving; a
// Leave from a connection the peer has since replaced is ignored.
type Leave struct {
	PeerID string
	Outbox chan engine.GameEvent
}

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type View struct {
	Version    int
	NumClients int
	State      engine.GameState
}

type Options struct {
	// SendAssets pushes asset contents in the join payload instead of names
	// only.
	SendAssets    bool
	StackDistance float64
	Seed          uint64
}

// Lobby hosts one game. A single goroutine owns the state and handles inbox
// messages one at a time in arrival order.
type Lobby struct {
	inbox   chan Msg
	game    engine.Game
	opts    Options
	state   engine.GameState
	version int
	clients map[string]chan engine.GameEvent
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLobby(parent context.Context, game engine.Game, opts Options) (*Lobby, error) {
	state, err := engine.NewGameState(game, opts.Seed)
	if err != nil {
		return nil, err
	}
	if opts.StackDistance <= 0 {
		opts.StackDistance = engine.DefaultStackDistance
	}
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		inbox:   make(chan Msg, 64),
		game:    game,
		opts:    opts,
		state:   state,
		clients: make(map[string]chan engine.GameEvent),
		ctx:     ctx,
		cancel:  cancel,
	}

	go l.loop()
	return l, nil
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				l.join(msg)

			case Leave:
				if l.clients[msg.PeerID] == msg.Outbox {
					delete(l.clients, msg.PeerID)
				}

			case FromClient:
				l.handle(msg)

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.state,
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

// join brings a peer up to date: its private join payload and a full
// snapshot, the room's view of the seat it took, a full board for good
// measure, and finally load_complete. A peer left without a seat joins as a
// spectator. Rejoining under the same id replaces the old connection and
// keeps the seat and hand.
func (l *Lobby) join(msg Join) {
	if old, ok := l.clients[msg.PeerID]; ok && old != msg.Outbox {
		close(old)
	}
	l.clients[msg.PeerID] = msg.Outbox

	prev := l.state
	if !msg.Spectator {
		l.commit(engine.ProcessEvent(l.state, engine.PlayerConnect{Name: msg.Name}, msg.PeerID))
	}
	zap.L().Info("peer joined",
		zap.String("game", l.game.ID),
		zap.String("peer", msg.PeerID),
		zap.Bool("spectator", msg.Spectator),
		zap.Int("peers", len(l.clients)),
	)

	hand := slices.Clone(l.state.Hands[msg.PeerID])
	if hand == nil {
		hand = []string{}
	}
	l.send(msg.PeerID, engine.Join{
		Game:          l.published(),
		Hand:          hand,
		Chat:          slices.Clone(l.state.Chat),
		Assets:        l.assets(),
		Player:        msg.PeerID,
		Spectator:     l.state.PlayArea(msg.PeerID) == "",
		StackDistance: l.opts.StackDistance,
	})
	l.send(msg.PeerID, engine.PlayerJoin{
		Board:  slices.Clone(l.state.Board),
		Pieces: maps.Clone(l.state.Pieces),
	})
	l.publish(engine.GetClientEvents(prev, l.state))
	l.broadcast(engine.SetBoard{Board: slices.Clone(l.state.Board)})
	l.send(msg.PeerID, engine.LoadComplete{})
}

func (l *Lobby) handle(msg FromClient) {
	if req, ok := msg.Event.(engine.RequestAsset); ok {
		data, found := l.game.Assets[req.Asset]
		if !found {
			zap.L().Warn("unknown asset requested", zap.String("peer", msg.PeerID), zap.String("asset", req.Asset))
			return
		}
		l.send(msg.PeerID, engine.AssetLoaded{Asset: engine.Asset{Name: req.Asset, Data: data}})
		return
	}

	prev := l.state
	l.commit(engine.ProcessEvent(l.state, msg.Event, msg.PeerID))
	l.publish(engine.GetClientEvents(prev, l.state))
}

func (l *Lobby) commit(next engine.GameState) {
	l.state = next
	l.version++
}

func (l *Lobby) published() engine.Game {
	g := l.game
	g.Assets = nil
	return g
}

func (l *Lobby) assets() []engine.Asset {
	out := make([]engine.Asset, 0, len(l.game.Assets))
	for _, name := range slices.Sorted(maps.Keys(l.game.Assets)) {
		a := engine.Asset{Name: name}
		if l.opts.SendAssets {
			a.Data = l.game.Assets[name]
		}
		out = append(out, a)
	}
	return out
}

func (l *Lobby) publish(evs engine.ClientEvents) {
	for _, ev := range evs.Room {
		l.broadcast(ev)
	}
	for _, peerID := range slices.Sorted(maps.Keys(evs.Players)) {
		for _, ev := range evs.Players[peerID] {
			l.send(peerID, ev)
		}
	}
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // no more events for this peer
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(ev engine.GameEvent) {
	for id := range l.clients {
		l.send(id, ev)
	}
}

// send never blocks the loop; a peer whose outbox is full is dropped.
func (l *Lobby) send(peerID string, ev engine.GameEvent) {
	ch, ok := l.clients[peerID]
	if !ok {
		return
	}
	select {
	case ch <- ev:
	default:
		zap.L().Warn("dropping slow peer", zap.String("peer", peerID), zap.String("event", ev.Kind()))
		close(ch)
		delete(l.clients, peerID)
	}
}

// Inbox accepts messages for the lobby's loop.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Done is closed once the lobby has shut down.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }
