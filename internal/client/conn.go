package client

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/types"
)

// DefaultJoinTimeout bounds how long a peer waits for load_complete.
const DefaultJoinTimeout = 10 * time.Second

var ErrJoinTimeout = errors.New("timed out waiting for the host")
var ErrClosed = errors.New("connection closed")

type DialOptions struct {
	PlayerID    string
	Name        string
	Spectator   bool
	JoinTimeout time.Duration
	// OnEvent, if set, sees every host event after it has been applied.
	// It runs on the read goroutine.
	OnEvent func(engine.GameEvent)
}

// Conn is a peer's connection to a host. It keeps a Projection current and
// reports a connection that never finishes loading as failed.
type Conn struct {
	ws      *websocket.Conn
	onEvent func(engine.GameEvent)

	mu   sync.Mutex
	proj *Projection

	loaded     chan struct{}
	loadOnce   sync.Once
	timedOut   chan struct{}
	failed     atomic.Bool
	joinTimer  *time.Timer
	done       chan struct{}
	readErr    error
	closeOnce  sync.Once
	closeError error
}

// Dial connects to the websocket endpoint at wsURL (for example
// ws://host/ws) and joins the lobby with the given code.
func Dial(ctx context.Context, wsURL, code string, opts DialOptions) (*Conn, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("code", code)
	if opts.PlayerID != "" {
		q.Set("player", opts.PlayerID)
	}
	if opts.Name != "" {
		q.Set("name", opts.Name)
	}
	if opts.Spectator {
		q.Set("spectator", strconv.FormatBool(true))
	}
	u.RawQuery = q.Encode()

	ws, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	ws.SetReadLimit(4 << 20)

	timeout := opts.JoinTimeout
	if timeout <= 0 {
		timeout = DefaultJoinTimeout
	}
	c := &Conn{
		ws:       ws,
		onEvent:  opts.OnEvent,
		proj:     NewProjection(),
		loaded:   make(chan struct{}),
		timedOut: make(chan struct{}),
		done:     make(chan struct{}),
	}
	c.joinTimer = time.AfterFunc(timeout, func() {
		select {
		case <-c.loaded:
		default:
			c.failed.Store(true)
			close(c.timedOut)
		}
	})
	go c.readLoop()
	return c, nil
}

func (c *Conn) readLoop() {
	defer close(c.done)
	for {
		_, data, err := c.ws.Read(context.Background())
		if err != nil {
			c.readErr = err
			select {
			case <-c.loaded:
			default:
				c.failed.Store(true)
			}
			return
		}
		ev, err := types.DecodeGameEvent(data)
		if err != nil {
			zap.L().Warn("dropping bad host message", zap.Error(err))
			continue
		}

		c.mu.Lock()
		c.proj.Apply(ev)
		loaded := c.proj.Loaded
		c.mu.Unlock()

		if loaded {
			c.loadOnce.Do(func() {
				c.joinTimer.Stop()
				close(c.loaded)
			})
		}
		if c.onEvent != nil {
			c.onEvent(ev)
		}
	}
}

// WaitLoaded blocks until the host has sent load_complete. It returns
// ErrJoinTimeout once the join window passes.
func (c *Conn) WaitLoaded(ctx context.Context) error {
	select {
	case <-c.loaded:
		return nil
	case <-c.timedOut:
		return ErrJoinTimeout
	case <-c.done:
		select {
		case <-c.loaded:
			return nil
		default:
		}
		return errors.Join(ErrClosed, c.readErr)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Failed reports whether the connection dropped or timed out before it
// finished loading.
func (c *Conn) Failed() bool { return c.failed.Load() }

func (c *Conn) Send(ctx context.Context, ev engine.ClientEvent) error {
	data, err := types.EncodeClientEvent(ev)
	if err != nil {
		return err
	}
	return c.ws.Write(ctx, websocket.MessageText, data)
}

// MoveLocally records speculative piece state from this peer's own input
// without telling the host.
func (c *Conn) MoveLocally(pieces map[string]engine.Piece) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.proj.Apply(engine.LocalPieceUpdate{Pieces: pieces})
}

// View runs fn with the projection locked. fn must not keep references to
// the projection's maps or slices.
func (c *Conn) View(fn func(p *Projection)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.proj)
}

// Done is closed when the read side of the connection ends.
func (c *Conn) Done() <-chan struct{} { return c.done }

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.joinTimer.Stop()
		c.closeError = c.ws.Close(websocket.StatusNormalClosure, "bye")
	})
	return c.closeError
}
