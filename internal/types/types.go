package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
	wire "github.com/RyanMcMahon/BoardGameStar-sub000/pkg/types"
)

var ErrUnknownEvent = errors.New("unknown event")
var ErrMalformed = errors.New("malformed message")

type envelope struct {
	Event string `json:"event"`
}

type decoder[E any] func([]byte) (E, error)

func as[T any, E any](data []byte) (E, error) {
	var ev T
	if err := json.Unmarshal(data, &ev); err != nil {
		var zero E
		return zero, err
	}
	out, ok := any(ev).(E)
	if !ok {
		var zero E
		return zero, fmt.Errorf("%T is not %T", ev, zero)
	}
	return out, nil
}

// player_connect is absent: peers never send it.
var clientDecoders = map[string]decoder[engine.ClientEvent]{
	wire.EventChat:             as[engine.Chat, engine.ClientEvent],
	wire.EventRollDice:         as[engine.RollDice, engine.ClientEvent],
	wire.EventDrawCards:        as[engine.DrawCards, engine.ClientEvent],
	wire.EventDrawCardsToTable: as[engine.DrawCardsToTable, engine.ClientEvent],
	wire.EventPickUpCards:      as[engine.PickUpCards, engine.ClientEvent],
	wire.EventPassCards:        as[engine.PassCards, engine.ClientEvent],
	wire.EventPeekAtCard:       as[engine.PeekAtCard, engine.ClientEvent],
	wire.EventPeekAtDeck:       as[engine.PeekAtDeck, engine.ClientEvent],
	wire.EventTakeCards:        as[engine.TakeCards, engine.ClientEvent],
	wire.EventRemoveCards:      as[engine.RemoveCards, engine.ClientEvent],
	wire.EventRenamePlayer:     as[engine.RenamePlayer, engine.ClientEvent],
	wire.EventPlayCards:        as[engine.PlayCards, engine.ClientEvent],
	wire.EventDiscard:          as[engine.Discard, engine.ClientEvent],
	wire.EventShuffleDeck:      as[engine.ShuffleDeck, engine.ClientEvent],
	wire.EventShuffleDiscarded: as[engine.ShuffleDiscarded, engine.ClientEvent],
	wire.EventDiscardPlayed:    as[engine.DiscardPlayed, engine.ClientEvent],
	wire.EventRequestAsset:     as[engine.RequestAsset, engine.ClientEvent],
	wire.EventUpdatePiece:      as[engine.UpdatePiece, engine.ClientEvent],
	wire.EventCreateStack:      as[engine.CreateStack, engine.ClientEvent],
	wire.EventSplitStack:       as[engine.SplitStack, engine.ClientEvent],
	wire.EventTransaction:      as[engine.Transaction, engine.ClientEvent],
	wire.EventPromptPlayers:    as[engine.PromptPlayers, engine.ClientEvent],
	wire.EventPromptSubmission: as[engine.PromptSubmission, engine.ClientEvent],
}

// local_piece_update is absent: it never crosses the wire.
var gameDecoders = map[string]decoder[engine.GameEvent]{
	wire.EventJoin:            as[engine.Join, engine.GameEvent],
	wire.EventPlayerJoin:      as[engine.PlayerJoin, engine.GameEvent],
	wire.EventSetBoard:        as[engine.SetBoard, engine.GameEvent],
	wire.EventUpdatePiece:     as[engine.PieceUpdate, engine.GameEvent],
	wire.EventAddToBoard:      as[engine.AddToBoard, engine.GameEvent],
	wire.EventRemoveFromBoard: as[engine.RemoveFromBoard, engine.GameEvent],
	wire.EventSetHand:         as[engine.SetHand, engine.GameEvent],
	wire.EventHandCount:       as[engine.HandCount, engine.GameEvent],
	wire.EventSetDice:         as[engine.SetDice, engine.GameEvent],
	wire.EventDiceCounts:      as[engine.DiceCounts, engine.GameEvent],
	wire.EventChat:            as[engine.ChatMessage, engine.GameEvent],
	wire.EventAssetLoaded:     as[engine.AssetLoaded, engine.GameEvent],
	wire.EventDeckPeekResults: as[engine.DeckPeekResults, engine.GameEvent],
	wire.EventPromptPlayers:   as[engine.PromptRequest, engine.GameEvent],
	wire.EventPromptResults:   as[engine.PromptResults, engine.GameEvent],
	wire.EventLoadComplete:    as[engine.LoadComplete, engine.GameEvent],
}

func kindOf(data []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Event == "" {
		return "", fmt.Errorf("%w: missing event", ErrMalformed)
	}
	return env.Event, nil
}

// DecodeClientEvent parses a peer's message. Unknown kinds and piece updates
// naming an unknown piece type are rejected.
func DecodeClientEvent(data []byte) (engine.ClientEvent, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	decode, ok := clientDecoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, kind)
	}
	ev, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, kind, err)
	}
	if u, ok := ev.(engine.UpdatePiece); ok {
		if err := checkPartials(u.Pieces); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

func checkPartials(pieces map[string]json.RawMessage) error {
	for id, raw := range pieces {
		var partial struct {
			Type *engine.PieceType `json:"type"`
		}
		if err := json.Unmarshal(raw, &partial); err != nil {
			return fmt.Errorf("%w: piece %s: %v", ErrMalformed, id, err)
		}
		if partial.Type != nil && !partial.Type.Valid() {
			return fmt.Errorf("piece %s: %w %q", id, engine.ErrUnknownPieceType, *partial.Type)
		}
	}
	return nil
}

// DecodeGameEvent parses a message from the host.
func DecodeGameEvent(data []byte) (engine.GameEvent, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	decode, ok := gameDecoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, kind)
	}
	ev, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, kind, err)
	}
	if u, ok := ev.(engine.PieceUpdate); ok {
		for id, p := range u.Pieces {
			if !p.Type.Valid() {
				return nil, fmt.Errorf("piece %s: %w %q", id, engine.ErrUnknownPieceType, p.Type)
			}
		}
	}
	return ev, nil
}

func EncodeClientEvent(ev engine.ClientEvent) ([]byte, error) {
	if _, ok := clientDecoders[ev.Kind()]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind())
	}
	return tagged(ev.Kind(), ev)
}

func EncodeGameEvent(ev engine.GameEvent) ([]byte, error) {
	if _, ok := gameDecoders[ev.Kind()]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind())
	}
	return tagged(ev.Kind(), ev)
}

// tagged marshals v and splices "event":kind in as the first key.
func tagged(kind string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("%w: %s does not encode as an object", ErrMalformed, kind)
	}
	k, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(k)+10)
	out = append(out, `{"event":`...)
	out = append(out, k...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	return append(out, body[1:]...), nil
}
