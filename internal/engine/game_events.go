package engine

import "github.com/RyanMcMahon/BoardGameStar-sub000/pkg/types"

// GameEvent is a projection the host sends to peers.
type GameEvent interface {
	Kind() string
	isGameEvent()
}

// Join is the first message a peer receives. Assets carry data only when
// the session is configured to push them; otherwise peers request each by
// name.
type Join struct {
	Game          Game          `json:"game"`
	Hand          []string      `json:"hand"`
	Chat          []ChatMessage `json:"chat"`
	Assets        []Asset       `json:"assets"`
	Player        string        `json:"player"`
	Spectator     bool          `json:"spectator,omitempty"`
	StackDistance float64       `json:"stackDistance"`
}

type PlayerJoin struct {
	Board  []string         `json:"board"`
	Pieces map[string]Piece `json:"pieces"`
}

type SetBoard struct {
	Board []string `json:"board"`
}

// PieceUpdate carries full pieces; receivers keep whichever copy has the
// higher delta.
type PieceUpdate struct {
	Pieces map[string]Piece `json:"pieces"`
}

type AddToBoard struct {
	Pieces []Piece `json:"pieces"`
}

type RemoveFromBoard struct {
	IDs []string `json:"ids"`
}

type SetHand struct {
	Hand []string `json:"hand"`
}

type HandCount struct {
	Counts map[string]int `json:"counts"`
}

type SetDice struct {
	DiceIDs []string `json:"diceIds"`
}

type DiceCounts struct {
	Counts map[string]int `json:"counts"`
}

type AssetLoaded struct {
	Asset           Asset `json:"asset"`
	LoadedFromCache bool  `json:"loadedFromCache"`
}

type DeckPeekResults struct {
	DeckID  string   `json:"deckId"`
	CardIDs []string `json:"cardIds"`
}

type PromptRequest struct {
	Prompt Prompt `json:"prompt"`
}

type PromptResults struct {
	Prompt Prompt `json:"prompt"`
}

type LoadComplete struct{}

// LocalPieceUpdate is produced by a peer's own input handling and never
// crosses the wire.
type LocalPieceUpdate struct {
	Pieces map[string]Piece `json:"pieces"`
}

func (Join) Kind() string             { return types.EventJoin }
func (PlayerJoin) Kind() string       { return types.EventPlayerJoin }
func (SetBoard) Kind() string         { return types.EventSetBoard }
func (PieceUpdate) Kind() string      { return types.EventUpdatePiece }
func (AddToBoard) Kind() string       { return types.EventAddToBoard }
func (RemoveFromBoard) Kind() string  { return types.EventRemoveFromBoard }
func (SetHand) Kind() string          { return types.EventSetHand }
func (HandCount) Kind() string        { return types.EventHandCount }
func (SetDice) Kind() string          { return types.EventSetDice }
func (DiceCounts) Kind() string       { return types.EventDiceCounts }
func (ChatMessage) Kind() string      { return types.EventChat }
func (AssetLoaded) Kind() string      { return types.EventAssetLoaded }
func (DeckPeekResults) Kind() string  { return types.EventDeckPeekResults }
func (PromptRequest) Kind() string    { return types.EventPromptPlayers }
func (PromptResults) Kind() string    { return types.EventPromptResults }
func (LoadComplete) Kind() string     { return types.EventLoadComplete }
func (LocalPieceUpdate) Kind() string { return types.EventLocalPieceUpdate }

func (Join) isGameEvent()             {}
func (PlayerJoin) isGameEvent()       {}
func (SetBoard) isGameEvent()         {}
func (PieceUpdate) isGameEvent()      {}
func (AddToBoard) isGameEvent()       {}
func (RemoveFromBoard) isGameEvent()  {}
func (SetHand) isGameEvent()          {}
func (HandCount) isGameEvent()        {}
func (SetDice) isGameEvent()          {}
func (DiceCounts) isGameEvent()       {}
func (ChatMessage) isGameEvent()      {}
func (AssetLoaded) isGameEvent()      {}
func (DeckPeekResults) isGameEvent()  {}
func (PromptRequest) isGameEvent()    {}
func (PromptResults) isGameEvent()    {}
func (LoadComplete) isGameEvent()     {}
func (LocalPieceUpdate) isGameEvent() {}
