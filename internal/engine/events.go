package engine

import (
	"encoding/json"

	"github.com/RyanMcMahon/BoardGameStar-sub000/pkg/types"
)

// ClientEvent is an action sent by a peer to the host. The set of
// implementations is closed; Apply rejects anything it does not know.
type ClientEvent interface {
	Kind() string
	isClientEvent()
}

// PlayerConnect is synthesized by the host when a peer connects.
type PlayerConnect struct {
	Name      string `json:"name,omitempty"`
	Spectator bool   `json:"spectator,omitempty"`
}

type Chat struct {
	Message string `json:"message"`
}

type RollDice struct {
	Dice   map[int]int `json:"dice"` // faces -> count
	Hidden bool        `json:"hidden,omitempty"`
}

type DrawCards struct {
	DeckID string `json:"deckId"`
	Count  int    `json:"count"`
}

type DrawCardsToTable struct {
	DeckID   string `json:"deckId"`
	Count    int    `json:"count"`
	FaceDown bool   `json:"faceDown,omitempty"`
}

type PickUpCards struct {
	CardIDs []string `json:"cardIds"`
}

type PassCards struct {
	CardIDs  []string `json:"cardIds"`
	PlayerID string   `json:"playerId"`
}

type PeekAtCard struct {
	CardIDs []string `json:"cardIds"`
}

type PeekAtDeck struct {
	DeckID string `json:"deckId"`
	Count  int    `json:"count"`
}

type TakeCards struct {
	CardIDs []string `json:"cardIds"`
}

type RemoveCards struct {
	CardIDs []string `json:"cardIds"`
}

type RenamePlayer struct {
	Name string `json:"name"`
}

type PlayCards struct {
	CardIDs  []string `json:"cardIds"`
	FaceDown bool     `json:"faceDown,omitempty"`
}

type Discard struct {
	CardIDs []string `json:"cardIds"`
}

type ShuffleDeck struct {
	DeckID string `json:"deckId"`
}

type ShuffleDiscarded struct {
	DeckID string `json:"deckId"`
}

type DiscardPlayed struct {
	DeckID string `json:"deckId"`
}

// RequestAsset is answered by the host session directly and never reaches
// the reducer.
type RequestAsset struct {
	Asset string `json:"asset"`
}

// UpdatePiece carries partial pieces; only the fields present in each raw
// object are merged onto the existing piece.
type UpdatePiece struct {
	Pieces map[string]json.RawMessage `json:"pieces"`
}

type CreateStack struct {
	IDs []string `json:"ids"`
}

type SplitStack struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

type TransactionRef struct {
	From string `json:"from"`
	To   string `json:"to,omitempty"`
}

type Transaction struct {
	Transaction TransactionRef `json:"transaction"`
	Amount      int            `json:"amount"`
}

type PromptPlayers struct {
	Prompt    PromptSpec `json:"prompt"`
	PlayerIDs []string   `json:"playerIds"`
}

type PromptSubmission struct {
	PromptID string   `json:"promptId"`
	Values   []string `json:"values"`
}

func (PlayerConnect) Kind() string    { return types.EventPlayerConnect }
func (Chat) Kind() string             { return types.EventChat }
func (RollDice) Kind() string         { return types.EventRollDice }
func (DrawCards) Kind() string        { return types.EventDrawCards }
func (DrawCardsToTable) Kind() string { return types.EventDrawCardsToTable }
func (PickUpCards) Kind() string      { return types.EventPickUpCards }
func (PassCards) Kind() string        { return types.EventPassCards }
func (PeekAtCard) Kind() string       { return types.EventPeekAtCard }
func (PeekAtDeck) Kind() string       { return types.EventPeekAtDeck }
func (TakeCards) Kind() string        { return types.EventTakeCards }
func (RemoveCards) Kind() string      { return types.EventRemoveCards }
func (RenamePlayer) Kind() string     { return types.EventRenamePlayer }
func (PlayCards) Kind() string        { return types.EventPlayCards }
func (Discard) Kind() string          { return types.EventDiscard }
func (ShuffleDeck) Kind() string      { return types.EventShuffleDeck }
func (ShuffleDiscarded) Kind() string { return types.EventShuffleDiscarded }
func (DiscardPlayed) Kind() string    { return types.EventDiscardPlayed }
func (RequestAsset) Kind() string     { return types.EventRequestAsset }
func (UpdatePiece) Kind() string      { return types.EventUpdatePiece }
func (CreateStack) Kind() string      { return types.EventCreateStack }
func (SplitStack) Kind() string       { return types.EventSplitStack }
func (Transaction) Kind() string      { return types.EventTransaction }
func (PromptPlayers) Kind() string    { return types.EventPromptPlayers }
func (PromptSubmission) Kind() string { return types.EventPromptSubmission }

func (PlayerConnect) isClientEvent()    {}
func (Chat) isClientEvent()             {}
func (RollDice) isClientEvent()         {}
func (DrawCards) isClientEvent()        {}
func (DrawCardsToTable) isClientEvent() {}
func (PickUpCards) isClientEvent()      {}
func (PassCards) isClientEvent()        {}
func (PeekAtCard) isClientEvent()       {}
func (PeekAtDeck) isClientEvent()       {}
func (TakeCards) isClientEvent()        {}
func (RemoveCards) isClientEvent()      {}
func (RenamePlayer) isClientEvent()     {}
func (PlayCards) isClientEvent()        {}
func (Discard) isClientEvent()          {}
func (ShuffleDeck) isClientEvent()      {}
func (ShuffleDiscarded) isClientEvent() {}
func (DiscardPlayed) isClientEvent()    {}
func (RequestAsset) isClientEvent()     {}
func (UpdatePiece) isClientEvent()      {}
func (CreateStack) isClientEvent()      {}
func (SplitStack) isClientEvent()       {}
func (Transaction) isClientEvent()      {}
func (PromptPlayers) isClientEvent()    {}
func (PromptSubmission) isClientEvent() {}
