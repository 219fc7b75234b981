package engine

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

var ErrUnknownPiece = errors.New("unknown piece")
var ErrUnknownPieceType = errors.New("unknown piece type")
var ErrUnknownDeck = errors.New("unknown deck")
var ErrNoPlayArea = errors.New("player has no play area")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrUnknownRecipient = errors.New("unknown recipient")
var ErrInvalidAmount = errors.New("invalid amount")
var ErrNotOnBoard = errors.New("piece not on board")
var ErrNotInHand = errors.New("card not in hand")
var ErrNotACard = errors.New("piece is not a card")
var ErrDuplicateID = errors.New("duplicate id")
var ErrBadDice = errors.New("invalid dice request")
var ErrStackTooSmall = errors.New("stack needs at least two pieces")
var ErrNotStackable = errors.New("piece is not stackable")
var ErrBadPrompt = errors.New("invalid prompt")
var ErrUnknownPrompt = errors.New("unknown prompt")
var ErrBadCounts = errors.New("invalid counts expression")
var ErrUnsupportedEvent = errors.New("unsupported event")

// Layout constants, in table units.
const (
	areaInset   = 10.0
	cardCascade = 20.0
	dieSize     = 40.0
	dieSpacing  = 50.0
	defaultSpan = 50.0
)

// DefaultStackDistance is how close two stackable pieces must be dropped for
// clients to offer merging them.
const DefaultStackDistance = 20.0

// ProcessEvent runs one event against the state. A rejected event is logged
// and leaves the state unchanged, so a misbehaving peer can never corrupt the
// table or take the host down.
func ProcessEvent(s GameState, ev ClientEvent, playerID string) GameState {
	next, err := Apply(s, ev, playerID)
	if err != nil {
		zap.L().Warn("event rejected",
			zap.String("event", kindOf(ev)),
			zap.String("player", playerID),
			zap.Error(err),
		)
		return s
	}
	return next
}

// Apply computes the state after ev. It never mutates s; on error the
// returned state is s itself.
func Apply(s GameState, ev ClientEvent, playerID string) (GameState, error) {
	t := newTx(s)

	var err error
	switch e := ev.(type) {
	case PlayerConnect:
		err = t.playerConnect(playerID, e)
	case Chat:
		t.s.Chat = append(t.s.Chat, ChatMessage{PlayerID: playerID, Message: e.Message})
	case ShuffleDiscarded:
		err = t.shuffleDiscarded(e.DeckID)
	case ShuffleDeck:
		err = t.shuffleDeck(e.DeckID)
	case Transaction:
		err = t.transaction(e)
	case RollDice:
		err = t.rollDice(playerID, e)
	case DrawCards:
		err = t.drawCards(playerID, e)
	case DrawCardsToTable:
		err = t.drawCardsToTable(playerID, e)
	case PickUpCards:
		err = t.pickUpCards(playerID, e.CardIDs)
	case PlayCards:
		err = t.playCards(playerID, e)
	case PassCards:
		err = t.passCards(playerID, e)
	case Discard:
		err = t.discard(playerID, e.CardIDs)
	case DiscardPlayed:
		err = t.discardPlayed(e.DeckID)
	case PeekAtDeck:
		err = t.peekAtDeck(playerID, e)
	case PeekAtCard:
		err = t.peekAtCard(playerID, e.CardIDs)
	case TakeCards:
		err = t.takeCards(playerID, e.CardIDs)
	case RemoveCards:
		err = t.removeCards(e.CardIDs)
	case CreateStack:
		err = t.createStack(e.IDs)
	case SplitStack:
		err = t.splitStack(e)
	case RenamePlayer:
		err = t.renamePlayer(playerID, e.Name)
	case UpdatePiece:
		err = t.updatePieces(e.Pieces)
	case PromptPlayers:
		err = t.promptPlayers(playerID, e)
	case PromptSubmission:
		err = t.promptSubmission(playerID, e)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedEvent, kindOf(ev))
	}
	if err != nil {
		return s, err
	}
	return t.s, nil
}

func kindOf(ev ClientEvent) string {
	if ev == nil {
		return "<nil>"
	}
	return ev.Kind()
}

// tx is the working copy for a single event. It guarantees each piece's
// delta moves by exactly one however many times the event touches it.
type tx struct {
	s       GameState
	touched map[string]bool
	src     *rand.ChaCha8
	rng     *rand.Rand
}

func newTx(s GameState) *tx {
	return &tx{s: s.Clone(), touched: map[string]bool{}}
}

// random returns the event's random source, advancing Step the first time
// an event needs one.
func (t *tx) random() *rand.Rand {
	if t.rng == nil {
		t.s.Step++
		t.src = rand.NewChaCha8(seedFor(t.s.Seed, t.s.Step))
		t.rng = rand.New(t.src)
	}
	return t.rng
}

// newID mints a ULID whose time component is the reducer step and whose
// entropy comes from the seeded source.
func (t *tx) newID() string {
	t.random()
	return ulid.MustNew(t.s.Step, t.src).String()
}

func (t *tx) update(id string, fn func(p *Piece)) error {
	p, ok := t.s.Pieces[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPiece, id)
	}
	fn(&p)
	if !t.touched[id] {
		p.Delta++
		t.touched[id] = true
	}
	t.s.Pieces[id] = p
	return nil
}

func (t *tx) create(p Piece) {
	p.Delta++
	t.touched[p.ID] = true
	t.s.Pieces[p.ID] = p
}

func (t *tx) tombstone(id string) {
	_ = t.update(id, func(p *Piece) { p.Type = PieceDeleted })
	t.s.Board = removeIDs(t.s.Board, []string{id})
}

func (t *tx) addToBoard(ids ...string) {
	for _, id := range ids {
		if !slices.Contains(t.s.Board, id) {
			t.s.Board = append(t.s.Board, id)
		}
	}
}

func (t *tx) piece(id string) (Piece, error) {
	p, ok := t.s.Pieces[id]
	if !ok || p.IsDeleted() {
		return Piece{}, fmt.Errorf("%w: %s", ErrUnknownPiece, id)
	}
	return p, nil
}

func (t *tx) deck(id string) (Piece, error) {
	p, ok := t.s.Pieces[id]
	if !ok || p.Type != PieceDeck {
		return Piece{}, fmt.Errorf("%w: %s", ErrUnknownDeck, id)
	}
	return p, nil
}

func (t *tx) area(playerID string) (Piece, error) {
	id := t.s.PlayArea(playerID)
	if id == "" {
		return Piece{}, fmt.Errorf("%w: %s", ErrNoPlayArea, playerID)
	}
	return t.s.Pieces[id], nil
}

func (t *tx) renamePlayer(playerID, name string) error {
	area, err := t.area(playerID)
	if err != nil {
		return err
	}
	if area.Name == name {
		return nil
	}
	return t.update(area.ID, func(p *Piece) { p.Name = name })
}

func (t *tx) playerConnect(playerID string, e PlayerConnect) error {
	if !e.Spectator && t.s.PlayArea(playerID) == "" {
		t.expand(t.seated() + 1)
		if seat := t.openSeat(); seat != "" {
			_ = t.update(seat, func(p *Piece) {
				p.PlayerID = playerID
				if e.Name != "" {
					p.Name = e.Name
				}
			})
		}
	}
	t.initDecks()
	t.settleDecks()
	t.rebuildBoard()
	return nil
}

func (t *tx) seated() int {
	n := 0
	for _, p := range t.s.Pieces {
		if p.Type == PiecePlayer && p.PlayerID != "" {
			n++
		}
	}
	return n
}

// openSeat picks the first unbound play area, in board order, then any
// unbound area not yet on the board.
func (t *tx) openSeat() string {
	for _, id := range t.s.Board {
		if p := t.s.Pieces[id]; p.Type == PiecePlayer && p.PlayerID == "" {
			return id
		}
	}
	for _, p := range sortedPieces(t.s.Pieces) {
		if p.Type == PiecePlayer && p.PlayerID == "" {
			return p.ID
		}
	}
	return ""
}

// initDecks builds the draw pile of every deck that has none yet. Decks
// already in play keep their piles so late joiners do not reset them.
func (t *tx) initDecks() {
	for _, deck := range sortedPieces(t.s.Pieces) {
		if deck.Type != PieceDeck {
			continue
		}
		if _, ok := t.s.Shuffled[deck.ID]; ok {
			continue
		}
		var cards []string
		for _, p := range sortedPieces(t.s.Pieces) {
			if p.Type == PieceCard && p.DeckID == deck.ID {
				cards = append(cards, p.ID)
			}
		}
		t.random().Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
		t.s.Shuffled[deck.ID] = append([]string{}, cards...)
		t.s.Discarded[deck.ID] = []string{}
		t.syncDeck(deck.ID, false)
	}
}

// settleDecks keeps dealt decks whole after expansion. Card copies that sit
// in no pile, hand, stack or board slot are shuffled into their deck's draw
// pile, tombstoned copies leave the piles and hands, and deck counts are
// brought up to date.
func (t *tx) settleDecks() {
	placed := map[string]bool{}
	mark := func(ids []string) {
		for _, id := range ids {
			placed[id] = true
		}
	}
	mark(t.s.Board)
	for _, hand := range t.s.Hands {
		mark(hand)
	}
	for _, pile := range t.s.Shuffled {
		mark(pile)
	}
	for _, pile := range t.s.Discarded {
		mark(pile)
	}
	for _, p := range t.s.Pieces {
		if p.Type == PieceStack && !p.IsDeleted() {
			mark(p.IDs)
		}
	}

	gone := func(id string) bool {
		p, ok := t.s.Pieces[id]
		return !ok || p.IsDeleted()
	}
	for _, playerID := range slices.Sorted(maps.Keys(t.s.Hands)) {
		hand := t.s.Hands[playerID]
		if slices.ContainsFunc(hand, gone) {
			t.setHand(playerID, slices.DeleteFunc(slices.Clone(hand), gone))
		}
	}

	for _, deck := range sortedPieces(t.s.Pieces) {
		if deck.Type != PieceDeck {
			continue
		}
		pile, ok := t.s.Shuffled[deck.ID]
		if !ok {
			continue
		}
		pile = slices.DeleteFunc(slices.Clone(pile), gone)
		for _, p := range sortedPieces(t.s.Pieces) {
			if p.Type != PieceCard || p.DeckID != deck.ID || placed[p.ID] {
				continue
			}
			pile = slices.Insert(pile, t.random().IntN(len(pile)+1), p.ID)
		}
		t.s.Shuffled[deck.ID] = pile
		if discarded, ok := t.s.Discarded[deck.ID]; ok {
			t.s.Discarded[deck.ID] = slices.DeleteFunc(slices.Clone(discarded), gone)
		}
		t.syncDeck(deck.ID, false)
	}
}

// rebuildBoard keeps what is on the board (minus tombstones) and appends
// every live non-card piece that is neither on it nor inside a stack.
func (t *tx) rebuildBoard() {
	stacked := map[string]bool{}
	for _, p := range t.s.Pieces {
		if p.Type == PieceStack {
			for _, id := range p.IDs {
				stacked[id] = true
			}
		}
	}

	board := make([]string, 0, len(t.s.Board))
	for _, id := range t.s.Board {
		if p, ok := t.s.Pieces[id]; ok && !p.IsDeleted() {
			board = append(board, id)
		}
	}
	for _, p := range sortedPieces(t.s.Pieces) {
		if stacked[p.ID] || slices.Contains(board, p.ID) {
			continue
		}
		ok, err := onTable(p.Type)
		if err != nil {
			zap.L().Warn("skipping piece of unknown type", zap.String("piece", p.ID), zap.String("type", string(p.Type)))
			continue
		}
		if ok {
			board = append(board, p.ID)
		}
	}
	t.s.Board = board
}
