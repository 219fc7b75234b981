package engine

import (
	"reflect"
	"slices"
)

type PieceType string

const (
	PieceBoard   PieceType = "board"
	PieceDeck    PieceType = "deck"
	PieceCard    PieceType = "card"
	PieceDie     PieceType = "die"
	PiecePlayer  PieceType = "player"
	PieceCircle  PieceType = "circle"
	PieceRect    PieceType = "rect"
	PieceImage   PieceType = "image"
	PieceMoney   PieceType = "money"
	PieceStack   PieceType = "stack"
	PieceDeleted PieceType = "deleted"
)

// Valid reports whether t is one of the known piece variants. Every switch
// over PieceType in this module must reject what Valid rejects.
func (t PieceType) Valid() bool {
	switch t {
	case PieceBoard, PieceDeck, PieceCard, PieceDie, PiecePlayer,
		PieceCircle, PieceRect, PieceImage, PieceMoney, PieceStack, PieceDeleted:
		return true
	default:
		return false
	}
}

// Piece is anything that can sit on the table. Variant-specific fields are
// zero for the variants that don't use them.
type Piece struct {
	ID       string    `json:"id" yaml:"id"`
	Type     PieceType `json:"type" yaml:"type"`
	X        float64   `json:"x" yaml:"x"`
	Y        float64   `json:"y" yaml:"y"`
	Width    float64   `json:"width,omitempty" yaml:"width,omitempty"`
	Height   float64   `json:"height,omitempty" yaml:"height,omitempty"`
	Radius   float64   `json:"radius,omitempty" yaml:"radius,omitempty"`
	Rotation float64   `json:"rotation" yaml:"rotation"`
	Layer    int       `json:"layer" yaml:"layer"`
	Delta    int       `json:"delta" yaml:"delta"`
	Locked   bool      `json:"locked,omitempty" yaml:"locked,omitempty"`
	Counts   string    `json:"counts,omitempty" yaml:"counts,omitempty"`
	ParentID string    `json:"parentId,omitempty" yaml:"parentId,omitempty"`

	// deck, card, board, image
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
	Count int    `json:"count,omitempty" yaml:"count,omitempty"`
	Total int    `json:"total,omitempty" yaml:"total,omitempty"`

	// card
	DeckID   string `json:"deckId,omitempty" yaml:"deckId,omitempty"`
	FaceDown bool   `json:"faceDown,omitempty" yaml:"faceDown,omitempty"`
	Back     string `json:"back,omitempty" yaml:"back,omitempty"`

	// die
	Faces  int  `json:"faces,omitempty" yaml:"faces,omitempty"`
	Value  int  `json:"value,omitempty" yaml:"value,omitempty"`
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`

	// player, money
	Color     string `json:"color,omitempty" yaml:"color,omitempty"`
	PlayerID  string `json:"playerId,omitempty" yaml:"playerId,omitempty"`
	Balance   int    `json:"balance,omitempty" yaml:"balance,omitempty"`
	HandCount int    `json:"handCount,omitempty" yaml:"handCount,omitempty"`

	// circle, rect, image
	Stackable bool   `json:"stackable,omitempty" yaml:"stackable,omitempty"`
	Stack     string `json:"stack,omitempty" yaml:"stack,omitempty"`

	// stack: member ids, bottom first
	IDs []string `json:"ids,omitempty" yaml:"ids,omitempty"`
}

func (p Piece) IsDeleted() bool { return p.Type == PieceDeleted }

// Equal compares every field, including stack membership.
func (p Piece) Equal(o Piece) bool {
	return reflect.DeepEqual(p, o)
}

func (p Piece) clone() Piece {
	p.IDs = slices.Clone(p.IDs)
	return p
}

// span is the footprint used to lay pieces out side by side.
func (p Piece) span() (w, h float64) {
	if p.Radius > 0 {
		return p.Radius * 2, p.Radius * 2
	}
	return p.Width, p.Height
}

var validDieFaces = map[int]bool{4: true, 6: true, 8: true, 10: true, 12: true, 20: true}

func ValidDieFaces(faces int) bool { return validDieFaces[faces] }

// onTable reports whether a piece of this type belongs on the shared board
// when a session starts. Cards only reach the board by being played.
func onTable(t PieceType) (bool, error) {
	switch t {
	case PieceBoard, PieceDeck, PieceDie, PiecePlayer, PieceCircle, PieceRect,
		PieceImage, PieceMoney, PieceStack:
		return true, nil
	case PieceCard, PieceDeleted:
		return false, nil
	default:
		return false, ErrUnknownPieceType
	}
}
