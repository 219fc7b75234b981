package types

// Host -> Client
//
// join:              {game, hand, chat, assets, player, stackDistance}
// player_join:       {board, pieces}
// set_board_event:   {board}
// update_piece:      {pieces: {id: piece}}   (full pieces, apply if delta is newer)
// add_to_board:      {pieces}
// remove_from_board: {ids}
// set_hand:          {hand}
// hand_count:        {counts: {playerId: n}}
// set_dice:          {diceIds}
// dice_counts:       {counts: {playerId: n}}
// chat:              {playerId, message}
// asset_loaded:      {asset: {name, data}, loadedFromCache}
// deck_peek_results: {deckId, cardIds}
// prompt_players:    {prompt}
// prompt_results:    {prompt}
// load_complete:     {}
//
// local_piece_update never crosses the wire; clients use it for speculative
// drag updates.
const (
	EventJoin             = "join"
	EventPlayerJoin       = "player_join"
	EventSetBoard         = "set_board_event"
	EventAddToBoard       = "add_to_board"
	EventRemoveFromBoard  = "remove_from_board"
	EventSetHand          = "set_hand"
	EventHandCount        = "hand_count"
	EventSetDice          = "set_dice"
	EventDiceCounts       = "dice_counts"
	EventAssetLoaded      = "asset_loaded"
	EventDeckPeekResults  = "deck_peek_results"
	EventPromptResults    = "prompt_results"
	EventLoadComplete     = "load_complete"
	EventLocalPieceUpdate = "local_piece_update"
)
