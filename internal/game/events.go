package game

import (
	"time"

	"github.com/lox/hearts/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart  EventType = "round_start"
	EventTypeCardsPassed EventType = "cards_passed"
	EventTypeTrickStart  EventType = "trick_start"
	EventTypeCardPlayed  EventType = "card_played"
	EventTypeTrickWon    EventType = "trick_won"
	EventTypeRoundEnd    EventType = "round_end"
	EventTypeGameEnd     EventType = "game_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// Observer receives game events as they are published. Observers must
// not mutate game state; they exist for transcripts, logging and stats.
type Observer interface {
	HandleEvent(event GameEvent)
}

// RoundStartEvent is published after dealing, before passing.
type RoundStartEvent struct {
	Round         int
	Scores        map[PlayerID]int
	PassDirection map[PlayerID]PlayerID
	timestamp     time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// CardsPassedEvent is published once per player after the pass batch
// has been applied.
type CardsPassedEvent struct {
	From      PlayerID
	To        PlayerID
	Cards     []deck.Card
	timestamp time.Time
}

func (e CardsPassedEvent) EventType() EventType { return EventTypeCardsPassed }
func (e CardsPassedEvent) Timestamp() time.Time { return e.timestamp }

// TrickStartEvent is published before the first play of each trick.
type TrickStartEvent struct {
	Trick     int
	Order     []PlayerID
	timestamp time.Time
}

func (e TrickStartEvent) EventType() EventType { return EventTypeTrickStart }
func (e TrickStartEvent) Timestamp() time.Time { return e.timestamp }

// CardPlayedEvent is published after a card moves from a hand into the
// current trick.
type CardPlayedEvent struct {
	Play         Play
	Trick        int
	HeartsBroken bool
	timestamp    time.Time
}

func (e CardPlayedEvent) EventType() EventType { return EventTypeCardPlayed }
func (e CardPlayedEvent) Timestamp() time.Time { return e.timestamp }

// TrickWonEvent is published when a trick resolves.
type TrickWonEvent struct {
	Trick     int
	Winner    PlayerID
	Plays     []Play
	Points    int
	timestamp time.Time
}

func (e TrickWonEvent) EventType() EventType { return EventTypeTrickWon }
func (e TrickWonEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published after scoring a round.
type RoundEndEvent struct {
	Round       int
	Moonshot    PlayerID // empty if nobody shot the moon
	RoundPoints map[PlayerID]int
	Scores      map[PlayerID]int
	timestamp   time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// GameEndEvent is published when the termination condition is met.
type GameEndEvent struct {
	Winner    PlayerID
	Scores    map[PlayerID]int
	Rounds    int
	timestamp time.Time
}

func (e GameEndEvent) EventType() EventType { return EventTypeGameEnd }
func (e GameEndEvent) Timestamp() time.Time { return e.timestamp }
