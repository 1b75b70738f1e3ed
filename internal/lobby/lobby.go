// Package lobby tracks logged-in players and in-progress games between
// them. A Lobby is owned by a single goroutine (internal/server's
// dispatch loop) and carries no internal locking of its own — see
// the Protocol Engine design in internal/server.
package lobby

import (
	"fmt"

	"github.com/amalg/go-battleships/internal/game"
	"github.com/amalg/go-battleships/internal/protocol"
)

// PlayerState is where a logged-in player currently stands.
type PlayerState int

const (
	Available PlayerState = iota
	Ready
	Playing
)

// Player is one logged-in client. Game is non-nil iff State == Playing.
type Player struct {
	Name  string
	State PlayerState
	Game  *game.Game
}

// Lobby holds every logged-in player by name and every game currently
// being played.
type Lobby struct {
	players map[string]*Player
	games   []*game.Game
}

// New returns an empty Lobby.
func New() *Lobby {
	return &Lobby{players: make(map[string]*Player)}
}

// Login registers name as Available. It fails if the name is malformed
// or already taken.
func (l *Lobby) Login(name string) error {
	if !protocol.ValidName(name) {
		return fmt.Errorf("lobby: %q is not a valid player name", name)
	}
	if _, taken := l.players[name]; taken {
		return fmt.Errorf("lobby: name %q already in use", name)
	}
	l.players[name] = &Player{Name: name, State: Available}
	return nil
}

// Logout removes name from the lobby, along with any game it is in.
func (l *Lobby) Logout(name string) {
	p, ok := l.players[name]
	if !ok {
		return
	}
	if p.Game != nil {
		l.removeGame(p.Game)
	}
	delete(l.players, name)
}

// Player looks up a logged-in player by name.
func (l *Lobby) Player(name string) (*Player, bool) {
	p, ok := l.players[name]
	return p, ok
}

// Names returns every logged-in player's name.
func (l *Lobby) Names() []string {
	names := make([]string, 0, len(l.players))
	for name := range l.players {
		names = append(names, name)
	}
	return names
}

// SetReady marks an Available player Ready. It fails if the player is
// unknown or not currently Available.
func (l *Lobby) SetReady(name string) error {
	p, ok := l.players[name]
	if !ok {
		return fmt.Errorf("lobby: unknown player %q", name)
	}
	if p.State != Available {
		return fmt.Errorf("lobby: %q is not available", name)
	}
	p.State = Ready
	return nil
}

// SetNotReady marks a Ready player Available again.
func (l *Lobby) SetNotReady(name string) error {
	p, ok := l.players[name]
	if !ok {
		return fmt.Errorf("lobby: unknown player %q", name)
	}
	if p.State != Ready {
		return fmt.Errorf("lobby: %q is not ready", name)
	}
	p.State = Available
	return nil
}

// ReadyNames returns the names of every Ready player, the pool a
// ChallengePlayer request may draw from.
func (l *Lobby) ReadyNames() []string {
	var names []string
	for name, p := range l.players {
		if p.State == Ready {
			names = append(names, name)
		}
	}
	return names
}

// StartGame moves both challenger and opponent to Playing and creates
// their Game. Only opponent is required to be Ready — a challenger
// issues ChallengePlayer while Available, per the client's allowed
// intents.
func (l *Lobby) StartGame(challenger, opponent string, clock game.Clock, rng game.RNG) (*game.Game, error) {
	c, ok := l.players[challenger]
	if !ok {
		return nil, fmt.Errorf("lobby: unknown challenger %q", challenger)
	}
	o, ok := l.players[opponent]
	if !ok || o.State != Ready {
		return nil, fmt.Errorf("lobby: %q is not ready", opponent)
	}
	g := game.New(challenger, opponent, clock, rng)
	c.State, c.Game = Playing, g
	o.State, o.Game = Playing, g
	l.games = append(l.games, g)
	return g, nil
}

// EndGame returns both of g's players to Available and removes g from
// the lobby's active game list.
func (l *Lobby) EndGame(g *game.Game) {
	a, b := g.Names()
	for _, name := range []string{a, b} {
		if p, ok := l.players[name]; ok {
			p.State, p.Game = Available, nil
		}
	}
	l.removeGame(g)
}

func (l *Lobby) removeGame(g *game.Game) {
	for i, existing := range l.games {
		if existing == g {
			l.games = append(l.games[:i], l.games[i+1:]...)
			return
		}
	}
}

// Games returns every currently active game.
func (l *Lobby) Games() []*game.Game {
	return l.games
}
