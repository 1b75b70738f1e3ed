package server

import (
	"github.com/amalg/go-battleships/internal/lobby"
	"github.com/amalg/go-battleships/internal/protocol"
)

// lobbySnapshot builds the PlayerJoined/PlayerReady sequence that brings
// a client up to date on every other logged-in player, used both on
// Login and after a game ends (spec §4.4).
func lobbySnapshot(s *Server, exclude string) []protocol.Message {
	var msgs []protocol.Message
	for _, name := range s.lobby.Names() {
		if name == exclude {
			continue
		}
		msgs = append(msgs, protocol.Message{Type: protocol.OpPlayerJoined, Name: name})
	}
	for _, name := range s.lobby.ReadyNames() {
		if name == exclude {
			continue
		}
		msgs = append(msgs, protocol.Message{Type: protocol.OpPlayerReady, Name: name})
	}
	return msgs
}

func handleGetFeatures(s *Server, c *Client, _ protocol.Message) Result {
	return reply(protocol.Message{
		Type:     protocol.OpFeatures,
		Features: []string{"UDP Server Discovery"},
	})
}

func handleLogin(s *Server, c *Client, msg protocol.Message) Result {
	if msg.Name == "" {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
	if err := s.lobby.Login(msg.Name); err != nil {
		return reply(protocol.Message{Type: protocol.OpNameTaken, Name: msg.Name})
	}
	c.Name = msg.Name
	s.clientsByName[msg.Name] = c

	r := reply(protocol.Message{Type: protocol.OpOk})
	r.sendTo(msg.Name, lobbySnapshot(s, msg.Name)...)

	for _, other := range s.lobby.Names() {
		if other == msg.Name {
			continue
		}
		if p, ok := s.lobby.Player(other); ok && p.State != lobby.Playing {
			r.sendTo(other, protocol.Message{Type: protocol.OpPlayerJoined, Name: msg.Name})
		}
	}
	return r
}

func handleReady(s *Server, c *Client, _ protocol.Message) Result {
	p, ok := s.player(c)
	if !ok || p.State == lobby.Playing {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
	if err := s.lobby.SetReady(c.Name); err != nil {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
	r := reply(protocol.Message{Type: protocol.OpOk})
	for _, name := range s.lobby.Names() {
		if name == c.Name {
			continue
		}
		r.sendTo(name, protocol.Message{Type: protocol.OpPlayerReady, Name: c.Name})
	}
	return r
}

func handleNotReady(s *Server, c *Client, _ protocol.Message) Result {
	p, ok := s.player(c)
	if !ok {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
	if p.State == lobby.Playing {
		return reply(protocol.Message{Type: protocol.OpGameAlreadyStarted})
	}
	if err := s.lobby.SetNotReady(c.Name); err != nil {
		return reply(protocol.Message{Type: protocol.OpInvalidRequest})
	}
	r := reply(protocol.Message{Type: protocol.OpOk})
	for _, name := range s.lobby.Names() {
		if name == c.Name {
			continue
		}
		r.sendTo(name, protocol.Message{Type: protocol.OpPlayerNotReady, Name: c.Name})
	}
	return r
}

func handleChallengePlayer(s *Server, c *Client, msg protocol.Message) Result {
	target, ok := s.lobby.Player(msg.Name)
	if !ok {
		return reply(protocol.Message{Type: protocol.OpNoSuchPlayer, Name: msg.Name})
	}
	if target.State != lobby.Ready {
		return reply(protocol.Message{Type: protocol.OpNotWaiting, Name: msg.Name})
	}
	if _, err := s.lobby.StartGame(c.Name, msg.Name, s.clock, s.rng); err != nil {
		return reply(protocol.Message{Type: protocol.OpNotWaiting, Name: msg.Name})
	}
	r := reply(protocol.Message{Type: protocol.OpOk})
	r.sendTo(msg.Name, protocol.Message{Type: protocol.OpGameStart, Name: c.Name})
	return r
}
