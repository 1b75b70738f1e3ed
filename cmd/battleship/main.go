// Command battleship is the player-facing client: a terminal UI that
// drives internal/client.Session over a TCP connection to a
// battleshipd server, optionally found via multicast discovery.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/go-battleships/internal/client"
	"github.com/amalg/go-battleships/internal/protocol"
	"github.com/amalg/go-battleships/internal/ui"
)

const version = "1.0.0"

func main() {
	connect := flag.String("connect", "", "Server address to connect to immediately (host:port)")
	name := flag.String("name", "Player", "Your player name")
	headless := flag.Bool("headless", false, "Connect, read commands from stdin, and print snapshots without starting the TUI")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	if *headless {
		runHeadless(*connect, *name)
		return
	}

	log.SetOutput(io.Discard)
	model := ui.NewModel(*name)
	if *connect != "" {
		session, err := dial(*connect)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
			os.Exit(1)
		}
		session.SubmitIntent(client.Intent{Kind: client.IntentLogin, Name: *name})
		model = ui.NewModelWithSession(*name, session)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func dial(addr string) (*client.Session, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	session := client.NewSession(conn)
	go session.Run()
	return session, nil
}

// runHeadless connects, drives the session engine from stdin lines
// instead of the TUI, and prints lobby/board snapshots to stdout — for
// scripting and CI, per the -headless flag.
func runHeadless(addr, name string) {
	if addr == "" {
		fmt.Fprintln(os.Stderr, "--headless requires --connect")
		os.Exit(1)
	}
	session, err := dial(addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	session.SubmitIntent(client.Intent{Kind: client.IntentLogin, Name: name})

	go readStdinCommands(session)

	for {
		select {
		case snap := <-session.Lobby():
			fmt.Printf("lobby: %+v\n", snap)
		case snap := <-session.Boards():
			fmt.Printf("board: hits=%d destroyed=%d\n", snap.Hits, snap.Destroyed)
		case <-session.Disconnected():
			fmt.Println("disconnected")
			return
		}
	}
}

// readStdinCommands parses one intent per line of stdin:
//
//	features
//	login <name>
//	ready
//	notready
//	challenge <name>
//	place x,y,dir x,y,dir x,y,dir x,y,dir x,y,dir
//	shoot <x> <y>
//	move <shipID> <dir> <x> <y>
//	surrender
//
// dir is one of n/e/s/w. Unparseable lines are reported to stderr and
// skipped rather than killing the session.
func readStdinCommands(session *client.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		intent, err := parseCommand(fields)
		if err != nil {
			fmt.Fprintf(os.Stderr, "command error: %v\n", err)
			continue
		}
		session.SubmitIntent(intent)
	}
}

func parseCommand(fields []string) (client.Intent, error) {
	switch fields[0] {
	case "features":
		return client.Intent{Kind: client.IntentGetFeatures}, nil
	case "login":
		if len(fields) != 2 {
			return client.Intent{}, fmt.Errorf("usage: login <name>")
		}
		return client.Intent{Kind: client.IntentLogin, Name: fields[1]}, nil
	case "ready":
		return client.Intent{Kind: client.IntentReady}, nil
	case "notready":
		return client.Intent{Kind: client.IntentNotReady}, nil
	case "challenge":
		if len(fields) != 2 {
			return client.Intent{}, fmt.Errorf("usage: challenge <name>")
		}
		return client.Intent{Kind: client.IntentChallengePlayer, Name: fields[1]}, nil
	case "place":
		if len(fields) != 6 {
			return client.Intent{}, fmt.Errorf("usage: place x,y,dir x,y,dir x,y,dir x,y,dir x,y,dir")
		}
		var placement [5]protocol.Placement
		for i, f := range fields[1:] {
			p, err := parsePlacement(f)
			if err != nil {
				return client.Intent{}, err
			}
			placement[i] = p
		}
		return client.Intent{Kind: client.IntentPlaceShips, Placement: placement}, nil
	case "shoot":
		if len(fields) != 3 {
			return client.Intent{}, fmt.Errorf("usage: shoot <x> <y>")
		}
		x, y, err := parseXY(fields[1], fields[2])
		if err != nil {
			return client.Intent{}, err
		}
		return client.Intent{Kind: client.IntentShoot, X: x, Y: y}, nil
	case "move":
		if len(fields) != 5 {
			return client.Intent{}, fmt.Errorf("usage: move <shipID> <dir> <x> <y>")
		}
		shipID, err := strconv.Atoi(fields[1])
		if err != nil {
			return client.Intent{}, fmt.Errorf("invalid ship id %q: %w", fields[1], err)
		}
		dir, err := parseDirection(fields[2])
		if err != nil {
			return client.Intent{}, err
		}
		x, y, err := parseXY(fields[3], fields[4])
		if err != nil {
			return client.Intent{}, err
		}
		return client.Intent{Kind: client.IntentMoveAndShoot, ShipID: shipID, Dir: dir, X: x, Y: y}, nil
	case "surrender":
		return client.Intent{Kind: client.IntentSurrender}, nil
	default:
		return client.Intent{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

func parsePlacement(field string) (protocol.Placement, error) {
	parts := strings.Split(field, ",")
	if len(parts) != 3 {
		return protocol.Placement{}, fmt.Errorf("invalid placement %q, want x,y,dir", field)
	}
	x, y, err := parseXY(parts[0], parts[1])
	if err != nil {
		return protocol.Placement{}, err
	}
	dir, err := parseDirection(parts[2])
	if err != nil {
		return protocol.Placement{}, err
	}
	return protocol.Placement{X: x, Y: y, Dir: dir}, nil
}

func parseXY(xs, ys string) (int, int, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q: %w", xs, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q: %w", ys, err)
	}
	return x, y, nil
}

func parseDirection(s string) (protocol.Direction, error) {
	switch strings.ToLower(s) {
	case "n":
		return protocol.North, nil
	case "e":
		return protocol.East, nil
	case "s":
		return protocol.South, nil
	case "w":
		return protocol.West, nil
	default:
		return 0, fmt.Errorf("invalid direction %q, want one of n/e/s/w", s)
	}
}
