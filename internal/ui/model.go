package ui

import (
	"fmt"
	"net"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/go-battleships/internal/board"
	"github.com/amalg/go-battleships/internal/client"
	"github.com/amalg/go-battleships/internal/discovery"
	"github.com/amalg/go-battleships/internal/protocol"
)

// Screen represents which screen is currently shown.
type Screen int

const (
	ScreenMainMenu Screen = iota
	ScreenConnectForm
	ScreenBrowse
	ScreenLobby
	ScreenPlacement
	ScreenBattle
)

// --- Messages ---

type errMsg struct{ err error }
type sessionReadyMsg struct{ session *client.Session }
type lobbyUpdateMsg client.LobbySnapshot
type boardUpdateMsg client.BoardSnapshot
type disconnectMsg struct{}
type serversUpdateMsg []discovery.DiscoveredServer
type tickMsg time.Time

func (e errMsg) Error() string { return e.err.Error() }

// --- Model ---

type Model struct {
	screen     Screen
	playerName string
	err        error
	quitting   bool

	menuCursor int

	connectAddr  string
	connectField int

	browser      *discovery.Browser
	servers      []discovery.DiscoveredServer
	serverCursor int

	session     *client.Session
	lobby       client.LobbySnapshot
	lobbyNames  []string
	lobbyCursor int

	nextShip  int
	placeX    int
	placeY    int
	placeDir  protocol.Direction
	placement [len(board.ShipLengths)]protocol.Placement

	boardState client.BoardSnapshot
	shotX      int
	shotY      int
	moveMode   bool
	moveShipID int
}

// NewModel builds the initial screen for a player who hasn't connected
// to a server yet.
func NewModel(playerName string) Model {
	if playerName == "" {
		playerName = "Player"
	}
	return Model{
		screen:      ScreenMainMenu,
		playerName:  playerName,
		connectAddr: "localhost:5000",
	}
}

// NewModelWithSession builds a model that starts already connected,
// skipping the main menu and connect form — used when the battleship
// command is launched with -connect.
func NewModelWithSession(playerName string, session *client.Session) Model {
	m := NewModel(playerName)
	m.session = session
	m.screen = ScreenLobby
	return m
}

func (m Model) Init() tea.Cmd {
	if m.session != nil {
		return tea.Batch(waitForLobby(m.session), waitForBoard(m.session), waitForDisconnect(m.session))
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		return m, nil

	case sessionReadyMsg:
		m.session = msg.session
		m.err = nil
		m.screen = ScreenLobby
		m.session.SubmitIntent(client.Intent{Kind: client.IntentLogin, Name: m.playerName})
		return m, tea.Batch(waitForLobby(m.session), waitForBoard(m.session), waitForDisconnect(m.session))

	case lobbyUpdateMsg:
		m.lobby = client.LobbySnapshot(msg)
		m.lobbyNames = sortedNames(m.lobby.Players)
		return m, waitForLobby(m.session)

	case boardUpdateMsg:
		m.boardState = client.BoardSnapshot(msg)
		if m.session != nil {
			switch m.session.Status() {
			case client.StatusPlacingShips:
				m.screen = ScreenPlacement
			case client.StatusOpponentPlacing, client.StatusPlanning, client.StatusOpponentPlanning:
				m.screen = ScreenBattle
			case client.StatusAvailable:
				m.screen = ScreenLobby
			}
		}
		return m, waitForBoard(m.session)

	case disconnectMsg:
		m.err = fmt.Errorf("disconnected from server")
		m.session = nil
		m.screen = ScreenMainMenu
		return m, nil

	case serversUpdateMsg:
		m.servers = msg
		return m, tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })

	case tickMsg:
		if m.screen == ScreenBrowse && m.browser != nil {
			return m, refreshServers(m.browser)
		}
		return m, nil
	}

	switch m.screen {
	case ScreenMainMenu:
		return m.updateMainMenu(msg)
	case ScreenConnectForm:
		return m.updateConnectForm(msg)
	case ScreenBrowse:
		return m.updateBrowse(msg)
	case ScreenLobby:
		return m.updateLobby(msg)
	case ScreenPlacement:
		return m.updatePlacement(msg)
	case ScreenBattle:
		return m.updateBattle(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var view string
	switch m.screen {
	case ScreenMainMenu:
		view = RenderMainMenu(m.menuCursor)
	case ScreenConnectForm:
		view = RenderConnectForm(m.connectAddr, m.playerName, m.connectField)
	case ScreenBrowse:
		view = RenderBrowse(m.servers, m.serverCursor)
	case ScreenLobby:
		view = RenderLobby(m.lobbyNames, m.lobby, m.lobbyCursor, m.playerName)
	case ScreenPlacement:
		view = RenderPlacement(m.placement, m.nextShip, m.placeX, m.placeY, m.placeDir)
	case ScreenBattle:
		own := RenderOwnBoard(m.boardState.Own)
		enemy := RenderEnemyBoard(m.boardState.Opponent, m.shotX, m.shotY)
		hud := RenderBattleHUD(m.session, m.boardState, m.moveMode, m.moveShipID)
		view = lipgloss.JoinHorizontal(lipgloss.Top, own, "  ", enemy, "  ", hud)
	}

	if m.err != nil {
		view += "\n" + errorStyle.Render("Error: "+m.err.Error())
	}
	return view + "\n"
}

// --- Screen handlers ---

func (m Model) updateMainMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case "down", "j":
			if m.menuCursor < 2 {
				m.menuCursor++
			}
		case "enter":
			switch m.menuCursor {
			case 0:
				m.screen = ScreenConnectForm
				m.connectField = 0
				m.err = nil
			case 1:
				m.screen = ScreenBrowse
				m.serverCursor = 0
				m.err = nil
				m.browser = discovery.NewBrowser()
				if err := m.browser.Start(); err != nil {
					m.err = err
					m.screen = ScreenMainMenu
					return m, nil
				}
				return m, refreshServers(m.browser)
			case 2:
				m.quitting = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m Model) updateConnectForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.screen = ScreenMainMenu
			m.err = nil
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.connectField = (m.connectField + 1) % 2
		case "enter":
			return m, connectToServer(m.connectAddr, m.playerName)
		case "backspace":
			if m.connectField == 0 && len(m.connectAddr) > 0 {
				m.connectAddr = m.connectAddr[:len(m.connectAddr)-1]
			} else if m.connectField == 1 && len(m.playerName) > 0 {
				m.playerName = m.playerName[:len(m.playerName)-1]
			}
		default:
			ch := keyMsg.String()
			if len(ch) == 1 {
				if m.connectField == 0 {
					m.connectAddr += ch
				} else {
					m.playerName += ch
				}
			}
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.screen = ScreenMainMenu
			if m.browser != nil {
				m.browser.Stop()
				m.browser = nil
			}
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.serverCursor > 0 {
				m.serverCursor--
			}
		case "down", "j":
			if m.serverCursor < len(m.servers)-1 {
				m.serverCursor++
			}
		case "enter":
			if len(m.servers) > 0 && m.serverCursor < len(m.servers) {
				srv := m.servers[m.serverCursor]
				addr := fmt.Sprintf("%s:%d", srv.Host, srv.Port)
				if m.browser != nil {
					m.browser.Stop()
					m.browser = nil
				}
				return m, connectToServer(addr, m.playerName)
			}
		}
	}
	return m, nil
}

func (m Model) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "ctrl+c":
			m.cleanup()
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.lobbyCursor > 0 {
				m.lobbyCursor--
			}
		case "down", "j":
			if m.lobbyCursor < len(m.lobbyNames)-1 {
				m.lobbyCursor++
			}
		case "r":
			m.session.SubmitIntent(client.Intent{Kind: client.IntentReady})
		case "n":
			m.session.SubmitIntent(client.Intent{Kind: client.IntentNotReady})
		case "enter":
			if len(m.lobbyNames) > 0 && m.lobbyCursor < len(m.lobbyNames) {
				target := m.lobbyNames[m.lobbyCursor]
				m.session.SubmitIntent(client.Intent{Kind: client.IntentChallengePlayer, Name: target})
			}
		}
	}
	return m, nil
}

func (m Model) updatePlacement(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "ctrl+c":
			m.cleanup()
			m.quitting = true
			return m, tea.Quit
		case "up", "w":
			if m.placeY > 0 {
				m.placeY--
			}
		case "down", "s":
			if m.placeY < board.Height-1 {
				m.placeY++
			}
		case "left", "a":
			if m.placeX > 0 {
				m.placeX--
			}
		case "right", "d":
			if m.placeX < board.Width-1 {
				m.placeX++
			}
		case "r":
			m.placeDir = (m.placeDir + 1) % 4
		case "enter", " ":
			if m.nextShip < len(board.ShipLengths) {
				m.placement[m.nextShip] = protocol.Placement{X: m.placeX, Y: m.placeY, Dir: m.placeDir}
				m.nextShip++
			}
			if m.nextShip == len(board.ShipLengths) {
				m.session.SubmitIntent(client.Intent{Kind: client.IntentPlaceShips, Placement: m.placement})
			}
		case "backspace":
			if m.nextShip > 0 {
				m.nextShip--
			}
		}
	}
	return m, nil
}

func (m Model) updateBattle(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "ctrl+c":
			m.cleanup()
			m.quitting = true
			return m, tea.Quit
		case "up", "w":
			if m.shotY > 0 {
				m.shotY--
			}
		case "down", "s":
			if m.shotY < board.Height-1 {
				m.shotY++
			}
		case "left", "a":
			if m.shotX > 0 {
				m.shotX--
			}
		case "right", "d":
			if m.shotX < board.Width-1 {
				m.shotX++
			}
		case "m":
			m.moveMode = !m.moveMode
		case "tab":
			if m.moveMode {
				m.moveShipID = (m.moveShipID + 1) % len(board.ShipLengths)
			}
		case "x":
			m.session.SubmitIntent(client.Intent{Kind: client.IntentSurrender})
		case "enter", " ":
			if m.moveMode {
				m.session.SubmitIntent(client.Intent{
					Kind: client.IntentMoveAndShoot, ShipID: m.moveShipID,
					Dir: m.placeDir, X: m.shotX, Y: m.shotY,
				})
			} else {
				m.session.SubmitIntent(client.Intent{Kind: client.IntentShoot, X: m.shotX, Y: m.shotY})
			}
		}
	}
	return m, nil
}

func (m *Model) cleanup() {
	if m.browser != nil {
		m.browser.Stop()
	}
	if m.session != nil {
		m.session.Shutdown()
	}
}

// --- Commands ---

func connectToServer(addr, playerName string) tea.Cmd {
	return func() tea.Msg {
		conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
		if err != nil {
			return errMsg{err: fmt.Errorf("connect to %s: %w", addr, err)}
		}
		session := client.NewSession(conn)
		go session.Run()
		return sessionReadyMsg{session: session}
	}
}

func waitForLobby(s *client.Session) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-s.Lobby()
		if !ok {
			return disconnectMsg{}
		}
		return lobbyUpdateMsg(snap)
	}
}

func waitForBoard(s *client.Session) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-s.Boards()
		if !ok {
			return disconnectMsg{}
		}
		return boardUpdateMsg(snap)
	}
}

func waitForDisconnect(s *client.Session) tea.Cmd {
	return func() tea.Msg {
		<-s.Disconnected()
		return disconnectMsg{}
	}
}

func refreshServers(b *discovery.Browser) tea.Cmd {
	return func() tea.Msg {
		return serversUpdateMsg(b.Servers())
	}
}

func sortedNames(players map[string]bool) []string {
	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
