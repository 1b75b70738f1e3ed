package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/go-battleships/internal/board"
	"github.com/amalg/go-battleships/internal/client"
	"github.com/amalg/go-battleships/internal/discovery"
	"github.com/amalg/go-battleships/internal/protocol"
)

// Color palette
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44aaff")).Bold(true)

	menuItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ccccdd")).PaddingLeft(2)

	menuSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#44aaff")).Bold(true)

	menuBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(1, 3)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44aaff")).Bold(true)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#aaaacc"))

	serverStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#ccccdd"))
	serverSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	serverEmptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)

	waterStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a2e3a")).Foreground(lipgloss.Color("#1a2e3a"))
	shipStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#888888")).Foreground(lipgloss.Color("#888888"))
	hitStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff4444")).Foreground(lipgloss.Color("#ffcccc")).Bold(true)
	missStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a2e3a")).Foreground(lipgloss.Color("#4488ff")).Bold(true)
	destroyedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#440000")).Foreground(lipgloss.Color("#ff8888")).Bold(true)
	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ffcc00")).Foreground(lipgloss.Color("#000000")).Bold(true)
	unknownStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#0e1822")).Foreground(lipgloss.Color("#0e1822"))

	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#44aaff")).Bold(true)
	winnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true).Blink(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
)

func RenderMainMenu(cursor int) string {
	title := titleStyle.Render(`
  ╔══════════════════════════╗
  ║     B A T T L E S H I P  ║
  ╚══════════════════════════╝`)

	items := []string{"Connect to server", "Browse servers", "Quit"}
	var menu []string
	for i, item := range items {
		if i == cursor {
			menu = append(menu, menuSelectedStyle.Render("▸ "+item))
		} else {
			menu = append(menu, menuItemStyle.Render("  "+item))
		}
	}

	content := strings.Join([]string{
		title, "",
		strings.Join(menu, "\n"), "",
		helpStyle.Render("↑↓ Navigate  •  Enter Select"),
	}, "\n")

	return menuBoxStyle.Render(content) + "\n"
}

func RenderConnectForm(addr, playerName string, editing int) string {
	fields := []struct{ label, value string }{
		{"Server Address", addr},
		{"Your Name", playerName},
	}

	var lines []string
	for i, f := range fields {
		label := inputLabelStyle.Render(f.label + ": ")
		value := f.value
		if i == editing {
			value = inputStyle.Render(value + "▌")
			lines = append(lines, menuSelectedStyle.Render("▸ ")+label+value)
		} else {
			value = lipgloss.NewStyle().Foreground(lipgloss.Color("#ccccdd")).Render(value)
			lines = append(lines, "  "+label+value)
		}
	}

	content := strings.Join([]string{
		titleStyle.Render("Connect to server"), "",
		strings.Join(lines, "\n"), "",
		helpStyle.Render("Tab Switch field  •  Enter Connect  •  Esc Back"),
	}, "\n")

	return menuBoxStyle.Render(content) + "\n"
}

func RenderBrowse(servers []discovery.DiscoveredServer, cursor int) string {
	var body string
	if len(servers) == 0 {
		body = serverEmptyStyle.Render("  Searching for servers on the network...\n  Make sure a server is running and announcing.")
	} else {
		var lines []string
		for i, s := range servers {
			line := fmt.Sprintf("%s  (%s:%d)", s.Name, s.Host, s.Port)
			if i == cursor {
				lines = append(lines, serverSelectedStyle.Render("▸ "+line))
			} else {
				lines = append(lines, serverStyle.Render("  "+line))
			}
		}
		body = strings.Join(lines, "\n")
	}

	content := strings.Join([]string{
		titleStyle.Render("Browse servers"), "",
		body, "",
		helpStyle.Render("↑↓ Navigate  •  Enter Connect  •  Esc Back"),
	}, "\n")

	return menuBoxStyle.Render(content) + "\n"
}

func RenderLobby(names []string, lobby client.LobbySnapshot, cursor int, myName string) string {
	var lines []string
	if len(names) == 0 {
		lines = append(lines, serverEmptyStyle.Render("  No other players online yet."))
	}
	for i, name := range names {
		ready := "not ready"
		if lobby.Players[name] {
			ready = "ready"
		}
		line := fmt.Sprintf("%-16s  [%s]", name, ready)
		if name == myName {
			line += "  (you)"
		}
		if i == cursor {
			lines = append(lines, serverSelectedStyle.Render("▸ "+line))
		} else {
			lines = append(lines, serverStyle.Render("  "+line))
		}
	}

	features := "none"
	if len(lobby.Features) > 0 {
		features = strings.Join(lobby.Features, ", ")
	}

	content := strings.Join([]string{
		titleStyle.Render("Lobby — " + myName),
		helpStyle.Render("Server features: " + features), "",
		strings.Join(lines, "\n"), "",
		helpStyle.Render("↑↓ Select  •  Enter Challenge  •  r Ready  •  n Not ready  •  q Quit"),
	}, "\n")

	return menuBoxStyle.Render(content) + "\n"
}

func RenderPlacement(placement [len(board.ShipLengths)]protocol.Placement, nextShip, x, y int, dir protocol.Direction) string {
	placed := make(map[board.Point]bool)
	for i := 0; i < nextShip; i++ {
		length := board.ShipLengths[i]
		for _, c := range cellsFor(placement[i], length) {
			placed[c] = true
		}
	}

	preview := make(map[board.Point]bool)
	if nextShip < len(board.ShipLengths) {
		for _, c := range cellsFor(protocol.Placement{X: x, Y: y, Dir: dir}, board.ShipLengths[nextShip]) {
			preview[c] = true
		}
	}

	var rows []string
	for row := 0; row < board.Height; row++ {
		var cells []string
		for col := 0; col < board.Width; col++ {
			p := board.Point{X: col, Y: row}
			switch {
			case placed[p]:
				cells = append(cells, shipStyle.Render("██"))
			case preview[p]:
				cells = append(cells, cursorStyle.Render("██"))
			default:
				cells = append(cells, waterStyle.Render("~~"))
			}
		}
		rows = append(rows, strings.Join(cells, ""))
	}

	status := "place your fleet"
	if nextShip < len(board.ShipLengths) {
		status = fmt.Sprintf("ship %d/%d — length %d", nextShip+1, len(board.ShipLengths), board.ShipLengths[nextShip])
	} else {
		status = "fleet sent — awaiting confirmation"
	}

	content := strings.Join([]string{
		titleStyle.Render("Placement"),
		statusStyle.Render(status),
		strings.Join(rows, "\n"),
		helpStyle.Render(fmt.Sprintf("facing %s", dirName(dir))),
		helpStyle.Render("Arrows Move  •  r Rotate  •  Enter Place  •  Backspace Undo  •  q Quit"),
	}, "\n")

	return menuBoxStyle.Render(content) + "\n"
}

func cellsFor(p protocol.Placement, length int) []board.Point {
	dx, dy := 0, 0
	switch p.Dir {
	case protocol.North:
		dy = -1
	case protocol.East:
		dx = 1
	case protocol.South:
		dy = 1
	case protocol.West:
		dx = -1
	}
	cells := make([]board.Point, length)
	for i := 0; i < length; i++ {
		cells[i] = board.Point{X: p.X + dx*i, Y: p.Y + dy*i}
	}
	return cells
}

func dirName(dir protocol.Direction) string {
	switch dir {
	case protocol.North:
		return "north"
	case protocol.East:
		return "east"
	case protocol.South:
		return "south"
	case protocol.West:
		return "west"
	default:
		return "?"
	}
}

func RenderOwnBoard(b *board.Board) string {
	title := titleStyle.Render("Your fleet")
	if b == nil {
		return hudBorderStyle.Render(title + "\n" + helpStyle.Render("(not placed yet)"))
	}

	live := make(map[board.Point]bool)
	for i := range board.ShipLengths {
		ship := b.Ship(i)
		if ship.Dead() {
			continue
		}
		for _, c := range ship.Cells() {
			live[c] = true
		}
	}

	var rows []string
	for y := 0; y < board.Height; y++ {
		var cells []string
		for x := 0; x < board.Width; x++ {
			p := board.Point{X: x, Y: y}
			shot := b.Shot(x, y)
			switch {
			case live[p] && shot:
				cells = append(cells, destroyedStyle.Render("XX"))
			case live[p]:
				cells = append(cells, shipStyle.Render("██"))
			case shot:
				cells = append(cells, missStyle.Render("••"))
			default:
				cells = append(cells, waterStyle.Render("~~"))
			}
		}
		rows = append(rows, strings.Join(cells, ""))
	}
	return hudBorderStyle.Render(title + "\n" + strings.Join(rows, "\n"))
}

func RenderEnemyBoard(d *board.DumbBoard, cursorX, cursorY int) string {
	title := titleStyle.Render("Enemy waters")
	if d == nil {
		return hudBorderStyle.Render(title + "\n" + helpStyle.Render("(unknown)"))
	}

	var rows []string
	for y := 0; y < board.Height; y++ {
		var cells []string
		for x := 0; x < board.Width; x++ {
			var cell string
			switch d.At(x, y) {
			case board.KnownShip:
				cell = hitStyle.Render("XX")
			case board.KnownWater:
				cell = missStyle.Render("••")
			default:
				cell = unknownStyle.Render("??")
			}
			if x == cursorX && y == cursorY {
				cell = cursorStyle.Render("[]")
			}
			cells = append(cells, cell)
		}
		rows = append(rows, strings.Join(cells, ""))
	}
	return hudBorderStyle.Render(title + "\n" + strings.Join(rows, "\n"))
}

func RenderBattleHUD(s *client.Session, state client.BoardSnapshot, moveMode bool, moveShipID int) string {
	var parts []string
	parts = append(parts, titleStyle.Render("BATTLE"), "")

	if s != nil {
		switch s.Status() {
		case client.StatusPlanning:
			parts = append(parts, statusStyle.Render("Your turn"))
		case client.StatusOpponentPlanning:
			parts = append(parts, helpStyle.Render("Opponent's turn"))
		case client.StatusOpponentPlacing:
			parts = append(parts, helpStyle.Render("Opponent is placing ships..."))
		case client.StatusSurrendered:
			parts = append(parts, winnerStyle.Render("Game over"))
		}
	}

	parts = append(parts, "",
		fmt.Sprintf("Hits landed:   %d", state.Hits),
		fmt.Sprintf("Ships sunk:    %d", state.Destroyed),
		fmt.Sprintf("Your afk strikes:    %d", state.MyAfkStrikes),
		fmt.Sprintf("Enemy afk strikes:   %d", state.EnemyAfkStrikes),
	)

	mode := "shoot"
	if moveMode {
		mode = fmt.Sprintf("move+shoot (ship %d)", moveShipID)
	}
	parts = append(parts, "", helpStyle.Render("Mode: "+mode))
	parts = append(parts, helpStyle.Render("Arrows Aim  •  Enter Fire  •  m Toggle move  •  Tab Cycle ship  •  x Surrender  •  q Quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}
