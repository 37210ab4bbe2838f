package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/service/game"
	"go.uber.org/zap"
)

const (
	pieceRune = '●'
	emptyRune = '·'

	// rows above the grid: the hover/banner line
	headerRows = 1
)

var (
	boardStyle  = tcell.StyleDefault.Background(tcell.ColorNavy)
	playerOne   = boardStyle.Foreground(tcell.ColorRed)
	playerTwo   = boardStyle.Foreground(tcell.ColorYellow)
	emptyStyle  = boardStyle.Foreground(tcell.ColorSilver)
	labelStyle  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

type layout struct {
	OriginX   int
	OriginY   int
	CellWidth int
}

// ColumnAt maps a screen x coordinate to a board column.
func ColumnAt(x, originX, cellWidth int) (int, bool) {
	if cellWidth <= 0 || x < originX {
		return 0, false
	}
	col := (x - originX) / cellWidth
	if col >= domain.Columns {
		return 0, false
	}
	return col, true
}

// UI draws a session on a terminal and feeds mouse clicks and key presses
// back into it. Both players share the keyboard and mouse.
type UI struct {
	screen  tcell.Screen
	session *game.GameSession
	layout  layout
	cursor  int
	status  string
	pressed bool
	log     *zap.Logger
}

func New(screen tcell.Screen, session *game.GameSession, cellWidth int, log *zap.Logger) *UI {
	if log == nil {
		log = zap.NewNop()
	}
	if cellWidth < 2 {
		cellWidth = 2
	}
	return &UI{
		screen:  screen,
		session: session,
		layout:  layout{OriginX: 2, OriginY: 1, CellWidth: cellWidth},
		cursor:  domain.Columns / 2,
		log:     log.With(zap.String("component", "terminal")),
	}
}

func pieceStyle(c domain.Cell) tcell.Style {
	switch c {
	case domain.PlayerOne:
		return playerOne
	case domain.PlayerTwo:
		return playerTwo
	default:
		return emptyStyle
	}
}

func playerName(c domain.Cell) string {
	return fmt.Sprintf("Player %d", c.Number())
}

func (u *UI) putString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// cellX is the screen column holding the piece glyph for a board column.
func (u *UI) cellX(col int) int {
	return u.layout.OriginX + col*u.layout.CellWidth + u.layout.CellWidth/2
}

func (u *UI) gridTop() int {
	return u.layout.OriginY + headerRows
}

// Draw renders the whole frame.
func (u *UI) Draw() {
	state := u.session.Snapshot()
	u.screen.Clear()

	header := u.layout.OriginY
	switch state.Status {
	case domain.StatusWon:
		u.putString(u.layout.OriginX, header, playerName(state.Winner)+" wins!!", pieceStyle(state.Winner).Background(tcell.ColorDefault).Bold(true))
	case domain.StatusDraw:
		u.putString(u.layout.OriginX, header, "Draw", statusStyle.Bold(true))
	default:
		hover := pieceStyle(state.Turn).Background(tcell.ColorDefault)
		u.screen.SetContent(u.cellX(u.cursor), header, pieceRune, nil, hover)
	}

	width := domain.Columns * u.layout.CellWidth
	top := u.gridTop()
	for i := 0; i < domain.Rows; i++ {
		row := domain.Rows - 1 - i
		y := top + i
		for x := 0; x < width; x++ {
			u.screen.SetContent(u.layout.OriginX+x, y, ' ', nil, boardStyle)
		}
		for col := 0; col < domain.Columns; col++ {
			cell := state.Grid[row][col]
			r := emptyRune
			if cell != domain.Empty {
				r = pieceRune
			}
			u.screen.SetContent(u.cellX(col), y, r, nil, pieceStyle(cell))
		}
	}

	labels := top + domain.Rows
	for col := 0; col < domain.Columns; col++ {
		u.screen.SetContent(u.cellX(col), labels, rune('1'+col), nil, labelStyle)
	}

	status := u.status
	if status == "" {
		if state.Status.IsTerminal() {
			status = "Press r to play again, q to quit"
		} else {
			status = playerName(state.Turn) + " to move. 1-7 or click to drop, r restart, q quit"
		}
	}
	u.putString(u.layout.OriginX, labels+2, status, statusStyle)

	u.screen.Show()
}

// HandleEvent applies one input event. It reports true when the user asked
// to quit.
func (u *UI) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return u.handleKey(ev)

	case *tcell.EventMouse:
		x, _ := ev.Position()
		if col, ok := ColumnAt(x, u.layout.OriginX, u.layout.CellWidth); ok {
			u.cursor = col
		}

		down := ev.Buttons()&tcell.Button1 != 0
		if down && !u.pressed {
			if col, ok := ColumnAt(x, u.layout.OriginX, u.layout.CellWidth); ok {
				u.drop(col)
			}
		}
		u.pressed = down

	case *tcell.EventResize:
		u.screen.Sync()
	}
	return false
}

func (u *UI) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		if u.cursor > 0 {
			u.cursor--
		}
	case tcell.KeyRight:
		if u.cursor < domain.Columns-1 {
			u.cursor++
		}
	case tcell.KeyEnter:
		u.drop(u.cursor)
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == 'q':
			return true
		case r == 'r':
			u.restart()
		case r == ' ':
			u.drop(u.cursor)
		case r >= '1' && r < '1'+domain.Columns:
			u.cursor = int(r - '1')
			u.drop(u.cursor)
		}
	}
	return false
}

func (u *UI) drop(col int) {
	result, _, err := u.session.Move(col)
	if err != nil {
		u.status = moveErrorText(col, err)
		u.log.Debug("move rejected", zap.Int("column", col), zap.Error(err))
		return
	}
	u.status = ""
	u.log.Debug("move applied",
		zap.String("kind", string(result.Kind)),
		zap.Int("row", result.Row),
		zap.Int("column", result.Column),
	)
}

func (u *UI) restart() {
	if _, err := u.session.Restart(); err != nil {
		u.status = err.Error()
		return
	}
	u.status = ""
	u.cursor = domain.Columns / 2
}

func moveErrorText(col int, err error) string {
	switch {
	case errors.Is(err, domain.ErrColumnFull):
		return fmt.Sprintf("Column %d is full", col+1)
	case errors.Is(err, domain.ErrGameOver):
		return "Game over. Press r to play again"
	default:
		return err.Error()
	}
}

// Run draws and handles input until the user quits or ctx is cancelled.
func (u *UI) Run(ctx context.Context) error {
	u.screen.EnableMouse()
	defer u.screen.DisableMouse()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			u.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	for {
		u.Draw()

		ev := u.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		if u.HandleEvent(ev) {
			u.log.Info("quit requested")
			return nil
		}
	}
}
