// Command desktop is a native client for the Tilt Maze Game server.
//
// It connects to the REST API for commands (start, input) and to the
// WebSocket hub for the realtime frame stream, and renders the maze,
// ball, and timer with ebiten.
package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	headerHeight = 40
	screenWidth  = 600
	screenHeight = 400
	baseURL      = "http://localhost:8080"
	wsHost       = "localhost:8080"
)

var (
	colorBackground = color.RGBA{20, 20, 30, 255}
	colorWall       = color.RGBA{90, 90, 110, 255}
	colorFloor      = color.RGBA{30, 30, 42, 255}
	colorBall       = color.RGBA{235, 235, 245, 255}
	colorGoal       = color.RGBA{80, 200, 120, 255}
	colorFinish     = color.RGBA{255, 215, 0, 255}
)

// BallState mirrors the server's ball JSON.
type BallState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
}

// MazeState mirrors the server's maze JSON.
type MazeState struct {
	Cols     int     `json:"cols"`
	Rows     int     `json:"rows"`
	CellSize float64 `json:"cell_size"`
	Goal     struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"goal"`
	Layout []string `json:"layout"`
}

// GameState mirrors the server's full state JSON.
type GameState struct {
	Phase               string     `json:"phase"`
	ElapsedSeconds      float64    `json:"elapsed_seconds"`
	FinalElapsedSeconds float64    `json:"final_elapsed_seconds,omitempty"`
	Ball                *BallState `json:"ball,omitempty"`
	Maze                *MazeState `json:"maze,omitempty"`
	ConfigName          string     `json:"config_name"`
}

// Frame mirrors the server's per-tick frame JSON.
type Frame struct {
	Phase               string     `json:"phase"`
	ElapsedSeconds      float64    `json:"elapsed_seconds"`
	FinalElapsedSeconds float64    `json:"final_elapsed_seconds,omitempty"`
	Ball                *BallState `json:"ball,omitempty"`
	JustFinished        bool       `json:"just_finished,omitempty"`
}

// WSMessage wraps every message coming off the hub.
type WSMessage struct {
	SessionID string     `json:"session_id"`
	Event     string     `json:"event"`
	GameState *GameState `json:"game_state,omitempty"`
	Frame     *Frame     `json:"frame,omitempty"`
}

// Game is the ebiten client. The websocket listener updates state and
// ball concurrently with the render loop, so both sit behind a mutex.
type Game struct {
	sessionID string

	stateMutex sync.RWMutex
	state      *GameState
	ball       *BallState
	elapsed    float64
	phase      string
	finalTime  float64

	wsConn *websocket.Conn

	// Last input vector sent to the server. Input posts happen only on
	// change; the server holds the vector between updates.
	sentIX, sentIY float64

	errorMsg string
}

// NewGame creates a client bound to an existing session, or creates a
// fresh session on the server when sessionID is empty.
func NewGame(sessionID string) (*Game, error) {
	g := &Game{sessionID: sessionID, phase: "idle"}

	if g.sessionID == "" {
		if err := g.createSession(); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
	}

	if err := g.connectWebSocket(); err != nil {
		return nil, fmt.Errorf("failed to connect websocket: %w", err)
	}
	go g.listenWebSocket()

	return g, nil
}

// createSession asks the server for a new session with the default config.
func (g *Game) createSession() error {
	resp, err := http.Post(baseURL+"/api/sessions", "application/json", strings.NewReader("{}"))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse session response: %v (body: %s)", err, string(body))
	}
	if result.ID == "" {
		return fmt.Errorf("server returned no session id (body: %s)", string(body))
	}

	g.sessionID = result.ID
	log.Printf("Created session: %s", g.sessionID)
	return nil
}

// connectWebSocket dials the hub for this session.
func (g *Game) connectWebSocket() error {
	wsURL := url.URL{Scheme: "ws", Host: wsHost, Path: "/ws"}
	q := wsURL.Query()
	q.Set("session", g.sessionID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}

	g.wsConn = conn
	log.Printf("WebSocket connected for session %s", g.sessionID)
	return nil
}

// listenWebSocket consumes hub messages. Frames carry only the ball and
// timer; state messages replace the maze too.
func (g *Game) listenWebSocket() {
	defer g.wsConn.Close()

	for {
		_, message, err := g.wsConn.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error: %v", err)
			g.stateMutex.Lock()
			g.errorMsg = "connection lost"
			g.stateMutex.Unlock()
			return
		}

		// The hub batches queued messages into one frame separated by
		// newlines
		for _, line := range strings.Split(string(message), "\n") {
			if line == "" {
				continue
			}
			var msg WSMessage
			if err := json.Unmarshal([]byte(line), &msg); err != nil {
				log.Printf("WebSocket JSON parse error: %v", err)
				continue
			}
			g.applyMessage(&msg)
		}
	}
}

func (g *Game) applyMessage(msg *WSMessage) {
	g.stateMutex.Lock()
	defer g.stateMutex.Unlock()

	switch msg.Event {
	case "state", "started":
		if msg.GameState == nil {
			return
		}
		g.state = msg.GameState
		g.phase = msg.GameState.Phase
		g.elapsed = msg.GameState.ElapsedSeconds
		g.finalTime = msg.GameState.FinalElapsedSeconds
		if msg.GameState.Ball != nil {
			g.ball = msg.GameState.Ball
		}
	case "frame":
		if msg.Frame == nil {
			return
		}
		g.phase = msg.Frame.Phase
		g.elapsed = msg.Frame.ElapsedSeconds
		if msg.Frame.Ball != nil {
			g.ball = msg.Frame.Ball
		}
		if msg.Frame.JustFinished {
			g.finalTime = msg.Frame.FinalElapsedSeconds
		}
	case "error":
		g.errorMsg = "server error"
	}
}

// sendStart begins a realtime run (also used for retry after a finish).
func (g *Game) sendStart() {
	url := fmt.Sprintf("%s/api/sessions/%s/start", baseURL, g.sessionID)
	resp, err := http.Post(url, "application/json", strings.NewReader(`{"realtime":true}`))
	if err != nil {
		log.Printf("Failed to start game: %v", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var result struct {
		GameState *GameState `json:"game_state"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.GameState == nil {
		log.Printf("Unexpected start response: %s", string(body))
		return
	}

	g.stateMutex.Lock()
	g.state = result.GameState
	g.phase = result.GameState.Phase
	g.elapsed = 0
	g.finalTime = 0
	g.ball = result.GameState.Ball
	g.errorMsg = ""
	g.stateMutex.Unlock()
}

// sendInput posts the tilt vector.
func (g *Game) sendInput(ix, iy float64) {
	url := fmt.Sprintf("%s/api/sessions/%s/input", baseURL, g.sessionID)
	payload := fmt.Sprintf(`{"ix":%g,"iy":%g}`, ix, iy)

	resp, err := http.Post(url, "application/json", strings.NewReader(payload))
	if err != nil {
		log.Printf("Failed to send input: %v", err)
		return
	}
	resp.Body.Close()
}

// readInputVector maps held keys to the tilt vector.
func readInputVector() (float64, float64) {
	var ix, iy float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		ix -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		ix += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		iy -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		iy += 1
	}
	return ix, iy
}

// Update handles keyboard input once per ebiten tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sendStart()
	}

	g.stateMutex.RLock()
	playing := g.phase == "playing"
	g.stateMutex.RUnlock()

	if playing {
		ix, iy := readInputVector()
		if ix != g.sentIX || iy != g.sentIY {
			g.sentIX, g.sentIY = ix, iy
			go g.sendInput(ix, iy)
		}
	}

	return nil
}

// Draw renders the maze, ball, and header.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	g.stateMutex.RLock()
	defer g.stateMutex.RUnlock()

	g.drawHeader(screen)

	if g.state == nil || g.state.Maze == nil {
		ebitenutil.DebugPrintAt(screen, "Press SPACE to start", 20, headerHeight+20)
		return
	}

	maze := g.state.Maze
	size := float32(maze.CellSize)

	for y, row := range maze.Layout {
		for x := 0; x < len(row); x++ {
			c := colorFloor
			if row[x] == '#' {
				c = colorWall
			}
			vector.DrawFilledRect(screen,
				float32(x)*size, float32(y)*size+headerHeight,
				size, size, c, false)
		}
	}

	// Goal marker
	gx := (float32(maze.Goal.X) + 0.5) * size
	gy := (float32(maze.Goal.Y)+0.5)*size + headerHeight
	vector.DrawFilledCircle(screen, gx, gy, size*0.5, colorGoal, true)

	if g.ball != nil {
		ballColor := colorBall
		if g.phase == "finished" {
			ballColor = colorFinish
		}
		vector.DrawFilledCircle(screen,
			float32(g.ball.X), float32(g.ball.Y)+headerHeight,
			float32(g.ball.Radius), ballColor, true)
	}
}

// drawHeader renders session info, timer, and status hints.
func (g *Game) drawHeader(screen *ebiten.Image) {
	line := fmt.Sprintf("session %s | %s", g.sessionID, g.phase)
	switch g.phase {
	case "playing":
		line += fmt.Sprintf(" | %.2fs", g.elapsed)
	case "finished":
		line += fmt.Sprintf(" | FINISHED in %.2fs - SPACE to retry", g.finalTime)
	default:
		line += " | SPACE to start"
	}
	if g.errorMsg != "" {
		line += " | ERROR: " + g.errorMsg
	}
	ebitenutil.DebugPrintAt(screen, line, 10, 5)
	ebitenutil.DebugPrintAt(screen, "Arrows/WASD: tilt | SPACE: start/retry", 10, 20)
}

// Layout returns the fixed window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	sessionID := ""
	if len(os.Args) > 1 {
		sessionID = os.Args[1]
	}

	game, err := NewGame(sessionID)
	if err != nil {
		log.Fatal(err)
	}

	// Let the first state message land before the first draw
	time.Sleep(100 * time.Millisecond)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Tilt Maze")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
