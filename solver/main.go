// Command solver is an autopilot for the Tilt Maze Game.
//
// It creates a session, starts a manual-mode run, plans a route to the
// goal with BFS over the maze layout, and steers the ball along the
// route using the input and advance endpoints until the run finishes.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"
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
	Cols     int      `json:"cols"`
	Rows     int      `json:"rows"`
	CellSize float64  `json:"cell_size"`
	Start    Point    `json:"start"`
	Goal     Point    `json:"goal"`
	Layout   []string `json:"layout"`
}

// Point is a cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameState mirrors the server's state JSON.
type GameState struct {
	Phase               string     `json:"phase"`
	ElapsedSeconds      float64    `json:"elapsed_seconds"`
	FinalElapsedSeconds float64    `json:"final_elapsed_seconds,omitempty"`
	Ball                *BallState `json:"ball,omitempty"`
	Maze                *MazeState `json:"maze,omitempty"`
	ConfigName          string     `json:"config_name"`
}

// AdvanceResult mirrors the advance endpoint response.
type AdvanceResult struct {
	FramesRequested     int        `json:"frames_requested"`
	FramesExecuted      int        `json:"frames_executed"`
	Finished            bool       `json:"finished"`
	FinalElapsedSeconds float64    `json:"final_elapsed_seconds,omitempty"`
	GameState           *GameState `json:"game_state"`
}

// Client is a thin REST client for the game server.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) post(path string, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+path, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("post %s failed: %s - %s", path, resp.Status, string(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse %s response: %w (body: %s)", path, err, string(data))
		}
	}
	return nil
}

func (c *Client) CreateSession(configID string) error {
	payload := map[string]string{}
	if configID != "" {
		payload["config_id"] = configID
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.post("/api/sessions", payload, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("server returned no session id")
	}
	c.sessionID = result.ID
	return nil
}

func (c *Client) StartManual() (*GameState, error) {
	var result struct {
		GameState *GameState `json:"game_state"`
	}
	path := fmt.Sprintf("/api/sessions/%s/start", c.sessionID)
	if err := c.post(path, map[string]bool{"realtime": false}, &result); err != nil {
		return nil, err
	}
	return result.GameState, nil
}

func (c *Client) SetInput(ix, iy float64) error {
	path := fmt.Sprintf("/api/sessions/%s/input", c.sessionID)
	return c.post(path, map[string]float64{"ix": ix, "iy": iy}, nil)
}

func (c *Client) Advance(frames int) (*AdvanceResult, error) {
	var result AdvanceResult
	path := fmt.Sprintf("/api/sessions/%s/advance", c.sessionID)
	if err := c.post(path, map[string]int{"frames": frames}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "solver",
		Usage: "autopilot that steers the maze ball to the goal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Value: "http://localhost:8080",
				Usage: "game server URL",
			},
			&cli.StringFlag{
				Name:  "config",
				Value: "",
				Usage: "maze configuration id (empty for server default)",
			},
			&cli.IntFlag{
				Name:  "batch",
				Value: 6,
				Usage: "frames to advance between steering updates",
			},
			&cli.IntFlag{
				Name:  "max-frames",
				Value: 30000,
				Usage: "give up after this many simulated frames",
			},
			&cli.BoolFlag{
				Name:  "v",
				Usage: "verbose steering output",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	serverURL := cmd.String("url")
	batch := int(cmd.Int("batch"))
	maxFrames := int(cmd.Int("max-frames"))
	verbose := cmd.Bool("v")

	log.Printf("Connecting to game server at %s", serverURL)
	client := NewClient(serverURL)

	if err := client.CreateSession(cmd.String("config")); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("Session created: %s", client.sessionID)

	state, err := client.StartManual()
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	if state == nil || state.Maze == nil || state.Ball == nil {
		return fmt.Errorf("start returned no maze state")
	}
	log.Printf("Maze: %dx%d cells, goal at (%d,%d)",
		state.Maze.Cols, state.Maze.Rows, state.Maze.Goal.X, state.Maze.Goal.Y)

	pilot, err := NewPilot(state.Maze)
	if err != nil {
		return err
	}
	log.Printf("Planned route: %d waypoints", len(pilot.waypoints))

	ball := state.Ball
	framesUsed := 0
	for framesUsed < maxFrames {
		ix, iy := pilot.Steer(ball)
		if err := client.SetInput(ix, iy); err != nil {
			return fmt.Errorf("failed to set input: %w", err)
		}

		result, err := client.Advance(batch)
		if err != nil {
			return fmt.Errorf("failed to advance: %w", err)
		}
		framesUsed += result.FramesExecuted

		if result.Finished {
			log.Printf("GOAL! Finished in %.2fs (%d frames simulated)",
				result.FinalElapsedSeconds, framesUsed)
			return nil
		}

		if result.GameState == nil || result.GameState.Ball == nil {
			return fmt.Errorf("advance returned no ball state")
		}
		ball = result.GameState.Ball

		if verbose && framesUsed%(batch*50) == 0 {
			log.Printf("frame %d: ball (%.1f,%.1f) vel (%.2f,%.2f) waypoint %d/%d",
				framesUsed, ball.X, ball.Y, ball.VX, ball.VY,
				pilot.index, len(pilot.waypoints))
		}
	}

	return fmt.Errorf("gave up after %d frames without reaching the goal", framesUsed)
}
