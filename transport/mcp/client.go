package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tiltmaze/tilt-maze-game/game/engine"
	"github.com/tiltmaze/tilt-maze-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tilt Maze Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tilt Maze Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Roll the ball (o) from the start of a randomly generated maze to the goal (G) as fast as possible. The final time in seconds is your result.

AVAILABLE TOOLS:
- create_session: Create a new game session
- get_session: Get session details
- list_sessions: List all active sessions
- delete_session: Remove a session
- start_game: Begin (or retry) a run; use mode "manual" for tool-driven play
- steer: Set the tilt input vector (ix, iy in [-1, 1]) - requires intent explanation
- advance: Advance the simulation by N frames in manual mode - requires intent explanation
- game_state: Get current game state with an ASCII maze view
- list_configs: List available configurations
- game_instructions: Get comprehensive game instructions

NOTE: The 'intent' parameter on steer/advance tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to delete",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a new run (or retry after a finish). Mode 'manual' pauses between advance calls; mode 'realtime' runs a live clock and suits human spectators, not tool-driven play.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"manual", "realtime"},
					"description": "Scheduling mode (default: manual)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "steer",
		Description: "Set the tilt input vector. Components are clamped to [-1, 1]; positive ix tilts right, positive iy tilts down. The input persists until changed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"ix": map[string]interface{}{
					"type":        "number",
					"description": "Horizontal tilt in [-1, 1]",
				},
				"iy": map[string]interface{}{
					"type":        "number",
					"description": "Vertical tilt in [-1, 1]",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this steering change (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "ix", "iy"},
		},
	}, c.handleSteer)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance",
		Description: "Advance a manual-mode run by N frames at the configured tick rate (capped at 600 per call). Stops early on the finish frame.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"frames": map[string]interface{}{
					"type":        "integer",
					"description": "Number of frames to advance (60 = one second at default tick rate)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this advance (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "frames"},
		},
	}, c.handleAdvance)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with an ASCII maze view ('#' wall, '.' path, 'G' goal, 'o' ball)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nCall start_game to generate the maze and begin.\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase := ""
		if s.GameState != nil {
			phase = string(s.GameState.Phase)
		}
		result += fmt.Sprintf("- %s (Config: %s, Phase: %s, Created: %s)\n",
			s.ID, s.ConfigName, phase, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	err := c.apiCall("DELETE", fmt.Sprintf("/api/sessions/%s", sessionID), nil, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %s deleted", sessionID)), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	mode, _ := args["mode"].(string)

	body := map[string]interface{}{
		"realtime": mode == "realtime",
	}

	var result service.StartResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/start", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Run started (mode: %s, tick rate: %d Hz)\n\n%s",
		modeName(result.Realtime), result.TickHz, formatGameState(result.GameState))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleSteer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	ix, _ := args["ix"].(float64)
	iy, _ := args["iy"].(float64)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]float64{"ix": ix, "iy": iy}
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/input", sessionID), body, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Input set to (%.2f, %.2f)\n%s", ix, iy, describeTilt(ix, iy))), nil
}

func (c *Client) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	frames := 60
	if f, ok := args["frames"].(float64); ok {
		frames = int(f)
	}
	intent, _ := args["intent"].(string)
	_ = intent

	body := map[string]int{"frames": frames}

	var result service.AdvanceResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/advance", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatAdvanceResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (config_id: %s)\n  %s\n  Maze: %dx%d cells of %.0fpx, tick rate: %d Hz\n\n",
			config.Name, config.ConfigID, config.Description,
			config.Cols, config.Rows, config.CellSize, config.TickHz)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Tilt Maze Game - Complete Instructions

GAME OBJECTIVE:
Roll the ball from the top-left corridor of a randomly generated maze to the goal. The run is timed; reaching the goal records your final time in seconds (two decimals).

GAME MECHANICS:
• The maze is a perfect maze: exactly one route connects any two open cells, with no loops.
• You steer by tilting: the input vector (ix, iy) accelerates the ball each frame.
• Friction damps the ball every frame, so speed saturates; releasing the tilt lets it coast to a stop.
• Walls are solid. The ball bounces off them with half its impact speed.
• The run finishes when the ball center comes within half a cell of the goal center.

MAZE LEGEND (game_state output):
• # - Wall cell (impassable)
• . - Path cell (open corridor)
• o - Ball's current cell
• G - Goal cell

TOOL-DRIVEN PLAY (manual mode):
1. create_session, then start_game with mode "manual".
2. Read the maze from game_state and plan a route through the corridors.
3. steer sets the tilt; it persists until you change it.
4. advance runs the simulation: 60 frames = 1 second at the default tick rate.
5. Alternate steer/advance down each corridor leg, checking game_state at turns.

STEERING TIPS:
• The ball accelerates gradually; short advance calls (15-30 frames) give finer control near junctions.
• Zero the tilt (steer 0, 0) before a turn so friction brakes the ball, then tilt into the new corridor.
• Overshooting a junction costs time on the bounce; approach turns slowly.
• Corridors are one cell wide. A diagonal tilt drags the ball along a wall; prefer cardinal tilts except when hugging a corner.

MODES:
• manual: the simulation only moves during advance calls. Time advances with the frames, so fewer wasted frames means a better final time.
• realtime: a live 60 Hz clock drives the session and frames stream over the websocket. Intended for human spectators; not useful for tool-driven play.

RETRY:
start_game works from any phase. It generates a fresh maze, resets the clock, and puts the ball back at the start.

SESSION MANAGEMENT:
• Multiple sessions can run simultaneously, each with a unique 4-character ID.
• Sessions expire after an hour of inactivity.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func modeName(realtime bool) string {
	if realtime {
		return "realtime"
	}
	return "manual"
}

func describeTilt(ix, iy float64) string {
	if ix == 0 && iy == 0 {
		return "Tilt released; friction will brake the ball."
	}
	var parts []string
	if ix > 0 {
		parts = append(parts, "right")
	} else if ix < 0 {
		parts = append(parts, "left")
	}
	if iy > 0 {
		parts = append(parts, "down")
	} else if iy < 0 {
		parts = append(parts, "up")
	}
	return "Tilting " + strings.Join(parts, "+") + "."
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Phase: %s | Elapsed: %.2fs", state.Phase, state.ElapsedSeconds))
	if state.Phase == engine.PhaseFinished {
		result.WriteString(fmt.Sprintf(" | Final time: %.2fs", state.FinalElapsedSeconds))
	}
	result.WriteString("\n")

	if state.Ball != nil {
		result.WriteString(fmt.Sprintf("Ball: pos=(%.1f, %.1f) vel=(%.2f, %.2f) input=(%.2f, %.2f)\n",
			state.Ball.X, state.Ball.Y, state.Ball.VX, state.Ball.VY,
			state.Input.IX, state.Input.IY))
	}

	if state.Maze == nil {
		result.WriteString("\nNo maze yet; call start_game to begin.")
		return result.String()
	}

	result.WriteString(fmt.Sprintf("Maze: %dx%d, cell size %.0fpx\n\n",
		state.Maze.Cols, state.Maze.Rows, state.Maze.CellSize))
	result.WriteString(formatMaze(state))

	return result.String()
}

// formatMaze renders the layout with the ball's current cell overlaid as
// 'o' and the goal as 'G'
func formatMaze(state *engine.GameState) string {
	ballCol, ballRow := -1, -1
	if state.Ball != nil {
		ballCol = int(math.Floor(state.Ball.X / state.Maze.CellSize))
		ballRow = int(math.Floor(state.Ball.Y / state.Maze.CellSize))
	}

	var b strings.Builder
	for y, row := range state.Maze.Layout {
		for x, ch := range row {
			switch {
			case x == ballCol && y == ballRow:
				b.WriteString("o")
			case x == state.Maze.Goal.X && y == state.Maze.Goal.Y:
				b.WriteString("G")
			default:
				b.WriteString(string(ch))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatAdvanceResult(result *service.AdvanceResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Advanced %d/%d frames\n", result.FramesExecuted, result.FramesRequested))
	if result.Truncated {
		b.WriteString(fmt.Sprintf("Request truncated to the per-call limit of %d frames\n", result.Limit))
	}
	if result.Finished {
		b.WriteString(fmt.Sprintf("GOAL! Final time: %.2fs\n", result.FinalElapsedSeconds))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}
