package api

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourusername/gammon/pkg/ai"
	"github.com/yourusername/gammon/pkg/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "moves", "evaluate", "bestmove", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
	done     chan struct{} // closed when writePump exits
}

// WebSocket handles WebSocket connections for real-time analysis.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &WSClient{
		conn:     conn,
		handlers: h,
		sendChan: make(chan WSResponse, 256),
		done:     make(chan struct{}),
	}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer close(c.done)
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// send queues a response for the writer, dropping it if the writer has
// already exited so the reader never blocks on a full buffer.
func (c *WSClient) send(msg WSResponse) {
	select {
	case c.sendChan <- msg:
	case <-c.done:
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "moves":
		c.handleMoves(msg)
	case "evaluate":
		c.handleEvaluate(msg)
	case "bestmove":
		c.handleBestMove(msg)
	case "ping":
		c.send(WSResponse{Type: "pong", ID: msg.ID})
	default:
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type"})
	}
}

func (c *WSClient) handleMoves(msg WSMessage) {
	var req MovesRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"})
		return
	}
	if !validDice(req.Dice) {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid dice"})
		return
	}
	s, err := parseState(req.Position, req.Turn)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid position"})
		return
	}
	moves := game.GenerateLegalMoves(s, req.Dice[:])
	resp := MovesResponse{Moves: make([]TurnMoveJSON, len(moves)), Count: len(moves)}
	for i, tm := range moves {
		resp.Moves[i] = TurnMoveToJSON(tm)
	}
	c.send(WSResponse{Type: "result", ID: msg.ID, Payload: resp})
}

func (c *WSClient) handleEvaluate(msg WSMessage) {
	var req EvaluateRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"})
		return
	}
	if req.Player != 0 && req.Player != 1 {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid player"})
		return
	}
	s, err := parseState(req.Position, req.Turn)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid position"})
		return
	}
	score := c.handlers.val.Evaluate(s, req.Player)
	c.send(WSResponse{Type: "result", ID: msg.ID, Payload: EvaluateResponse{Score: score}})
}

func (c *WSClient) handleBestMove(msg WSMessage) {
	var req BestMoveRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"})
		return
	}
	if !validDice(req.Dice) {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid dice"})
		return
	}
	s, err := parseState(req.Position, req.Turn)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid position"})
		return
	}

	opts := c.handlers.search
	if req.Iterations > 0 {
		opts.Iterations = req.Iterations
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	legal := game.GenerateLegalMoves(s, req.Dice[:])
	sel := ai.NewSelector(c.handlers.val, opts, rand.New(rand.NewSource(seed)))
	move, err := sel.SelectMove(s, legal)
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "search failed"})
		return
	}

	resp := BestMoveResponse{}
	if move != nil {
		tm := TurnMoveToJSON(move)
		resp.Move = &tm
		for _, sm := range move {
			s.Apply(sm)
		}
		resp.Score = c.handlers.val.Evaluate(s, req.Turn)
		for i := len(move) - 1; i >= 0; i-- {
			s.Undo(move[i])
		}
	}
	c.send(WSResponse{Type: "result", ID: msg.ID, Payload: resp})
}
