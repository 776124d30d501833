// Package websocket implements a scene store that keeps scenes in process
// memory and mirrors every snapshot to a remote viewer server over a
// WebSocket.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nestorcad/viewercore/internal/config"
	"github.com/nestorcad/viewercore/internal/storage/memory"
	"github.com/nestorcad/viewercore/pkg/core"
)

// Message types exchanged with the scene server.
const (
	TypeHello = "hello"
	TypeScene = "scene"
	TypeBye   = "bye"
	TypeAck   = "ack"
)

// Envelope wraps every message sent to the server.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AckMessage is the server's reply to hello and bye.
type AckMessage struct {
	Type string `json:"type"`
	For  string `json:"for"`
}

// HelloPayload announces the client before any scene is sent.
type HelloPayload struct {
	Client string `json:"client"`
}

// Backend serves reads from a local memory store and pushes each SetScene
// to the server. It implements storage.Backend and storage.Lister.
type Backend struct {
	conn  *connection
	cfg   config.WebsocketConfig
	local *memory.Backend
	log   *slog.Logger
}

// New creates a new WebSocket scene backend.
func New(cfg config.WebsocketConfig, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("component", "storage.websocket")
	return &Backend{
		conn:  newConnection(log),
		cfg:   cfg,
		local: memory.New(config.MemoryConfig{}, log),
		log:   log,
	}
}

// Init connects and waits for the server to ack the hello.
func (b *Backend) Init() error {
	if err := b.local.Init(); err != nil {
		return err
	}
	if err := b.conn.dial(b.cfg.URL, b.cfg.Secret); err != nil {
		return err
	}
	data, err := marshalEnvelope(TypeHello, HelloPayload{Client: "viewercore"})
	if err != nil {
		return err
	}
	b.conn.remember("", data)
	if err := b.conn.sendAndWait(data, TypeHello, ackTimeout); err != nil {
		return err
	}
	b.log.Info("Connected to scene server", "url", b.cfg.URL)
	return nil
}

// Close waits for the server to ack a bye, which it sends after every
// queued scene, then disconnects.
func (b *Backend) Close() error {
	data, err := marshalEnvelope(TypeBye, nil)
	if err != nil {
		return err
	}
	if err := b.conn.sendAndWait(data, TypeBye, ackTimeout); err != nil {
		b.log.Warn("Scene server did not ack bye", "error", err)
	}
	return b.conn.close()
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
		}
		env.Payload = raw
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// GetScene returns the locally held snapshot.
func (b *Backend) GetScene(levelID string) (core.Scene, error) {
	return b.local.GetScene(levelID)
}

// SetScene stores scene locally and queues it for the server.
func (b *Backend) SetScene(levelID string, scene core.Scene) error {
	if err := b.local.SetScene(levelID, scene); err != nil {
		return err
	}
	stored, err := b.local.GetScene(levelID)
	if err != nil {
		return err
	}
	data, err := marshalEnvelope(TypeScene, stored)
	if err != nil {
		return err
	}
	b.conn.remember("scene:"+levelID, data)
	b.conn.send(data)
	return nil
}

// Levels lists the levels written through this backend.
func (b *Backend) Levels() ([]string, error) {
	return b.local.Levels()
}
