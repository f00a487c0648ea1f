// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package remote streams scene events to remote viewers over websockets.
package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/mrml/events"
	"cogentcore.org/mrml/mrml"
	"github.com/gorilla/websocket"
)

// Message is the JSON form of one scene event sent to clients.
type Message struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Class string `json:"class,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Client is one connected websocket viewer.
type Client struct {
	ID   string
	Send chan []byte
	Conn *websocket.Conn
}

// Hub fans scene events out to its clients. The scene side
// ([Hub.Attach] and the observers it installs) runs on the scene's
// mutator goroutine; client bookkeeping runs in [Hub.Run].
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	broadcast chan []byte
	done      chan struct{}
	clients   map[*Client]bool
	nclients  atomic.Int32

	scene       *mrml.Scene
	sceneHandle events.Handle
	nodeHandles map[mrml.Node]events.Handle
}

// NewHub returns a new hub that is not yet attached to a scene.
func NewHub() *Hub {
	return &Hub{
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		broadcast:   make(chan []byte, 256),
		done:        make(chan struct{}),
		clients:     map[*Client]bool{},
		nodeHandles: map[mrml.Node]events.Handle{},
	}
}

// Run processes client registrations and broadcasts until ctx is done,
// at which point all clients are closed. Run must only be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.Register:
			h.clients[c] = true
			h.nclients.Add(1)
			slog.Debug("remote client connected", "client", c.ID)
		case c := <-h.Unregister:
			if h.clients[c] {
				h.drop(c)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.Send <- msg:
				default:
					slog.Warn("dropping slow remote client", "client", c.ID)
					h.drop(c)
				}
			}
		}
	}
}

// add registers the client, returning false if the hub has stopped.
func (h *Hub) add(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.Send)
	h.nclients.Add(-1)
}

// NumClients returns the number of registered clients.
// It is safe to call from any goroutine.
func (h *Hub) NumClients() int {
	return int(h.nclients.Load())
}

// Attach starts forwarding the events of the given scene, and of the nodes
// in it, detaching from any previous scene. It must be called on the
// scene's mutator goroutine. A nil scene only detaches.
func (h *Hub) Attach(s *mrml.Scene) {
	h.detach()
	h.scene = s
	if s == nil {
		return
	}
	for _, n := range s.Nodes() {
		h.observeNode(n)
	}
	h.sceneHandle = s.AddObserver(events.AnyEvent, func(ev *events.Event) {
		n, _ := ev.Data.(mrml.Node)
		switch ev.Type {
		case events.NodeAdded:
			h.observeNode(n)
		case events.NodeRemoved:
			h.unobserveNode(n)
		}
		h.Send(ev.Type, n)
	})
}

func (h *Hub) detach() {
	if h.scene == nil {
		return
	}
	h.scene.RemoveObserver(h.sceneHandle)
	for n, hd := range h.nodeHandles {
		n.AsNode().RemoveObserver(hd)
	}
	clear(h.nodeHandles)
	h.scene = nil
}

func (h *Hub) observeNode(n mrml.Node) {
	if n == nil || h.nodeHandles[n] != 0 {
		return
	}
	h.nodeHandles[n] = n.AsNode().AddObserver(events.Modified, func(ev *events.Event) {
		h.Send(ev.Type, n)
	})
}

func (h *Hub) unobserveNode(n mrml.Node) {
	hd, ok := h.nodeHandles[n]
	if !ok {
		return
	}
	n.AsNode().RemoveObserver(hd)
	delete(h.nodeHandles, n)
}

// Send queues a message for the given event type about the given node,
// which may be nil. If the queue is full the message is dropped.
func (h *Hub) Send(typ events.Types, n mrml.Node) {
	m := Message{Type: typ.String()}
	if n != nil {
		nb := n.AsNode()
		m.ID = nb.ID
		m.Class = n.ClassName()
		m.Name = nb.Name
	}
	b, err := json.Marshal(m)
	if errors.Log(err) != nil {
		return
	}
	select {
	case h.broadcast <- b:
	default:
		slog.Warn("remote broadcast queue full, dropping message", "type", m.Type)
	}
}
