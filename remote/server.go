// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package remote

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// writeTimeout is how long a single websocket write may take.
const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server serves the websocket event stream of a [Hub].
type Server struct {
	Hub    *Hub
	Router *mux.Router
}

// NewServer returns a new server for the given hub with the
// /ws and /healthz routes installed.
func NewServer(h *Hub) *Server {
	s := &Server{Hub: h, Router: mux.NewRouter()}
	s.Router.HandleFunc("/ws", s.serveWS).Methods(http.MethodGet)
	s.Router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "err", err)
		return
	}
	c := &Client{ID: uuid.NewString(), Send: make(chan []byte, 256), Conn: conn}
	if !s.Hub.add(c) {
		conn.Close()
		return
	}
	go writePump(c)
	readPump(s.Hub, c)
}

// readPump discards incoming messages until the connection fails.
func readPump(h *Hub, c *Client) {
	defer func() {
		h.remove(c)
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.NextReader(); err != nil {
			return
		}
	}
}

// writePump writes queued messages until the hub closes the send channel.
func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Debug("remote write failed", "client", c.ID, "err", err)
			return
		}
	}
	c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
