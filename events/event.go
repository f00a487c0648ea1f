// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import "fmt"

// Event is one transient notification. Events are not persisted and
// are delivered synchronously, at most once per observer per emission.
type Event struct {

	// Type is the kind of event.
	Type Types

	// Sender is the object that emitted the event, typically
	// a scene node or the scene itself.
	Sender any

	// Data is optional call data; its meaning depends on [Event.Type].
	Data any
}

// New returns a new event of the given type sent by the given sender.
func New(typ Types, sender any, data any) *Event {
	return &Event{Type: typ, Sender: sender, Data: data}
}

func (ev *Event) String() string {
	return fmt.Sprintf("%v{Sender: %v, Data: %v}", ev.Type, ev.Sender, ev.Data)
}
