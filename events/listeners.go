// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

// Handle identifies one observer registration on a [Bus]
// so that it can be removed later. The zero Handle is never
// returned by [Bus.AddObserver].
type Handle uint64

// observer is one registration on a bus.
type observer struct {
	handle Handle
	typ    Types
	fun    func(ev *Event)

	// removed is set when the observer is removed during
	// a dispatch that already captured it.
	removed bool
}

// Bus is a per-object publish / subscribe list of observer functions.
// Observers are closures with all context captured, registered on
// specific objects for specific event types (or [AnyEvent]).
//
// Observers are called synchronously in the goroutine that calls
// [Bus.Emit], in the order in which they were added, with [AnyEvent]
// observers interleaved in that same order. There is no locking:
// a Bus belongs to the single mutator of the object that owns it.
// The zero value is ready to use.
type Bus struct {
	observers []*observer
	last      Handle
}

// AddObserver adds the given function to be called for events of the
// given type, returning a handle that can be passed to [Bus.RemoveObserver].
func (b *Bus) AddObserver(typ Types, fun func(ev *Event)) Handle {
	b.last++
	b.observers = append(b.observers, &observer{handle: b.last, typ: typ, fun: fun})
	return b.last
}

// RemoveObserver removes the observer with the given handle.
// It returns false if there is no such observer. An observer
// removed during a dispatch is not called for the rest of it.
func (b *Bus) RemoveObserver(h Handle) bool {
	for i, ob := range b.observers {
		if ob.handle == h {
			ob.removed = true
			b.observers = append(b.observers[:i:i], b.observers[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllObservers removes every observer from the bus.
func (b *Bus) RemoveAllObservers() {
	for _, ob := range b.observers {
		ob.removed = true
	}
	b.observers = nil
}

// HasObserver returns whether any observer is registered for
// the given type, not counting [AnyEvent] observers unless typ
// is itself AnyEvent.
func (b *Bus) HasObserver(typ Types) bool {
	for _, ob := range b.observers {
		if ob.typ == typ {
			return true
		}
	}
	return false
}

// NumObservers returns the total number of registered observers.
func (b *Bus) NumObservers() int {
	return len(b.observers)
}

// Emit calls every observer registered for the type of the given
// event or for [AnyEvent], in subscription order. Observers added
// during the dispatch are not called for this event.
func (b *Bus) Emit(ev *Event) {
	if len(b.observers) == 0 {
		return
	}
	// the list can change while observers run, so we dispatch over a snapshot
	obs := make([]*observer, len(b.observers))
	copy(obs, b.observers)
	for _, ob := range obs {
		if ob.removed {
			continue
		}
		if ob.typ != AnyEvent && ob.typ != ev.Type {
			continue
		}
		ob.fun(ev)
	}
}
