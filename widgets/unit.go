// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package widgets provides headless, unit-aware value widgets. Each widget
// follows the unit selected for its quantity in the selection node of a
// scene, and updates its step, decimals, range, prefix and suffix when that
// unit changes.
package widgets

import (
	"cogentcore.org/mrml/events"
	"cogentcore.org/mrml/mrml"
)

// unitTracker follows the unit node selected for one quantity.
// It is embedded in every unit-aware widget.
type unitTracker struct {
	scene     *mrml.Scene
	quantity  string
	selection *mrml.SelectionNode

	sceneHandles []events.Handle
	selHandle    events.Handle

	// apply is called with the unit whenever it changes.
	apply func(u *mrml.UnitNode)

	// sceneChanged is called after the scene changed.
	sceneChanged func()
}

// Scene returns the scene of the widget, or nil.
func (ut *unitTracker) Scene() *mrml.Scene {
	return ut.scene
}

// Quantity returns the quantity followed by the widget.
func (ut *unitTracker) Quantity() string {
	return ut.quantity
}

// Unit returns the unit node currently selected for the quantity, or nil.
func (ut *unitTracker) Unit() *mrml.UnitNode {
	if ut.selection == nil || ut.quantity == "" {
		return nil
	}
	return ut.selection.UnitNode(ut.quantity)
}

// setScene connects the tracker to the given scene, or disconnects
// it if s is nil.
func (ut *unitTracker) setScene(s *mrml.Scene) {
	if s == ut.scene {
		return
	}
	if ut.scene != nil {
		for _, h := range ut.sceneHandles {
			ut.scene.RemoveObserver(h)
		}
		ut.sceneHandles = nil
	}
	ut.scene = s
	if s != nil {
		reconnect := func(ev *events.Event) {
			if s.IsBatchProcessing() && ev.Type != events.EndImport && ev.Type != events.EndClose {
				return
			}
			ut.reconnect()
		}
		for _, typ := range []events.Types{events.NodeAdded, events.NodeRemoved, events.EndImport, events.EndClose} {
			ut.sceneHandles = append(ut.sceneHandles, s.AddObserver(typ, reconnect))
		}
	}
	ut.reconnect()
	if ut.sceneChanged != nil {
		ut.sceneChanged()
	}
}

// setQuantity sets the quantity followed by the tracker.
func (ut *unitTracker) setQuantity(q string) {
	if q == ut.quantity {
		return
	}
	ut.quantity = q
	ut.update()
}

// reconnect observes the selection node of the scene, which can
// be added to or removed from the scene at any time.
func (ut *unitTracker) reconnect() {
	var sel *mrml.SelectionNode
	if ut.scene != nil {
		sel, _ = ut.scene.NthNodeByClass(0, "SelectionNode").(*mrml.SelectionNode)
	}
	if sel == ut.selection {
		return
	}
	if ut.selection != nil {
		ut.selection.RemoveObserver(ut.selHandle)
		ut.selHandle = 0
	}
	ut.selection = sel
	if sel != nil {
		ut.selHandle = sel.AddObserver(events.UnitModified, func(ev *events.Event) {
			if q, ok := ev.Data.(string); ok && q != ut.quantity {
				return
			}
			ut.update()
		})
	}
	ut.update()
}

// update applies the current unit, if any.
func (ut *unitTracker) update() {
	u := ut.Unit()
	if u == nil || ut.apply == nil {
		return
	}
	ut.apply(u)
}
