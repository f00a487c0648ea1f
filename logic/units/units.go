// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package units provides the logic of the units domain: it registers the
// unit node class in a scene, seeds the default units and selects the
// unit used for each quantity.
package units

import (
	"log/slog"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/mrml/events"
	"cogentcore.org/mrml/mrml"
)

// Unit describes one default unit.
type Unit struct {
	Name      string
	Quantity  string
	Prefix    string
	Suffix    string
	Precision int
}

// Defaults are the units added to every scene. They are not saved with
// the scene, and they are added again after the scene is cleared.
var Defaults = []Unit{
	{"Meter", "length", "", "m", 3},
	{"Centimeter", "length", "", "cm", 3},
	{"Millimeter", "length", "", "mm", 3},
	{"Micrometer", "length", "", "um", 3},
	{"Second", "time", "", "s", 3},
	{"Millisecond", "time", "", "ms", 3},
}

// Logic manages the unit nodes of a scene.
type Logic struct {
	scene  *mrml.Scene
	handle events.Handle
}

// NewLogic returns a new units logic that is not attached to any scene.
func NewLogic() *Logic {
	return &Logic{}
}

// Scene returns the scene of the logic, or nil.
func (l *Logic) Scene() *mrml.Scene {
	return l.scene
}

// SetScene attaches the logic to the given scene, which can be nil to
// detach it. The unit node class is registered in the scene, the
// selection node is created if needed, and the default units are added.
func (l *Logic) SetScene(s *mrml.Scene) {
	if s == l.scene {
		return
	}
	if l.scene != nil {
		l.scene.RemoveObserver(l.handle)
		l.handle = 0
	}
	l.scene = s
	if s == nil {
		return
	}
	s.RegisterNodeClass(mrml.NewUnitNode())
	l.SelectionNode()
	l.handle = s.AddObserver(events.EndClose, func(ev *events.Event) {
		if s.IsRestoring() {
			return
		}
		l.SelectionNode()
		l.AddDefaultUnits()
	})
	l.AddDefaultUnits()
}

// SelectionNode returns the selection node of the scene,
// adding one if there is none.
func (l *Logic) SelectionNode() *mrml.SelectionNode {
	if l.scene == nil {
		return nil
	}
	if sel, ok := l.scene.NthNodeByClass(0, "SelectionNode").(*mrml.SelectionNode); ok {
		return sel
	}
	n, err := l.scene.AddNode(mrml.NewSelectionNode())
	if errors.Log(err) != nil {
		return nil
	}
	return n.(*mrml.SelectionNode)
}

// AddUnitNode adds a unit node with the given properties to the scene and
// returns it. It returns nil if the logic has no scene.
func (l *Logic) AddUnitNode(name, quantity, prefix, suffix string, precision int, minValue, maxValue float64) *mrml.UnitNode {
	if l.scene == nil {
		return nil
	}
	u := mrml.NewUnitNode()
	u.Name = name
	u.Quantity = quantity
	u.Prefix = prefix
	u.Suffix = suffix
	u.Precision = max(precision, 0)
	u.MinimumValue = minValue
	u.MaximumValue = maxValue
	n, err := l.scene.AddNode(u)
	if errors.Log(err) != nil {
		return nil
	}
	return n.(*mrml.UnitNode)
}

// AddDefaultUnits adds the [Defaults] units to the scene.
func (l *Logic) AddDefaultUnits() {
	if l.scene == nil {
		return
	}
	def := mrml.NewUnitNode()
	for _, d := range Defaults {
		u := l.AddUnitNode(d.Name, d.Quantity, d.Prefix, d.Suffix, d.Precision, def.MinimumValue, def.MaximumValue)
		if u != nil {
			u.SetSaveWithScene(false)
		}
	}
	slog.Debug("units: added default units", "count", len(Defaults))
}

// SetDefaultUnit sets the unit node with the given ID as the unit
// used for the given quantity.
func (l *Logic) SetDefaultUnit(quantity, id string) {
	if quantity == "" {
		return
	}
	if sel := l.SelectionNode(); sel != nil {
		sel.SetUnitNodeID(quantity, id)
	}
}

// DefaultUnit returns the unit node used for the given quantity, or nil.
func (l *Logic) DefaultUnit(quantity string) *mrml.UnitNode {
	if sel := l.SelectionNode(); sel != nil {
		return sel.UnitNode(quantity)
	}
	return nil
}

// UnitNodes returns the unit nodes of the scene for the given quantity,
// or all of them if quantity is empty.
func (l *Logic) UnitNodes(quantity string) []*mrml.UnitNode {
	if l.scene == nil {
		return nil
	}
	var res []*mrml.UnitNode
	for _, u := range mrml.NodesOf[*mrml.UnitNode](l.scene) {
		if quantity == "" || u.Quantity == quantity {
			res = append(res, u)
		}
	}
	return res
}

// UnitByName returns the first unit node with the given name, or nil.
func (l *Logic) UnitByName(name string) *mrml.UnitNode {
	for _, u := range l.UnitNodes("") {
		if u.Name == name {
			return u
		}
	}
	return nil
}
