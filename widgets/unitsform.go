// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package widgets

import (
	"math"
	"slices"

	"cogentcore.org/mrml/events"
	"cogentcore.org/mrml/mrml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnitsForm is the panel of the units module: it lists the unit nodes of
// a scene and edits the current one. Units that are not saved with the
// scene, such as the default units, are read only.
type UnitsForm struct {
	scene   *mrml.Scene
	current *mrml.UnitNode
	handle  events.Handle
}

// NewUnitsForm returns a new form without a scene.
func NewUnitsForm() *UnitsForm {
	return &UnitsForm{}
}

// Scene returns the scene of the form, or nil.
func (uf *UnitsForm) Scene() *mrml.Scene {
	return uf.scene
}

// SetScene sets the scene whose units the form edits.
func (uf *UnitsForm) SetScene(s *mrml.Scene) *UnitsForm {
	if s == uf.scene {
		return uf
	}
	if uf.scene != nil {
		uf.scene.RemoveObserver(uf.handle)
		uf.handle = 0
	}
	uf.scene = s
	uf.current = nil
	if s != nil {
		uf.handle = s.AddObserver(events.NodeAboutToBeRemoved, func(ev *events.Event) {
			if n, ok := ev.Data.(mrml.Node); ok && n == mrml.Node(uf.current) {
				uf.current = nil
			}
		})
	}
	return uf
}

// Units returns the unit nodes of the scene.
func (uf *UnitsForm) Units() []*mrml.UnitNode {
	if uf.scene == nil {
		return nil
	}
	return mrml.NodesOf[*mrml.UnitNode](uf.scene)
}

// Quantities returns the sorted quantities of the unit nodes of the scene.
func (uf *UnitsForm) Quantities() []string {
	var qs []string
	for _, u := range uf.Units() {
		if u.Quantity != "" && !slices.Contains(qs, u.Quantity) {
			qs = append(qs, u.Quantity)
		}
	}
	slices.Sort(qs)
	return qs
}

// QuantityLabel returns the label shown for the given quantity.
func QuantityLabel(quantity string) string {
	return cases.Title(language.English).String(quantity)
}

// Current returns the unit node being edited, or nil.
func (uf *UnitsForm) Current() *mrml.UnitNode {
	return uf.current
}

// SetCurrent sets the unit node being edited. It must be in the scene of the form.
func (uf *UnitsForm) SetCurrent(u *mrml.UnitNode) *UnitsForm {
	if u != nil && (uf.scene == nil || u.Scene() != uf.scene) {
		u = nil
	}
	uf.current = u
	return uf
}

// Editable returns whether the current unit node can be edited.
func (uf *UnitsForm) Editable() bool {
	return uf.current != nil && uf.current.SaveWithScene
}

// editable returns the current unit node if it can be edited, or nil.
func (uf *UnitsForm) editable() *mrml.UnitNode {
	if !uf.Editable() {
		return nil
	}
	return uf.current
}

// SetQuantity sets the quantity of the current unit. It returns
// whether the unit was edited.
func (uf *UnitsForm) SetQuantity(q string) bool {
	u := uf.editable()
	if u == nil || u.Quantity == q {
		return false
	}
	u.SetQuantity(q)
	return true
}

// SetPrefix sets the prefix of the current unit.
func (uf *UnitsForm) SetPrefix(p string) bool {
	u := uf.editable()
	if u == nil || u.Prefix == p {
		return false
	}
	u.SetPrefix(p)
	return true
}

// SetSuffix sets the suffix of the current unit.
func (uf *UnitsForm) SetSuffix(s string) bool {
	u := uf.editable()
	if u == nil || u.Suffix == s {
		return false
	}
	u.SetSuffix(s)
	return true
}

// SetPrecision sets the precision of the current unit.
func (uf *UnitsForm) SetPrecision(p int) bool {
	u := uf.editable()
	if u == nil || u.Precision == max(p, 0) {
		return false
	}
	u.SetPrecision(p)
	return true
}

// SetMinimum sets the minimum value of the current unit.
// Changes smaller than 1e-6 are ignored.
func (uf *UnitsForm) SetMinimum(v float64) bool {
	u := uf.editable()
	if u == nil || math.Abs(v-u.MinimumValue) < 1e-6 {
		return false
	}
	u.SetMinimumValue(v)
	return true
}

// SetMaximum sets the maximum value of the current unit.
// Changes smaller than 1e-6 are ignored.
func (uf *UnitsForm) SetMaximum(v float64) bool {
	u := uf.editable()
	if u == nil || math.Abs(v-u.MaximumValue) < 1e-6 {
		return false
	}
	u.SetMaximumValue(v)
	return true
}
