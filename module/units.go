// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"cogentcore.org/mrml/logic/units"
	"cogentcore.org/mrml/mrml"
	"cogentcore.org/mrml/widgets"
)

// Units is the module that manages the unit nodes of the scene
// and the unit selected for each quantity.
type Units struct {
	Base

	// Logic is the units logic of the module.
	Logic *units.Logic
}

// NewUnits returns a new units module.
func NewUnits() *Units {
	u := &Units{Base: Base{Name: "Units", Title: "Units", Category: "Developer Tools"}, Logic: units.NewLogic()}
	u.This = u
	return u
}

func (u *Units) SetScene(s *mrml.Scene) {
	u.Logic.SetScene(s)
	u.Base.SetScene(s)
}

func (u *Units) CreateWidgetRepresentation() Widget {
	return &unitsWidget{widgets.NewUnitsForm()}
}

// Form returns the units form of the module, creating it if needed.
func (u *Units) Form() *widgets.UnitsForm {
	return u.WidgetRepresentation().(*unitsWidget).UnitsForm
}

// unitsWidget is the widget representation of the units module.
type unitsWidget struct {
	*widgets.UnitsForm
}

func (w *unitsWidget) SetScene(s *mrml.Scene) {
	w.UnitsForm.SetScene(s)
}
