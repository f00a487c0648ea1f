// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package widgets

import (
	"cogentcore.org/mrml/mrml"
)

// SpinBox edits one value of a quantity, such as a length, in the
// unit selected for that quantity.
type SpinBox struct {
	unitTracker
	Number

	// Value is the current value.
	Value float64

	// lastValue is the value of the last change sent.
	lastValue float64

	onChange []func(value float64)
}

// NewSpinBox returns a new spin box with the value 0.
func NewSpinBox() *SpinBox {
	sb := &SpinBox{}
	sb.Number.init()
	sb.apply = func(u *mrml.UnitNode) {
		sb.applyUnit(u)
		sb.SetValue(sb.Value)
	}
	sb.sceneChanged = func() {
		sb.Enabled = sb.Enabled && sb.scene != nil
	}
	return sb
}

// SetScene sets the scene whose selected unit the spin box follows.
// A nil scene disables the spin box.
func (sb *SpinBox) SetScene(s *mrml.Scene) *SpinBox {
	sb.setScene(s)
	return sb
}

// SetQuantity sets the quantity, such as "length", whose unit
// the spin box follows.
func (sb *SpinBox) SetQuantity(q string) *SpinBox {
	sb.setQuantity(q)
	return sb
}

// SetValue sets the value, clamped to the range and rounded to the
// decimals, and calls the change functions if it changed.
func (sb *SpinBox) SetValue(v float64) *SpinBox {
	sb.Value = sb.fix(v)
	sb.sendChange()
	return sb
}

// StepBy changes the value by the given number of steps.
func (sb *SpinBox) StepBy(steps int) *SpinBox {
	return sb.SetValue(sb.Value + float64(steps)*sb.Step)
}

// SetRange sets the minimum and maximum values.
func (sb *SpinBox) SetRange(lo, hi float64) *SpinBox {
	sb.Min, sb.Max = lo, max(lo, hi)
	return sb.SetValue(sb.Value)
}

// OnChange adds a function called with the new value whenever it changes.
func (sb *SpinBox) OnChange(fun func(value float64)) *SpinBox {
	sb.onChange = append(sb.onChange, fun)
	return sb
}

// String returns the text shown by the spin box.
func (sb *SpinBox) String() string {
	return sb.Text(sb.Value)
}

func (sb *SpinBox) sendChange() {
	if sb.Value == sb.lastValue {
		return
	}
	sb.lastValue = sb.Value
	for _, fun := range sb.onChange {
		fun(sb.Value)
	}
}
