// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package widgets

import (
	"cogentcore.org/mrml/mrml"
)

// Slider is a slider paired with a spin box, editing one value of a
// quantity in the unit selected for that quantity.
type Slider struct {
	unitTracker
	Number

	// Value is the current value, represented by the position of the thumb.
	Value float64

	// PageStep is the amount by which [Slider.PageBy] changes the value.
	// It is at least as big as [Number.Step].
	PageStep float64

	// lastValue is the value of the last change sent.
	lastValue float64

	onChange []func(value float64)
}

// NewSlider returns a new slider with the value 0.
func NewSlider() *Slider {
	sr := &Slider{}
	sr.Number.init()
	sr.PageStep = 10
	sr.apply = func(u *mrml.UnitNode) {
		sr.applyUnit(u)
		sr.PageStep = max(sr.PageStep, sr.Step)
		sr.SetValue(sr.Value)
	}
	sr.sceneChanged = func() {
		sr.Enabled = sr.Enabled && sr.scene != nil
	}
	return sr
}

// SetScene sets the scene whose selected unit the slider follows.
// A nil scene disables the slider.
func (sr *Slider) SetScene(s *mrml.Scene) *Slider {
	sr.setScene(s)
	return sr
}

// SetQuantity sets the quantity whose unit the slider follows.
func (sr *Slider) SetQuantity(q string) *Slider {
	sr.setQuantity(q)
	return sr
}

// SetValue sets the value, clamped to the range and rounded to the
// decimals, and calls the change functions if it changed.
func (sr *Slider) SetValue(v float64) *Slider {
	sr.Value = sr.fix(v)
	if sr.Value != sr.lastValue {
		sr.lastValue = sr.Value
		for _, fun := range sr.onChange {
			fun(sr.Value)
		}
	}
	return sr
}

// SetRange sets the minimum and maximum values.
func (sr *Slider) SetRange(lo, hi float64) *Slider {
	sr.Min, sr.Max = lo, max(lo, hi)
	return sr.SetValue(sr.Value)
}

// StepBy changes the value by the given number of steps.
func (sr *Slider) StepBy(steps int) *Slider {
	return sr.SetValue(sr.Value + float64(steps)*sr.Step)
}

// PageBy changes the value by the given number of page steps.
func (sr *Slider) PageBy(pages int) *Slider {
	return sr.SetValue(sr.Value + float64(pages)*max(sr.PageStep, sr.Step))
}

// Position returns the position of the thumb, from 0 at [Number.Min]
// to 1 at [Number.Max].
func (sr *Slider) Position() float64 {
	if sr.Max <= sr.Min {
		return 0
	}
	return (sr.Value - sr.Min) / (sr.Max - sr.Min)
}

// SetPosition sets the value from a thumb position between 0 and 1.
func (sr *Slider) SetPosition(pos float64) *Slider {
	pos = min(max(pos, 0), 1)
	return sr.SetValue(sr.Min + pos*(sr.Max-sr.Min))
}

// OnChange adds a function called with the new value whenever it changes.
func (sr *Slider) OnChange(fun func(value float64)) *Slider {
	sr.onChange = append(sr.onChange, fun)
	return sr
}

// String returns the text shown by the spin box of the slider.
func (sr *Slider) String() string {
	return sr.Text(sr.Value)
}
