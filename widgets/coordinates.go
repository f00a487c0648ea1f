// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package widgets

import (
	"slices"
	"strings"

	"cogentcore.org/mrml/mrml"
)

// Coordinates edits a point, with one spin box per dimension, all
// following the unit selected for the same quantity.
type Coordinates struct {
	unitTracker
	Number

	// Values are the coordinates, one per dimension.
	Values []float64

	onChange []func(values []float64)
}

// NewCoordinates returns new coordinates with the given number of
// dimensions, which defaults to 3.
func NewCoordinates(dims ...int) *Coordinates {
	n := 3
	if len(dims) > 0 {
		n = max(dims[0], 1)
	}
	co := &Coordinates{Values: make([]float64, n)}
	co.Number.init()
	co.apply = func(u *mrml.UnitNode) {
		co.applyUnit(u)
		co.SetCoordinates(co.Values...)
	}
	co.sceneChanged = func() {
		co.Enabled = co.Enabled && co.scene != nil
	}
	return co
}

// SetScene sets the scene whose selected unit the coordinates follow.
// A nil scene disables them.
func (co *Coordinates) SetScene(s *mrml.Scene) *Coordinates {
	co.setScene(s)
	return co
}

// SetQuantity sets the quantity whose unit the coordinates follow.
func (co *Coordinates) SetQuantity(q string) *Coordinates {
	co.setQuantity(q)
	return co
}

// Dimension returns the number of coordinates.
func (co *Coordinates) Dimension() int {
	return len(co.Values)
}

// SetDimension sets the number of coordinates, keeping
// the leading ones and adding zeros.
func (co *Coordinates) SetDimension(n int) *Coordinates {
	vals := make([]float64, max(n, 1))
	copy(vals, co.Values)
	co.Values = vals
	return co.SetCoordinates(vals...)
}

// SetCoordinates sets the coordinates, each clamped to the range and
// rounded to the decimals. Missing coordinates are kept and extra ones
// are ignored. The change functions are called if any coordinate changed.
func (co *Coordinates) SetCoordinates(vals ...float64) *Coordinates {
	prev := slices.Clone(co.Values)
	copy(co.Values, vals)
	for i, v := range co.Values {
		co.Values[i] = co.fix(v)
	}
	if !slices.Equal(prev, co.Values) {
		for _, fun := range co.onChange {
			fun(slices.Clone(co.Values))
		}
	}
	return co
}

// OnChange adds a function called with the new coordinates
// whenever any of them changes.
func (co *Coordinates) OnChange(fun func(values []float64)) *Coordinates {
	co.onChange = append(co.onChange, fun)
	return co
}

// String returns the text of all spin boxes, separated by commas.
func (co *Coordinates) String() string {
	parts := make([]string, len(co.Values))
	for i, v := range co.Values {
		parts[i] = co.Text(v)
	}
	return strings.Join(parts, ", ")
}
