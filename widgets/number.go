// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package widgets

import (
	"math"
	"strconv"

	"cogentcore.org/mrml/mrml"
)

// Number holds a numeric value with its range, step and text format.
// It is the value model shared by [SpinBox], [Slider] and [Coordinates].
type Number struct {

	// Min is the minimum possible value.
	// It defaults to 0.
	Min float64

	// Max is the maximum possible value.
	// It defaults to 99.99.
	Max float64

	// Step is the amount by which [SpinBox.StepBy] changes the value.
	// It defaults to 1.
	Step float64

	// Decimals is the number of decimals shown, and values are
	// rounded to it. It defaults to 2.
	Decimals int

	// Prefix is shown before the value.
	Prefix string

	// Suffix is shown after the value.
	Suffix string

	// Enabled is whether the value can be edited. A unit-aware widget
	// without a scene is always disabled.
	Enabled bool
}

func (nm *Number) init() {
	nm.Max = 99.99
	nm.Step = 1
	nm.Decimals = 2
	nm.Enabled = true
}

// round rounds the given value to the decimals of the number.
func (nm *Number) round(v float64) float64 {
	p := math.Pow(10, float64(nm.Decimals))
	return math.Round(v*p) / p
}

// fix returns the given value clamped to the range and rounded to the decimals.
func (nm *Number) fix(v float64) float64 {
	return min(max(nm.round(v), nm.Min), nm.Max)
}

// Text returns the given value formatted with the decimals,
// prefix and suffix of the number.
func (nm *Number) Text(v float64) string {
	return nm.Prefix + strconv.FormatFloat(v, 'f', nm.Decimals, 64) + nm.Suffix
}

// applyUnit sets the step, decimals, range, prefix and suffix from the unit.
func (nm *Number) applyUnit(u *mrml.UnitNode) {
	nm.Decimals = u.Precision
	nm.Step = u.Step()
	nm.Min = u.MinimumValue
	nm.Max = u.MaximumValue
	nm.Prefix = u.Prefix
	nm.Suffix = u.Suffix
}
