// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"math"
	"strconv"
)

// UnitNode describes how the values of a quantity, such as "length"
// or "time", are shown and edited: the prefix and suffix around the
// number, the number of decimals, and the range of allowed values.
type UnitNode struct {
	NodeBase

	// Quantity is the quantity measured by the unit, such as "length".
	Quantity string

	// Prefix is shown before values.
	Prefix string

	// Suffix is shown after values, such as "mm".
	Suffix string

	// Precision is the number of decimals shown.
	Precision int

	// MinimumValue is the smallest value allowed.
	MinimumValue float64

	// MaximumValue is the largest value allowed.
	MaximumValue float64
}

// NewUnitNode returns a new unit node with the default precision and range.
func NewUnitNode() *UnitNode {
	return InitNode(&UnitNode{})
}

// ClassName satisfies the [Node] interface.
func (u *UnitNode) ClassName() string { return "UnitNode" }

// Init sets the defaults of a new UnitNode.
func (u *UnitNode) Init() {
	u.NodeBase.Init()
	u.Precision = 3
	u.MinimumValue = -10000
	u.MaximumValue = 10000
}

// SetQuantity sets [UnitNode.Quantity].
func (u *UnitNode) SetQuantity(q string) {
	setField(&u.NodeBase, &u.Quantity, q)
}

// SetPrefix sets [UnitNode.Prefix].
func (u *UnitNode) SetPrefix(p string) {
	setField(&u.NodeBase, &u.Prefix, p)
}

// SetSuffix sets [UnitNode.Suffix].
func (u *UnitNode) SetSuffix(s string) {
	setField(&u.NodeBase, &u.Suffix, s)
}

// SetPrecision sets [UnitNode.Precision]. Negative values are clamped to 0.
func (u *UnitNode) SetPrecision(p int) {
	setField(&u.NodeBase, &u.Precision, max(p, 0))
}

// SetMinimumValue sets [UnitNode.MinimumValue].
func (u *UnitNode) SetMinimumValue(v float64) {
	setField(&u.NodeBase, &u.MinimumValue, v)
}

// SetMaximumValue sets [UnitNode.MaximumValue].
func (u *UnitNode) SetMaximumValue(v float64) {
	setField(&u.NodeBase, &u.MaximumValue, v)
}

// Step returns the smallest step between two shown values: 10^-precision.
func (u *UnitNode) Step() float64 {
	return math.Pow(10, -float64(u.Precision))
}

// Clamp returns the given value clamped to the range of the unit.
func (u *UnitNode) Clamp(v float64) float64 {
	return min(max(v, u.MinimumValue), u.MaximumValue)
}

// DisplayString returns the given value formatted with the
// precision, prefix and suffix of the unit.
func (u *UnitNode) DisplayString(v float64) string {
	s := strconv.FormatFloat(v, 'f', u.Precision, 64)
	if u.Prefix != "" {
		s = u.Prefix + " " + s
	}
	if u.Suffix != "" {
		s += " " + u.Suffix
	}
	return s
}

// WriteXML adds the UnitNode attributes to a.
func (u *UnitNode) WriteXML(a *XMLAttrs) {
	u.NodeBase.WriteXML(a)
	a.Set("quantity", u.Quantity)
	a.Set("prefix", u.Prefix)
	a.Set("suffix", u.Suffix)
	a.SetInt("precision", u.Precision)
	a.SetFloat("minimumValue", u.MinimumValue)
	a.SetFloat("maximumValue", u.MaximumValue)
}

// ReadXMLAttributes sets the UnitNode fields from a.
func (u *UnitNode) ReadXMLAttributes(a XMLAttrs) {
	u.NodeBase.ReadXMLAttributes(a)
	if s, ok := a.Get("quantity"); ok {
		u.Quantity = s
	}
	if s, ok := a.Get("prefix"); ok {
		u.Prefix = s
	}
	if s, ok := a.Get("suffix"); ok {
		u.Suffix = s
	}
	if v, ok := a.Int("precision"); ok {
		u.Precision = max(v, 0)
	}
	if v, ok := a.Float("minimumValue"); ok {
		u.MinimumValue = v
	}
	if v, ok := a.Float("maximumValue"); ok {
		u.MaximumValue = v
	}
}

func init() {
	RegisterClass(&Class{Name: "UnitNode", Tag: "Unit", New: func() Node { return NewUnitNode() }})
}
