// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package widgets

import (
	"strings"
	"testing"

	"cogentcore.org/mrml/events"
	"cogentcore.org/mrml/logic/units"
	"cogentcore.org/mrml/mrml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnitsScene(t *testing.T) (*mrml.Scene, *units.Logic) {
	t.Helper()
	s := mrml.NewScene()
	l := units.NewLogic()
	l.SetScene(s)
	m := l.UnitByName("Meter")
	require.NotNil(t, m)
	l.SetDefaultUnit("length", m.ID)
	return s, l
}

func TestSpinBoxFollowsUnit(t *testing.T) {
	s, l := newUnitsScene(t)
	sb := NewSpinBox().SetQuantity("length").SetScene(s)
	assert.True(t, sb.Enabled)
	assert.Equal(t, 0.001, sb.Step)
	assert.Equal(t, 3, sb.Decimals)
	assert.Equal(t, "m", sb.Suffix)
	assert.Equal(t, "", sb.Prefix)
	assert.Equal(t, -10000.0, sb.Min)
	assert.Equal(t, 10000.0, sb.Max)

	sb.SetValue(1.23456)
	assert.Equal(t, 1.235, sb.Value)
	assert.Equal(t, "1.235m", sb.String())

	l.SetDefaultUnit("length", l.UnitByName("Millimeter").ID)
	assert.Equal(t, "mm", sb.Suffix)

	// a change of the selected unit itself is followed too
	mm := l.UnitByName("Millimeter")
	mm.SetPrecision(1)
	assert.Equal(t, 1, sb.Decimals)
	assert.Equal(t, 0.1, sb.Step)
	assert.Equal(t, 1.2, sb.Value)
}

func TestSpinBoxOtherQuantity(t *testing.T) {
	s, l := newUnitsScene(t)
	sb := NewSpinBox().SetQuantity("time").SetScene(s)
	assert.Equal(t, 1.0, sb.Step)
	assert.Equal(t, "", sb.Suffix)

	l.SetDefaultUnit("time", l.UnitByName("Second").ID)
	assert.Equal(t, "s", sb.Suffix)
	sb.SetQuantity("length")
	assert.Equal(t, "m", sb.Suffix)
}

func TestSpinBoxWithoutScene(t *testing.T) {
	sb := NewSpinBox().SetScene(nil)
	assert.True(t, sb.Enabled)

	s, _ := newUnitsScene(t)
	sb.SetQuantity("length").SetScene(s)
	assert.Equal(t, "m", sb.Suffix)
	sb.SetScene(nil)
	assert.False(t, sb.Enabled)
	assert.Nil(t, sb.Scene())
	assert.Nil(t, sb.Unit())
	assert.False(t, s.NthNodeByClass(0, "SelectionNode").AsNode().HasObserver(events.UnitModified))
}

func TestSpinBoxChange(t *testing.T) {
	sb := NewSpinBox()
	var got []float64
	sb.OnChange(func(v float64) { got = append(got, v) })
	sb.SetValue(5)
	sb.SetValue(5)
	sb.StepBy(2)
	sb.SetValue(1000)
	assert.Equal(t, []float64{5, 7, 99.99}, got)
	sb.SetRange(10, 20)
	assert.Equal(t, 20.0, sb.Value)
}

func TestSpinBoxSelectionAddedLater(t *testing.T) {
	s := mrml.NewScene()
	sb := NewSpinBox().SetQuantity("length").SetScene(s)
	assert.Nil(t, sb.Unit())

	l := units.NewLogic()
	l.SetScene(s)
	l.SetDefaultUnit("length", l.UnitByName("Centimeter").ID)
	assert.Equal(t, "cm", sb.Suffix)
}

func TestSpinBoxAfterImport(t *testing.T) {
	s, l := newUnitsScene(t)
	sb := NewSpinBox().SetQuantity("length").SetScene(s)

	u := l.AddUnitNode("Inch", "length", "", "in", 2, 0, 100)
	var b strings.Builder
	l.SetDefaultUnit("length", u.ID)
	require.NoError(t, s.Commit(&b))
	assert.Equal(t, "in", sb.Suffix)

	require.NoError(t, s.Connect(strings.NewReader(b.String())))
	assert.Equal(t, "in", sb.Suffix)
	assert.Equal(t, 0.01, sb.Step)
	assert.Equal(t, 100.0, sb.Max)
}

func TestSlider(t *testing.T) {
	s, _ := newUnitsScene(t)
	sr := NewSlider().SetQuantity("length").SetScene(s)
	assert.Equal(t, 0.001, sr.Step)
	assert.Equal(t, "m", sr.Suffix)

	sr.SetRange(0, 10)
	sr.SetPosition(0.25)
	assert.Equal(t, 2.5, sr.Value)
	assert.Equal(t, 0.25, sr.Position())
	sr.PageBy(1)
	assert.Equal(t, 10.0, sr.Value)
	sr.SetScene(nil)
	assert.False(t, sr.Enabled)
}

func TestCoordinates(t *testing.T) {
	s, _ := newUnitsScene(t)
	co := NewCoordinates().SetQuantity("length").SetScene(s)
	assert.Equal(t, 3, co.Dimension())
	assert.Equal(t, 0.001, co.Step)

	n := 0
	co.OnChange(func(v []float64) { n++ })
	co.SetCoordinates(1.00049, 2, 3, 4)
	assert.Equal(t, []float64{1, 2, 3}, co.Values)
	assert.Equal(t, 1, n)
	co.SetCoordinates(1)
	assert.Equal(t, 1, n)
	assert.Equal(t, "1.000m, 2.000m, 3.000m", co.String())

	co.SetDimension(2)
	assert.Equal(t, []float64{1, 2}, co.Values)
}

func TestUnitsForm(t *testing.T) {
	s, l := newUnitsScene(t)
	uf := NewUnitsForm().SetScene(s)
	assert.Equal(t, []string{"length", "time"}, uf.Quantities())
	assert.Equal(t, "Length", QuantityLabel("length"))

	uf.SetCurrent(l.UnitByName("Meter"))
	assert.False(t, uf.Editable())
	assert.False(t, uf.SetSuffix("M"))
	assert.Equal(t, "m", l.UnitByName("Meter").Suffix)

	u := l.AddUnitNode("Foot", "length", "", "ft", 2, -100, 100)
	uf.SetCurrent(u)
	assert.True(t, uf.Editable())
	assert.True(t, uf.SetSuffix("'"))
	assert.True(t, uf.SetPrecision(4))
	assert.True(t, uf.SetMaximum(200))
	assert.False(t, uf.SetMinimum(-100.0000001))
	assert.Equal(t, "'", u.Suffix)
	assert.Equal(t, 4, u.Precision)
	assert.Equal(t, 200.0, u.MaximumValue)

	require.NoError(t, s.RemoveNode(u))
	assert.Nil(t, uf.Current())

	uf.SetCurrent(mrml.NewUnitNode())
	assert.Nil(t, uf.Current())
}
