// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"testing"

	"cogentcore.org/mrml/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitNode(t *testing.T) {
	u := NewUnitNode()
	assert.Equal(t, 3, u.Precision)
	assert.InDelta(t, 0.001, u.Step(), 1e-12)
	assert.Equal(t, -10000.0, u.MinimumValue)
	assert.Equal(t, 10000.0, u.MaximumValue)

	u.SetSuffix("mm")
	u.SetPrecision(1)
	assert.Equal(t, "12.3 mm", u.DisplayString(12.34))
	u.SetPrefix("~")
	assert.Equal(t, "~ 12.3 mm", u.DisplayString(12.34))
	assert.Equal(t, 10000.0, u.Clamp(1e9))
	u.SetPrecision(-2)
	assert.Equal(t, 0, u.Precision)
}

func TestSelectionUnitEvents(t *testing.T) {
	s := NewScene()
	sel := mustAdd(t, s, NewSelectionNode())
	u := NewUnitNode()
	u.SetQuantity("length")
	u.SetSuffix("m")
	mustAdd(t, s, u)

	var qs []string
	sel.AddObserver(events.UnitModified, func(ev *events.Event) { qs = append(qs, ev.Data.(string)) })

	sel.SetUnitNodeID("length", u.ID)
	assert.Equal(t, []string{"length"}, qs)
	assert.Same(t, u, sel.UnitNode("length"))
	assert.Equal(t, u.ID, sel.UnitNodeID("length"))

	sel.SetUnitNodeID("length", u.ID)
	assert.Len(t, qs, 1)

	u.SetPrecision(4)
	assert.Equal(t, []string{"length", "length"}, qs)

	require.NoError(t, s.RemoveNode(u))
	assert.Len(t, qs, 3)
	assert.Equal(t, "", sel.UnitNodeID("length"))
	assert.Empty(t, sel.Quantities())
}

func TestSelectionUnitForwardReference(t *testing.T) {
	s := NewScene()
	sel := mustAdd(t, s, NewSelectionNode())
	sel.SetUnitNodeID("time", "UnitNode1")
	assert.Nil(t, sel.UnitNode("time"))

	var qs []string
	sel.AddObserver(events.UnitModified, func(ev *events.Event) { qs = append(qs, ev.Data.(string)) })
	u := mustAdd(t, s, NewUnitNode())
	assert.Equal(t, []string{"time"}, qs)
	assert.Same(t, u, sel.UnitNode("time"))
}
