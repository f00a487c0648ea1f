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

// counter records the types of the events it observes.
type counter map[events.Types]int

func (c counter) observe(ev *events.Event) { c[ev.Type]++ }

func mustAdd[T Node](t *testing.T, s *Scene, n T) T {
	t.Helper()
	got, err := s.AddNode(n)
	require.NoError(t, err)
	return got.(T)
}

func TestAddNodeGeneratesIDs(t *testing.T) {
	s := NewScene()
	a := mustAdd(t, s, NewUnitNode())
	b := mustAdd(t, s, NewUnitNode())
	c := mustAdd(t, s, NewUnitNode())
	tr := mustAdd(t, s, NewLinearTransformNode())
	assert.Equal(t, "UnitNode1", a.ID)
	assert.Equal(t, "UnitNode2", b.ID)
	assert.Equal(t, "UnitNode3", c.ID)
	assert.Equal(t, "LinearTransformNode1", tr.ID)
	assert.Same(t, b, s.NodeByID("UnitNode2"))
	assert.Equal(t, 4, s.NumberOfNodes())
}

func TestIDReuse(t *testing.T) {
	s := NewScene()
	mustAdd(t, s, NewUnitNode())
	b := mustAdd(t, s, NewUnitNode())
	mustAdd(t, s, NewUnitNode())
	require.NoError(t, s.RemoveNode(b))
	assert.Nil(t, s.NodeByID("UnitNode2"))

	d := mustAdd(t, s, NewUnitNode())
	assert.Equal(t, "UnitNode2", d.ID)
	e := mustAdd(t, s, NewUnitNode())
	assert.Equal(t, "UnitNode4", e.ID)
}

func TestAddNodeErrors(t *testing.T) {
	s := NewScene()
	mustAdd(t, s, NewUnitNode())

	dup := NewUnitNode()
	dup.ID = "UnitNode1"
	_, err := s.AddNode(dup)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Nil(t, dup.Scene())

	_, err = s.AddNode(nil)
	assert.ErrorIs(t, err, ErrNilNode)

	other := NewScene()
	u := mustAdd(t, other, NewUnitNode())
	_, err = s.AddNode(u)
	assert.ErrorIs(t, err, ErrOtherScene)

	assert.ErrorIs(t, s.RemoveNode(NewUnitNode()), ErrNotFound)
	assert.ErrorIs(t, s.RemoveNode(u), ErrNotFound)
}

func TestPresetID(t *testing.T) {
	s := NewScene()
	u := NewUnitNode()
	u.ID = "MyUnit"
	mustAdd(t, s, u)
	assert.Same(t, u, s.NodeByID("MyUnit"))
}

func TestNthNodeByClass(t *testing.T) {
	s := NewScene()
	v := mustAdd(t, s, NewScalarVolumeNode())
	tr := mustAdd(t, s, NewLinearTransformNode())
	m := mustAdd(t, s, NewModelNode())

	assert.Same(t, v, s.NthNodeByClass(0, "DisplayableNode"))
	assert.Same(t, m, s.NthNodeByClass(1, "DisplayableNode"))
	assert.Nil(t, s.NthNodeByClass(2, "DisplayableNode"))
	assert.Equal(t, 3, s.NumberOfNodesByClass("TransformableNode"))
	assert.Same(t, tr, s.NthNodeByClass(0, "TransformNode"))
	assert.Equal(t, 3, s.NumberOfNodesByClass("Node"))
	assert.Nil(t, s.NthNodeByClass(0, "SelectionNode"))

	require.NoError(t, s.RemoveNode(v))
	assert.Same(t, m, s.NthNodeByClass(0, "DisplayableNode"))
	assert.True(t, IsA(m, "TransformableNode"))
	assert.False(t, IsA(m, "TransformNode"))
}

func TestNodesByName(t *testing.T) {
	s := NewScene()
	a := NewUnitNode()
	a.SetName("x")
	b := NewLinearTransformNode()
	b.SetName("x")
	mustAdd(t, s, a)
	mustAdd(t, s, b)
	mustAdd(t, s, NewUnitNode())
	assert.Equal(t, []Node{a, b}, s.NodesByName("x"))
	assert.Same(t, a, s.FirstNodeByName("x"))
	assert.Equal(t, []*LinearTransformNode{b}, NodesOf[*LinearTransformNode](s))
}

func TestSingletonOverwrite(t *testing.T) {
	s := NewScene()
	a := mustAdd(t, s, NewSelectionNode())
	mods := counter{}
	a.AddObserver(events.AnyEvent, mods.observe)

	b := NewSelectionNode()
	b.SetName("other")
	b.SetActiveVolumeID("Volume1")
	added := counter{}
	s.AddObserver(events.NodeAdded, added.observe)

	got, err := s.AddNode(b)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, "SelectionNode1", a.ID)
	assert.Equal(t, "other", a.Name)
	assert.Equal(t, "Volume1", a.ActiveVolumeID())
	assert.Equal(t, 1, mods[events.Modified])
	assert.Equal(t, 1, mods[events.ReferenceModified])
	assert.Equal(t, 0, added[events.NodeAdded])
	assert.Equal(t, 1, s.NumberOfNodesByClass("SelectionNode"))
	assert.Nil(t, b.Scene())
	assert.Same(t, a, s.SingletonNode("SelectionNode", SelectionSingletonTag))
	assert.Same(t, s, a.Scene())

	a.SetName("again")
	assert.Equal(t, 2, mods[events.Modified])
	require.NoError(t, s.RemoveNode(a))
	assert.Nil(t, s.SingletonNode("SelectionNode", SelectionSingletonTag))
}

func TestSingletonOverwriteReferences(t *testing.T) {
	s := NewScene()
	u := mustAdd(t, s, NewUnitNode())
	a := mustAdd(t, s, NewSelectionNode())
	a.SetUnitNodeID("length", u.ID)
	assert.Equal(t, []Node{a}, s.ReferencingNodes(u))

	b := NewSelectionNode()
	b.SetUnitNodeID("length", u.ID)
	b.SetActiveVolumeID("Volume1")
	_, err := s.AddNode(b)
	require.NoError(t, err)
	assert.Same(t, u, a.UnitNode("length"))
	assert.Equal(t, "Volume1", a.ActiveVolumeID())
	assert.Equal(t, []Node{a}, s.ReferencingNodes(u))
	assert.Nil(t, b.Scene())
	assert.Equal(t, "", b.ID)

	units := 0
	a.AddObserver(events.UnitModified, func(ev *events.Event) { units++ })
	u.SetSuffix("mm")
	assert.Equal(t, 1, units)

	_, err = s.AddNode(NewSelectionNode())
	require.NoError(t, err)
	assert.Equal(t, "", a.UnitNodeID("length"))
	assert.Equal(t, "", a.ActiveVolumeID())
	assert.Empty(t, s.ReferencingNodes(u))
	units = 0
	u.SetSuffix("cm")
	assert.Equal(t, 0, units)
}

func TestSingletonOverwriteView(t *testing.T) {
	s := NewScene()
	a := mustAdd(t, s, NewViewNode("Red"))
	mods := counter{}
	a.AddObserver(events.Modified, mods.observe)

	b := NewViewNode("Red")
	b.LayoutLabel = "R"
	got, err := s.AddNode(b)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, "ViewNode1", a.ID)
	assert.Equal(t, "R", a.LayoutLabel)
	assert.Same(t, s, a.Scene())
	assert.Equal(t, 1, mods[events.Modified])
	assert.True(t, a.HasObserver(events.Modified))
}

func TestSceneEvents(t *testing.T) {
	s := NewScene()
	var got []events.Types
	s.AddObserver(events.AnyEvent, func(ev *events.Event) { got = append(got, ev.Type) })
	u := mustAdd(t, s, NewUnitNode())
	require.NoError(t, s.RemoveNode(u))
	assert.Equal(t, []events.Types{events.NodeAdded, events.NodeAboutToBeRemoved, events.NodeRemoved}, got)
}

func TestRemoveNodeDestroysObservers(t *testing.T) {
	s := NewScene()
	u := mustAdd(t, s, NewUnitNode())
	n := 0
	u.AddObserver(events.Modified, func(ev *events.Event) { n++ })
	require.NoError(t, s.RemoveNode(u))
	u.SetSuffix("mm")
	assert.Equal(t, 0, n)
	assert.Nil(t, u.Scene())
}

func TestClear(t *testing.T) {
	s := NewScene()
	sel := mustAdd(t, s, NewSelectionNode())
	v := mustAdd(t, s, NewScalarVolumeNode())
	sel.SetActiveVolumeID(v.ID)
	mustAdd(t, s, NewLinearTransformNode())

	var got []events.Types
	s.AddObserver(events.AnyEvent, func(ev *events.Event) {
		if ev.Type == events.StartClose || ev.Type == events.EndClose {
			got = append(got, ev.Type)
			assert.Equal(t, ev.Type == events.StartClose, s.IsClosing())
		}
	})
	s.Clear(false)
	assert.Equal(t, []events.Types{events.StartClose, events.EndClose}, got)
	assert.Equal(t, 1, s.NumberOfNodes())
	assert.Same(t, sel, s.NodeByID("SelectionNode1"))
	assert.Equal(t, "", sel.ActiveVolumeID())
	assert.Equal(t, SelectionSingletonTag, sel.SingletonTag)

	s.Clear(true)
	assert.Equal(t, 0, s.NumberOfNodes())
}

func TestCopyNode(t *testing.T) {
	s := NewScene()
	u := NewUnitNode()
	u.SetName("mm")
	u.SetSuffix("mm")
	u.SetAttribute("k", "v")
	mustAdd(t, s, u)

	c := s.CopyNode(u).(*UnitNode)
	assert.Equal(t, "", c.ID)
	assert.Nil(t, c.Scene())
	assert.Equal(t, "mm", c.Suffix)
	assert.Equal(t, "mm", c.Name)
	c.SetAttribute("k", "w")
	v, _ := u.Attribute("k")
	assert.Equal(t, "v", v)

	mustAdd(t, s, c)
	assert.Equal(t, "UnitNode2", c.ID)
}

func TestModifiedBatching(t *testing.T) {
	u := NewUnitNode()
	n := 0
	u.AddObserver(events.Modified, func(ev *events.Event) { n++ })

	prev := u.StartModify()
	u.SetSuffix("mm")
	u.SetPrefix("~")
	inner := u.StartModify()
	u.SetPrecision(2)
	u.EndModify(inner)
	assert.Equal(t, 0, n)
	u.EndModify(prev)
	assert.Equal(t, 1, n)

	u.SetPrecision(2)
	assert.Equal(t, 1, n)
	u.SetPrecision(5)
	assert.Equal(t, 2, n)
}

func TestModifiedNotReentered(t *testing.T) {
	u := NewUnitNode()
	n := 0
	u.AddObserver(events.Modified, func(ev *events.Event) {
		n++
		u.SetName("changed in observer")
	})
	u.SetSuffix("mm")
	assert.Equal(t, 1, n)
	assert.Equal(t, "changed in observer", u.Name)
}

func TestClassChain(t *testing.T) {
	assert.Equal(t, []string{"LinearTransformNode", "TransformNode", "TransformableNode", "Node"}, ClassChain("LinearTransformNode"))
	assert.Equal(t, []string{"Unknown", "Node"}, ClassChain("Unknown"))
	assert.Equal(t, "Volume", ClassByName("ScalarVolumeNode").Tag)
	assert.Equal(t, "ModelDisplayNode", ClassByTag("ModelDisplay").Name)
	assert.IsType(t, &ViewNode{}, NewInstance(NewViewNode("Red")))
}
