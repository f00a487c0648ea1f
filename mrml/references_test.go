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

func TestLazyResolution(t *testing.T) {
	s := NewScene()
	v := mustAdd(t, s, NewScalarVolumeNode())
	v.SetAndObserveTransformNodeID("LinearTransformNode1")
	assert.Equal(t, "LinearTransformNode1", v.TransformNodeID())
	assert.Nil(t, v.ParentTransformNode())
	assert.Nil(t, v.ReferencedNode(TransformNodeReferenceRole))

	tr := mustAdd(t, s, NewLinearTransformNode())
	assert.Same(t, tr, v.ParentTransformNode())
	assert.Same(t, tr, v.ReferencedNode(TransformNodeReferenceRole))
	assert.Equal(t, []Node{v}, s.ReferencingNodes(tr))
}

func TestStandaloneReferences(t *testing.T) {
	n := NewNodeBase()
	n.SetNodeReferenceID("r", "X")
	assert.Equal(t, "X", n.NodeReferenceID("r"))
	assert.Nil(t, n.ReferencedNode("r"))
	assert.Equal(t, []string{"r"}, n.ReferenceRoles())
}

func TestReferenceModifiedOncePerCall(t *testing.T) {
	n := NewNodeBase()
	c := counter{}
	n.AddObserver(events.AnyEvent, c.observe)

	assert.NotNil(t, n.AddNodeReferenceID("r", "a"))
	assert.Equal(t, 1, c[events.ReferenceModified])

	// dynamic roles refuse duplicates without any event
	assert.Nil(t, n.AddNodeReferenceID("r", "a"))
	assert.Equal(t, 1, c[events.ReferenceModified])

	n.AddNodeReferenceID("r", "b")
	n.AddNodeReferenceID("r", "c")
	assert.Equal(t, 3, c[events.ReferenceModified])
	assert.Equal(t, []string{"a", "b", "c"}, n.NodeReferenceIDs("r"))

	n.SetNodeReferenceID("r", "z")
	assert.Equal(t, 4, c[events.ReferenceModified])
	assert.Equal(t, []string{"z"}, n.NodeReferenceIDs("r"))

	n.SetNodeReferenceID("r", "z")
	assert.Equal(t, 4, c[events.ReferenceModified])

	n.AddNodeReferenceID("q", "a")
	n.RemoveNodeReferenceIDs("")
	assert.Equal(t, 6, c[events.ReferenceModified])
	assert.Empty(t, n.ReferenceRoles())
	assert.Equal(t, 0, c[events.Modified])
}

func TestDuplicatePolicy(t *testing.T) {
	n := NewNodeBase()
	n.DeclareReferenceRole(Role{Name: "dup", AllowDuplicates: true})
	n.AddNodeReferenceID("dup", "a")
	n.AddNodeReferenceID("dup", "a")
	assert.Equal(t, 2, n.NumberOfNodeReferences("dup"))

	n.AddNodeReferenceID("single", "a")
	n.AddNodeReferenceID("single", "b")
	n.SetNthNodeReferenceID("single", 1, "a")
	assert.Equal(t, []string{"a", "b"}, n.NodeReferenceIDs("single"))
}

func TestNthReferences(t *testing.T) {
	n := NewNodeBase()
	n.AddNodeReferenceID("r", "a")
	n.AddNodeReferenceID("r", "b")
	n.SetNthNodeReferenceID("r", 0, "c")
	n.SetNthNodeReferenceID("r", 5, "d")
	assert.Equal(t, []string{"c", "b", "d"}, n.NodeReferenceIDs("r"))
	assert.Equal(t, "b", n.NthNodeReferenceID("r", 1))
	assert.Equal(t, "", n.NthNodeReferenceID("r", 3))

	n.RemoveNthNodeReferenceID("r", 1)
	assert.Equal(t, []string{"c", "d"}, n.NodeReferenceIDs("r"))
	n.SetNthNodeReferenceID("r", 0, "")
	assert.Equal(t, []string{"d"}, n.NodeReferenceIDs("r"))
	assert.True(t, n.HasNodeReferenceID("r", "d"))
	assert.True(t, n.HasNodeReferenceID("", "d"))
	assert.False(t, n.HasNodeReferenceID("r", "c"))
}

func TestReferencedNodes(t *testing.T) {
	s := NewScene()
	m := mustAdd(t, s, NewModelNode())
	d1 := mustAdd(t, s, NewModelDisplayNode())
	d2 := mustAdd(t, s, NewModelDisplayNode())
	m.AddAndObserveDisplayNodeID(d1.ID)
	m.AddAndObserveDisplayNodeID("Missing")
	m.AddAndObserveDisplayNodeID(d2.ID)
	assert.Equal(t, 3, m.NumberOfDisplayNodes())
	assert.Equal(t, []Node{d1, d2}, m.ReferencedNodes(DisplayNodeReferenceRole))
	assert.Nil(t, m.NthDisplayNode(1))
	assert.Same(t, d2, m.NthDisplayNode(2))
}

func TestRemoveReferencedNode(t *testing.T) {
	s := NewScene()
	tr := mustAdd(t, s, NewLinearTransformNode())
	v1 := mustAdd(t, s, NewScalarVolumeNode())
	v2 := mustAdd(t, s, NewScalarVolumeNode())
	v1.SetAndObserveTransformNodeID(tr.ID)
	v2.SetNodeReferenceID("other", tr.ID)
	v2.AddNodeReferenceID("other2", tr.ID)

	c1, c2 := counter{}, counter{}
	v1.AddObserver(events.AnyEvent, c1.observe)
	v2.AddObserver(events.AnyEvent, c2.observe)

	var data *ReferenceEventData
	v1.AddObserver(events.ReferencedNodeModified, func(ev *events.Event) {
		data = ev.Data.(*ReferenceEventData)
		// the node is still in the scene when referencers are told
		assert.Same(t, tr, s.NodeByID(tr.ID))
	})

	require.NoError(t, s.RemoveNode(tr))
	assert.Equal(t, 1, c1[events.ReferencedNodeModified])
	assert.Equal(t, 1, c2[events.ReferencedNodeModified])
	assert.Equal(t, 1, c1[events.ReferenceModified])
	assert.Equal(t, 1, c2[events.ReferenceModified])
	require.NotNil(t, data)
	assert.True(t, data.Removed)
	assert.Same(t, tr, data.Node)

	assert.Equal(t, "", v1.TransformNodeID())
	assert.Empty(t, v2.ReferenceRoles())
	assert.Empty(t, s.ReferencingNodes(tr))
}

func TestObservedReferenceEvents(t *testing.T) {
	s := NewScene()
	holder := mustAdd(t, s, NewNodeBase())
	target := mustAdd(t, s, NewUnitNode())
	holder.SetAndObserveNodeReferenceID("unit", target.ID)

	c := counter{}
	holder.AddObserver(events.AnyEvent, c.observe)
	target.SetSuffix("mm")
	assert.Equal(t, 1, c[events.ReferencedNodeModified])

	// not observed any more
	holder.SetNodeReferenceID("unit", target.ID)
	target.SetSuffix("cm")
	assert.Equal(t, 1, c[events.ReferencedNodeModified])
}

func TestResolutionCacheFollowsGeneration(t *testing.T) {
	s := NewScene()
	n := mustAdd(t, s, NewNodeBase())
	n.SetNodeReferenceID("r", "UnitNode1")
	assert.Nil(t, n.ReferencedNode("r"))
	g := s.Generation()

	u := mustAdd(t, s, NewUnitNode())
	assert.Greater(t, s.Generation(), g)
	assert.Same(t, u, n.ReferencedNode("r"))

	require.NoError(t, s.RemoveNode(u))
	assert.Nil(t, n.ReferencedNode("r"))
	assert.Equal(t, "", n.NodeReferenceID("r"))
}
