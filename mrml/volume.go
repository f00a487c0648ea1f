// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

// ScalarVolumeNode is a displayable image volume. Only its geometry
// is held in the scene; voxel data is out of scope.
type ScalarVolumeNode struct {
	DisplayableNode

	// Spacing is the size of a voxel along each axis.
	Spacing [3]float64

	// Origin is the position of the first voxel.
	Origin [3]float64
}

// NewScalarVolumeNode returns a new volume node with unit spacing.
func NewScalarVolumeNode() *ScalarVolumeNode {
	return InitNode(&ScalarVolumeNode{})
}

// ClassName satisfies the [Node] interface.
func (v *ScalarVolumeNode) ClassName() string { return "ScalarVolumeNode" }

// Init sets the defaults of a new ScalarVolumeNode.
func (v *ScalarVolumeNode) Init() {
	v.DisplayableNode.Init()
	v.Spacing = [3]float64{1, 1, 1}
}

// SetSpacing sets [ScalarVolumeNode.Spacing].
func (v *ScalarVolumeNode) SetSpacing(s [3]float64) {
	setField(&v.NodeBase, &v.Spacing, s)
}

// SetOrigin sets [ScalarVolumeNode.Origin].
func (v *ScalarVolumeNode) SetOrigin(o [3]float64) {
	setField(&v.NodeBase, &v.Origin, o)
}

// WriteXML adds the ScalarVolumeNode attributes to a.
func (v *ScalarVolumeNode) WriteXML(a *XMLAttrs) {
	v.DisplayableNode.WriteXML(a)
	a.SetFloats("spacing", v.Spacing[:])
	a.SetFloats("origin", v.Origin[:])
}

// ReadXMLAttributes sets the ScalarVolumeNode fields from a.
func (v *ScalarVolumeNode) ReadXMLAttributes(a XMLAttrs) {
	v.DisplayableNode.ReadXMLAttributes(a)
	a.FloatsInto("spacing", v.Spacing[:])
	a.FloatsInto("origin", v.Origin[:])
}

func init() {
	RegisterClass(&Class{Name: "ScalarVolumeNode", Parent: "DisplayableNode", Tag: "Volume",
		New: func() Node { return NewScalarVolumeNode() }})
}
