// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"cogentcore.org/mrml/events"
)

// TransformNodeReferenceRole is the reference role of the parent
// transform of a [TransformableNode].
const TransformNodeReferenceRole = "transform"

// TransformableNode is a node that can be placed under a parent
// transform node. It re-emits [events.TransformModified] when its
// parent transform changes.
type TransformableNode struct {
	NodeBase

	// propagating is set while a change of the parent transform is
	// re-emitted, which ends propagation around cycles of transforms.
	propagating bool
}

// ClassName satisfies the [Node] interface.
func (tn *TransformableNode) ClassName() string { return "TransformableNode" }

// Init declares the reference role of a new TransformableNode.
func (tn *TransformableNode) Init() {
	tn.NodeBase.Init()
	tn.DeclareReferenceRole(Role{Name: TransformNodeReferenceRole, MRMLAttributeName: "transformNodeRef",
		Events: []events.Types{events.TransformModified}})
}

// AsTransformable returns the [TransformableNode] of the node.
func (tn *TransformableNode) AsTransformable() *TransformableNode {
	return tn
}

// Transformable is implemented by all node kinds that
// embed [TransformableNode].
type Transformable interface {
	Node
	AsTransformable() *TransformableNode
}

// SetAndObserveTransformNodeID sets the parent transform of the node
// to the transform node with the given ID, or none if id is empty.
func (tn *TransformableNode) SetAndObserveTransformNodeID(id string) {
	tn.SetAndObserveNodeReferenceID(TransformNodeReferenceRole, id)
}

// TransformNodeID returns the ID of the parent transform of the node.
func (tn *TransformableNode) TransformNodeID() string {
	return tn.NodeReferenceID(TransformNodeReferenceRole)
}

// ParentTransformNode returns the parent transform of the node, or nil.
func (tn *TransformableNode) ParentTransformNode() *LinearTransformNode {
	t, _ := tn.ReferencedNode(TransformNodeReferenceRole).(*LinearTransformNode)
	return t
}

// TransformToWorld returns the transform from the node to the world,
// composing all parent transforms. A cycle of parent transforms ends
// the composition.
func (tn *TransformableNode) TransformToWorld() Matrix4 {
	m := Identity4()
	seen := map[Node]bool{tn.This: true}
	for t := tn.ParentTransformNode(); t != nil && !seen[t]; t = t.ParentTransformNode() {
		seen[t] = true
		m = t.MatrixTransformToParent.Mul(m)
	}
	return m
}

func (tn *TransformableNode) OnNodeReferenceAdded(ref *Reference) {
	if ref.Role == TransformNodeReferenceRole {
		tn.InvokeEvent(events.TransformModified, ref.Node())
	}
}

func (tn *TransformableNode) OnNodeReferenceRemoved(ref *Reference) {
	if ref.Role == TransformNodeReferenceRole {
		tn.InvokeEvent(events.TransformModified, ref.Node())
	}
}

func (tn *TransformableNode) ProcessReferencedNodeEvent(ref *Reference, ev *events.Event) {
	if ref.Role == TransformNodeReferenceRole && ev.Type == events.TransformModified {
		if tn.propagating {
			return
		}
		tn.propagating = true
		tn.InvokeEvent(events.TransformModified, ref.Node())
		tn.propagating = false
		return
	}
	tn.NodeBase.ProcessReferencedNodeEvent(ref, ev)
}

// TransformNode is the base of transform node kinds. Transforms can
// themselves have a parent transform. It emits
// [events.TransformReferenceModified] whenever a node starts or stops
// using it as parent transform.
type TransformNode struct {
	TransformableNode
}

// ClassName satisfies the [Node] interface.
func (t *TransformNode) ClassName() string { return "TransformNode" }

func (t *TransformNode) OnReferencedBy(holder Node, role string, added bool) {
	if role == TransformNodeReferenceRole {
		t.InvokeEvent(events.TransformReferenceModified, holder)
	}
}

// LinearTransformNode is a transform node with a 4x4 matrix
// from the node space to the parent space.
type LinearTransformNode struct {
	TransformNode

	// MatrixTransformToParent is the transform to the parent space.
	MatrixTransformToParent Matrix4
}

// NewLinearTransformNode returns a new linear transform node
// with the identity matrix.
func NewLinearTransformNode() *LinearTransformNode {
	return InitNode(&LinearTransformNode{})
}

// ClassName satisfies the [Node] interface.
func (t *LinearTransformNode) ClassName() string { return "LinearTransformNode" }

// Init sets the defaults of a new LinearTransformNode.
func (t *LinearTransformNode) Init() {
	t.TransformNode.Init()
	t.MatrixTransformToParent = Identity4()
}

// SetMatrixTransformToParent sets the matrix of the transform and emits
// [events.TransformModified] if it changed.
func (t *LinearTransformNode) SetMatrixTransformToParent(m Matrix4) {
	if m == t.MatrixTransformToParent {
		return
	}
	t.MatrixTransformToParent = m
	t.InvokeEvent(events.TransformModified, nil)
}

// WriteXML adds the LinearTransformNode attributes to a.
func (t *LinearTransformNode) WriteXML(a *XMLAttrs) {
	t.TransformNode.WriteXML(a)
	a.SetFloats("matrixTransformToParent", t.MatrixTransformToParent[:])
}

// ReadXMLAttributes sets the LinearTransformNode fields from a.
func (t *LinearTransformNode) ReadXMLAttributes(a XMLAttrs) {
	t.TransformNode.ReadXMLAttributes(a)
	a.FloatsInto("matrixTransformToParent", t.MatrixTransformToParent[:])
}

// Matrix4 is a 4x4 matrix of doubles in row major order.
type Matrix4 [16]float64

// Identity4 returns the identity matrix.
func Identity4() Matrix4 {
	return Matrix4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Translation4 returns the matrix of a translation by the given vector.
func Translation4(x, y, z float64) Matrix4 {
	m := Identity4()
	m[3], m[7], m[11] = x, y, z
	return m
}

// Mul returns the product m * o.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var r Matrix4
	for i := range 4 {
		for j := range 4 {
			var sum float64
			for k := range 4 {
				sum += m[i*4+k] * o[k*4+j]
			}
			r[i*4+j] = sum
		}
	}
	return r
}

// MulPoint returns the given point transformed by the matrix.
func (m Matrix4) MulPoint(p [3]float64) [3]float64 {
	var r [3]float64
	for i := range 3 {
		r[i] = m[i*4]*p[0] + m[i*4+1]*p[1] + m[i*4+2]*p[2] + m[i*4+3]
	}
	return r
}

func init() {
	RegisterClass(&Class{Name: "TransformableNode"})
	RegisterClass(&Class{Name: "TransformNode", Parent: "TransformableNode"})
	RegisterClass(&Class{Name: "LinearTransformNode", Parent: "TransformNode", Tag: "LinearTransform",
		New: func() Node { return NewLinearTransformNode() }})
}
