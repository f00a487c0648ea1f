// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

// Mesh is an in-memory polygonal surface.
type Mesh struct {
	Points [][3]float64
	Polys  [][]int
}

// ModelNode is a displayable surface model. Its mesh is passed on
// to all of its model display nodes, whichever of the mesh, the display
// reference and the display node is set last.
type ModelNode struct {
	DisplayableNode

	// Mesh is the surface of the model. It is not saved with the scene.
	Mesh *Mesh `copier:"-"`
}

// NewModelNode returns a new model node.
func NewModelNode() *ModelNode {
	return InitNode(&ModelNode{})
}

// ClassName satisfies the [Node] interface.
func (m *ModelNode) ClassName() string { return "ModelNode" }

// SetAndObserveMesh sets the mesh of the model and passes it on
// to its model display nodes.
func (m *ModelNode) SetAndObserveMesh(mesh *Mesh) {
	if mesh == m.Mesh {
		return
	}
	m.Mesh = mesh
	for _, dn := range m.DisplayNodes() {
		if md, ok := dn.(*ModelDisplayNode); ok {
			md.SetInputMesh(mesh)
		}
	}
	m.Modified()
}

func (m *ModelNode) OnNodeReferenceAdded(ref *Reference) {
	m.DisplayableNode.OnNodeReferenceAdded(ref)
	if ref.Role != DisplayNodeReferenceRole {
		return
	}
	if md, ok := ref.Node().(*ModelDisplayNode); ok {
		md.SetInputMesh(m.Mesh)
	}
}

// ModelDisplayNode is the display node of a [ModelNode].
type ModelDisplayNode struct {
	DisplayNode

	// InputMesh is the mesh to show, set from the model.
	InputMesh *Mesh `copier:"-"`
}

// NewModelDisplayNode returns a new model display node.
func NewModelDisplayNode() *ModelDisplayNode {
	return InitNode(&ModelDisplayNode{})
}

// ClassName satisfies the [Node] interface.
func (md *ModelDisplayNode) ClassName() string { return "ModelDisplayNode" }

// SetInputMesh sets the mesh to show.
func (md *ModelDisplayNode) SetInputMesh(mesh *Mesh) {
	setField(&md.NodeBase, &md.InputMesh, mesh)
}

func init() {
	RegisterClass(&Class{Name: "ModelNode", Parent: "DisplayableNode", Tag: "Model",
		New: func() Node { return NewModelNode() }})
	RegisterClass(&Class{Name: "ModelDisplayNode", Parent: "DisplayNode", Tag: "ModelDisplay",
		New: func() Node { return NewModelDisplayNode() }})
}
