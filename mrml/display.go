// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"slices"

	"cogentcore.org/mrml/events"
)

const (
	// DisplayNodeReferenceRole is the reference role of the display
	// nodes of a [DisplayableNode].
	DisplayNodeReferenceRole = "display"

	// ViewNodeReferenceRole is the reference role of the views
	// in which a [DisplayNode] is shown.
	ViewNodeReferenceRole = "view"
)

// DisplayableNode is a transformable node that is shown through any
// number of display nodes. It emits [events.DisplayModified] when one
// of its display nodes is modified.
type DisplayableNode struct {
	TransformableNode
}

// ClassName satisfies the [Node] interface.
func (d *DisplayableNode) ClassName() string { return "DisplayableNode" }

// Init declares the reference role of a new DisplayableNode.
func (d *DisplayableNode) Init() {
	d.TransformableNode.Init()
	d.DeclareReferenceRole(Role{Name: DisplayNodeReferenceRole, MRMLAttributeName: "displayNodeRef",
		Events: []events.Types{events.Modified}})
}

// AddAndObserveDisplayNodeID adds the display node with the given ID.
func (d *DisplayableNode) AddAndObserveDisplayNodeID(id string) {
	d.AddAndObserveNodeReferenceID(DisplayNodeReferenceRole, id)
}

// SetAndObserveDisplayNodeID replaces all display nodes by the
// display node with the given ID.
func (d *DisplayableNode) SetAndObserveDisplayNodeID(id string) {
	d.SetAndObserveNodeReferenceID(DisplayNodeReferenceRole, id)
}

// RemoveDisplayNodeID removes the display node with the given ID.
func (d *DisplayableNode) RemoveDisplayNodeID(id string) {
	if i := slices.Index(d.NodeReferenceIDs(DisplayNodeReferenceRole), id); i >= 0 {
		d.RemoveNthNodeReferenceID(DisplayNodeReferenceRole, i)
	}
}

// DisplayNodeID returns the ID of the first display node.
func (d *DisplayableNode) DisplayNodeID() string {
	return d.NodeReferenceID(DisplayNodeReferenceRole)
}

// NumberOfDisplayNodes returns the number of display node references.
func (d *DisplayableNode) NumberOfDisplayNodes() int {
	return d.NumberOfNodeReferences(DisplayNodeReferenceRole)
}

// NthDisplayNode returns the display node at the given index, or nil.
func (d *DisplayableNode) NthDisplayNode(i int) Displayer {
	dn, _ := d.NthReferencedNode(DisplayNodeReferenceRole, i).(Displayer)
	return dn
}

// DisplayNodes returns the resolved display nodes.
func (d *DisplayableNode) DisplayNodes() []Displayer {
	var res []Displayer
	for _, n := range d.ReferencedNodes(DisplayNodeReferenceRole) {
		if dn, ok := n.(Displayer); ok {
			res = append(res, dn)
		}
	}
	return res
}

// IsDisplayableInView returns whether any display node of the node is
// visible in the view with the given ID.
func (d *DisplayableNode) IsDisplayableInView(viewID string) bool {
	for _, dn := range d.DisplayNodes() {
		if dn.AsDisplay().IsDisplayableInView(viewID) {
			return true
		}
	}
	return false
}

func (d *DisplayableNode) ProcessReferencedNodeEvent(ref *Reference, ev *events.Event) {
	if ref.Role == DisplayNodeReferenceRole && ev.Type == events.Modified {
		d.InvokeEvent(events.DisplayModified, ref.Node())
		return
	}
	d.TransformableNode.ProcessReferencedNodeEvent(ref, ev)
}

// DisplayNode holds how a displayable node is shown.
type DisplayNode struct {
	NodeBase

	// Visibility is whether the displayable node is shown.
	Visibility bool

	// Opacity is the opacity of the displayable node, from 0 to 1.
	Opacity float64

	// Color is the RGB color of the displayable node, from 0 to 1.
	Color [3]float64
}

// Displayer is implemented by all node kinds that embed [DisplayNode].
type Displayer interface {
	Node
	AsDisplay() *DisplayNode
}

// AsDisplay returns the [DisplayNode] of the node.
func (d *DisplayNode) AsDisplay() *DisplayNode {
	return d
}

// ClassName satisfies the [Node] interface.
func (d *DisplayNode) ClassName() string { return "DisplayNode" }

// Init sets the defaults and view reference role of a new DisplayNode.
func (d *DisplayNode) Init() {
	d.NodeBase.Init()
	d.Visibility = true
	d.Opacity = 1
	d.Color = [3]float64{0.5, 0.5, 0.5}
	d.DeclareReferenceRole(Role{Name: ViewNodeReferenceRole, MRMLAttributeName: "viewNodeRef"})
}

// SetVisibility sets [DisplayNode.Visibility].
func (d *DisplayNode) SetVisibility(v bool) {
	setField(&d.NodeBase, &d.Visibility, v)
}

// SetOpacity sets [DisplayNode.Opacity].
func (d *DisplayNode) SetOpacity(v float64) {
	setField(&d.NodeBase, &d.Opacity, v)
}

// SetColor sets [DisplayNode.Color].
func (d *DisplayNode) SetColor(c [3]float64) {
	setField(&d.NodeBase, &d.Color, c)
}

// AddViewNodeID restricts the display to the view with the given ID,
// in addition to the views already listed.
func (d *DisplayNode) AddViewNodeID(id string) {
	if d.AddNodeReferenceID(ViewNodeReferenceRole, id) != nil {
		d.Modified()
	}
}

// RemoveViewNodeID removes the view with the given ID from the views
// the display is restricted to.
func (d *DisplayNode) RemoveViewNodeID(id string) {
	if i := slices.Index(d.ViewNodeIDs(), id); i >= 0 {
		d.RemoveNthNodeReferenceID(ViewNodeReferenceRole, i)
		d.Modified()
	}
}

// RemoveAllViewNodeIDs shows the display in all views again.
func (d *DisplayNode) RemoveAllViewNodeIDs() {
	if d.NumberOfViewNodeIDs() > 0 {
		d.RemoveNodeReferenceIDs(ViewNodeReferenceRole)
		d.Modified()
	}
}

// ViewNodeIDs returns the IDs of the views the display is restricted to.
func (d *DisplayNode) ViewNodeIDs() []string {
	return d.NodeReferenceIDs(ViewNodeReferenceRole)
}

// NumberOfViewNodeIDs returns the number of views the display is restricted to.
func (d *DisplayNode) NumberOfViewNodeIDs() int {
	return d.NumberOfNodeReferences(ViewNodeReferenceRole)
}

// IsViewNodeIDPresent returns whether the view with the given ID is
// listed. An empty list means all views, so it is always true then.
func (d *DisplayNode) IsViewNodeIDPresent(id string) bool {
	if id == "" {
		return false
	}
	if d.NumberOfViewNodeIDs() == 0 {
		return true
	}
	return d.HasNodeReferenceID(ViewNodeReferenceRole, id)
}

// IsDisplayableInView returns whether the display is visible in the
// view with the given ID.
func (d *DisplayNode) IsDisplayableInView(viewID string) bool {
	return d.Visibility && d.IsViewNodeIDPresent(viewID)
}

// WriteXML adds the DisplayNode attributes to a.
func (d *DisplayNode) WriteXML(a *XMLAttrs) {
	d.NodeBase.WriteXML(a)
	a.SetBool("visibility", d.Visibility)
	a.SetFloat("opacity", d.Opacity)
	a.SetFloats("color", d.Color[:])
}

// ReadXMLAttributes sets the DisplayNode fields from a.
func (d *DisplayNode) ReadXMLAttributes(a XMLAttrs) {
	d.NodeBase.ReadXMLAttributes(a)
	if v, ok := a.Bool("visibility"); ok {
		d.Visibility = v
	}
	if v, ok := a.Float("opacity"); ok {
		d.Opacity = v
	}
	a.FloatsInto("color", d.Color[:])
}

func init() {
	RegisterClass(&Class{Name: "DisplayableNode", Parent: "TransformableNode"})
	RegisterClass(&Class{Name: "DisplayNode"})
}
