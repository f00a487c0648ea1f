// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"log/slog"
	"maps"
	"slices"

	"cogentcore.org/mrml/events"
	"github.com/jinzhu/copier"
)

// NodeBase implements the [Node] interface and provides the core functionality
// for the scene graph system. You must use NodeBase as an embedded struct
// in all higher-level node kinds.
//
// All changes to a node that is in a scene must happen on the single
// goroutine that mutates that scene.
type NodeBase struct {

	// ID is the unique identifier of the node within its scene.
	// It is assigned by [Scene.AddNode] if it is empty, and it
	// must not be changed while the node is in a scene.
	ID string `copier:"-"`

	// Name is the user visible name of the node. It does not need to be unique.
	Name string

	// SingletonTag, if set, makes the node a singleton: a scene holds at
	// most one node of a given class with a given singleton tag.
	SingletonTag string

	// HideFromEditor is whether the node should be hidden from user interfaces.
	HideFromEditor bool

	// SaveWithScene is whether the node is written by [Scene.Commit].
	// It defaults to true.
	SaveWithScene bool

	// Attributes are free form string properties of the node.
	Attributes map[string]string

	// This is the value of this Node as its true underlying type.
	// This allows methods defined on base types to call methods
	// defined on higher-level types, which is necessary for various
	// parts of the scene system to work correctly.
	This Node `copier:"-"`

	// refs holds the reference roles and IDs of the node.
	refs ReferenceTable

	// bus holds the observers of the node.
	bus events.Bus

	// scene is the scene that owns the node, if any.
	scene *Scene

	// modifying is set between StartModify and the matching EndModify.
	modifying bool

	// modifyPending is whether Modified was called while modifying.
	modifyPending bool

	// inModified is set while the Modified event is being emitted.
	inModified bool
}

// NewNodeBase returns a new initialized plain node,
// mostly useful as a generic attribute holder and for testing.
func NewNodeBase() *NodeBase {
	return InitNode(&NodeBase{})
}

// AsNode satisfies the [Node] interface.
func (n *NodeBase) AsNode() *NodeBase {
	return n
}

// ClassName satisfies the [Node] interface.
func (n *NodeBase) ClassName() string {
	return "Node"
}

// Init is a placeholder implementation of
// [Node.Init] that does nothing.
func (n *NodeBase) Init() {}

// String returns the class name and the ID of the node.
func (n *NodeBase) String() string {
	if n.This == nil {
		return "Node(" + n.ID + ")"
	}
	return n.This.ClassName() + "(" + n.ID + ")"
}

// Scene returns the scene that owns the node, or nil.
func (n *NodeBase) Scene() *Scene {
	return n.scene
}

// setField sets the given field to the given value and calls [NodeBase.Modified]
// if it changed.
func setField[T comparable](n *NodeBase, field *T, value T) {
	if *field == value {
		return
	}
	*field = value
	n.Modified()
}

// SetName sets the [NodeBase.Name] of the node.
func (n *NodeBase) SetName(name string) {
	setField(n, &n.Name, name)
}

// SetHideFromEditor sets [NodeBase.HideFromEditor].
func (n *NodeBase) SetHideFromEditor(hide bool) {
	setField(n, &n.HideFromEditor, hide)
}

// SetSaveWithScene sets [NodeBase.SaveWithScene].
func (n *NodeBase) SetSaveWithScene(save bool) {
	setField(n, &n.SaveWithScene, save)
}

// SetSingletonTag sets [NodeBase.SingletonTag]. It must not be called
// while the node is in a scene.
func (n *NodeBase) SetSingletonTag(tag string) {
	if n.scene != nil && tag != n.SingletonTag {
		slog.Error("mrml.NodeBase.SetSingletonTag: can not change the singleton tag of a node in a scene", "node", n)
		return
	}
	setField(n, &n.SingletonTag, tag)
}

// IsSingleton returns whether the node has a singleton tag.
func (n *NodeBase) IsSingleton() bool {
	return n.SingletonTag != ""
}

// Attribute returns the value of the given free form attribute
// and whether it is set.
func (n *NodeBase) Attribute(name string) (string, bool) {
	v, ok := n.Attributes[name]
	return v, ok
}

// SetAttribute sets the given free form attribute.
func (n *NodeBase) SetAttribute(name, value string) {
	if name == "" {
		return
	}
	if v, ok := n.Attributes[name]; ok && v == value {
		return
	}
	if n.Attributes == nil {
		n.Attributes = map[string]string{}
	}
	n.Attributes[name] = value
	n.Modified()
}

// RemoveAttribute removes the given free form attribute.
func (n *NodeBase) RemoveAttribute(name string) {
	if _, ok := n.Attributes[name]; !ok {
		return
	}
	delete(n.Attributes, name)
	n.Modified()
}

// AttributeNames returns the sorted names of the free form attributes.
func (n *NodeBase) AttributeNames() []string {
	return slices.Sorted(maps.Keys(n.Attributes))
}

// Events:

// AddObserver adds the given function to be called when the node
// emits events of the given type, and returns a handle to remove it.
func (n *NodeBase) AddObserver(typ events.Types, fun func(ev *events.Event)) events.Handle {
	return n.bus.AddObserver(typ, fun)
}

// RemoveObserver removes the observer with the given handle.
func (n *NodeBase) RemoveObserver(h events.Handle) bool {
	return n.bus.RemoveObserver(h)
}

// HasObserver returns whether the node has an observer for the given type.
func (n *NodeBase) HasObserver(typ events.Types) bool {
	return n.bus.HasObserver(typ)
}

// InvokeEvent emits an event of the given type with the given data
// on the bus of the node, with the node as sender.
func (n *NodeBase) InvokeEvent(typ events.Types, data any) {
	n.bus.Emit(events.New(typ, n.This, data))
}

// Modified emits [events.Modified]. Between [NodeBase.StartModify] and
// the matching [NodeBase.EndModify], it only records that the node was
// modified. Calls made by observers of the Modified event are ignored.
func (n *NodeBase) Modified() {
	if n.modifying {
		n.modifyPending = true
		return
	}
	if n.inModified {
		return
	}
	n.inModified = true
	n.InvokeEvent(events.Modified, nil)
	n.inModified = false
}

// StartModify starts a batch of changes during which [NodeBase.Modified]
// only records that the node was modified. It returns the previous
// modify state, which must be passed to [NodeBase.EndModify]:
//
//	prev := n.StartModify()
//	defer n.EndModify(prev)
func (n *NodeBase) StartModify() bool {
	prev := n.modifying
	n.modifying = true
	return prev
}

// EndModify ends a batch of changes started by [NodeBase.StartModify].
// When the outermost batch ends, a single [events.Modified] is emitted
// if the node was modified during the batch.
func (n *NodeBase) EndModify(prev bool) {
	if prev {
		return
	}
	n.modifying = false
	if n.modifyPending {
		n.modifyPending = false
		n.Modified()
	}
}

// IsModifying returns whether a batch of changes is in progress.
func (n *NodeBase) IsModifying() bool {
	return n.modifying
}

// Destroy removes all of the observers of the node. It is called by
// [Scene.RemoveNode] after the node has been detached.
func (n *NodeBase) Destroy() {
	n.bus.RemoveAllObservers()
}

// Copying:

// CopyContent copies the content of the given node into this node.
// See [Node.CopyContent] for more information.
func (n *NodeBase) CopyContent(from Node) {
	if from == nil {
		slog.Error("mrml.NodeBase.CopyContent: nil source", "destinationNode", n)
		return
	}
	if from.ClassName() != n.This.ClassName() {
		slog.Error("mrml.NodeBase.CopyContent: can only copy from the same class", "destinationNode", n, "sourceNode", from)
		return
	}
	fb := from.AsNode()
	if fb == n {
		return
	}
	prev := n.StartModify()
	defer n.EndModify(prev)
	dst, src := n.This, fb.This
	// copier sets whole embedded structs, so the scene state of both
	// nodes is moved out of its way and put back afterwards.
	ns, fs := n.takeState(), fb.takeState()
	err := copier.CopyWithOption(dst, src, copier.Option{CaseSensitive: true, DeepCopy: true})
	fb.restoreState(fs)
	n.restoreState(ns)
	if err != nil {
		slog.Error("mrml.NodeBase.CopyContent", "err", err)
	}
	n.Attributes = maps.Clone(fb.Attributes)
	n.copyReferencesFrom(fb)
	n.Modified()
}

// nodeState is the part of a [NodeBase] that comes from its place in
// a scene rather than from its content.
type nodeState struct {
	id            string
	this          Node
	refs          ReferenceTable
	bus           events.Bus
	scene         *Scene
	modifying     bool
	modifyPending bool
	inModified    bool
}

// takeState returns the scene state of the node and clears it.
func (n *NodeBase) takeState() nodeState {
	st := nodeState{id: n.ID, this: n.This, refs: n.refs, bus: n.bus, scene: n.scene,
		modifying: n.modifying, modifyPending: n.modifyPending, inModified: n.inModified}
	n.ID, n.refs, n.bus, n.scene = "", ReferenceTable{}, events.Bus{}, nil
	n.modifying, n.modifyPending, n.inModified = false, false, false
	return st
}

// restoreState puts back the scene state returned by takeState.
func (n *NodeBase) restoreState(st nodeState) {
	n.ID, n.This, n.refs, n.bus, n.scene = st.id, st.this, st.refs, st.bus, st.scene
	n.modifying, n.modifyPending, n.inModified = st.modifying, st.modifyPending, st.inModified
}

// Copy returns a deep copy of the node that is not in any scene
// and has no ID.
func (n *NodeBase) Copy() Node {
	nc := NewInstance(n.This)
	nc.CopyContent(n.This)
	return nc
}

// Reset sets the content of the node back to the defaults of its class,
// keeping the ID, name, singleton tag, and the editor and saving flags.
func (n *NodeBase) Reset() {
	name, tag, hide, save := n.Name, n.SingletonTag, n.HideFromEditor, n.SaveWithScene
	prev := n.StartModify()
	defer n.EndModify(prev)
	n.This.CopyContent(NewInstance(n.This))
	n.Name, n.SingletonTag, n.HideFromEditor, n.SaveWithScene = name, tag, hide, save
}

// Hooks:

// OnNodeReferenceAdded is a placeholder implementation of
// [Node.OnNodeReferenceAdded] that does nothing.
func (n *NodeBase) OnNodeReferenceAdded(ref *Reference) {}

// OnNodeReferenceRemoved is a placeholder implementation of
// [Node.OnNodeReferenceRemoved] that does nothing.
func (n *NodeBase) OnNodeReferenceRemoved(ref *Reference) {}

// OnReferencedBy is a placeholder implementation of
// [Node.OnReferencedBy] that does nothing.
func (n *NodeBase) OnReferencedBy(holder Node, role string, added bool) {}

// ProcessReferencedNodeEvent is the default implementation of
// [Node.ProcessReferencedNodeEvent], which emits [events.ReferencedNodeModified].
func (n *NodeBase) ProcessReferencedNodeEvent(ref *Reference, ev *events.Event) {
	n.InvokeEvent(events.ReferencedNodeModified, &ReferenceEventData{Role: ref.Role, ID: ref.ID, Node: ref.linked, Event: ev})
}
