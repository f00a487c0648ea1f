// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mrml provides an in-memory scene graph of typed nodes that
// reference each other by ID, centered on the [Node] interface and
// the [Scene] that owns nodes. References resolve lazily, survive
// out-of-order creation and XML import, and are kept consistent
// when nodes are removed. Every node and the scene carry an
// [events.Bus] on which changes are announced synchronously.
package mrml

import (
	"cogentcore.org/mrml/events"
)

// Node is an interface that all scene nodes satisfy. The core functionality
// of a node is defined on [NodeBase], and all node kinds must embed it
// (directly or through another node kind). This interface only contains the
// functionality that node kinds may need to override. You can call
// [Node.AsNode] to get the [NodeBase] of a Node and access the core
// functionality. All values that implement Node are pointer values.
type Node interface {

	// AsNode returns the [NodeBase] of this Node. Most core
	// node functionality is implemented on [NodeBase].
	AsNode() *NodeBase

	// ClassName returns the name of the concrete class of the node,
	// which must have been registered with [RegisterClass] for the node
	// to be created on import. Generated IDs start with the class name.
	ClassName() string

	// Init is called when the node is first initialized, by [InitNode].
	// It will be called only once in the lifetime of the node.
	// It is the place to set default field values and to declare
	// reference roles with [NodeBase.DeclareReferenceRole].
	// Implementations must call the Init method of the node kind
	// they embed first.
	Init()

	// CopyContent copies all of the content of the given node, which must
	// be of the same class, into this node, except for the ID and the scene
	// ownership. It fires at most one [events.Modified].
	// By default, it is [NodeBase.CopyContent], which does a deep copy of all
	// exported fields without a `copier:"-"` struct tag plus the reference lists.
	CopyContent(from Node)

	// WriteXML adds the attributes of the node to the given list.
	// Implementations must call the WriteXML method of the node
	// kind they embed first.
	WriteXML(attrs *XMLAttrs)

	// ReadXMLAttributes sets the content of the node from the given
	// attributes. Unknown attributes must be ignored.
	// Implementations must call the ReadXMLAttributes method of the
	// node kind they embed first.
	ReadXMLAttributes(attrs XMLAttrs)

	// OnNodeReferenceAdded is called on the holder after a reference
	// has been linked to the node it refers to, which is [Reference.Node].
	OnNodeReferenceAdded(ref *Reference)

	// OnNodeReferenceRemoved is called on the holder before a linked
	// reference is dropped; [Reference.Node] is still valid during the call.
	OnNodeReferenceRemoved(ref *Reference)

	// OnReferencedBy is called on a node when the given holder links
	// (added is true) or unlinks a reference to it in the given role.
	OnReferencedBy(holder Node, role string, added bool)

	// ProcessReferencedNodeEvent is called on the holder when a node it
	// references through an observed reference emits one of the events
	// that the role of the reference observes.
	// By default, it emits [events.ReferencedNodeModified].
	ProcessReferencedNodeEvent(ref *Reference, ev *events.Event)
}

// InitNode initializes the node: it sets [NodeBase.This] and calls
// [Node.Init] if that was not done yet. It is called by all node
// constructors and by [Scene.AddNode], and it returns the node
// for convenience.
func InitNode[T Node](n T) T {
	nb := n.AsNode()
	if nb.This != Node(n) {
		nb.This = n
		nb.SaveWithScene = true
		n.Init()
	}
	return n
}
