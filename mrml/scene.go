// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/mrml/events"
)

// Version is the version written in the root element of committed scenes.
const Version = "1.0"

// singletonKey is the key of the singleton index of a scene.
type singletonKey struct {
	class string
	tag   string
}

// Scene owns a set of nodes, indexes them by ID, class, singleton tag
// and incoming references, and emits scene level events on its own bus.
// A Scene must only be used from a single goroutine; work done on other
// goroutines must be posted back to it.
type Scene struct {

	// URL is the location the scene was last loaded from or saved to.
	URL string

	// nodes are the nodes in the order they were added.
	nodes []Node

	// byID indexes the nodes by ID.
	byID map[string]Node

	// byClass indexes the nodes by each class of their class chain,
	// in the order they were added.
	byClass map[string][]Node

	// singletons indexes singleton nodes by class and tag.
	singletons map[singletonKey]Node

	// referencers indexes, for each referenced ID, the nodes holding a
	// reference to it, with one entry per reference.
	referencers map[string][]Node

	// tags are the classes registered for import, by XML tag.
	tags map[string]*Class

	// generation is incremented whenever nodes are added or removed,
	// invalidating the resolved pointers cached in references.
	generation uint64

	importing bool
	closing   bool
	restoring bool

	bus events.Bus
}

// NewScene returns a new empty scene with the core node classes registered.
func NewScene() *Scene {
	s := &Scene{}
	s.init()
	for _, c := range []Node{NewSelectionNode(), NewViewNode(), NewLinearTransformNode(),
		NewScalarVolumeNode(), NewModelNode(), NewModelDisplayNode(), NewUnitNode()} {
		s.RegisterNodeClass(c)
	}
	return s
}

func (s *Scene) init() {
	s.byID = map[string]Node{}
	s.byClass = map[string][]Node{}
	s.singletons = map[singletonKey]Node{}
	s.referencers = map[string][]Node{}
	if s.tags == nil {
		s.tags = map[string]*Class{}
	}
}

// RegisterNodeClass registers the class of the given node for import,
// so that XML elements with its tag create nodes of that class.
func (s *Scene) RegisterNodeClass(proto Node) {
	c := classOf(proto)
	if c.Tag == "" {
		slog.Error("mrml.Scene.RegisterNodeClass: class has no XML tag", "class", c.Name)
		return
	}
	if s.tags == nil {
		s.tags = map[string]*Class{}
	}
	s.tags[c.Tag] = c
}

// IsNodeClassRegistered returns whether a class with the given XML tag
// is registered for import.
func (s *Scene) IsNodeClassRegistered(tag string) bool {
	return s.tags[tag] != nil
}

// Events:

// AddObserver adds the given function to be called when the scene
// emits events of the given type, and returns a handle to remove it.
func (s *Scene) AddObserver(typ events.Types, fun func(ev *events.Event)) events.Handle {
	return s.bus.AddObserver(typ, fun)
}

// RemoveObserver removes the scene observer with the given handle.
func (s *Scene) RemoveObserver(h events.Handle) bool {
	return s.bus.RemoveObserver(h)
}

// InvokeEvent emits an event of the given type on the scene bus.
func (s *Scene) InvokeEvent(typ events.Types, data any) {
	s.bus.Emit(events.New(typ, s, data))
}

// IsImporting returns whether an import is in progress.
func (s *Scene) IsImporting() bool {
	return s.importing
}

// IsClosing returns whether the scene is being cleared.
func (s *Scene) IsClosing() bool {
	return s.closing
}

// IsRestoring returns whether a restore is in progress.
func (s *Scene) IsRestoring() bool {
	return s.restoring
}

// IsBatchProcessing returns whether any import, close or restore is in progress.
func (s *Scene) IsBatchProcessing() bool {
	return s.importing || s.closing || s.restoring
}

// Generation returns the current generation of the scene, which changes
// whenever nodes are added or removed.
func (s *Scene) Generation() uint64 {
	return s.generation
}

// Adding and removing:

// AddNode adds the given node to the scene and returns the node that is in
// the scene afterwards. An ID is generated if the node has none.
//
// If the node is a singleton and the scene already has a node of the same
// class with the same singleton tag, the content of the given node is copied
// into the existing node, which keeps its ID and is returned; the given node
// is not added.
//
// The references of the node and the references of other nodes to its ID
// are linked before [events.NodeAdded] is emitted on the scene.
func (s *Scene) AddNode(n Node) (Node, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	InitNode(n)
	nb := n.AsNode()
	if nb.scene == s {
		return n, nil
	}
	if nb.scene != nil {
		return nil, ErrOtherScene
	}
	if ex := s.SingletonNode(n.ClassName(), nb.SingletonTag); ex != nil {
		ex.CopyContent(n)
		return ex, nil
	}
	if nb.ID == "" {
		nb.ID = s.GenerateUniqueID(n)
	} else if s.byID[nb.ID] != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, nb.ID)
	}
	s.insert(n)
	s.generation++
	if nb.linkReferences() > 0 {
		nb.referenceModified("")
	}
	s.resolveReferencesTo([]Node{n}, nil)
	s.InvokeEvent(events.NodeAdded, n)
	return n, nil
}

// AddNewNodeByClass creates a node of the registered class with the given
// name, sets its name and adds it to the scene.
func (s *Scene) AddNewNodeByClass(class, name string) (Node, error) {
	c := ClassByName(class)
	if c == nil || c.New == nil {
		return nil, fmt.Errorf("mrml: no class named %q that can be created", class)
	}
	n := c.New()
	n.AsNode().Name = name
	return s.AddNode(n)
}

// insert adds the given node to all of the indexes of the scene without
// linking any reference.
func (s *Scene) insert(n Node) {
	nb := n.AsNode()
	nb.scene = s
	s.nodes = append(s.nodes, n)
	s.byID[nb.ID] = n
	for _, c := range ClassChain(n.ClassName()) {
		s.byClass[c] = append(s.byClass[c], n)
	}
	if nb.SingletonTag != "" {
		s.singletons[singletonKey{n.ClassName(), nb.SingletonTag}] = n
	}
	for _, ref := range nb.refs.all() {
		s.indexReference(n, ref.ID)
	}
}

// resolveReferencesTo links the references of the nodes of the scene that
// refer to the given nodes and are not linked yet, emitting a single
// [events.ReferenceModified] on each such holder. Holders in skip have
// already been linked.
func (s *Scene) resolveReferencesTo(targets []Node, skip map[Node]bool) {
	var holders []Node
	seen := map[Node]bool{}
	for _, t := range targets {
		for _, h := range s.referencers[t.AsNode().ID] {
			if seen[h] || skip[h] {
				continue
			}
			seen[h] = true
			holders = append(holders, h)
		}
	}
	for _, h := range holders {
		if h.AsNode().linkReferences() > 0 {
			h.AsNode().referenceModified("")
		}
	}
}

// RemoveNode removes the given node from the scene. Every node referencing
// it receives exactly one [events.ReferencedNodeModified] and then loses its
// references to it. The observers of the removed node are removed.
func (s *Scene) RemoveNode(n Node) error {
	if n == nil || n.AsNode().scene != s {
		return ErrNotFound
	}
	nb := n.AsNode()
	s.InvokeEvent(events.NodeAboutToBeRemoved, n)

	holders := s.holdersOf(nb.ID)
	for _, h := range holders {
		h.AsNode().InvokeEvent(events.ReferencedNodeModified, &ReferenceEventData{ID: nb.ID, Node: n, Removed: true})
	}
	for _, h := range holders {
		if h.AsNode().removeReferencesTo(nb.ID) {
			h.AsNode().referenceModified("")
		}
	}
	nb.unlinkReferences()
	for _, ref := range nb.refs.all() {
		s.unindexReference(n, ref.ID)
	}

	if i := slices.Index(s.nodes, n); i >= 0 {
		s.nodes = slices.Delete(s.nodes, i, i+1)
	}
	delete(s.byID, nb.ID)
	for _, c := range ClassChain(n.ClassName()) {
		l := s.byClass[c]
		if i := slices.Index(l, n); i >= 0 {
			s.byClass[c] = slices.Delete(l, i, i+1)
		}
	}
	if nb.SingletonTag != "" {
		delete(s.singletons, singletonKey{n.ClassName(), nb.SingletonTag})
	}
	s.generation++
	nb.scene = nil

	s.InvokeEvent(events.NodeRemoved, n)
	n.AsNode().Destroy()
	return nil
}

// Clear removes all nodes from the scene in reverse order of addition.
// Singleton nodes are only removed if removeSingletons is set; otherwise
// they are reset to their defaults.
func (s *Scene) Clear(removeSingletons bool) {
	s.closing = true
	s.InvokeEvent(events.StartClose, nil)
	for i := len(s.nodes) - 1; i >= 0; i-- {
		if i >= len(s.nodes) {
			continue
		}
		n := s.nodes[i]
		if !removeSingletons && n.AsNode().SingletonTag != "" {
			continue
		}
		errors.Log(s.RemoveNode(n))
	}
	for _, n := range s.nodes {
		n.AsNode().Reset()
	}
	s.URL = ""
	s.closing = false
	s.InvokeEvent(events.EndClose, nil)
}

// CopyNode returns a copy of the given node that is not in any scene
// and has no ID, ready to be added with [Scene.AddNode].
func (s *Scene) CopyNode(n Node) Node {
	return n.AsNode().Copy()
}

// Reference index:

func (s *Scene) indexReference(holder Node, id string) {
	if id == "" {
		return
	}
	s.referencers[id] = append(s.referencers[id], holder)
}

func (s *Scene) unindexReference(holder Node, id string) {
	l := s.referencers[id]
	i := slices.Index(l, holder)
	if i < 0 {
		invariant(fmt.Errorf("mrml: reverse reference index has no entry for %v -> %q", holder, id))
		return
	}
	l = slices.Delete(l, i, i+1)
	if len(l) == 0 {
		delete(s.referencers, id)
		return
	}
	s.referencers[id] = l
}

// holdersOf returns the nodes holding references to the given ID,
// each once, in the order of their first reference.
func (s *Scene) holdersOf(id string) []Node {
	var holders []Node
	for _, h := range s.referencers[id] {
		if !slices.Contains(holders, h) {
			holders = append(holders, h)
		}
	}
	return holders
}

// ReferencingNodes returns the nodes of the scene that
// reference the given node.
func (s *Scene) ReferencingNodes(n Node) []Node {
	return s.holdersOf(n.AsNode().ID)
}

// resolve returns the node referenced by the given reference,
// using and updating its cache.
func (s *Scene) resolve(ref *Reference) Node {
	if ref.gen == s.generation && ref.node != nil {
		return ref.node
	}
	ref.node = s.byID[ref.ID]
	ref.gen = s.generation
	return ref.node
}

// Queries:

// NodeByID returns the node with the given ID, or nil.
func (s *Scene) NodeByID(id string) Node {
	return s.byID[id]
}

// Nodes returns the nodes of the scene in the order they were added.
// The returned slice must not be modified.
func (s *Scene) Nodes() []Node {
	return s.nodes
}

// NumberOfNodes returns the number of nodes in the scene.
func (s *Scene) NumberOfNodes() int {
	return len(s.nodes)
}

// NthNodeByClass returns the nth node (in order of addition) that is of
// the given class or one of its subclasses, or nil.
func (s *Scene) NthNodeByClass(n int, class string) Node {
	l := s.byClass[class]
	if n < 0 || n >= len(l) {
		return nil
	}
	return l[n]
}

// NodesByClass returns the nodes that are of the given class
// or one of its subclasses, in order of addition.
func (s *Scene) NodesByClass(class string) []Node {
	return slices.Clone(s.byClass[class])
}

// NumberOfNodesByClass returns the number of nodes that are
// of the given class or one of its subclasses.
func (s *Scene) NumberOfNodesByClass(class string) int {
	return len(s.byClass[class])
}

// NodesByName returns the nodes with the given name.
func (s *Scene) NodesByName(name string) []Node {
	var nodes []Node
	for _, n := range s.nodes {
		if n.AsNode().Name == name {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// FirstNodeByName returns the first node with the given name, or nil.
func (s *Scene) FirstNodeByName(name string) Node {
	for _, n := range s.nodes {
		if n.AsNode().Name == name {
			return n
		}
	}
	return nil
}

// SingletonNode returns the node of the given class with the given
// singleton tag, or nil.
func (s *Scene) SingletonNode(class, tag string) Node {
	if tag == "" {
		return nil
	}
	return s.singletons[singletonKey{class, tag}]
}

// NodesOf returns the nodes of the scene of type T, in order of addition.
func NodesOf[T Node](s *Scene) []T {
	var res []T
	for _, n := range s.nodes {
		if t, ok := n.(T); ok {
			res = append(res, t)
		}
	}
	return res
}
