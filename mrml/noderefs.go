// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"slices"

	"cogentcore.org/mrml/events"
)

// DeclareReferenceRole declares a reference role of the node.
// It is typically called in [Node.Init]. Roles that are used
// without being declared are created on first use, do not allow
// duplicates and are not observed on import.
func (n *NodeBase) DeclareReferenceRole(r Role) {
	n.refs.declare(r)
}

// ReferenceRole returns the declaration of the given role, or nil.
func (n *NodeBase) ReferenceRole(role string) *Role {
	return n.refs.role(role)
}

// ReferenceRoles returns the names of the roles that
// currently have references, in declaration order.
func (n *NodeBase) ReferenceRoles() []string {
	return n.refs.roleNames()
}

// SetNodeReferenceID replaces the references of the given role with
// a single reference to the node with the given ID. An empty ID removes
// all references of the role. It emits exactly one [events.ReferenceModified]
// if anything changed.
func (n *NodeBase) SetNodeReferenceID(role, id string) {
	n.setNodeReferenceID(role, id, false)
}

// SetAndObserveNodeReferenceID is like [NodeBase.SetNodeReferenceID], and the
// node observes the referenced node for the events of the role.
func (n *NodeBase) SetAndObserveNodeReferenceID(role, id string) {
	n.setNodeReferenceID(role, id, true)
}

func (n *NodeBase) setNodeReferenceID(role, id string, observe bool) {
	if role == "" {
		return
	}
	n.refs.ensureRole(role)
	cur := n.refs.list(role)
	if id == "" {
		if len(cur) == 0 {
			return
		}
		n.removeReferences(role)
		n.referenceModified(role)
		return
	}
	if len(cur) == 1 && cur[0].ID == id && cur[0].Observe == observe {
		return
	}
	n.removeReferences(role)
	ref := &Reference{Role: role, ID: id, Observe: observe}
	n.insertReference(ref, 0)
	n.linkReference(ref)
	n.referenceModified(role)
}

// AddNodeReferenceID appends a reference to the node with the given ID
// to the given role and returns it. If the role does not allow duplicates
// and already has the ID, nothing happens and nil is returned.
// It emits exactly one [events.ReferenceModified] if the reference was added.
func (n *NodeBase) AddNodeReferenceID(role, id string) *Reference {
	return n.addNodeReferenceID(role, id, false)
}

// AddAndObserveNodeReferenceID is like [NodeBase.AddNodeReferenceID], and the
// node observes the referenced node for the events of the role.
func (n *NodeBase) AddAndObserveNodeReferenceID(role, id string) *Reference {
	return n.addNodeReferenceID(role, id, true)
}

func (n *NodeBase) addNodeReferenceID(role, id string, observe bool) *Reference {
	if role == "" || id == "" {
		return nil
	}
	r := n.refs.ensureRole(role)
	if !r.AllowDuplicates && n.HasNodeReferenceID(role, id) {
		return nil
	}
	ref := &Reference{Role: role, ID: id, Observe: observe}
	n.insertReference(ref, len(n.refs.list(role)))
	n.linkReference(ref)
	n.referenceModified(role)
	return ref
}

// SetNthNodeReferenceID sets the reference at the given index of the given
// role to the node with the given ID. An index past the end appends, and an
// empty ID removes the reference at the index. The new reference is observed
// if the one it replaces was. A refused duplicate does nothing.
func (n *NodeBase) SetNthNodeReferenceID(role string, idx int, id string) {
	if role == "" || idx < 0 {
		return
	}
	if id == "" {
		n.RemoveNthNodeReferenceID(role, idx)
		return
	}
	cur := n.refs.list(role)
	if idx >= len(cur) {
		n.AddNodeReferenceID(role, id)
		return
	}
	old := cur[idx]
	if old.ID == id {
		return
	}
	r := n.refs.ensureRole(role)
	if !r.AllowDuplicates && n.HasNodeReferenceID(role, id) {
		return
	}
	n.deleteReference(role, idx)
	ref := &Reference{Role: role, ID: id, Observe: old.Observe}
	n.insertReference(ref, idx)
	n.linkReference(ref)
	n.referenceModified(role)
}

// RemoveNthNodeReferenceID removes the reference at the given index of the given role.
func (n *NodeBase) RemoveNthNodeReferenceID(role string, idx int) {
	if n.refs.nth(role, idx) == nil {
		return
	}
	n.deleteReference(role, idx)
	n.referenceModified(role)
}

// RemoveNodeReferenceIDs removes all references of the given role,
// or of all roles if role is empty. It emits a single
// [events.ReferenceModified] if anything was removed.
func (n *NodeBase) RemoveNodeReferenceIDs(role string) {
	roles := []string{role}
	if role == "" {
		roles = n.refs.roleNames()
	}
	changed := false
	for _, r := range roles {
		if len(n.refs.list(r)) > 0 {
			n.removeReferences(r)
			changed = true
		}
	}
	if changed {
		n.referenceModified(role)
	}
}

// NodeReferenceID returns the ID of the first reference of the given role,
// or "" if there is none.
func (n *NodeBase) NodeReferenceID(role string) string {
	return n.NthNodeReferenceID(role, 0)
}

// NthNodeReferenceID returns the ID of the reference at the given index
// of the given role, or "" if there is none.
func (n *NodeBase) NthNodeReferenceID(role string, idx int) string {
	if ref := n.refs.nth(role, idx); ref != nil {
		return ref.ID
	}
	return ""
}

// NodeReferenceIDs returns the IDs of all references of the given role.
func (n *NodeBase) NodeReferenceIDs(role string) []string {
	l := n.refs.list(role)
	ids := make([]string, len(l))
	for i, ref := range l {
		ids[i] = ref.ID
	}
	return ids
}

// NumberOfNodeReferences returns the number of references of the given role.
func (n *NodeBase) NumberOfNodeReferences(role string) int {
	return len(n.refs.list(role))
}

// HasNodeReferenceID returns whether the given role references the given ID.
// If role is empty, all roles are searched.
func (n *NodeBase) HasNodeReferenceID(role, id string) bool {
	if role == "" {
		return slices.ContainsFunc(n.refs.all(), func(r *Reference) bool { return r.ID == id })
	}
	return slices.ContainsFunc(n.refs.list(role), func(r *Reference) bool { return r.ID == id })
}

// NthReference returns the reference at the given index of the given role, or nil.
func (n *NodeBase) NthReference(role string, idx int) *Reference {
	return n.refs.nth(role, idx)
}

// ReferencedNode returns the node referenced by the first reference of the
// given role, or nil if there is none or it is not in the scene of the node.
func (n *NodeBase) ReferencedNode(role string) Node {
	return n.NthReferencedNode(role, 0)
}

// NthReferencedNode returns the node referenced at the given index of the
// given role, or nil. The result is cached until the scene changes.
func (n *NodeBase) NthReferencedNode(role string, idx int) Node {
	ref := n.refs.nth(role, idx)
	if ref == nil || n.scene == nil {
		return nil
	}
	return n.scene.resolve(ref)
}

// ReferencedNodes returns the resolved nodes of the given role,
// skipping the references that do not resolve.
func (n *NodeBase) ReferencedNodes(role string) []Node {
	var nodes []Node
	for i := range n.refs.list(role) {
		if rn := n.NthReferencedNode(role, i); rn != nil {
			nodes = append(nodes, rn)
		}
	}
	return nodes
}

// referenceModified emits [events.ReferenceModified] for the given role.
func (n *NodeBase) referenceModified(role string) {
	n.InvokeEvent(events.ReferenceModified, &ReferenceEventData{Role: role})
}

// insertReference inserts the given reference in its role
// and records it in the reverse index of the scene.
func (n *NodeBase) insertReference(ref *Reference, idx int) {
	n.refs.insert(ref, idx)
	if n.scene != nil {
		n.scene.indexReference(n.This, ref.ID)
	}
}

// deleteReference unlinks and removes the reference at the given index.
func (n *NodeBase) deleteReference(role string, idx int) {
	ref := n.refs.nth(role, idx)
	n.unlinkReference(ref)
	n.refs.delete(role, idx)
	if n.scene != nil {
		n.scene.unindexReference(n.This, ref.ID)
	}
}

// removeReferences unlinks and removes all references of the given role.
func (n *NodeBase) removeReferences(role string) {
	for i := len(n.refs.list(role)) - 1; i >= 0; i-- {
		n.deleteReference(role, i)
	}
}

// removeReferencesTo unlinks and removes every reference to the given ID,
// returning whether there was any.
func (n *NodeBase) removeReferencesTo(id string) bool {
	removed := false
	for _, role := range n.refs.roleNames() {
		l := n.refs.list(role)
		for i := len(l) - 1; i >= 0; i-- {
			if l[i].ID == id {
				n.deleteReference(role, i)
				removed = true
			}
		}
	}
	return removed
}

// renameReferences replaces the referenced IDs according to the given map.
// It does not link anything.
func (n *NodeBase) renameReferences(changes map[string]string) {
	for _, ref := range n.refs.all() {
		nid, ok := changes[ref.ID]
		if !ok {
			continue
		}
		if n.scene != nil {
			n.scene.unindexReference(n.This, ref.ID)
			n.scene.indexReference(n.This, nid)
		}
		ref.ID = nid
		ref.node = nil
	}
}

// linkReference links the given reference to the node it refers to if
// that node is in the scene: it registers the observer of the role and
// calls the reference hooks. It returns whether the reference was linked.
func (n *NodeBase) linkReference(ref *Reference) bool {
	if n.scene == nil || ref.linked != nil {
		return false
	}
	target := n.scene.NodeByID(ref.ID)
	if target == nil {
		return false
	}
	ref.linked = target
	ref.node = target
	ref.gen = n.scene.generation
	if ref.Observe {
		r := n.refs.ensureRole(ref.Role)
		ref.handle = target.AsNode().AddObserver(events.AnyEvent, func(ev *events.Event) {
			if r.observes(ev.Type) {
				n.This.ProcessReferencedNodeEvent(ref, ev)
			}
		})
	}
	n.This.OnNodeReferenceAdded(ref)
	target.OnReferencedBy(n.This, ref.Role, true)
	n.InvokeEvent(events.ReferenceAdded, &ReferenceEventData{Role: ref.Role, ID: ref.ID, Node: target})
	return true
}

// linkReferences links every reference of the node that can be linked,
// returning the number of newly linked references.
func (n *NodeBase) linkReferences() int {
	nl := 0
	for _, ref := range n.refs.all() {
		if n.linkReference(ref) {
			nl++
		}
	}
	return nl
}

// unlinkReference undoes [NodeBase.linkReference].
func (n *NodeBase) unlinkReference(ref *Reference) {
	target := ref.linked
	ref.node = nil
	if target == nil {
		return
	}
	if ref.handle != 0 {
		target.AsNode().RemoveObserver(ref.handle)
		ref.handle = 0
	}
	n.This.OnNodeReferenceRemoved(ref)
	target.OnReferencedBy(n.This, ref.Role, false)
	ref.linked = nil
	n.InvokeEvent(events.ReferenceRemoved, &ReferenceEventData{Role: ref.Role, ID: ref.ID, Node: target})
}

// unlinkReferences unlinks every reference of the node, keeping the IDs.
func (n *NodeBase) unlinkReferences() {
	for _, ref := range n.refs.all() {
		n.unlinkReference(ref)
	}
}

// copyReferencesFrom replaces the references of the node with copies of
// the references of the given node, emitting a single
// [events.ReferenceModified] if anything changed.
func (n *NodeBase) copyReferencesFrom(from *NodeBase) {
	for _, nm := range from.refs.order {
		if r := from.refs.role(nm); r != nil && n.refs.role(nm) == nil {
			n.refs.declare(*r)
		}
	}
	if sameReferences(n.refs.all(), from.refs.all()) {
		return
	}
	for _, role := range n.refs.roleNames() {
		n.removeReferences(role)
	}
	var added []*Reference
	for _, fr := range from.refs.all() {
		ref := &Reference{Role: fr.Role, ID: fr.ID, Observe: fr.Observe}
		n.insertReference(ref, len(n.refs.list(ref.Role)))
		added = append(added, ref)
	}
	for _, ref := range added {
		n.linkReference(ref)
	}
	n.referenceModified("")
}

func sameReferences(a, b []*Reference) bool {
	return slices.EqualFunc(a, b, func(x, y *Reference) bool {
		return x.Role == y.Role && x.ID == y.ID && x.Observe == y.Observe
	})
}
