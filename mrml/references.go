// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"slices"
	"strings"

	"cogentcore.org/mrml/events"
)

// Role describes one named reference slot of a node, such as
// "transform" or "display".
type Role struct {

	// Name is the name of the role. When Prefix is set, it is the
	// common prefix of a family of roles, such as "unit/".
	Name string

	// MRMLAttributeName is the XML attribute in which the IDs of the
	// role are stored, as a space separated list. Roles without one
	// are stored in the generic "references" attribute.
	MRMLAttributeName string

	// AllowDuplicates is whether the same ID can appear
	// more than once in the role.
	AllowDuplicates bool

	// Events are the event types of the referenced nodes that an
	// observed reference in this role passes to
	// [Node.ProcessReferencedNodeEvent]. It defaults to [events.Modified].
	// References read from XML are observed if Events is set.
	Events []events.Types

	// Prefix is whether this declaration applies to every role
	// whose name starts with Name.
	Prefix bool
}

// observes returns whether the role passes the given event type on.
func (r *Role) observes(typ events.Types) bool {
	if len(r.Events) == 0 {
		return typ == events.Modified
	}
	return slices.Contains(r.Events, typ)
}

// Reference is one entry of a reference role: the ID of the referenced
// node plus the cached resolution of that ID in the scene of the holder.
type Reference struct {

	// Role is the name of the role the reference belongs to.
	Role string

	// ID is the ID of the referenced node.
	ID string

	// Observe is whether the holder observes the referenced node
	// for the events of the role.
	Observe bool

	// node is the cached resolved node, valid for generation gen.
	node Node
	gen  uint64

	// linked is the node the reference is currently linked to: hooks have
	// been called, and an observer registered on it if Observe is set.
	linked Node
	handle events.Handle
}

// Node returns the node the reference is linked to, or nil.
// Use [NodeBase.NthReferencedNode] to resolve references.
func (r *Reference) Node() Node {
	return r.linked
}

// IsLinked returns whether the referenced node has been found
// in the scene and linked.
func (r *Reference) IsLinked() bool {
	return r.linked != nil
}

// ReferenceEventData is the data of [events.ReferenceAdded],
// [events.ReferenceModified], [events.ReferenceRemoved] and
// [events.ReferencedNodeModified] events.
type ReferenceEventData struct {

	// Role is the role that changed, or empty if several roles did.
	Role string

	// ID is the ID of the referenced node, if a single one is concerned.
	ID string

	// Node is the referenced node, if known.
	Node Node

	// Event is the event emitted by the referenced node
	// that caused a [events.ReferencedNodeModified].
	Event *events.Event

	// Removed is set when the referenced node is being removed from the scene.
	Removed bool
}

// ReferenceTable holds the reference roles of a node and their ordered
// ID lists. It is embedded in [NodeBase]; use the reference methods
// of [NodeBase] to change it.
type ReferenceTable struct {
	roles    map[string]*Role
	prefixes []*Role
	order    []string
	refs     map[string][]*Reference
}

// declare adds the given role declaration.
func (rt *ReferenceTable) declare(r Role) {
	if rt.roles == nil {
		rt.roles = map[string]*Role{}
	}
	if r.Prefix {
		rt.prefixes = append(rt.prefixes, &r)
		return
	}
	if _, has := rt.roles[r.Name]; !has {
		rt.order = append(rt.order, r.Name)
	}
	rt.roles[r.Name] = &r
}

// role returns the declaration of the given role, or nil.
func (rt *ReferenceTable) role(name string) *Role {
	return rt.roles[name]
}

// ensureRole returns the declaration of the given role, creating it
// from a matching prefix declaration or as a dynamic role if needed.
func (rt *ReferenceTable) ensureRole(name string) *Role {
	if r := rt.roles[name]; r != nil {
		return r
	}
	nr := Role{Name: name}
	for _, p := range rt.prefixes {
		if strings.HasPrefix(name, p.Name) {
			nr.AllowDuplicates = p.AllowDuplicates
			nr.Events = p.Events
			break
		}
	}
	rt.declare(nr)
	return rt.roles[name]
}

// roleForAttribute returns the role stored in the given XML attribute, or nil.
func (rt *ReferenceTable) roleForAttribute(attr string) *Role {
	for _, nm := range rt.order {
		r := rt.roles[nm]
		if r.MRMLAttributeName == attr {
			return r
		}
	}
	return nil
}

// list returns the references of the given role.
func (rt *ReferenceTable) list(role string) []*Reference {
	return rt.refs[role]
}

// nth returns the nth reference of the given role, or nil.
func (rt *ReferenceTable) nth(role string, n int) *Reference {
	l := rt.refs[role]
	if n < 0 || n >= len(l) {
		return nil
	}
	return l[n]
}

// insert inserts the given reference at the given index of its role.
func (rt *ReferenceTable) insert(ref *Reference, idx int) {
	if rt.refs == nil {
		rt.refs = map[string][]*Reference{}
	}
	rt.refs[ref.Role] = slices.Insert(rt.refs[ref.Role], idx, ref)
}

// delete removes the reference at the given index of the given role.
func (rt *ReferenceTable) delete(role string, idx int) {
	l := slices.Delete(rt.refs[role], idx, idx+1)
	if len(l) == 0 {
		delete(rt.refs, role)
		return
	}
	rt.refs[role] = l
}

// all returns every reference, ordered by role then index.
func (rt *ReferenceTable) all() []*Reference {
	var refs []*Reference
	for _, nm := range rt.roleNames() {
		refs = append(refs, rt.refs[nm]...)
	}
	return refs
}

// roleNames returns the names of the roles that have references,
// in declaration or first use order.
func (rt *ReferenceTable) roleNames() []string {
	var names []string
	for _, nm := range rt.order {
		if len(rt.refs[nm]) > 0 {
			names = append(names, nm)
		}
	}
	return names
}
