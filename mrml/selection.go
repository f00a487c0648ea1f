// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"strings"

	"cogentcore.org/mrml/events"
)

const (
	// SelectionSingletonTag is the singleton tag of the selection node.
	SelectionSingletonTag = "Singleton"

	// UnitNodeReferenceRolePrefix is the prefix of the reference roles
	// of the selection node that hold the unit of each quantity.
	UnitNodeReferenceRolePrefix = "unit/"

	// ActiveVolumeReferenceRole is the reference role of the
	// active volume of the selection node.
	ActiveVolumeReferenceRole = "activeVolume"
)

// SelectionNode is the singleton node holding the application wide
// selection: the unit used for each quantity and the active volume.
// It emits [events.UnitModified], with the quantity as data, when the
// unit of a quantity changes or that unit node is modified.
type SelectionNode struct {
	NodeBase

	// settingUnit is set while SetUnitNodeID changes a unit reference,
	// which emits UnitModified itself.
	settingUnit bool
}

// NewSelectionNode returns a new selection node.
func NewSelectionNode() *SelectionNode {
	return InitNode(&SelectionNode{})
}

// ClassName satisfies the [Node] interface.
func (s *SelectionNode) ClassName() string { return "SelectionNode" }

// Init sets the defaults and reference roles of a new SelectionNode.
func (s *SelectionNode) Init() {
	s.NodeBase.Init()
	s.SingletonTag = SelectionSingletonTag
	s.DeclareReferenceRole(Role{Name: UnitNodeReferenceRolePrefix, Prefix: true, Events: []events.Types{events.Modified}})
	s.DeclareReferenceRole(Role{Name: ActiveVolumeReferenceRole, MRMLAttributeName: "activeVolumeID"})
}

// SetUnitNodeID sets the unit node used for the given quantity
// and emits [events.UnitModified] if it changed.
func (s *SelectionNode) SetUnitNodeID(quantity, id string) {
	if quantity == "" {
		return
	}
	role := UnitNodeReferenceRolePrefix + quantity
	if s.NodeReferenceID(role) == id {
		return
	}
	s.settingUnit = true
	s.SetAndObserveNodeReferenceID(role, id)
	s.settingUnit = false
	s.InvokeEvent(events.UnitModified, quantity)
	s.Modified()
}

// UnitNodeID returns the ID of the unit node used for the given quantity.
func (s *SelectionNode) UnitNodeID(quantity string) string {
	return s.NodeReferenceID(UnitNodeReferenceRolePrefix + quantity)
}

// UnitNode returns the unit node used for the given quantity, or nil.
func (s *SelectionNode) UnitNode(quantity string) *UnitNode {
	u, _ := s.ReferencedNode(UnitNodeReferenceRolePrefix + quantity).(*UnitNode)
	return u
}

// Quantities returns the quantities that have a unit node.
func (s *SelectionNode) Quantities() []string {
	var qs []string
	for _, role := range s.ReferenceRoles() {
		if q, ok := strings.CutPrefix(role, UnitNodeReferenceRolePrefix); ok {
			qs = append(qs, q)
		}
	}
	return qs
}

// SetActiveVolumeID sets the ID of the active volume.
func (s *SelectionNode) SetActiveVolumeID(id string) {
	if s.ActiveVolumeID() == id {
		return
	}
	s.SetNodeReferenceID(ActiveVolumeReferenceRole, id)
	s.Modified()
}

// ActiveVolumeID returns the ID of the active volume.
func (s *SelectionNode) ActiveVolumeID() string {
	return s.NodeReferenceID(ActiveVolumeReferenceRole)
}

func (s *SelectionNode) ProcessReferencedNodeEvent(ref *Reference, ev *events.Event) {
	s.NodeBase.ProcessReferencedNodeEvent(ref, ev)
	if q, ok := strings.CutPrefix(ref.Role, UnitNodeReferenceRolePrefix); ok {
		s.InvokeEvent(events.UnitModified, q)
	}
}

func (s *SelectionNode) OnNodeReferenceAdded(ref *Reference) {
	s.unitReferenceChanged(ref)
}

func (s *SelectionNode) OnNodeReferenceRemoved(ref *Reference) {
	s.unitReferenceChanged(ref)
}

// unitReferenceChanged emits UnitModified when a unit reference is linked or
// unlinked other than through SetUnitNodeID, for example on import or when
// the unit node is removed from the scene.
func (s *SelectionNode) unitReferenceChanged(ref *Reference) {
	if s.settingUnit {
		return
	}
	if q, ok := strings.CutPrefix(ref.Role, UnitNodeReferenceRolePrefix); ok {
		s.InvokeEvent(events.UnitModified, q)
	}
}

func init() {
	RegisterClass(&Class{Name: "SelectionNode", Tag: "Selection", New: func() Node { return NewSelectionNode() }})
}
