// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import "strconv"

// Types determines the type of scene event, and also the
// level at which one can select which events to observe.
// Node-level and scene-level events share the same space of
// values so that a single observer function can handle both.
type Types int32

const (
	// AnyEvent is the wildcard type: an observer added for AnyEvent
	// receives every event emitted on the bus it is registered on.
	// It is never emitted itself.
	AnyEvent Types = iota

	// Modified is emitted by a node when any of its content changed.
	// It is batched by [Modifier] style StartModify / EndModify calls
	// and is never re-entered for the same logical change.
	Modified

	// NodeAdded is emitted by a scene after a node has been added
	// and all of its references have been linked. Data is the node.
	NodeAdded

	// NodeAboutToBeRemoved is emitted by a scene before anything
	// about the node being removed has changed. Data is the node.
	NodeAboutToBeRemoved

	// NodeRemoved is emitted by a scene after the node has been
	// detached from all referencers. Data is the node.
	NodeRemoved

	// ReferenceAdded is emitted by a node when a reference to
	// another node has been linked (the referenced node is in the scene).
	ReferenceAdded

	// ReferenceModified is emitted by a node exactly once per reference
	// API call that changed its reference lists or their resolution.
	ReferenceModified

	// ReferenceRemoved is emitted by a node when a linked reference
	// has been dropped.
	ReferenceRemoved

	// ReferencedNodeModified is emitted by a node when a node it references
	// emitted one of the events its reference role observes, or when that
	// node is about to be removed from the scene.
	ReferencedNodeModified

	// TransformModified is emitted by transform nodes when their matrix
	// changes, and by transformable nodes when their parent transform changed.
	TransformModified

	// TransformReferenceModified is emitted by a transform node when a node
	// starts or stops referencing it as its parent transform.
	TransformReferenceModified

	// DisplayModified is emitted by displayable nodes when one of their
	// display nodes changed.
	DisplayModified

	// UnitModified is emitted by the selection node when the preferred
	// unit of a quantity changed, or when that unit node was modified.
	// Data is the quantity.
	UnitModified

	// StatusModified is emitted by command line module nodes when
	// their execution status changed.
	StatusModified

	// StartImport is emitted by a scene before an import begins.
	StartImport

	// EndImport is emitted by a scene after an import finished,
	// including when it failed.
	EndImport

	// StartClose is emitted by a scene before it is cleared.
	StartClose

	// EndClose is emitted by a scene after it has been cleared.
	EndClose

	// StartSave is emitted by a scene before it is committed to XML.
	StartSave

	// EndSave is emitted by a scene after it has been committed to XML.
	EndSave

	// StartRestore is emitted by a scene before its content is replaced
	// by a previously committed state, for example by an undo.
	StartRestore

	// EndRestore is emitted by a scene after a restore finished.
	EndRestore

	// Custom is the first value available for event types defined
	// outside of this package.
	Custom Types = 1000
)

var typeNames = map[Types]string{
	AnyEvent:                   "AnyEvent",
	Modified:                   "Modified",
	NodeAdded:                  "NodeAdded",
	NodeAboutToBeRemoved:       "NodeAboutToBeRemoved",
	NodeRemoved:                "NodeRemoved",
	ReferenceAdded:             "ReferenceAdded",
	ReferenceModified:          "ReferenceModified",
	ReferenceRemoved:           "ReferenceRemoved",
	ReferencedNodeModified:     "ReferencedNodeModified",
	TransformModified:          "TransformModified",
	TransformReferenceModified: "TransformReferenceModified",
	DisplayModified:            "DisplayModified",
	UnitModified:               "UnitModified",
	StatusModified:             "StatusModified",
	StartImport:                "StartImport",
	EndImport:                  "EndImport",
	StartClose:                 "StartClose",
	EndClose:                   "EndClose",
	StartSave:                  "StartSave",
	EndSave:                    "EndSave",
	StartRestore:               "StartRestore",
	EndRestore:                 "EndRestore",
	Custom:                     "Custom",
}

// String returns the name of the event type.
func (tp Types) String() string {
	if s, ok := typeNames[tp]; ok {
		return s
	}
	if tp > Custom {
		return "Custom+" + strconv.Itoa(int(tp-Custom))
	}
	return "Types(" + strconv.Itoa(int(tp)) + ")"
}
