// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"cogentcore.org/core/base/errors"
)

var (
	// ErrNotFound is returned when a node is not owned by the scene
	// that an operation was called on.
	ErrNotFound = errors.New("mrml: node not found in scene")

	// ErrDuplicateID is returned when a node is added with a preset
	// ID that is already used by another node of the scene.
	ErrDuplicateID = errors.New("mrml: duplicate node ID")

	// ErrNilNode is returned when a nil node is passed to the scene.
	ErrNilNode = errors.New("mrml: nil node")

	// ErrOtherScene is returned when a node that is owned by
	// another scene is added to a scene.
	ErrOtherScene = errors.New("mrml: node is owned by another scene")
)
