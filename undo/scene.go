// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package undo

import (
	"strings"

	"cogentcore.org/mrml/mrml"
)

// Scene is the undo manager of a scene. Each saved state is a snapshot of
// the XML of all nodes of the scene, including those not saved with it,
// and undo and redo restore the scene from these snapshots, keeping
// node IDs and references.
type Scene struct {
	Mgr

	scene *mrml.Scene
}

// NewScene returns a new undo manager for the given scene,
// with the current state of the scene saved as the initial state.
func NewScene(s *mrml.Scene) (*Scene, error) {
	us := &Scene{scene: s}
	us.Idx = -1
	if err := us.Save("initial"); err != nil {
		return nil, err
	}
	return us, nil
}

// Save saves the state of the scene after the given action.
func (us *Scene) Save(action string) error {
	var b strings.Builder
	if err := us.scene.CommitAll(&b); err != nil {
		return err
	}
	us.Mgr.Save(action, strings.SplitAfter(b.String(), "\n"))
	return nil
}

// Undo restores the previous state of the scene and returns the action
// undone, or "" if there was nothing to undo.
func (us *Scene) Undo() (string, error) {
	action, state := us.Mgr.Undo()
	if state == nil {
		return "", nil
	}
	return action, us.restore(state)
}

// Redo restores the next state of the scene and returns the action
// redone, or "" if there was nothing to redo.
func (us *Scene) Redo() (string, error) {
	action, state := us.Mgr.Redo()
	if state == nil {
		return "", nil
	}
	return action, us.restore(state)
}

func (us *Scene) restore(state []string) error {
	return us.scene.Restore(strings.NewReader(strings.Join(state, "")))
}

// Reset discards the undo history, keeping the current state
// of the scene as the new initial state.
func (us *Scene) Reset() error {
	us.Mgr.Reset()
	return us.Save("initial")
}
