// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package undo provides undo and redo of states saved as lines of text,
// and of scenes through snapshots of their XML.
package undo

import (
	"log/slog"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultRawInterval is the interval for saving the raw state. The other
// records only hold a patch from the previous state, and the raw states
// bound the number of patches applied to rebuild a state.
var DefaultRawInterval = 50

// DefaultMaxDepth is the default maximum number of records.
var DefaultMaxDepth = 100

// Rec is one undo record: the state after one action.
type Rec struct {

	// Action is the description of the action, shown to the user.
	Action string

	// Raw, if present, is the full state.
	Raw []string

	// Patch is the patch from the previous state to this one.
	Patch Patch
}

// Mgr is the undo manager. The record at [Mgr.Idx] holds the current
// state; undo moves to the previous record and redo to the next one.
type Mgr struct {

	// Idx is the index of the record of the current state, -1 if there is none.
	Idx int

	// Recs are the saved records.
	Recs []*Rec

	// RawInterval is the interval for saving raw states.
	RawInterval int

	// MaxDepth is the maximum number of records. The oldest records
	// are dropped beyond it.
	MaxDepth int

	// Mu protects updates: patches are computed on a separate goroutine
	// so that saving returns right away.
	Mu sync.Mutex
}

// recState returns the state of the given record, applying
// patches from the last raw state as needed. Must be called under lock.
func (um *Mgr) recState(idx int) []string {
	stidx := 0
	var cdt []string
	for i := idx; i >= 0; i-- {
		r := um.Recs[i]
		if r.Raw != nil {
			stidx = i
			cdt = r.Raw
			break
		}
	}
	for i := stidx + 1; i <= idx; i++ {
		if r := um.Recs[i]; r.Patch != nil {
			cdt = r.Patch.Apply(cdt)
		}
	}
	return cdt
}

// Save saves the state after the given action as the current state,
// dropping the records that could have been redone.
func (um *Mgr) Save(action string, state []string) {
	um.Mu.Lock() // unlocked by saveState
	if um.RawInterval <= 0 {
		um.RawInterval = DefaultRawInterval
	}
	if um.MaxDepth <= 0 {
		um.MaxDepth = DefaultMaxDepth
	}
	if len(um.Recs) == 0 {
		um.Recs = []*Rec{{Action: action, Raw: state}}
		um.Idx = 0
		um.Mu.Unlock()
		return
	}
	if um.Idx >= len(um.Recs) {
		slog.Error("undo.Mgr: index out of range", "index", um.Idx, "records", len(um.Recs))
		um.Idx = len(um.Recs) - 1
	}
	um.Idx++
	um.Recs = um.Recs[:um.Idx]
	nr := &Rec{Action: action}
	um.Recs = append(um.Recs, nr)
	go um.saveState(nr, um.Idx, state)
}

// saveState saves the given state in the record at the given index.
func (um *Mgr) saveState(nr *Rec, idx int, state []string) {
	defer um.Mu.Unlock()
	if idx%um.RawInterval == 0 {
		nr.Raw = state
	} else {
		prv := um.recState(idx - 1)
		nr.Patch = ToPatch(DiffLines(prv, state), state)
	}
	for len(um.Recs) > um.MaxDepth {
		// the new first record must hold its full state
		um.Recs[1].Raw = um.recState(1)
		um.Recs[1].Patch = nil
		um.Recs = um.Recs[1:]
		um.Idx--
	}
}

// CanUndo returns whether there is a state to go back to.
func (um *Mgr) CanUndo() bool {
	um.Mu.Lock()
	defer um.Mu.Unlock()
	return um.Idx > 0
}

// CanRedo returns whether there is an undone state to go forward to.
func (um *Mgr) CanRedo() bool {
	um.Mu.Lock()
	defer um.Mu.Unlock()
	return um.Idx < len(um.Recs)-1
}

// Undo moves to the previous state and returns it, with the action
// being undone. It returns a nil state if there is nothing to undo.
func (um *Mgr) Undo() (action string, state []string) {
	um.Mu.Lock()
	defer um.Mu.Unlock()
	if um.Idx <= 0 {
		return
	}
	action = um.Recs[um.Idx].Action
	um.Idx--
	state = um.recState(um.Idx)
	return
}

// Redo moves to the next state and returns it, with the action
// being redone. It returns a nil state if there is nothing to redo.
func (um *Mgr) Redo() (action string, state []string) {
	um.Mu.Lock()
	defer um.Mu.Unlock()
	if um.Idx >= len(um.Recs)-1 {
		return
	}
	um.Idx++
	action = um.Recs[um.Idx].Action
	state = um.recState(um.Idx)
	return
}

// Reset removes all records.
func (um *Mgr) Reset() {
	um.Mu.Lock()
	defer um.Mu.Unlock()
	um.Recs = nil
	um.Idx = -1
}

// PatchRec is one change of a [Patch]: an opcode on the old lines,
// with the new lines that replace them.
type PatchRec struct {
	Op    difflib.OpCode
	Lines []string
}

// Patch is the set of changes from one list of lines to another.
type Patch []PatchRec

// DiffLines returns the opcodes that change a into b.
func DiffLines(a, b []string) []difflib.OpCode {
	return difflib.NewMatcher(a, b).GetOpCodes()
}

// ToPatch returns the patch for the given opcodes from a to b.
func ToPatch(ops []difflib.OpCode, b []string) Patch {
	var p Patch
	for _, op := range ops {
		if op.Tag == 'e' {
			continue
		}
		pr := PatchRec{Op: op}
		if op.Tag == 'r' || op.Tag == 'i' {
			pr.Lines = append([]string(nil), b[op.J1:op.J2]...)
		}
		p = append(p, pr)
	}
	return p
}

// Apply returns the lines obtained by applying the patch to the given lines.
func (p Patch) Apply(a []string) []string {
	var res []string
	i := 0
	for _, pr := range p {
		res = append(res, a[i:pr.Op.I1]...)
		res = append(res, pr.Lines...)
		i = pr.Op.I2
	}
	return append(res, a[i:]...)
}
