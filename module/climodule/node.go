// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package climodule

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"cogentcore.org/mrml/events"
	"cogentcore.org/mrml/mrml"
)

// Status is the run status of a [ModuleNode].
type Status int32

const (
	// Idle is the status of a node that has never run.
	Idle Status = iota

	// Scheduled is set when a run is requested, before the process starts.
	Scheduled

	// Running is set once the process has started.
	Running

	// Cancelling is set when cancellation is requested.
	Cancelling

	// Cancelled is set when the process was stopped before completion.
	Cancelled

	// Completing is set when the process has exited and its outputs
	// are being collected.
	Completing

	// Completed is set when the process exited successfully.
	Completed

	// CompletedWithErrors is set when the process failed.
	CompletedWithErrors
)

var statusNames = [...]string{"Idle", "Scheduled", "Running", "Cancelling", "Cancelled",
	"Completing", "Completed", "CompletedWithErrors"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
	return statusNames[s]
}

// IsBusy returns whether the status is one of an ongoing run.
func (s Status) IsBusy() bool {
	switch s {
	case Scheduled, Running, Cancelling, Completing:
		return true
	}
	return false
}

// IsDone returns whether the status ends a run.
func (s Status) IsDone() bool {
	switch s {
	case Cancelled, Completed, CompletedWithErrors:
		return true
	}
	return false
}

// ModuleNode is the scene node holding the parameters and the status of
// one run of a command line module. It emits [events.StatusModified]
// whenever its status changes.
type ModuleNode struct {
	mrml.NodeBase

	// ModuleName is the name of the module the node runs.
	ModuleName string

	// Status is the run status.
	Status Status

	// Parameters are the parameter values by parameter name.
	Parameters map[string]string

	// Output is the standard output of the last run.
	Output string

	// ErrorText is the standard error of the last run, or the
	// reason it failed to start.
	ErrorText string
}

// NewModuleNode returns a new idle module node.
func NewModuleNode() *ModuleNode {
	return mrml.InitNode(&ModuleNode{})
}

// ClassName satisfies the [mrml.Node] interface.
func (n *ModuleNode) ClassName() string { return "CommandLineModuleNode" }

// Init sets the defaults of a new ModuleNode.
func (n *ModuleNode) Init() {
	n.NodeBase.Init()
	n.Parameters = map[string]string{}
}

// SetStatus sets the status and emits [events.StatusModified]
// and [events.Modified] if it changed.
func (n *ModuleNode) SetStatus(s Status) {
	if s == n.Status {
		return
	}
	n.Status = s
	n.InvokeEvent(events.StatusModified, s)
	n.Modified()
}

// IsBusy returns whether the node is being run.
func (n *ModuleNode) IsBusy() bool {
	return n.Status.IsBusy()
}

// SetParameter sets the value of the parameter with the given name.
// An empty value unsets it.
func (n *ModuleNode) SetParameter(name, value string) {
	if n.Parameters[name] == value {
		return
	}
	if value == "" {
		delete(n.Parameters, name)
	} else {
		n.Parameters[name] = value
	}
	n.Modified()
}

// SetParameters sets the values of all the given parameters,
// emitting at most one [events.Modified].
func (n *ModuleNode) SetParameters(params map[string]string) {
	prev := n.StartModify()
	defer n.EndModify(prev)
	for _, k := range slices.Sorted(maps.Keys(params)) {
		n.SetParameter(k, params[k])
	}
}

// Parameter returns the value of the parameter with the given name.
func (n *ModuleNode) Parameter(name string) string {
	return n.Parameters[name]
}

// setResult sets the output and error text of a run.
func (n *ModuleNode) setResult(out, errText string) {
	prev := n.StartModify()
	defer n.EndModify(prev)
	if n.Output != out || n.ErrorText != errText {
		n.Output, n.ErrorText = out, errText
		n.Modified()
	}
}

// WriteXML adds the ModuleNode attributes to a.
func (n *ModuleNode) WriteXML(a *mrml.XMLAttrs) {
	n.NodeBase.WriteXML(a)
	a.Set("module", n.ModuleName)
	a.Set("status", n.Status.String())
	for _, k := range slices.Sorted(maps.Keys(n.Parameters)) {
		a.Set("param."+k, n.Parameters[k])
	}
}

// ReadXMLAttributes sets the ModuleNode fields from a.
func (n *ModuleNode) ReadXMLAttributes(a mrml.XMLAttrs) {
	n.NodeBase.ReadXMLAttributes(a)
	if v, ok := a.Get("module"); ok {
		n.ModuleName = v
	}
	if v, ok := a.Get("status"); ok {
		if i := slices.Index(statusNames[:], v); i >= 0 {
			n.Status = Status(i)
		}
	}
	for _, at := range a {
		if k, ok := strings.CutPrefix(at.Name.Local, "param."); ok {
			n.Parameters[k] = at.Value
		}
	}
}

func init() {
	mrml.RegisterClass(&mrml.Class{Name: "CommandLineModuleNode", Tag: "CommandLineModule",
		New: func() mrml.Node { return NewModuleNode() }})
}
