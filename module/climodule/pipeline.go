// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package climodule

import (
	"context"
	"errors"
	"log/slog"

	"cogentcore.org/mrml/events"
)

// Step is one step of a [Pipeline].
type Step struct {

	// Module is the module run by the step.
	Module *Module

	// Node holds the parameters and status of the step.
	Node *ModuleNode

	// Parameters are set on the node when the step starts.
	Parameters map[string]string
}

// Pipeline runs command line modules one after the other, each step
// starting when the previous one completed. Its node follows the steps:
// it takes the Scheduled and Running status of the first step, the
// Completing and Completed status of the last step, and the Cancelling,
// Cancelled and CompletedWithErrors status of any step, which also
// stops the pipeline.
type Pipeline struct {

	// Node holds the status of the whole pipeline.
	Node *ModuleNode

	// Steps are the steps, in order.
	Steps []*Step

	current int
	ctx     context.Context
	post    func(func())
	handles map[*ModuleNode][]events.Handle
}

// NewPipeline returns a new pipeline without steps.
func NewPipeline() *Pipeline {
	return &Pipeline{Node: NewModuleNode(), handles: map[*ModuleNode][]events.Handle{}}
}

// AddStep adds a step running the given module with the given parameters.
func (pl *Pipeline) AddStep(m *Module, params map[string]string) *Step {
	st := &Step{Module: m, Node: m.CreateNode(), Parameters: params}
	pl.Steps = append(pl.Steps, st)
	return st
}

// SetStepParameters sets the parameters of the step at the given index.
func (pl *Pipeline) SetStepParameters(i int, params map[string]string) {
	pl.Steps[i].Parameters = params
}

// Run starts the pipeline. Status changes of the steps are applied
// through post, as for [Module.Run], and the pipeline node follows them
// on the same goroutine. A pipeline without steps completes right away.
func (pl *Pipeline) Run(ctx context.Context, post func(func())) error {
	if pl.Node.IsBusy() {
		return errors.New("climodule: pipeline is already running")
	}
	if len(pl.Steps) == 0 {
		pl.Node.SetStatus(Completed)
		return nil
	}
	pl.ctx, pl.post = ctx, post
	pl.current = 0
	first, last := pl.Steps[0].Node, pl.Steps[len(pl.Steps)-1].Node
	pl.observe(first, func(s Status) bool {
		if s == Scheduled || s == Running {
			pl.Node.SetStatus(s)
		}
		return s != Scheduled
	})
	pl.observe(last, func(s Status) bool {
		if s == Completing || s == Completed {
			pl.Node.SetStatus(s)
		}
		return s == Completed
	})
	return pl.runStep(0)
}

// observe calls fun with every new status of the given node,
// until it returns true.
func (pl *Pipeline) observe(n *ModuleNode, fun func(s Status) bool) {
	var h events.Handle
	h = n.AddObserver(events.StatusModified, func(ev *events.Event) {
		if fun(n.Status) {
			n.RemoveObserver(h)
		}
	})
	pl.handles[n] = append(pl.handles[n], h)
}

// stop removes all observers of the pipeline from the step nodes.
func (pl *Pipeline) stop() {
	for n, hs := range pl.handles {
		for _, h := range hs {
			n.RemoveObserver(h)
		}
	}
	clear(pl.handles)
}

func (pl *Pipeline) runStep(i int) error {
	st := pl.Steps[i]
	pl.current = i
	slog.Debug("climodule: running pipeline step", "step", i, "module", st.Module.Name)
	st.Node.SetParameters(st.Parameters)
	pl.observe(st.Node, func(s Status) bool {
		switch s {
		case Cancelling:
			pl.Node.SetStatus(s)
		case Cancelled, CompletedWithErrors:
			pl.Node.SetStatus(s)
			pl.stop()
			return true
		case Completed:
			if i < len(pl.Steps)-1 {
				pl.runStep(i + 1)
			} else {
				pl.stop()
			}
			return true
		}
		return false
	})
	err := st.Module.Run(pl.ctx, st.Node, pl.post)
	if err != nil && st.Node.Status != CompletedWithErrors {
		pl.Node.SetStatus(CompletedWithErrors)
		pl.stop()
	}
	return err
}

// CurrentStep returns the index of the step being run or last run.
func (pl *Pipeline) CurrentStep() int {
	return pl.current
}
