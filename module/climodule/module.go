// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package climodule

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/mrml/module"
	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
)

// Module is a command line module: an executable run as a separate
// process with the parameters of a [ModuleNode].
type Module struct {
	module.Base

	// Path is the path of the executable.
	Path string

	// Description is the parsed self description of the executable.
	Description *Description

	// TempDir is the directory in which each run gets its own working directory.
	TempDir string

	// Warnings are the warnings found while loading the module.
	Warnings []string
}

// NewModule returns a new module with the given name for the
// executable at the given path.
func NewModule(name, path string, desc *Description) *Module {
	m := &Module{Path: path, Description: desc, TempDir: os.TempDir()}
	m.Name = name
	m.Title = desc.Title
	m.Category = desc.Category
	m.Contributors = desc.Contributors()
	m.This = m
	return m
}

// CreateNode returns a new module node for the module, with
// the default values of its parameters.
func (m *Module) CreateNode() *ModuleNode {
	n := NewModuleNode()
	n.ModuleName = m.Name
	n.SetName(m.Title)
	for _, p := range m.Description.Parameters() {
		if p.Default != "" {
			n.Parameters[p.Name] = p.Default
		}
	}
	return n
}

// CommandLine returns the arguments the executable is run with for
// the parameter values of the given node: flag parameters first, in
// description order, then index parameters ordered by index.
// Boolean flags are only given when true.
func (m *Module) CommandLine(n *ModuleNode) ([]string, error) {
	var args []string
	type indexed struct {
		index int
		value string
	}
	var positional []indexed
	for _, p := range m.Description.Parameters() {
		v, has := n.Parameters[p.Name]
		if !has {
			if p.Index != nil {
				return nil, fmt.Errorf("missing value for parameter %q", p.Name)
			}
			continue
		}
		switch {
		case p.Index != nil:
			positional = append(positional, indexed{*p.Index, v})
		case p.Tag == "boolean":
			if b, err := strconv.ParseBool(v); err == nil && b {
				args = append(args, p.flagName())
			}
		case p.IsFlag():
			args = append(args, p.flagName(), v)
		}
	}
	slices.SortStableFunc(positional, func(a, b indexed) int { return a.index - b.index })
	for _, p := range positional {
		args = append(args, p.value)
	}
	return args, nil
}

// Run runs the module with the parameters of the given node. The node is
// set to [Scheduled] right away, and the process runs on its own goroutine.
// Every later status change, and the output of the run, is passed to post
// as a function to be called on the goroutine that owns the scene.
// Cancelling the context stops the process.
func (m *Module) Run(ctx context.Context, n *ModuleNode, post func(func())) error {
	if n.IsBusy() {
		return fmt.Errorf("climodule: %s is already running", m.Name)
	}
	args, err := m.CommandLine(n)
	if err != nil {
		n.setResult("", err.Error())
		n.SetStatus(CompletedWithErrors)
		return err
	}
	n.SetStatus(Scheduled)
	go m.run(ctx, args, n, post)
	return nil
}

func (m *Module) run(ctx context.Context, args []string, n *ModuleNode, post func(func())) {
	dir := filepath.Join(m.TempDir, "mrml-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		post(func() {
			n.setResult("", err.Error())
			n.SetStatus(CompletedWithErrors)
		})
		return
	}
	defer os.RemoveAll(dir)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, m.Path, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("climodule: running", "module", m.Name, "args", args)
	if err := cmd.Start(); err != nil {
		post(func() {
			n.setResult("", err.Error())
			n.SetStatus(CompletedWithErrors)
		})
		return
	}
	post(func() { n.SetStatus(Running) })
	err := cmd.Wait()
	post(func() {
		switch {
		case ctx.Err() != nil:
			n.SetStatus(Cancelling)
			n.setResult(stdout.String(), stderr.String())
			n.SetStatus(Cancelled)
		case err != nil:
			errText := stderr.String()
			if errText == "" {
				errText = err.Error()
			}
			n.setResult(stdout.String(), errText)
			n.SetStatus(CompletedWithErrors)
			errors.Log(fmt.Errorf("climodule: %s: %w", m.Name, err))
		default:
			n.SetStatus(Completing)
			n.setResult(stdout.String(), stderr.String())
			n.SetStatus(Completed)
		}
	})
}

// ParseParameters parses parameter values given as shell words of the
// form name=value, such as `Threshold=100 Label='a b'`.
func ParseParameters(s string) (map[string]string, error) {
	words, err := shellwords.Parse(s)
	if err != nil {
		return nil, err
	}
	params := map[string]string{}
	for _, w := range words {
		k, v, ok := strings.Cut(w, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected name=value", w)
		}
		params[k] = v
	}
	return params, nil
}
