// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/mrml/module/climodule"
	"cogentcore.org/mrml/mrml"
	"github.com/spf13/cobra"
)

func (a *app) runCmd() *cobra.Command {
	var params, out string
	cmd := &cobra.Command{
		Use:   "run <module> [name=value...]",
		Short: "Run a command line module",
		Long: "Run a command line module, given by name or by path, with the given\n" +
			"parameter values, and print its output.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := climodule.ParseParameters(params)
			if err != nil {
				return err
			}
			for _, arg := range args[1:] {
				name, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("parameter %q is not of the form name=value", arg)
				}
				values[name] = value
			}

			f, closeCache := a.factory()
			defer closeCache()
			m, err := a.findModule(cmd, f, args[0])
			if err != nil {
				return err
			}

			s, mm := a.newScene()
			register(mm, []*climodule.Module{m}, nil)
			n := m.CreateNode()
			if _, err := s.AddNode(n); err != nil {
				return err
			}
			n.SetParameters(values)

			l := newLoop()
			if err := m.Run(cmd.Context(), n, l.post); err != nil {
				return err
			}
			l.runUntil(func() bool { return n.Status.IsDone() })

			fmt.Fprint(cmd.OutOrStdout(), n.Output)
			if out != "" {
				if err := writeScene(s, out); err != nil {
					return err
				}
			}
			if n.Status != climodule.Completed {
				return fmt.Errorf("%s finished with status %v: %s", m.Name, n.Status, strings.TrimSpace(n.ErrorText))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&params, "params", "p", "", "parameter values as a shell style list of name=value words")
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to save the scene to after the run")
	return cmd
}

// findModule returns the module with the given name found on the module
// paths, or the module at the given path if it is a file.
func (a *app) findModule(cmd *cobra.Command, f *climodule.Factory, name string) (*climodule.Module, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		path, err := filepath.Abs(name)
		if err != nil {
			return nil, err
		}
		m, le := f.Load(cmd.Context(), path)
		if le != nil {
			return nil, le
		}
		return m, nil
	}
	mods, _ := f.Scan(cmd.Context())
	for _, m := range mods {
		if m.Name == name || strings.EqualFold(m.Title, name) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no command line module named %q", name)
}

// writeScene saves all of the nodes of the scene to the given file.
func writeScene(s *mrml.Scene, path string) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.CommitAll(fp); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
