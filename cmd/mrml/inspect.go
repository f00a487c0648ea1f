// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"cogentcore.org/mrml/module/climodule"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// moduleInfo is the summary of a command line module printed by inspect.
type moduleInfo struct {
	Name         string          `yaml:"name"`
	Title        string          `yaml:"title"`
	Category     string          `yaml:"category,omitempty"`
	Version      string          `yaml:"version,omitempty"`
	Contributors []string        `yaml:"contributors,omitempty"`
	Path         string          `yaml:"path"`
	Warnings     []string        `yaml:"warnings,omitempty"`
	Parameters   []parameterInfo `yaml:"parameters,omitempty"`
}

type parameterInfo struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Flag    string `yaml:"flag,omitempty"`
	Index   *int   `yaml:"index,omitempty"`
	Default string `yaml:"default,omitempty"`
	Channel string `yaml:"channel,omitempty"`
}

func newModuleInfo(m *climodule.Module) *moduleInfo {
	d := m.Description
	mi := &moduleInfo{Name: m.Name, Title: m.Title, Category: m.Category,
		Contributors: m.Contributors, Path: m.Path, Warnings: m.Warnings}
	if d.Version != nil {
		mi.Version = d.Version.String()
	} else {
		mi.Version = d.VersionString
	}
	for _, p := range d.Parameters() {
		pi := parameterInfo{Name: p.Name, Type: p.Tag, Index: p.Index, Default: p.Default, Channel: p.Channel}
		switch {
		case p.LongFlag != "":
			pi.Flag = "--" + strings.TrimLeft(p.LongFlag, "-")
		case p.Flag != "":
			pi.Flag = "-" + strings.TrimLeft(p.Flag, "-")
		}
		mi.Parameters = append(mi.Parameters, pi)
	}
	return mi
}

func (a *app) inspectCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "inspect <executable>",
		Short: "Show the description of a command line module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			f, closeCache := a.factory()
			defer closeCache()
			m, le := f.Load(cmd.Context(), path)
			if le != nil {
				return le
			}
			mi := newModuleInfo(m)
			out := cmd.OutOrStdout()
			if asYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(mi); err != nil {
					return err
				}
				return enc.Close()
			}
			fmt.Fprintf(out, "%s (%s) %s\n", mi.Title, mi.Name, mi.Version)
			if mi.Category != "" {
				fmt.Fprintf(out, "category: %s\n", mi.Category)
			}
			for _, p := range mi.Parameters {
				pos := p.Flag
				if p.Index != nil {
					pos = "#" + strconv.Itoa(*p.Index)
				}
				fmt.Fprintf(out, "  %-20s %-8s %s", p.Name, p.Type, pos)
				if p.Default != "" {
					fmt.Fprintf(out, " = %s", p.Default)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the description as YAML")
	return cmd
}
