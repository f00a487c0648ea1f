// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/mrml/config"
	"cogentcore.org/mrml/logx"
	"cogentcore.org/mrml/module"
	"cogentcore.org/mrml/module/climodule"
	"cogentcore.org/mrml/mrml"
	"github.com/spf13/cobra"
)

// app holds the global flags and the loaded configuration.
type app struct {
	configFile  string
	envFiles    []string
	veryVerbose bool
	verbose     bool
	quiet       bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "mrml",
		Short:         "Inspect and run scene modules",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (.toml or .yaml)")
	pf.StringSliceVar(&a.envFiles, "env", []string{".env"}, ".env files with MRML_* overrides")
	pf.BoolVar(&a.veryVerbose, "vv", false, "show debug messages")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "show informational messages")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "only show errors")

	root.AddCommand(a.modulesCmd(), a.inspectCmd(), a.runCmd(), a.serveCmd())
	return root
}

// setup loads the config and sets up logging.
func (a *app) setup() error {
	cfg, err := config.Load(a.configFile, a.envFiles...)
	if err != nil {
		return err
	}
	a.cfg = cfg
	level, err := logx.LevelFromString(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.veryVerbose || a.verbose || a.quiet {
		level = logx.LevelFromFlags(a.veryVerbose, a.verbose, a.quiet)
	}
	logx.UserLevel = level
	logx.SetDefaultLogger()
	return nil
}

// factory returns a module factory for the configured module paths plus
// the given extra directories. The returned function closes the cache.
func (a *app) factory(dirs ...string) (*climodule.Factory, func()) {
	f := climodule.NewFactory(append(append([]string{}, a.cfg.ModulePaths...), dirs...)...)
	f.Timeout = a.cfg.TimeoutDuration()
	if a.cfg.TempDir != "" {
		f.TempDir = a.cfg.TempDir
	}
	if a.cfg.CachePath == "" {
		return f, func() {}
	}
	c, err := climodule.OpenCache(a.cfg.CachePath)
	if err != nil {
		slog.Warn("not using the module cache", "path", a.cfg.CachePath, "err", err)
		return f, func() {}
	}
	f.Cache = c
	return f, func() { errors.Log(c.Close()) }
}

// newScene returns a new scene with a module manager that has the built
// in modules registered, and the configured default units selected.
func (a *app) newScene() (*mrml.Scene, *module.Manager) {
	s := mrml.NewScene()
	mm := module.NewManager()
	mm.SetScene(s)
	um := module.NewUnits()
	errors.Log(mm.Register(um))
	for _, name := range a.cfg.DefaultUnits {
		u := um.Logic.UnitByName(name)
		if u == nil {
			slog.Warn("unknown default unit", "name", name)
			continue
		}
		um.Logic.SetDefaultUnit(u.Quantity, u.ID)
	}
	return s, mm
}

// register adds the given command line modules and load errors to the manager.
func register(mm *module.Manager, mods []*climodule.Module, failed []*climodule.LoadError) {
	for _, m := range mods {
		errors.Log(mm.Register(m))
	}
	for _, le := range failed {
		mm.SetLoadError(climodule.ModuleName(le.Path), le)
	}
}

// loop runs posted functions on the goroutine that owns the scene.
type loop chan func()

func newLoop() loop { return make(loop, 64) }

func (l loop) post(f func()) { l <- f }

// runUntil runs posted functions until done returns true.
func (l loop) runUntil(done func() bool) {
	for !done() {
		(<-l)()
	}
}
