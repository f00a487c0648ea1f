// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/mrml/mrml"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// SearchThreshold is the smallest similarity between a search query
// and a module title for the module to be found by [Manager.Search].
var SearchThreshold = 0.7

// Manager holds the registered modules, in registration order, and the
// errors of the modules that failed to load.
type Manager struct {
	modules    []Module
	byName     map[string]Module
	loadErrors map[string]error
	scene      *mrml.Scene
}

// NewManager returns a new empty module manager.
func NewManager() *Manager {
	return &Manager{byName: map[string]Module{}, loadErrors: map[string]error{}}
}

// Register sets up the given module, gives it the scene of the manager
// and adds it. A module whose name is already registered or whose setup
// fails is not added, and its error is recorded.
func (mm *Manager) Register(m Module) error {
	b := m.AsBase()
	if b.This == nil || b.This == Module(b) {
		b.This = m
	}
	if b.Name == "" {
		return errors.New("module: registering a module without name")
	}
	if _, has := mm.byName[b.Name]; has {
		err := fmt.Errorf("module: %q is already registered", b.Name)
		mm.loadErrors[b.Name] = err
		return err
	}
	if err := m.Setup(); err != nil {
		err = fmt.Errorf("module: setting up %q: %w", b.Name, err)
		mm.loadErrors[b.Name] = err
		return errors.Log(err)
	}
	delete(mm.loadErrors, b.Name)
	mm.modules = append(mm.modules, m)
	mm.byName[b.Name] = m
	b.SetEnabled(true)
	m.SetScene(mm.scene)
	slog.Debug("module: registered", "name", b.Name)
	return nil
}

// Unregister removes the module with the given name from the manager,
// detaching it from the scene. It returns false if there is no such module.
func (mm *Manager) Unregister(name string) bool {
	m, ok := mm.byName[name]
	if !ok {
		return false
	}
	m.SetScene(nil)
	m.AsBase().SetEnabled(false)
	delete(mm.byName, name)
	mm.modules = slices.DeleteFunc(mm.modules, func(o Module) bool { return o == m })
	return true
}

// Module returns the module with the given name, or nil.
func (mm *Manager) Module(name string) Module {
	return mm.byName[name]
}

// Modules returns the modules in registration order.
func (mm *Manager) Modules() []Module {
	return slices.Clone(mm.modules)
}

// Names returns the names of the modules in registration order.
func (mm *Manager) Names() []string {
	names := make([]string, len(mm.modules))
	for i, m := range mm.modules {
		names[i] = m.AsBase().Name
	}
	return names
}

// SetLoadError records that the module with the given name failed to
// load, for modules discovered outside of [Manager.Register].
func (mm *Manager) SetLoadError(name string, err error) {
	if err == nil {
		delete(mm.loadErrors, name)
		return
	}
	mm.loadErrors[name] = err
}

// LoadErrors returns the errors of the modules that failed to load, by name.
func (mm *Manager) LoadErrors() map[string]error {
	res := make(map[string]error, len(mm.loadErrors))
	for k, v := range mm.loadErrors {
		res[k] = v
	}
	return res
}

// Scene returns the scene of the manager, or nil.
func (mm *Manager) Scene() *mrml.Scene {
	return mm.scene
}

// SetScene sets the scene of the manager and of all its modules.
func (mm *Manager) SetScene(s *mrml.Scene) {
	mm.scene = s
	for _, m := range mm.modules {
		m.SetScene(s)
	}
}

// Search returns the modules whose title or name contains the given
// query, or is similar enough to it, the best matches first.
func (mm *Manager) Search(query string) []Module {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	jw := metrics.NewJaroWinkler()
	type scored struct {
		m     Module
		score float64
	}
	var res []scored
	for _, m := range mm.modules {
		b := m.AsBase()
		best := 0.0
		for _, s := range []string{b.Title, b.Name} {
			s = strings.ToLower(s)
			if s == "" {
				continue
			}
			score := strutil.Similarity(query, s, jw)
			if strings.Contains(s, query) {
				score = max(score, 1+float64(len(query))/float64(len(s)))
			}
			best = max(best, score)
		}
		if best >= SearchThreshold {
			res = append(res, scored{m, best})
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].score > res[j].score })
	mods := make([]Module, len(res))
	for i, r := range res {
		mods[i] = r.m
	}
	return mods
}
