// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package module provides the modules of the application: units of
// functionality that operate on the shared scene, each with an optional
// widget representation created the first time it is shown.
package module

import (
	"cogentcore.org/mrml/mrml"
)

// Module is implemented by all modules. Module types embed [Base],
// which implements everything but [Module.CreateWidgetRepresentation].
type Module interface {
	// AsBase returns the [Base] of the module.
	AsBase() *Base

	// Setup is called once when the module is registered.
	Setup() error

	// SetScene sets the scene the module operates on.
	SetScene(s *mrml.Scene)

	// CreateWidgetRepresentation returns a new widget representation
	// of the module, or nil if it has none.
	CreateWidgetRepresentation() Widget
}

// Widget is the widget representation of a module.
type Widget interface {
	SetScene(s *mrml.Scene)
}

// Base is the base type of all modules.
type Base struct {

	// Name is the unique name of the module.
	Name string

	// Title is the title shown for the module.
	Title string

	// Category is the menu category of the module, with sub
	// categories separated by dots.
	Category string

	// Contributors are the authors of the module.
	Contributors []string

	// This is the module that embeds the Base.
	This Module

	scene   *mrml.Scene
	enabled bool
	widget  Widget
}

// NewBase returns a new module base with the given name and title.
func NewBase(name, title string) *Base {
	b := &Base{Name: name, Title: title}
	b.This = b
	return b
}

func (b *Base) AsBase() *Base { return b }

func (b *Base) Setup() error { return nil }

func (b *Base) CreateWidgetRepresentation() Widget { return nil }

// Scene returns the scene of the module, or nil.
func (b *Base) Scene() *mrml.Scene {
	return b.scene
}

// SetScene sets the scene of the module and of its
// widget representation, if it has been created.
func (b *Base) SetScene(s *mrml.Scene) {
	b.scene = s
	if b.widget != nil {
		b.widget.SetScene(s)
	}
}

// Enabled returns whether the module is enabled.
func (b *Base) Enabled() bool {
	return b.enabled
}

// SetEnabled sets whether the module is enabled.
func (b *Base) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// HasWidgetRepresentation returns whether the widget
// representation has been created.
func (b *Base) HasWidgetRepresentation() bool {
	return b.widget != nil
}

// WidgetRepresentation returns the widget representation of the module,
// creating it on the first call and giving it the scene of the module.
// It returns nil if the module has none.
func (b *Base) WidgetRepresentation() Widget {
	if b.widget != nil || b.This == nil {
		return b.widget
	}
	b.widget = b.This.CreateWidgetRepresentation()
	if b.widget != nil {
		b.widget.SetScene(b.scene)
	}
	return b.widget
}
