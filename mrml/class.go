// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"reflect"
	"sort"
)

// Class describes one node class: its place in the class hierarchy,
// the XML element name used for it and how to make new instances.
type Class struct {

	// Name is the class name, as returned by [Node.ClassName].
	Name string

	// Parent is the name of the parent class. It is empty only for
	// the root class "Node".
	Parent string

	// Tag is the XML element name of the class. Abstract classes
	// have no tag and can not be imported.
	Tag string

	// New returns a new initialized instance of the class.
	// It is nil for abstract classes.
	New func() Node
}

var (
	classes    = map[string]*Class{}
	classByTag = map[string]*Class{}
)

// RegisterClass adds the given class to the global registry, replacing
// any class with the same name, and returns it. It must only be called
// during program initialization, typically in init functions.
func RegisterClass(c *Class) *Class {
	if c.Parent == "" && c.Name != "Node" {
		c.Parent = "Node"
	}
	classes[c.Name] = c
	if c.Tag != "" {
		classByTag[c.Tag] = c
	}
	return c
}

// ClassByName returns the registered class with the given name, or nil.
func ClassByName(name string) *Class {
	return classes[name]
}

// ClassByTag returns the registered class with the given XML tag, or nil.
func ClassByTag(tag string) *Class {
	return classByTag[tag]
}

// ClassNames returns the sorted names of all registered classes.
func ClassNames() []string {
	names := make([]string, 0, len(classes))
	for nm := range classes {
		names = append(names, nm)
	}
	sort.Strings(names)
	return names
}

// ClassChain returns the given class name followed by the names of all
// of its ancestor classes, ending with "Node". An unregistered class
// is treated as a direct child of "Node".
func ClassChain(name string) []string {
	chain := []string{name}
	seen := map[string]bool{name: true}
	for {
		c := classes[name]
		if c == nil {
			if name != "Node" {
				chain = append(chain, "Node")
			}
			return chain
		}
		if c.Parent == "" || seen[c.Parent] {
			return chain
		}
		name = c.Parent
		seen[name] = true
		chain = append(chain, name)
	}
}

// IsA returns whether the given node is of the given class or of one
// of its subclasses.
func IsA(n Node, class string) bool {
	for _, c := range ClassChain(n.ClassName()) {
		if c == class {
			return true
		}
	}
	return false
}

// classOf returns the class of the given node, registering a class for
// it with a reflection based factory if there is none yet.
func classOf(n Node) *Class {
	if c := classes[n.ClassName()]; c != nil {
		return c
	}
	typ := reflect.TypeOf(n).Elem()
	return RegisterClass(&Class{
		Name: n.ClassName(),
		Tag:  n.ClassName(),
		New: func() Node {
			return InitNode(reflect.New(typ).Interface().(Node))
		},
	})
}

// NewInstance returns a new initialized instance of the class of the given node.
func NewInstance(n Node) Node {
	c := classOf(n)
	if c.New != nil {
		return c.New()
	}
	return InitNode(reflect.New(reflect.TypeOf(n).Elem()).Interface().(Node))
}

func init() {
	RegisterClass(&Class{Name: "Node", Tag: "Node", New: func() Node { return NewNodeBase() }})
}
