// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"bytes"
	"encoding/xml"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/mrml/events"
)

// XMLAttrs is an ordered list of XML attributes of a node element.
type XMLAttrs []xml.Attr

// Get returns the value of the given attribute and whether it is present.
func (a XMLAttrs) Get(name string) (string, bool) {
	for _, at := range a {
		if at.Name.Local == name {
			return at.Value, true
		}
	}
	return "", false
}

// Set sets the given attribute, replacing any previous value.
func (a *XMLAttrs) Set(name, value string) {
	for i, at := range *a {
		if at.Name.Local == name {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// SetBool sets the given attribute to "true" or "false".
func (a *XMLAttrs) SetBool(name string, v bool) {
	a.Set(name, strconv.FormatBool(v))
}

// SetInt sets the given attribute to the given integer.
func (a *XMLAttrs) SetInt(name string, v int) {
	a.Set(name, strconv.Itoa(v))
}

// SetFloat sets the given attribute to the shortest representation
// of the given number.
func (a *XMLAttrs) SetFloat(name string, v float64) {
	a.Set(name, strconv.FormatFloat(v, 'g', -1, 64))
}

// SetFloats sets the given attribute to the space separated numbers.
func (a *XMLAttrs) SetFloats(name string, v []float64) {
	s := make([]string, len(v))
	for i, f := range v {
		s[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	a.Set(name, strings.Join(s, " "))
}

// Bool returns the value of the given boolean attribute. The result is
// false if the attribute is missing or invalid, which is logged.
func (a XMLAttrs) Bool(name string) (v bool, ok bool) {
	s, ok := a.Get(name)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	if errors.Log(err) != nil {
		return false, false
	}
	return v, true
}

// Int returns the value of the given integer attribute.
func (a XMLAttrs) Int(name string) (v int, ok bool) {
	s, ok := a.Get(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if errors.Log(err) != nil {
		return 0, false
	}
	return v, true
}

// Float returns the value of the given number attribute.
func (a XMLAttrs) Float(name string) (v float64, ok bool) {
	s, ok := a.Get(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if errors.Log(err) != nil {
		return 0, false
	}
	return v, true
}

// Floats returns the values of the given attribute of space separated numbers.
func (a XMLAttrs) Floats(name string) ([]float64, bool) {
	s, ok := a.Get(name)
	if !ok {
		return nil, false
	}
	fs := strings.Fields(s)
	v := make([]float64, len(fs))
	for i, f := range fs {
		var err error
		v[i], err = strconv.ParseFloat(f, 64)
		if errors.Log(err) != nil {
			return nil, false
		}
	}
	return v, true
}

// FloatsInto sets the given array from the given attribute of space separated
// numbers, if it has exactly the length of the array.
func (a XMLAttrs) FloatsInto(name string, dst []float64) bool {
	v, ok := a.Floats(name)
	if !ok {
		return false
	}
	if len(v) != len(dst) {
		slog.Warn("mrml: wrong number of values in attribute", "attribute", name, "want", len(dst), "got", len(v))
		return false
	}
	copy(dst, v)
	return true
}

var (
	attrEscaper   = strings.NewReplacer("%", "%25", ":", "%3A", ";", "%3B")
	attrUnescaper = strings.NewReplacer("%3A", ":", "%3B", ";", "%25", "%")
)

// encodePairs encodes the given key value pairs as "key:value;" entries.
func encodePairs(keys []string, value func(k string) string) string {
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(attrEscaper.Replace(k))
		b.WriteByte(':')
		b.WriteString(attrEscaper.Replace(value(k)))
		b.WriteByte(';')
	}
	return b.String()
}

// decodePairs decodes "key:value;" entries, calling fun for each of them.
func decodePairs(s string, fun func(k, v string)) {
	for _, e := range strings.Split(s, ";") {
		if e == "" {
			continue
		}
		k, v, ok := strings.Cut(e, ":")
		if !ok {
			slog.Warn("mrml: invalid key:value entry", "entry", e)
			continue
		}
		fun(attrUnescaper.Replace(k), attrUnescaper.Replace(v))
	}
}

// WriteXML writes the attributes shared by all nodes and the references.
func (n *NodeBase) WriteXML(a *XMLAttrs) {
	a.Set("id", n.ID)
	a.Set("name", n.Name)
	a.SetBool("hideFromEditor", n.HideFromEditor)
	if !n.SaveWithScene {
		a.SetBool("saveWithScene", false)
	}
	if n.SingletonTag != "" {
		a.Set("singletonTag", n.SingletonTag)
	}
	if len(n.Attributes) > 0 {
		a.Set("attributes", encodePairs(slices.Sorted(maps.Keys(n.Attributes)), func(k string) string { return n.Attributes[k] }))
	}
	var dynamic []string
	for _, role := range n.refs.roleNames() {
		ids := strings.Join(n.NodeReferenceIDs(role), " ")
		if r := n.refs.role(role); r.MRMLAttributeName != "" {
			a.Set(r.MRMLAttributeName, ids)
			continue
		}
		dynamic = append(dynamic, role)
	}
	if len(dynamic) > 0 {
		a.Set("references", encodePairs(dynamic, func(role string) string { return strings.Join(n.NodeReferenceIDs(role), " ") }))
	}
}

// ReadXMLAttributes reads the attributes shared by all nodes and the references.
// References are stored without being linked.
func (n *NodeBase) ReadXMLAttributes(a XMLAttrs) {
	prev := n.StartModify()
	defer n.EndModify(prev)
	for _, at := range a {
		v := at.Value
		switch at.Name.Local {
		case "id":
			n.ID = v
		case "name":
			n.Name = v
		case "hideFromEditor":
			n.HideFromEditor, _ = a.Bool("hideFromEditor")
		case "saveWithScene":
			if b, ok := a.Bool("saveWithScene"); ok {
				n.SaveWithScene = b
			}
		case "singletonTag":
			n.SingletonTag = v
		case "attributes":
			n.Attributes = map[string]string{}
			decodePairs(v, func(k, v string) { n.Attributes[k] = v })
		case "references":
			decodePairs(v, func(role, ids string) { n.readReferenceIDs(role, ids) })
		default:
			if r := n.refs.roleForAttribute(at.Name.Local); r != nil {
				n.readReferenceIDs(r.Name, v)
			}
		}
	}
	n.Modified()
}

// readReferenceIDs replaces the IDs of the given role with the given space
// separated IDs. References of roles that observe events are observed.
func (n *NodeBase) readReferenceIDs(role, ids string) {
	r := n.refs.ensureRole(role)
	n.removeReferences(role)
	for _, id := range strings.Fields(ids) {
		if !r.AllowDuplicates && n.HasNodeReferenceID(role, id) {
			continue
		}
		ref := &Reference{Role: role, ID: id, Observe: len(r.Events) > 0}
		n.insertReference(ref, len(n.refs.list(role)))
		n.linkReference(ref)
	}
}

// NodeXMLTag returns the XML element name of the given node.
func NodeXMLTag(n Node) string {
	if c := classOf(n); c.Tag != "" {
		return c.Tag
	}
	return n.ClassName()
}

// Commit writes the nodes of the scene that are saved with the scene as
// XML to the given writer, in order of addition.
func (s *Scene) Commit(w io.Writer) error {
	return s.commit(w, false)
}

// CommitAll is like [Scene.Commit] but also writes the nodes that are
// not saved with the scene, so that the result can be used to restore
// the complete state of the scene.
func (s *Scene) CommitAll(w io.Writer) error {
	return s.commit(w, true)
}

// CommitString returns the result of [Scene.Commit] as a string.
func (s *Scene) CommitString() (string, error) {
	var b bytes.Buffer
	err := s.Commit(&b)
	return b.String(), err
}

func (s *Scene) commit(w io.Writer, all bool) error {
	s.InvokeEvent(events.StartSave, nil)
	defer s.InvokeEvent(events.EndSave, nil)
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	root := xml.StartElement{Name: xml.Name{Local: "MRML"}, Attr: []xml.Attr{{Name: xml.Name{Local: "version"}, Value: Version}}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, n := range s.nodes {
		if !all && !n.AsNode().SaveWithScene {
			continue
		}
		var attrs XMLAttrs
		n.WriteXML(&attrs)
		el := xml.StartElement{Name: xml.Name{Local: NodeXMLTag(n)}, Attr: attrs}
		if err := enc.EncodeToken(el); err != nil {
			return err
		}
		if err := enc.EncodeToken(el.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
