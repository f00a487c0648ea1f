// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cogentcore.org/mrml/events"
)

// element is one node element of a scene document.
type element struct {
	tag   string
	attrs XMLAttrs
}

// decodeDocument reads the node elements of a scene document.
// Elements nested in node elements are ignored.
func decodeDocument(r io.Reader) ([]element, error) {
	dec := xml.NewDecoder(r)
	var els []element
	depth := 0
	root := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mrml: decoding scene: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case depth == 1:
				if t.Name.Local != "MRML" {
					return nil, fmt.Errorf("mrml: decoding scene: root element is %q, not MRML", t.Name.Local)
				}
				root = true
			case depth == 2:
				attrs := make(XMLAttrs, len(t.Attr))
				for i, a := range t.Attr {
					attrs[i] = xml.Attr{Name: xml.Name{Local: a.Name.Local}, Value: a.Value}
				}
				els = append(els, element{tag: t.Name.Local, attrs: attrs})
			}
		case xml.EndElement:
			depth--
		}
	}
	if !root {
		return nil, fmt.Errorf("mrml: decoding scene: no MRML root element")
	}
	return els, nil
}

// singletonMerge is a node of a document that is to be merged into
// an existing singleton node.
type singletonMerge struct {
	existing, source Node
}

// Import reads nodes from the given scene document and adds them to the scene.
//
// All nodes are created and inserted first, without resolving any
// reference. Nodes with an ID that is already used get a new ID, and
// singleton nodes are merged into the existing node of the same class and
// tag. Then the references of the imported nodes are updated for the
// changed IDs and linked, with one [events.ReferenceModified] per node
// whose references were linked. Finally [events.NodeAdded] is emitted for
// each imported node in document order.
//
// Elements of unregistered classes are skipped, as are unknown attributes.
func (s *Scene) Import(r io.Reader) error {
	els, err := decodeDocument(r)
	if err != nil {
		return err
	}
	s.importElements(els)
	return nil
}

// importElements implements [Scene.Import] for decoded elements.
func (s *Scene) importElements(els []element) {
	s.importing = true
	s.InvokeEvent(events.StartImport, nil)
	defer func() {
		s.importing = false
		s.InvokeEvent(events.EndImport, nil)
	}()

	reserved := map[string]bool{}
	for _, el := range els {
		if id, ok := el.attrs.Get("id"); ok && id != "" {
			reserved[id] = true
		}
	}

	changes := map[string]string{}
	var added []Node
	var merges []singletonMerge
	for _, el := range els {
		c := s.tags[el.tag]
		if c == nil || c.New == nil {
			slog.Warn("mrml.Scene.Import: skipping element of unknown class", "tag", el.tag)
			continue
		}
		n := c.New()
		n.ReadXMLAttributes(el.attrs)
		nb := n.AsNode()
		oldID := nb.ID
		if ex := s.SingletonNode(n.ClassName(), nb.SingletonTag); ex != nil {
			merges = append(merges, singletonMerge{existing: ex, source: n})
			if oldID != "" && oldID != ex.AsNode().ID {
				changes[oldID] = ex.AsNode().ID
			}
			continue
		}
		if oldID == "" || s.byID[oldID] != nil {
			nb.ID = s.uniqueID(n.ClassName(), reserved)
			if oldID != "" {
				changes[oldID] = nb.ID
			}
		}
		s.insert(n)
		added = append(added, n)
	}
	s.generation++

	for _, n := range added {
		n.AsNode().renameReferences(changes)
	}
	for _, m := range merges {
		m.source.AsNode().renameReferences(changes)
		m.existing.CopyContent(m.source)
	}
	linked := map[Node]bool{}
	for _, n := range added {
		if n.AsNode().linkReferences() > 0 {
			n.AsNode().referenceModified("")
		}
		linked[n] = true
	}
	s.resolveReferencesTo(added, linked)

	for _, n := range added {
		s.InvokeEvent(events.NodeAdded, n)
	}
	if len(changes) > 0 {
		slog.Info("mrml.Scene.Import: changed node IDs", "changes", changes)
	}
}

// ImportString is like [Scene.Import] for a document in a string.
func (s *Scene) ImportString(doc string) error {
	return s.Import(strings.NewReader(doc))
}

// Connect clears the scene, keeping the singletons, and imports the given document.
func (s *Scene) Connect(r io.Reader) error {
	s.Clear(false)
	return s.Import(r)
}

// Restore replaces the complete content of the scene by the given document,
// typically written by [Scene.CommitAll]. Singleton nodes are kept and updated
// in place, and nodes get back the IDs they had when the document was written.
func (s *Scene) Restore(r io.Reader) error {
	els, err := decodeDocument(r)
	if err != nil {
		return err
	}
	s.restoring = true
	s.InvokeEvent(events.StartRestore, nil)
	defer func() {
		s.restoring = false
		s.InvokeEvent(events.EndRestore, nil)
	}()
	s.Clear(false)
	s.importElements(els)
	return nil
}
