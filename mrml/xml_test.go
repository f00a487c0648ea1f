// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

import (
	"strings"
	"testing"

	"cogentcore.org/mrml/events"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScene(t *testing.T) *Scene {
	s := NewScene()
	tr := NewLinearTransformNode()
	tr.SetName("T")
	tr.SetMatrixTransformToParent(Translation4(1, 2, 3.5))
	mustAdd(t, s, tr)

	v := NewScalarVolumeNode()
	v.SetName("V")
	v.SetSpacing([3]float64{0.5, 0.5, 2})
	v.SetAttribute("a:b", "c;d%")
	mustAdd(t, s, v)
	v.SetAndObserveTransformNodeID(tr.ID)

	d := mustAdd(t, s, NewModelDisplayNode())
	d.SetColor([3]float64{1, 0, 0})
	view := mustAdd(t, s, NewViewNode("Red"))
	d.AddViewNodeID(view.ID)
	m := mustAdd(t, s, NewModelNode())
	m.AddAndObserveDisplayNodeID(d.ID)

	sel := mustAdd(t, s, NewSelectionNode())
	sel.SetActiveVolumeID(v.ID)
	u := mustAdd(t, s, NewUnitNode())
	u.SetQuantity("length")
	u.SetSuffix("mm")
	sel.SetUnitNodeID("length", u.ID)
	return s
}

func TestCommitImportRoundTrip(t *testing.T) {
	s := buildScene(t)
	doc, err := s.CommitString()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `transformNodeRef="LinearTransformNode1"`)
	assert.Contains(t, doc, `references="unit/length:UnitNode1;"`)

	s2 := NewScene()
	require.NoError(t, s2.ImportString(doc))
	doc2, err := s2.CommitString()
	require.NoError(t, err)
	if diff := cmp.Diff(doc, doc2); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	v := s2.NodeByID("ScalarVolumeNode1").(*ScalarVolumeNode)
	assert.Equal(t, "V", v.Name)
	assert.Equal(t, [3]float64{0.5, 0.5, 2}, v.Spacing)
	at, _ := v.Attribute("a:b")
	assert.Equal(t, "c;d%", at)
	tr := v.ParentTransformNode()
	require.NotNil(t, tr)
	assert.Equal(t, Translation4(1, 2, 3.5), tr.MatrixTransformToParent)

	m := s2.NthNodeByClass(0, "ModelNode").(*ModelNode)
	d := m.NthDisplayNode(0).AsDisplay()
	assert.Equal(t, [3]float64{1, 0, 0}, d.Color)
	assert.True(t, d.IsDisplayableInView("ViewNode1"))
	assert.False(t, d.IsDisplayableInView("ViewNode2"))

	sel := s2.NthNodeByClass(0, "SelectionNode").(*SelectionNode)
	assert.Equal(t, "mm", sel.UnitNode("length").Suffix)
	assert.Equal(t, []string{"length"}, sel.Quantities())
	assert.Equal(t, "Red", s2.NthNodeByClass(0, "ViewNode").(*ViewNode).LayoutName())
}

func TestCommitSkipsUnsavedNodes(t *testing.T) {
	s := NewScene()
	u := NewUnitNode()
	u.SaveWithScene = false
	mustAdd(t, s, u)
	mustAdd(t, s, NewLinearTransformNode())
	doc, err := s.CommitString()
	require.NoError(t, err)
	assert.NotContains(t, doc, "<Unit")
	assert.Contains(t, doc, "<LinearTransform")

	var b strings.Builder
	require.NoError(t, s.CommitAll(&b))
	assert.Contains(t, b.String(), `saveWithScene="false"`)
}

func TestImportForwardReference(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<MRML version="1.0">
 <Volume id="Volume1" name="V" transformNodeRef="Transform4" unknownAttribute="x"></Volume>
 <Unknown id="Unknown1"></Unknown>
 <LinearTransform id="Transform4" name="T" matrixTransformToParent="1 0 0 5 0 1 0 0 0 0 1 0 0 0 0 1"></LinearTransform>
</MRML>`
	s := NewScene()
	var order []string
	s.AddObserver(events.NodeAdded, func(ev *events.Event) {
		n := ev.Data.(Node)
		order = append(order, n.AsNode().ID)
		// references are all linked before any NodeAdded
		if v, ok := n.(*ScalarVolumeNode); ok {
			assert.NotNil(t, v.ParentTransformNode())
		}
	})
	var phases []events.Types
	s.AddObserver(events.AnyEvent, func(ev *events.Event) {
		if ev.Type == events.StartImport || ev.Type == events.EndImport {
			phases = append(phases, ev.Type)
		}
	})
	require.NoError(t, s.ImportString(doc))

	assert.Equal(t, []string{"Volume1", "Transform4"}, order)
	assert.Equal(t, []events.Types{events.StartImport, events.EndImport}, phases)
	assert.Equal(t, 2, s.NumberOfNodes())
	v := s.NodeByID("Volume1").(*ScalarVolumeNode)
	tr := v.ParentTransformNode()
	require.NotNil(t, tr)
	assert.Equal(t, "T", tr.Name)
	assert.Equal(t, [3]float64{5, 0, 0}, v.TransformToWorld().MulPoint([3]float64{}))
	assert.False(t, s.IsImporting())
}

func TestImportReferenceModifiedOnce(t *testing.T) {
	s := NewScene()
	m := mustAdd(t, s, NewModelNode())
	m.AddAndObserveDisplayNodeID("D1")
	m.AddAndObserveDisplayNodeID("D2")
	c := counter{}
	m.AddObserver(events.AnyEvent, c.observe)

	doc := `<MRML>
 <ModelDisplay id="D1"></ModelDisplay>
 <ModelDisplay id="D2"></ModelDisplay>
</MRML>`
	require.NoError(t, s.ImportString(doc))
	assert.Equal(t, 2, len(m.DisplayNodes()))
	assert.Equal(t, 2, c[events.ReferenceAdded])
	assert.Equal(t, 1, c[events.ReferenceModified])
}

func TestImportRemapsCollidingIDs(t *testing.T) {
	s := NewScene()
	existing := mustAdd(t, s, NewLinearTransformNode())
	existing.SetName("existing")

	doc := `<MRML>
 <LinearTransform id="LinearTransformNode1" name="imported"></LinearTransform>
 <Volume id="ScalarVolumeNode1" transformNodeRef="LinearTransformNode1"></Volume>
</MRML>`
	require.NoError(t, s.ImportString(doc))
	imported := s.FirstNodeByName("imported")
	require.NotNil(t, imported)
	assert.Equal(t, "LinearTransformNode2", imported.AsNode().ID)
	assert.Equal(t, "existing", s.NodeByID("LinearTransformNode1").AsNode().Name)

	v := s.NodeByID("ScalarVolumeNode1").(*ScalarVolumeNode)
	assert.Equal(t, "LinearTransformNode2", v.TransformNodeID())
	assert.Same(t, imported, v.ParentTransformNode())
	assert.Empty(t, s.ReferencingNodes(existing))
}

func TestImportMergesSingletons(t *testing.T) {
	s := NewScene()
	sel := mustAdd(t, s, NewSelectionNode())
	doc := `<MRML>
 <Selection id="Selection7" name="imported" singletonTag="Singleton" activeVolumeID="V1"></Selection>
 <Volume id="V1"></Volume>
</MRML>`
	require.NoError(t, s.ImportString(doc))
	assert.Equal(t, 1, s.NumberOfNodesByClass("SelectionNode"))
	assert.Equal(t, "SelectionNode1", sel.ID)
	assert.Equal(t, "imported", sel.Name)
	assert.Equal(t, "V1", sel.ActiveVolumeID())
	assert.Same(t, s.NodeByID("V1"), sel.ReferencedNode(ActiveVolumeReferenceRole))
}

func TestImportErrors(t *testing.T) {
	s := NewScene()
	assert.Error(t, s.ImportString(`<Scene></Scene>`))
	assert.Error(t, s.ImportString(`<MRML><View`))
	assert.Error(t, s.ImportString(``))
	assert.Equal(t, 0, s.NumberOfNodes())
}

func TestConnectAndRestore(t *testing.T) {
	s := buildScene(t)
	var b strings.Builder
	require.NoError(t, s.CommitAll(&b))
	sel := s.NthNodeByClass(0, "SelectionNode")

	mustAdd(t, s, NewLinearTransformNode())
	require.NoError(t, s.Restore(strings.NewReader(b.String())))
	assert.False(t, s.IsRestoring())
	assert.Same(t, sel, s.NthNodeByClass(0, "SelectionNode"))
	assert.Equal(t, 1, s.NumberOfNodesByClass("LinearTransformNode"))
	assert.Equal(t, "LinearTransformNode1", s.NthNodeByClass(0, "LinearTransformNode").AsNode().ID)
	assert.Equal(t, "mm", sel.(*SelectionNode).UnitNode("length").Suffix)

	require.NoError(t, s.Connect(strings.NewReader(`<MRML><View id="V" singletonTag="Green"></View></MRML>`)))
	assert.Equal(t, 3, s.NumberOfNodes())
	assert.NotNil(t, s.SingletonNode("ViewNode", "Green"))
}

func TestAttributePairsEscaping(t *testing.T) {
	keys := []string{"a:b", "c;d", "e%f"}
	enc := encodePairs(keys, func(k string) string { return k + "=" })
	got := map[string]string{}
	decodePairs(enc, func(k, v string) { got[k] = v })
	assert.Equal(t, map[string]string{"a:b": "a:b=", "c;d": "c;d=", "e%f": "e%f="}, got)
}
