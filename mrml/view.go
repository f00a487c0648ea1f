// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrml

// ViewNode holds the properties of one view of a layout. Views are
// singletons: the layout name of a view is its singleton tag.
type ViewNode struct {
	NodeBase

	// LayoutLabel is the short label shown in the view.
	LayoutLabel string

	// Active is whether the view is the active view of the scene.
	// At most one view of a scene is active.
	Active bool

	// Visibility is whether the view is shown.
	Visibility bool

	// BackgroundColor is the RGB color at the bottom of the background.
	BackgroundColor [3]float64

	// BackgroundColor2 is the RGB color at the top of the background.
	BackgroundColor2 [3]float64
}

// NewViewNode returns a new view node for the given layout name.
func NewViewNode(layoutName ...string) *ViewNode {
	v := InitNode(&ViewNode{})
	if len(layoutName) > 0 {
		v.SetLayoutName(layoutName[0])
	}
	return v
}

// ClassName satisfies the [Node] interface.
func (v *ViewNode) ClassName() string { return "ViewNode" }

// Init sets the defaults of a new ViewNode.
func (v *ViewNode) Init() {
	v.NodeBase.Init()
	v.Visibility = true
	v.BackgroundColor = [3]float64{0.7568, 0.7647, 0.9098}
	v.BackgroundColor2 = [3]float64{0.4549, 0.4705, 0.7450}
}

// LayoutName returns the name of the view in its layout.
func (v *ViewNode) LayoutName() string {
	return v.SingletonTag
}

// SetLayoutName sets the name of the view in its layout.
// It can only be changed while the view is not in a scene.
func (v *ViewNode) SetLayoutName(name string) {
	v.SetSingletonTag(name)
}

// SetLayoutLabel sets [ViewNode.LayoutLabel].
func (v *ViewNode) SetLayoutLabel(label string) {
	setField(&v.NodeBase, &v.LayoutLabel, label)
}

// SetVisibility sets [ViewNode.Visibility].
func (v *ViewNode) SetVisibility(vis bool) {
	setField(&v.NodeBase, &v.Visibility, vis)
}

// SetBackgroundColor sets the two colors of the background gradient.
func (v *ViewNode) SetBackgroundColor(bottom, top [3]float64) {
	prev := v.StartModify()
	defer v.EndModify(prev)
	setField(&v.NodeBase, &v.BackgroundColor, bottom)
	setField(&v.NodeBase, &v.BackgroundColor2, top)
}

// SetActive sets whether the view is active. Activating a view
// deactivates all of the other views of its scene.
func (v *ViewNode) SetActive(active bool) {
	if active && v.scene != nil {
		for _, o := range NodesOf[*ViewNode](v.scene) {
			if o != v {
				o.SetActive(false)
			}
		}
	}
	setField(&v.NodeBase, &v.Active, active)
}

// ActiveView returns the active view of the given scene, or nil.
func ActiveView(s *Scene) *ViewNode {
	for _, v := range NodesOf[*ViewNode](s) {
		if v.Active {
			return v
		}
	}
	return nil
}

// WriteXML adds the ViewNode attributes to a.
func (v *ViewNode) WriteXML(a *XMLAttrs) {
	v.NodeBase.WriteXML(a)
	a.Set("layoutLabel", v.LayoutLabel)
	a.SetBool("active", v.Active)
	a.SetBool("visibility", v.Visibility)
	a.SetFloats("backgroundColor", v.BackgroundColor[:])
	a.SetFloats("backgroundColor2", v.BackgroundColor2[:])
}

// ReadXMLAttributes sets the ViewNode fields from a.
func (v *ViewNode) ReadXMLAttributes(a XMLAttrs) {
	v.NodeBase.ReadXMLAttributes(a)
	if s, ok := a.Get("layoutLabel"); ok {
		v.LayoutLabel = s
	}
	if b, ok := a.Bool("active"); ok {
		v.Active = b
	}
	if b, ok := a.Bool("visibility"); ok {
		v.Visibility = b
	}
	a.FloatsInto("backgroundColor", v.BackgroundColor[:])
	a.FloatsInto("backgroundColor2", v.BackgroundColor2[:])
}

func init() {
	RegisterClass(&Class{Name: "ViewNode", Tag: "View", New: func() Node { return NewViewNode() }})
}
