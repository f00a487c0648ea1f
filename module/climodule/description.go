// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package climodule

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Description is the self description printed by a command line
// module executable when it is run with --xml.
type Description struct {
	XMLName xml.Name `xml:"executable"`

	Category         string `xml:"category"`
	Title            string `xml:"title"`
	Description      string `xml:"description"`
	VersionString    string `xml:"version"`
	DocumentationURL string `xml:"documentation-url"`
	License          string `xml:"license"`
	Contributor      string `xml:"contributor"`
	Acknowledgements string `xml:"acknowledgements"`

	// Version is the parsed version, or nil if there is none or
	// it is not a valid semantic version.
	Version *semver.Version `xml:"-"`

	ParameterGroups []ParameterGroup `xml:"parameters"`
}

// ParameterGroup is a labeled group of parameters.
type ParameterGroup struct {
	Label       string
	Description string
	Advanced    bool
	Parameters  []Parameter
}

// Parameter is one parameter of a module. Its Tag is the kind of the
// parameter, such as "integer", "float", "boolean", "string" or "image".
type Parameter struct {
	Tag         string `xml:"-"`
	Name        string `xml:"name"`
	Flag        string `xml:"flag"`
	LongFlag    string `xml:"longflag"`
	Index       *int   `xml:"index"`
	Label       string `xml:"label"`
	Description string `xml:"description"`
	Default     string `xml:"default"`
	Channel     string `xml:"channel"`
	Hidden      bool   `xml:"hidden,attr"`
	Multiple    bool   `xml:"multiple,attr"`
}

// IsFlag returns whether the parameter is given on the command line
// with a flag rather than by position.
func (p *Parameter) IsFlag() bool {
	return p.Index == nil && (p.Flag != "" || p.LongFlag != "")
}

// IsOutput returns whether the parameter is an output of the module.
func (p *Parameter) IsOutput() bool {
	return p.Channel == "output"
}

// flagName returns the flag used on the command line, preferring the long flag.
func (p *Parameter) flagName() string {
	if p.LongFlag != "" {
		if strings.HasPrefix(p.LongFlag, "-") {
			return p.LongFlag
		}
		return "--" + p.LongFlag
	}
	if strings.HasPrefix(p.Flag, "-") {
		return p.Flag
	}
	return "-" + p.Flag
}

func (g *ParameterGroup) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "advanced" {
			g.Advanced = a.Value == "true"
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "label":
				if err := d.DecodeElement(&g.Label, &t); err != nil {
					return err
				}
			case "description":
				if err := d.DecodeElement(&g.Description, &t); err != nil {
					return err
				}
			default:
				p := Parameter{Tag: t.Name.Local}
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				g.Parameters = append(g.Parameters, p)
			}
		case xml.EndElement:
			return nil
		}
	}
}

// ParseDescription parses the given XML self description. It returns the
// warnings about recoverable problems, such as an invalid version.
func ParseDescription(data []byte) (*Description, []string, error) {
	desc := &Description{}
	if err := xml.Unmarshal(data, desc); err != nil {
		return nil, nil, fmt.Errorf("parsing XML description: %w", err)
	}
	desc.trim()
	if desc.Title == "" {
		return nil, nil, fmt.Errorf("XML description has no title")
	}
	var warnings []string
	if desc.VersionString != "" {
		v, err := semver.NewVersion(desc.VersionString)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid version %q: %v", desc.VersionString, err))
		} else {
			desc.Version = v
		}
	}
	for i, p := range desc.Parameters() {
		if p.Name == "" {
			return nil, warnings, fmt.Errorf("parameter %d (%s) has no name", i, p.Tag)
		}
		if p.Index == nil && p.Flag == "" && p.LongFlag == "" {
			warnings = append(warnings, fmt.Sprintf("parameter %q has neither index nor flag", p.Name))
		}
	}
	return desc, warnings, nil
}

func (desc *Description) trim() {
	for _, s := range []*string{&desc.Category, &desc.Title, &desc.Description, &desc.VersionString,
		&desc.DocumentationURL, &desc.License, &desc.Contributor, &desc.Acknowledgements} {
		*s = strings.TrimSpace(*s)
	}
	for gi := range desc.ParameterGroups {
		g := &desc.ParameterGroups[gi]
		g.Label = strings.TrimSpace(g.Label)
		g.Description = strings.TrimSpace(g.Description)
		for pi := range g.Parameters {
			p := &g.Parameters[pi]
			for _, s := range []*string{&p.Name, &p.Flag, &p.LongFlag, &p.Label, &p.Description, &p.Default, &p.Channel} {
				*s = strings.TrimSpace(*s)
			}
		}
	}
}

// Parameters returns all parameters of all groups.
func (desc *Description) Parameters() []Parameter {
	var ps []Parameter
	for _, g := range desc.ParameterGroups {
		ps = append(ps, g.Parameters...)
	}
	return ps
}

// Parameter returns the parameter with the given name, or nil.
func (desc *Description) Parameter(name string) *Parameter {
	for gi := range desc.ParameterGroups {
		g := &desc.ParameterGroups[gi]
		for pi := range g.Parameters {
			if g.Parameters[pi].Name == name {
				return &g.Parameters[pi]
			}
		}
	}
	return nil
}

// Contributors returns the contributors, split on commas.
func (desc *Description) Contributors() []string {
	var res []string
	for _, c := range strings.Split(desc.Contributor, ",") {
		if c = strings.TrimSpace(c); c != "" {
			res = append(res, c)
		}
	}
	return res
}
