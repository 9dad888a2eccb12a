// SPDX-License-Identifier: Apache-2.0

// Package qgis reads the subset of a QGIS project file the client needs:
// the project title and its visibility presets (map themes).
package qgis

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// ErrUnknownPreset is returned when a theme name does not match any
// visibility preset declared in the project file.
var ErrUnknownPreset = errors.New("unknown visibility preset")

// Project is a parsed QGIS project document. It satisfies the theme
// collection contract of the list model: Themes in document order, Apply by
// exact name.
type Project struct {
	path    string
	title   string
	presets []string
	active  string
}

// projectDocument mirrors the fragments of the .qgs XML we care about.
type projectDocument struct {
	XMLName xml.Name        `xml:"qgis"`
	Title   string          `xml:"title"`
	Presets []presetElement `xml:"visibility-presets>visibility-preset"`
}

type presetElement struct {
	Name string `xml:"name,attr"`
}

// LoadProject reads and parses the QGIS project file at path.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	var doc projectDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse project file %s: %w", path, err)
	}

	presets := make([]string, 0, len(doc.Presets))
	for _, preset := range doc.Presets {
		presets = append(presets, preset.Name)
	}

	log.Debug().Str("path", path).Int("presets", len(presets)).Msg("loaded QGIS project")

	return &Project{
		path:    path,
		title:   doc.Title,
		presets: presets,
	}, nil
}

// Path returns the location the project was loaded from.
func (p *Project) Path() string { return p.path }

// Title returns the project title, possibly empty.
func (p *Project) Title() string { return p.title }

// Themes returns the visibility preset names in document order.
func (p *Project) Themes() []string {
	return p.presets
}

// Apply activates the named preset. The active preset is tracked on the
// project; rendering is owned by QGIS itself and out of scope here.
func (p *Project) Apply(name string) error {
	for _, preset := range p.presets {
		if preset == name {
			p.active = name
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// ActiveTheme returns the most recently applied preset name, or the empty
// string when none has been applied.
func (p *Project) ActiveTheme() string { return p.active }
