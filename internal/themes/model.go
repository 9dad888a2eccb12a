// SPDX-License-Identifier: Apache-2.0

// Package themes exposes a project's map themes as an ordered list model with
// an active selection, suitable for binding to a list view.
package themes

import (
	"fmt"
	"slices"
)

// Model mirrors the ordered theme list of a [Collection] and tracks which
// theme is currently applied.
//
// The model holds a non-owning reference to the collection and must not
// outlive it. It is bound to a single goroutine (the UI loop) and performs
// no locking.
type Model struct {
	collection Collection

	themes      []string
	activeIndex int

	// Optional observer hooks. A nil hook is simply skipped.
	OnListChanged        func()
	OnActiveIndexChanged func(index int)
	OnThemeApplied       func(name string)
}

// NewModel creates a list model over collection and performs an initial
// reload. collection may be nil, in which case the model starts empty and
// reloads become no-ops until a collection is attached via [Model.SetCollection].
func NewModel(collection Collection) *Model {
	m := &Model{
		collection:  collection,
		activeIndex: -1,
	}
	m.Reload()
	return m
}

// SetCollection swaps the underlying collection and reloads the list from it.
func (m *Model) SetCollection(collection Collection) {
	m.collection = collection
	m.Reload()
}

// Reload re-reads the full theme list from the collection. The stored list is
// replaced wholesale, and OnListChanged fires only when the new list differs
// element-wise from the current one. With no collection attached this is a
// no-op.
func (m *Model) Reload() {
	if m.collection == nil {
		return
	}
	m.Replace(m.collection.Themes())
}

// Replace bulk-sets the theme list, bypassing the collection. OnListChanged
// fires only when the new list differs element-wise from the current one.
func (m *Model) Replace(themes []string) {
	if slices.Equal(m.themes, themes) {
		return
	}

	m.themes = slices.Clone(themes)
	if m.OnListChanged != nil {
		m.OnListChanged()
	}
}

// Len returns the number of themes in the list.
func (m *Model) Len() int {
	return len(m.themes)
}

// NameAt returns the theme name at row, or the empty string when row is out
// of range.
func (m *Model) NameAt(row int) string {
	if row < 0 || row >= len(m.themes) {
		return ""
	}
	return m.themes[row]
}

// IndexOf returns the row of the first theme equal to name, or fallback when
// no theme matches.
func (m *Model) IndexOf(name string, fallback int) int {
	for i, theme := range m.themes {
		if theme == name {
			return i
		}
	}
	return fallback
}

// ActiveIndex returns the row of the currently applied theme, or -1 when no
// theme has been applied yet.
func (m *Model) ActiveIndex() int {
	return m.activeIndex
}

// SetActiveIndex applies the theme at row to the collection and records it as
// active. Rows outside the list yield [ErrIndexOutOfRange]. On success the
// model fires OnActiveIndexChanged and then OnThemeApplied with the row's
// name; an apply failure leaves the active index untouched and fires nothing.
func (m *Model) SetActiveIndex(row int) error {
	if row < 0 || row >= len(m.themes) {
		return fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, row, len(m.themes))
	}

	name := m.themes[row]
	if m.collection != nil {
		if err := m.collection.Apply(name); err != nil {
			return fmt.Errorf("apply theme %q: %w", name, err)
		}
	}

	m.activeIndex = row
	if m.OnActiveIndexChanged != nil {
		m.OnActiveIndexChanged(row)
	}
	if m.OnThemeApplied != nil {
		m.OnThemeApplied(name)
	}

	return nil
}

// SelectByName resolves name to a row and applies it. An unknown name yields
// [ErrThemeNotFound] rather than falling back to another row.
func (m *Model) SelectByName(name string) error {
	row := m.IndexOf(name, -1)
	if row < 0 {
		return fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	return m.SetActiveIndex(row)
}
