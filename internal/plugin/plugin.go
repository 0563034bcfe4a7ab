// Package plugin defines how admin console entries are registered and
// mounted. Each entry lives under a section and renders in the content area
// when selected.
package plugin

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/admin-console/internal/datarequest"
	"github.com/nhle/admin-console/internal/model"
)

var (
	// ErrDuplicate is returned when an entry is registered twice.
	ErrDuplicate = errors.New("plugin already registered")

	// ErrInvalid is returned for registrations missing a name or factory.
	ErrInvalid = errors.New("invalid plugin registration")
)

// Component is a mounted plugin instance.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)

	// Dispose is called when the host unmounts the component. Results
	// arriving afterwards must be ignored.
	Dispose()
}

// Deps is the capability set handed to every component.
type Deps struct {
	Requester     datarequest.Requester
	Logger        logrus.FieldLogger
	FlashDuration time.Duration
}

// Attrs carries per-mount arguments.
type Attrs struct {
	// Notification, when set, opens the entry on an existing record.
	Notification *model.Notification
}

// Factory builds a fresh component.
type Factory func(deps Deps, attrs Attrs) Component

// Plugin describes a registrable console entry.
type Plugin struct {
	Section  string
	Name     string
	Subtitle string
	New      Factory
}

// OpenMsg asks the host to mount the named entry with attrs.
type OpenMsg struct {
	Section string
	Name    string
	Attrs   Attrs
}

// Open returns a command emitting an OpenMsg.
func Open(section, name string, attrs Attrs) tea.Cmd {
	return func() tea.Msg {
		return OpenMsg{Section: section, Name: name, Attrs: attrs}
	}
}

// Section groups entries under one heading.
type Section struct {
	Name    string
	Entries []Plugin
}

// Registry holds plugins in registration order. It is populated at
// startup and read by the host; it is not safe for concurrent writes.
type Registry struct {
	sections []Section
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds p to its section, creating the section on first use.
func (r *Registry) Register(p Plugin) error {
	if p.Section == "" || p.Name == "" {
		return fmt.Errorf("%w: section and name are required", ErrInvalid)
	}
	if p.New == nil {
		return fmt.Errorf("%w: %s/%s has no factory", ErrInvalid, p.Section, p.Name)
	}

	for i := range r.sections {
		s := &r.sections[i]
		if s.Name != p.Section {
			continue
		}
		for _, e := range s.Entries {
			if e.Name == p.Name {
				return fmt.Errorf("%w: %s/%s", ErrDuplicate, p.Section, p.Name)
			}
		}
		s.Entries = append(s.Entries, p)
		return nil
	}

	r.sections = append(r.sections, Section{Name: p.Section, Entries: []Plugin{p}})
	return nil
}

// Sections returns a copy of the registered sections.
func (r *Registry) Sections() []Section {
	out := make([]Section, len(r.sections))
	for i, s := range r.sections {
		out[i] = Section{Name: s.Name, Entries: append([]Plugin(nil), s.Entries...)}
	}
	return out
}

// Lookup finds an entry by section and name.
func (r *Registry) Lookup(section, name string) (Plugin, bool) {
	for _, s := range r.sections {
		if s.Name != section {
			continue
		}
		for _, e := range s.Entries {
			if e.Name == name {
				return e, true
			}
		}
	}
	return Plugin{}, false
}
