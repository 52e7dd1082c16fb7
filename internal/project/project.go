// Package project resolves which project a front-end is working in.
//
// A project is identified by an opaque string, normally the absolute
// path of the working directory the front-end was started from. No
// normalization is applied: "/a/b" and "/a/b/" name different projects.
package project

import (
	"errors"
	"os"

	"github.com/HendryAvila/tickets/internal/tickets"
)

// Resolver determines the current project identifier.
type Resolver struct {
	// Override replaces the working directory when non-empty. Front-ends
	// fill it from configuration or their environment.
	Override string
	// Getwd defaults to os.Getwd.
	Getwd func() (string, error)
}

// New returns a Resolver with the given override.
func New(override string) *Resolver {
	return &Resolver{Override: override, Getwd: os.Getwd}
}

// Current returns the override verbatim, or else the working directory
// verbatim.
func (r *Resolver) Current() (string, error) {
	if r.Override != "" {
		return r.Override, nil
	}
	getwd := r.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	dir, err := getwd()
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", errors.New("project: working directory is empty")
	}
	return dir, nil
}

// Scope returns tickets.AllProjects when all is set, else Current.
func (r *Resolver) Scope(all bool) (string, error) {
	if all {
		return tickets.AllProjects, nil
	}
	return r.Current()
}

// FirstNonEmpty returns the first non-empty value. Front-ends use it to
// layer override sources, highest precedence first.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
