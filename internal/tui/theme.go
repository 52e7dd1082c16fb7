package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/HendryAvila/tickets/internal/tickets"
)

// Theme defines the color palette for the ticket browser. All colors
// are ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	StatusPending     lipgloss.Color
	StatusInProgress  lipgloss.Color
	StatusReadyToTest lipgloss.Color
	StatusClosed      lipgloss.Color

	PriorityHigh   lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityLow    lipgloss.Color

	AuthorHuman lipgloss.Color
	AuthorAgent lipgloss.Color

	HeaderForeground lipgloss.Color
	AccentForeground lipgloss.Color // ticket IDs and tags
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	ErrorText        lipgloss.Color
	NoticeText       lipgloss.Color
}

// StatusColor returns the color for a status, or FaintText for
// unknown values.
func (theme Theme) StatusColor(status tickets.Status) lipgloss.Color {
	switch status {
	case tickets.StatusPending:
		return theme.StatusPending
	case tickets.StatusInProgress:
		return theme.StatusInProgress
	case tickets.StatusReadyToTest:
		return theme.StatusReadyToTest
	case tickets.StatusClosed:
		return theme.StatusClosed
	default:
		return theme.FaintText
	}
}

// PriorityColor returns the color for a priority, or NormalText for
// unknown values.
func (theme Theme) PriorityColor(priority tickets.Priority) lipgloss.Color {
	switch priority {
	case tickets.PriorityHigh:
		return theme.PriorityHigh
	case tickets.PriorityMedium:
		return theme.PriorityMedium
	case tickets.PriorityLow:
		return theme.PriorityLow
	default:
		return theme.NormalText
	}
}

// AuthorColor returns the color for a comment author.
func (theme Theme) AuthorColor(author tickets.Author) lipgloss.Color {
	if author == tickets.AuthorAgent {
		return theme.AuthorAgent
	}
	return theme.AuthorHuman
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusPending:     lipgloss.Color("220"), // yellow
	StatusInProgress:  lipgloss.Color("75"),  // blue
	StatusReadyToTest: lipgloss.Color("170"), // magenta
	StatusClosed:      lipgloss.Color("114"), // green

	PriorityHigh:   lipgloss.Color("196"), // red
	PriorityMedium: lipgloss.Color("220"), // yellow
	PriorityLow:    lipgloss.Color("245"), // gray

	AuthorHuman: lipgloss.Color("114"),
	AuthorAgent: lipgloss.Color("75"),

	HeaderForeground: lipgloss.Color("255"),
	AccentForeground: lipgloss.Color("80"), // cyan
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	ErrorText:        lipgloss.Color("196"),
	NoticeText:       lipgloss.Color("114"),
}
