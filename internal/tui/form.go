package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/HendryAvila/tickets/internal/tickets"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldTags
	fieldCount
)

// ticketForm is the create/edit modal. ticket is nil when creating.
type ticketForm struct {
	ticket      *tickets.Ticket
	focus       formField
	title       textinput.Model
	description textarea.Model
	priority    tickets.Priority
	tags        textinput.Model
	err         string
}

const formMaxWidth = 64

func newTicketForm(ticket *tickets.Ticket, width int) ticketForm {
	title := textinput.New()
	title.Prompt = ""
	title.Placeholder = "Short summary"

	description := textarea.New()
	description.Placeholder = "Details (optional)"
	description.ShowLineNumbers = false
	description.SetHeight(5)

	tags := textinput.New()
	tags.Prompt = ""
	tags.Placeholder = "comma,separated"

	form := ticketForm{
		ticket:      ticket,
		title:       title,
		description: description,
		priority:    tickets.PriorityMedium,
		tags:        tags,
	}
	if ticket != nil {
		form.title.SetValue(ticket.Title)
		form.description.SetValue(ticket.Description)
		form.priority = ticket.Priority
		form.tags.SetValue(tickets.JoinTags(ticket.Tags))
	}
	form.setWidth(width)
	return form
}

func (form *ticketForm) setWidth(width int) {
	inner := min(width-8, formMaxWidth)
	if inner < 20 {
		inner = 20
	}
	form.title.Width = inner
	form.tags.Width = inner
	form.description.SetWidth(inner)
}

// focusField moves keyboard focus, returning the cursor blink command
// of the newly focused input.
func (form *ticketForm) focusField(field formField) tea.Cmd {
	form.title.Blur()
	form.description.Blur()
	form.tags.Blur()
	form.focus = field
	switch field {
	case fieldTitle:
		return form.title.Focus()
	case fieldDescription:
		return form.description.Focus()
	case fieldTags:
		return form.tags.Focus()
	}
	return nil
}

// onLastField reports whether enter should submit rather than advance.
func (form ticketForm) onLastField() bool {
	return form.focus == fieldTags
}

// update routes a message to the focused field. Tab cycles fields;
// enter advances from single-line fields; left/right pick the priority.
func (form ticketForm) update(message tea.Msg, keys KeyMap) (ticketForm, tea.Cmd) {
	if keyMsg, ok := message.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.NextField):
			return form, form.focusField((form.focus + 1) % fieldCount)
		case key.Matches(keyMsg, keys.PrevField):
			return form, form.focusField((form.focus + fieldCount - 1) % fieldCount)
		case keyMsg.Type == tea.KeyEnter && form.focus != fieldDescription:
			return form, form.focusField((form.focus + 1) % fieldCount)
		}
		if form.focus == fieldPriority {
			switch keyMsg.String() {
			case "left", "h":
				form.priority = cycleBack(tickets.Priorities, form.priority)
			case "right", "l", " ":
				form.priority = cycle(tickets.Priorities, form.priority)
			}
			return form, nil
		}
	}

	var cmd tea.Cmd
	switch form.focus {
	case fieldTitle:
		form.title, cmd = form.title.Update(message)
	case fieldDescription:
		form.description, cmd = form.description.Update(message)
	case fieldTags:
		form.tags, cmd = form.tags.Update(message)
	}
	return form, cmd
}

func (form ticketForm) titleValue() string {
	return strings.TrimSpace(form.title.Value())
}

func (form ticketForm) tagValues() []string {
	return tickets.ParseTags(form.tags.Value())
}

func (form ticketForm) createParams(project string) tickets.CreateParams {
	return tickets.CreateParams{
		Project:     project,
		Title:       form.titleValue(),
		Description: strings.TrimSpace(form.description.Value()),
		Priority:    form.priority,
		Tags:        form.tagValues(),
	}
}

// updateParams returns only the fields that differ from the ticket the
// form was opened on.
func (form ticketForm) updateParams() tickets.UpdateParams {
	var params tickets.UpdateParams
	if form.ticket == nil {
		return params
	}
	if title := form.titleValue(); title != form.ticket.Title {
		params.Title = &title
	}
	if description := strings.TrimSpace(form.description.Value()); description != form.ticket.Description {
		params.Description = &description
	}
	if form.priority != form.ticket.Priority {
		priority := form.priority
		params.Priority = &priority
	}
	if tags := form.tagValues(); tickets.JoinTags(tags) != tickets.JoinTags(form.ticket.Tags) {
		params.Tags = &tags
	}
	return params
}

// cycle returns the value after current, wrapping around. An unknown
// current yields the first value.
func cycle[T comparable](values []T, current T) T {
	for index, value := range values {
		if value == current {
			return values[(index+1)%len(values)]
		}
	}
	return values[0]
}

func cycleBack[T comparable](values []T, current T) T {
	for index, value := range values {
		if value == current {
			return values[(index+len(values)-1)%len(values)]
		}
	}
	return values[0]
}

// cycleFilter steps through values with the zero value meaning "any":
// any, values[0], ..., values[n-1], any.
func cycleFilter[T comparable](values []T, current T) T {
	var zero T
	if current == zero {
		return values[0]
	}
	for index, value := range values {
		if value == current && index+1 < len(values) {
			return values[index+1]
		}
	}
	return zero
}
