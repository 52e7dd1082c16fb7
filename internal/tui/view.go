package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/HendryAvila/tickets/internal/tickets"
)

// Fixed column widths; the title column takes what is left.
const (
	colID       = 5
	colStatus   = 13
	colPriority = 8
	colTags     = 18
	colUpdated  = 10
	colProject  = 16
	colTitleMin = 12
	cellPadding = 2 // table.DefaultStyles pads each cell by one on both sides
)

func columns(width int, allProjects bool) []table.Column {
	fixed := colID + colStatus + colPriority + colTags + colUpdated
	count := 6
	if allProjects {
		fixed += colProject
		count++
	}
	title := max(width-fixed-count*cellPadding, colTitleMin)

	cols := []table.Column{
		{Title: "ID", Width: colID},
		{Title: "Title", Width: title},
		{Title: "Status", Width: colStatus},
		{Title: "Priority", Width: colPriority},
		{Title: "Tags", Width: colTags},
		{Title: "Updated", Width: colUpdated},
	}
	if allProjects {
		cols = append(cols, table.Column{Title: "Project", Width: colProject})
	}
	return cols
}

func ticketRow(t tickets.Ticket, allProjects bool) table.Row {
	tags := tickets.JoinTags(t.Tags)
	if tags == "" {
		tags = "-"
	}
	updated := t.UpdatedAt
	if len(updated) > 10 {
		updated = updated[:10]
	}
	row := table.Row{
		fmt.Sprintf("%d", t.ID),
		t.Title,
		string(t.Status),
		string(t.Priority),
		tags,
		updated,
	}
	if allProjects {
		row = append(row, projectName(t.Project))
	}
	return row
}

// projectName shows the last path element of a project identifier.
func projectName(p string) string {
	if base := filepath.Base(p); base != "." && base != string(filepath.Separator) {
		return base
	}
	return p
}

// displayTime renders a stored timestamp as "2006-01-02 15:04:05".
func displayTime(ts string) string {
	if len(ts) >= 19 {
		ts = ts[:19]
	}
	return strings.Replace(ts, "T", " ", 1)
}

// View implements tea.Model.
func (model Model) View() string {
	if model.width == 0 {
		return "Loading..."
	}

	var body string
	switch model.mode {
	case ModeDetail:
		body = model.viewport.View()
	case ModeSearch, ModeForm, ModeStatus, ModeComment, ModeConfirmDelete:
		body = lipgloss.Place(model.width, max(model.height-chromeHeight, 3),
			lipgloss.Center, lipgloss.Center, model.renderModal())
	default:
		body = model.renderList()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		model.renderHeader(),
		"",
		body,
		model.renderStatusLine(),
		model.renderHelp(),
	)
}

func (model Model) renderList() string {
	if model.loaded && len(model.tickets) == 0 {
		empty := "No tickets found."
		if model.query != "" {
			empty = fmt.Sprintf("No tickets matching '%s'.", model.query)
		}
		faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
		return faint.Render(empty + "  Press n to create one.")
	}
	return model.table.View()
}

func (model Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	accent := lipgloss.NewStyle().Foreground(model.theme.AccentForeground)

	parts := []string{title.Render("Tickets")}
	if model.allProjects {
		parts = append(parts, accent.Render("Showing all projects"))
	} else if model.scope != "" {
		parts = append(parts, faint.Render("Project: "+projectName(model.scope)))
	}
	if model.query != "" {
		search := lipgloss.NewStyle().Bold(true).Foreground(model.theme.StatusPending)
		parts = append(parts, search.Render(fmt.Sprintf("Search: '%s'", model.query))+faint.Render(" (esc to clear)"))
	}
	if model.statusFilter != "" {
		parts = append(parts, faint.Render("status=")+
			lipgloss.NewStyle().Foreground(model.theme.StatusColor(model.statusFilter)).Render(string(model.statusFilter)))
	}
	if model.priorityFilter != "" {
		parts = append(parts, faint.Render("priority=")+
			lipgloss.NewStyle().Foreground(model.theme.PriorityColor(model.priorityFilter)).Render(string(model.priorityFilter)))
	}
	parts = append(parts, faint.Render(fmt.Sprintf("%d ticket(s)", len(model.tickets))))
	return strings.Join(parts, "  ")
}

func (model Model) renderStatusLine() string {
	switch {
	case model.err != nil:
		return lipgloss.NewStyle().Bold(true).Foreground(model.theme.ErrorText).Render("Error: " + model.err.Error())
	case model.notice != "":
		return lipgloss.NewStyle().Foreground(model.theme.NoticeText).Render(model.notice)
	}
	return ""
}

func (model Model) renderHelp() string {
	if model.help.ShowAll && (model.mode == ModeList || model.mode == ModeDetail) {
		return model.help.FullHelpView(model.keys.FullHelp())
	}
	return model.help.ShortHelpView(model.shortHelp())
}

// shortHelp lists the bindings that apply in the current mode.
func (model Model) shortHelp() []key.Binding {
	keys := model.keys
	switch model.mode {
	case ModeDetail:
		return []key.Binding{keys.Back, keys.Edit, keys.Status, keys.Comment, keys.Delete, keys.Refresh, keys.Quit}
	case ModeSearch:
		return []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")), keys.Back}
	case ModeForm:
		return []key.Binding{keys.NextField, keys.PrevField, keys.Submit, keys.Back}
	case ModeStatus:
		return []key.Binding{keys.Up, keys.Down, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")), keys.Back}
	case ModeComment:
		return []key.Binding{keys.Submit, keys.Back}
	case ModeConfirmDelete:
		return []key.Binding{keys.Confirm, keys.Deny}
	}
	return keys.ShortHelp()
}

func (model Model) modalStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(1, 2)
}

func (model Model) renderModal() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var b strings.Builder
	switch model.mode {
	case ModeSearch:
		b.WriteString(heading.Render("Search tickets"))
		b.WriteString("\n\n")
		b.WriteString(model.search.View())

	case ModeForm:
		if model.form.ticket == nil {
			b.WriteString(heading.Render("New ticket"))
		} else {
			b.WriteString(heading.Render(fmt.Sprintf("Edit ticket #%d", model.form.ticket.ID)))
		}
		b.WriteString("\n")
		b.WriteString(model.renderForm())

	case ModeStatus:
		if model.target != nil {
			b.WriteString(heading.Render(fmt.Sprintf("Status for #%d", model.target.ID)))
			b.WriteString("\n\n")
			next, hasNext := model.target.Status.Next()
			for index, status := range tickets.Statuses {
				cursor := "  "
				if index == model.statusCursor {
					cursor = "> "
				}
				line := cursor + lipgloss.NewStyle().Foreground(model.theme.StatusColor(status)).Render(string(status))
				if status == model.target.Status {
					line += faint.Render(" (current)")
				} else if hasNext && status == next {
					line += faint.Render(" (suggested)")
				}
				b.WriteString(line + "\n")
			}
		}

	case ModeComment:
		if model.target != nil {
			b.WriteString(heading.Render(fmt.Sprintf("Comment on #%d", model.target.ID)))
			b.WriteString("\n\n")
			b.WriteString(model.comment.View())
		}

	case ModeConfirmDelete:
		if model.target != nil {
			b.WriteString(heading.Render(fmt.Sprintf("Delete ticket #%d?", model.target.ID)))
			b.WriteString("\n\n")
			b.WriteString(ansi.Truncate(model.target.Title, formMaxWidth, "…"))
			b.WriteString("\n\n")
			b.WriteString(faint.Render("Its comments are deleted too. [y/N]"))
		}
	}
	return model.modalStyle().Render(b.String())
}

func (model Model) renderForm() string {
	form := model.form
	label := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	active := lipgloss.NewStyle().Bold(true).Foreground(model.theme.AccentForeground)
	fieldLabel := func(field formField, text string) string {
		if form.focus == field {
			return active.Render(text)
		}
		return label.Render(text)
	}

	var priorities []string
	for _, p := range tickets.Priorities {
		style := lipgloss.NewStyle().Foreground(model.theme.PriorityColor(p))
		if p == form.priority {
			priorities = append(priorities, style.Bold(true).Render("["+string(p)+"]"))
		} else {
			priorities = append(priorities, style.Render(" "+string(p)+" "))
		}
	}

	lines := []string{
		"",
		fieldLabel(fieldTitle, "Title"),
		form.title.View(),
		"",
		fieldLabel(fieldDescription, "Description"),
		form.description.View(),
		"",
		fieldLabel(fieldPriority, "Priority (←/→)"),
		strings.Join(priorities, " "),
		"",
		fieldLabel(fieldTags, "Tags"),
		form.tags.View(),
	}
	if form.err != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(model.theme.ErrorText).Render(form.err))
	}
	return strings.Join(lines, "\n")
}

// renderDetail formats one ticket with its comments for the viewport.
func renderDetail(t tickets.Ticket, theme Theme, width int) string {
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	bold := lipgloss.NewStyle().Bold(true)
	accent := lipgloss.NewStyle().Foreground(theme.AccentForeground)
	wrap := lipgloss.NewStyle().Width(max(width-4, 20))

	tags := tickets.JoinTags(t.Tags)
	if tags == "" {
		tags = "-"
	}

	var b strings.Builder
	b.WriteString(accent.Bold(true).Render(fmt.Sprintf("#%d", t.ID)) + " " + bold.Render(t.Title) + "\n\n")
	field := func(name, value string) {
		b.WriteString(faint.Render(fmt.Sprintf("%-9s", name+":")) + " " + value + "\n")
	}
	field("Status", lipgloss.NewStyle().Foreground(theme.StatusColor(t.Status)).Render(string(t.Status)))
	field("Priority", lipgloss.NewStyle().Foreground(theme.PriorityColor(t.Priority)).Render(string(t.Priority)))
	field("Tags", accent.Render(tags))
	field("Project", projectName(t.Project))
	field("Created", displayTime(t.CreatedAt))
	field("Updated", displayTime(t.UpdatedAt))
	if next, ok := t.Status.Next(); ok {
		field("Next", faint.Render(string(next)+" (suggested)"))
	}

	b.WriteString("\n" + bold.Render("Description:") + "\n")
	if t.Description == "" {
		b.WriteString(faint.Render("No description.") + "\n")
	} else {
		b.WriteString(wrap.Render(t.Description) + "\n")
	}

	b.WriteString("\n" + bold.Render(fmt.Sprintf("Comments (%d):", len(t.Comments))) + "\n")
	if len(t.Comments) == 0 {
		b.WriteString("\n" + faint.Render("No comments yet.") + "\n")
	}
	for _, c := range t.Comments {
		author := lipgloss.NewStyle().Foreground(theme.AuthorColor(c.Author)).Render(string(c.Author))
		b.WriteString("\n" + author + " " + faint.Render(displayTime(c.CreatedAt)) + "\n")
		b.WriteString(wrap.PaddingLeft(2).Render(c.Content) + "\n")
	}
	return b.String()
}
