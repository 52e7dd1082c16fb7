package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HendryAvila/tickets/internal/logging"
	"github.com/HendryAvila/tickets/internal/project"
	"github.com/HendryAvila/tickets/internal/tickets"
)

// Mode identifies which screen or modal receives keyboard input.
type Mode int

const (
	// ModeList shows the ticket table.
	ModeList Mode = iota
	// ModeDetail shows one ticket with its comments.
	ModeDetail
	// ModeSearch routes keystrokes to the search query input.
	ModeSearch
	// ModeForm is the create/edit modal.
	ModeForm
	// ModeStatus is the status picker modal.
	ModeStatus
	// ModeComment is the add-comment modal.
	ModeComment
	// ModeConfirmDelete asks y/n before deleting.
	ModeConfirmDelete
)

// Chrome above and below the body: header, blank line, status line, help.
const chromeHeight = 4

// loadedMsg carries a fresh snapshot of the list and, when a ticket is
// open in the detail view, that ticket with its comments.
type loadedMsg struct {
	scope     string
	tickets   []tickets.Ticket
	detail    *tickets.Ticket
	detailErr error
	err       error
}

// mutationMsg is sent when a store write finishes. On success the model
// reloads; on error err is shown in the status bar.
type mutationMsg struct {
	notice   string
	selectID int64
	err      error
}

// Model is the bubbletea model for the ticket browser. Every store call
// runs inside a tea.Cmd, and the list is reloaded after each one, so
// changes made by other processes show up on the next refresh.
type Model struct {
	ctx      context.Context
	store    *tickets.Store
	resolver *project.Resolver
	logger   *slog.Logger
	theme    Theme
	keys     KeyMap
	help     help.Model

	mode  Mode
	prior Mode // where a modal returns to

	allProjects    bool
	query          string
	statusFilter   tickets.Status
	priorityFilter tickets.Priority

	scope      string
	tickets    []tickets.Ticket
	selectedID int64
	detailID   int64
	detail     *tickets.Ticket
	loaded     bool

	table        table.Model
	viewport     viewport.Model
	search       textinput.Model
	comment      textarea.Model
	form         ticketForm
	statusCursor int
	target       *tickets.Ticket // ticket a modal acts on

	notice string
	err    error
	width  int
	height int
}

// NewModel creates a Model over store, scoped by resolver. Call Init (or
// run it under tea.NewProgram) to load the first snapshot.
func NewModel(ctx context.Context, store *tickets.Store, resolver *project.Resolver, logger *slog.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(DefaultTheme.BorderColor).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(DefaultTheme.SelectedForeground).
		Background(DefaultTheme.SelectedBackground).
		Bold(false)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "title, description, tag or comment"

	comment := textarea.New()
	comment.Placeholder = "Write a comment..."
	comment.ShowLineNumbers = false
	comment.SetHeight(5)

	model := Model{
		ctx:      ctx,
		store:    store,
		resolver: resolver,
		logger:   logger,
		theme:    DefaultTheme,
		keys:     DefaultKeyMap,
		help:     help.New(),
		table: table.New(
			table.WithColumns(columns(80, false)),
			table.WithFocused(true),
			table.WithStyles(styles),
		),
		viewport: viewport.New(80, 20),
		search:   search,
		comment:  comment,
		form:     newTicketForm(nil, 80),
	}
	return model
}

// WithAllProjects returns a copy of model that starts with project
// scoping turned off.
func (model Model) WithAllProjects() Model {
	model.allProjects = true
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return model.load()
}

// Mode reports the active screen or modal.
func (model Model) Mode() Mode {
	return model.mode
}

// Err is the error currently shown in the status bar.
func (model Model) Err() error {
	return model.err
}

// load returns a command that reads the current scope's tickets, plus
// the open ticket when the detail view is showing.
func (model Model) load() tea.Cmd {
	ctx, store, resolver := model.ctx, model.store, model.resolver
	all, query := model.allProjects, model.query
	status, priority := model.statusFilter, model.priorityFilter
	detailID := model.detailID

	return func() tea.Msg {
		scope, err := resolver.Scope(all)
		if err != nil {
			return loadedMsg{err: err}
		}

		var list []tickets.Ticket
		if query != "" {
			list, err = store.Search(ctx, query, tickets.SearchOptions{
				Project:         scope,
				Status:          status,
				IncludeComments: true,
			})
			list = filterPriority(list, priority)
		} else {
			list, err = store.List(ctx, tickets.ListOptions{
				Project:  scope,
				Status:   status,
				Priority: priority,
			})
		}
		if err != nil {
			return loadedMsg{scope: scope, err: err}
		}

		msg := loadedMsg{scope: scope, tickets: list}
		if detailID != 0 {
			msg.detail, msg.detailErr = store.Get(ctx, detailID)
		}
		return msg
	}
}

func filterPriority(list []tickets.Ticket, priority tickets.Priority) []tickets.Ticket {
	if priority == "" {
		return list
	}
	out := list[:0]
	for _, t := range list {
		if t.Priority == priority {
			out = append(out, t)
		}
	}
	return out
}

// Update implements tea.Model. Keyboard input is routed by mode; store
// results arrive as loadedMsg and mutationMsg.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.layout()
		return model, nil

	case loadedMsg:
		return model.handleLoaded(message), nil

	case mutationMsg:
		if message.err != nil {
			model.err = message.err
			model.notice = ""
			return model, model.load()
		}
		model.err = nil
		model.notice = message.notice
		if message.selectID != 0 {
			model.selectedID = message.selectID
		}
		return model, model.load()

	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		switch model.mode {
		case ModeSearch:
			return model.handleSearchKeys(message)
		case ModeForm:
			return model.handleFormKeys(message)
		case ModeStatus:
			return model.handleStatusKeys(message)
		case ModeComment:
			return model.handleCommentKeys(message)
		case ModeConfirmDelete:
			return model.handleConfirmKeys(message)
		case ModeDetail:
			return model.handleDetailKeys(message)
		default:
			return model.handleListKeys(message)
		}
	}

	// Cursor blink and other component messages go to the active input.
	var cmd tea.Cmd
	switch model.mode {
	case ModeSearch:
		model.search, cmd = model.search.Update(message)
	case ModeComment:
		model.comment, cmd = model.comment.Update(message)
	case ModeForm:
		model.form, cmd = model.form.update(message, model.keys)
	}
	return model, cmd
}

func (model Model) handleLoaded(message loadedMsg) Model {
	model.loaded = true
	if message.err != nil {
		model.err = message.err
		return model
	}
	model.scope = message.scope
	model.tickets = message.tickets
	model.syncTable()

	if model.detailID != 0 {
		switch {
		case message.detailErr != nil:
			model.err = message.detailErr
			if errors.Is(message.detailErr, tickets.ErrNotFound) {
				// Deleted by another process.
				if model.mode == ModeDetail {
					model.mode = ModeList
				} else if model.prior == ModeDetail {
					model.prior = ModeList
				}
				model.detailID = 0
				model.detail = nil
			}
		case message.detail != nil:
			model.detail = message.detail
			model.syncViewport()
		}
	}
	return model
}

// syncTable rebuilds the table rows and puts the cursor back on the
// previously selected ticket. If that ticket is gone the cursor stays
// at the same position, clamped to the new row count.
func (model *Model) syncTable() {
	cursor := model.table.Cursor()
	rows := make([]table.Row, 0, len(model.tickets))
	for _, t := range model.tickets {
		rows = append(rows, ticketRow(t, model.allProjects))
	}
	model.resetColumns(rows)

	found := false
	for index, t := range model.tickets {
		if t.ID == model.selectedID {
			model.table.SetCursor(index)
			found = true
			break
		}
	}
	if !found {
		model.table.SetCursor(max(cursor, 0))
	}
	model.selectedID = 0
	if selected := model.selected(); selected != nil {
		model.selectedID = selected.ID
	}
}

// resetColumns sizes the columns for the current width and scope and
// installs rows. Rows are cleared first because toggling all projects
// changes the row and column counts together.
func (model *Model) resetColumns(rows []table.Row) {
	cursor := model.table.Cursor()
	model.table.SetRows(nil)
	model.table.SetColumns(columns(model.width, model.allProjects))
	model.table.SetRows(rows)
	model.table.SetCursor(max(cursor, 0))
}

// selected returns the ticket under the table cursor.
func (model Model) selected() *tickets.Ticket {
	index := model.table.Cursor()
	if index < 0 || index >= len(model.tickets) {
		return nil
	}
	return &model.tickets[index]
}

// current returns the ticket the mutation keys act on: the open ticket
// in the detail view, else the selected row.
func (model Model) current() *tickets.Ticket {
	if model.mode == ModeDetail {
		return model.detail
	}
	return model.selected()
}

func (model *Model) layout() {
	model.help.Width = model.width
	bodyHeight := max(model.height-chromeHeight, 3)
	model.table.SetWidth(model.width)
	model.table.SetHeight(bodyHeight)
	model.resetColumns(model.table.Rows())
	model.viewport.Width = model.width
	model.viewport.Height = bodyHeight
	model.comment.SetWidth(min(max(model.width-8, 20), formMaxWidth))
	model.search.Width = min(max(model.width-8, 20), formMaxWidth)
	model.form.setWidth(model.width)
	model.syncViewport()
}

func (model *Model) syncViewport() {
	if model.detail == nil {
		model.viewport.SetContent("")
		return
	}
	model.viewport.SetContent(renderDetail(*model.detail, model.theme, model.width))
}

func (model *Model) openDetail(id int64) tea.Cmd {
	model.mode = ModeDetail
	model.detailID = id
	model.detail = nil
	model.viewport.GotoTop()
	return model.load()
}

func (model *Model) closeDetail() {
	model.mode = ModeList
	model.detailID = 0
	model.detail = nil
}

// clearStatus drops the notice and error once the user moves on.
func (model *Model) clearStatus() {
	model.notice = ""
	model.err = nil
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	model.clearStatus()

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Help):
		model.help.ShowAll = !model.help.ShowAll
		return model, nil

	case key.Matches(message, model.keys.Open):
		if selected := model.selected(); selected != nil {
			cmd := model.openDetail(selected.ID)
			return model, cmd
		}
		return model, nil

	case key.Matches(message, model.keys.Back):
		if model.query != "" {
			model.query = ""
			model.notice = "Search cleared"
			return model, model.load()
		}
		return model, nil

	case key.Matches(message, model.keys.Refresh):
		model.notice = "Refreshed"
		return model, model.load()

	case key.Matches(message, model.keys.ToggleAll):
		model.allProjects = !model.allProjects
		return model, model.load()

	case key.Matches(message, model.keys.StatusFilter):
		model.statusFilter = cycleFilter(tickets.Statuses, model.statusFilter)
		return model, model.load()

	case key.Matches(message, model.keys.PriorityFilter):
		model.priorityFilter = cycleFilter(tickets.Priorities, model.priorityFilter)
		return model, model.load()

	case key.Matches(message, model.keys.Search):
		model.prior = model.mode
		model.mode = ModeSearch
		model.search.SetValue(model.query)
		model.search.CursorEnd()
		cmd := model.search.Focus()
		return model, cmd

	case key.Matches(message, model.keys.New):
		cmd := model.openForm(nil)
		return model, cmd
	}

	if cmd, handled := model.handleMutationKeys(message); handled {
		return model, cmd
	}
	if handled := model.handleMutationModals(message); handled {
		return model, nil
	}

	var cmd tea.Cmd
	model.table, cmd = model.table.Update(message)
	if selected := model.selected(); selected != nil {
		model.selectedID = selected.ID
	}
	return model, cmd
}

func (model Model) handleDetailKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	model.clearStatus()

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Help):
		model.help.ShowAll = !model.help.ShowAll
		return model, nil
	case key.Matches(message, model.keys.Back):
		model.closeDetail()
		return model, model.load()
	case key.Matches(message, model.keys.Refresh):
		model.notice = "Refreshed"
		return model, model.load()
	}

	if cmd, handled := model.handleMutationKeys(message); handled {
		return model, cmd
	}
	if handled := model.handleMutationModals(message); handled {
		return model, nil
	}

	var cmd tea.Cmd
	model.viewport, cmd = model.viewport.Update(message)
	return model, cmd
}

// handleMutationKeys opens the modals that take text input. These
// return a focus command, so they are split from handleMutationModals.
func (model *Model) handleMutationKeys(message tea.KeyMsg) (tea.Cmd, bool) {
	current := model.current()
	if current == nil {
		return nil, false
	}
	switch {
	case key.Matches(message, model.keys.Edit):
		return model.openForm(current), true
	case key.Matches(message, model.keys.Comment):
		model.prior = model.mode
		model.mode = ModeComment
		model.target = current
		model.comment.Reset()
		return model.comment.Focus(), true
	}
	return nil, false
}

func (model *Model) handleMutationModals(message tea.KeyMsg) bool {
	current := model.current()
	if current == nil {
		return false
	}
	switch {
	case key.Matches(message, model.keys.Status):
		model.prior = model.mode
		model.mode = ModeStatus
		model.target = current
		model.statusCursor = 0
		for index, status := range tickets.Statuses {
			if status == current.Status {
				model.statusCursor = index
			}
		}
		return true
	case key.Matches(message, model.keys.Delete):
		model.prior = model.mode
		model.mode = ModeConfirmDelete
		model.target = current
		return true
	}
	return false
}

func (model *Model) openForm(ticket *tickets.Ticket) tea.Cmd {
	if model.mode != ModeForm {
		model.prior = model.mode
	}
	model.mode = ModeForm
	if ticket != nil {
		copied := *ticket
		ticket = &copied
	}
	model.target = ticket
	model.form = newTicketForm(ticket, model.width)
	return model.form.focusField(fieldTitle)
}

// closeModal returns to the screen the modal was opened from.
func (model *Model) closeModal() {
	model.mode = model.prior
	model.target = nil
	model.search.Blur()
	model.comment.Blur()
}

func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back):
		model.closeModal()
		return model, nil
	case message.Type == tea.KeyEnter:
		model.query = strings.TrimSpace(model.search.Value())
		model.closeModal()
		if model.query != "" {
			model.notice = fmt.Sprintf("Searching: '%s'", model.query)
		}
		return model, model.load()
	}
	var cmd tea.Cmd
	model.search, cmd = model.search.Update(message)
	return model, cmd
}

func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back):
		model.closeModal()
		return model, nil
	case key.Matches(message, model.keys.Submit),
		message.Type == tea.KeyEnter && model.form.onLastField():
		return model.submitForm()
	}
	var cmd tea.Cmd
	model.form, cmd = model.form.update(message, model.keys)
	return model, cmd
}

func (model Model) submitForm() (tea.Model, tea.Cmd) {
	form := model.form
	if form.titleValue() == "" {
		model.form.err = "Title is required"
		return model, nil
	}

	ctx, store, logger := model.ctx, model.store, model.logger

	if form.ticket == nil {
		resolver := model.resolver
		model.closeModal()
		return model, func() tea.Msg {
			scope, err := resolver.Current()
			if err != nil {
				return mutationMsg{err: err}
			}
			created, err := store.Create(ctx, form.createParams(scope))
			if err != nil {
				return mutationMsg{err: err}
			}
			logger.Debug("ticket created", "id", created.ID, "project", created.Project)
			return mutationMsg{
				notice:   fmt.Sprintf("Created ticket #%d", created.ID),
				selectID: created.ID,
			}
		}
	}

	params := form.updateParams()
	id := form.ticket.ID
	model.closeModal()
	if params.IsEmpty() {
		model.notice = "No changes."
		return model, nil
	}
	return model, func() tea.Msg {
		if _, err := store.Update(ctx, id, params); err != nil {
			return mutationMsg{err: err}
		}
		logger.Debug("ticket updated", "id", id)
		return mutationMsg{notice: fmt.Sprintf("Updated ticket #%d", id)}
	}
}

func (model Model) handleStatusKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back):
		model.closeModal()
		return model, nil
	case key.Matches(message, model.keys.Up):
		if model.statusCursor > 0 {
			model.statusCursor--
		}
		return model, nil
	case key.Matches(message, model.keys.Down):
		if model.statusCursor < len(tickets.Statuses)-1 {
			model.statusCursor++
		}
		return model, nil
	case message.Type != tea.KeyEnter:
		return model, nil
	}

	target := model.target
	status := tickets.Statuses[model.statusCursor]
	ctx, store, logger := model.ctx, model.store, model.logger
	model.closeModal()
	if target == nil {
		return model, nil
	}
	return model, func() tea.Msg {
		if _, err := store.SetStatus(ctx, target.ID, status); err != nil {
			return mutationMsg{err: err}
		}
		logger.Debug("ticket status changed", "id", target.ID, "from", target.Status, "to", status)
		notice := fmt.Sprintf("Ticket #%d status changed to %s", target.ID, status)
		if target.Status.IsRejection(status) {
			notice += " (sent back for rework)"
		}
		return mutationMsg{notice: notice}
	}
}

func (model Model) handleCommentKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back):
		model.closeModal()
		return model, nil
	case key.Matches(message, model.keys.Submit):
		content := strings.TrimSpace(model.comment.Value())
		if content == "" {
			model.closeModal()
			return model, nil
		}
		target := model.target
		ctx, store, logger := model.ctx, model.store, model.logger
		model.closeModal()
		if target == nil {
			return model, nil
		}
		return model, func() tea.Msg {
			if _, err := store.AddComment(ctx, target.ID, tickets.AuthorHuman, content); err != nil {
				return mutationMsg{err: err}
			}
			logger.Debug("comment added", "ticket", target.ID)
			return mutationMsg{notice: fmt.Sprintf("Added comment to ticket #%d", target.ID)}
		}
	}
	var cmd tea.Cmd
	model.comment, cmd = model.comment.Update(message)
	return model, cmd
}

func (model Model) handleConfirmKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Confirm):
	case key.Matches(message, model.keys.Deny):
		model.closeModal()
		model.notice = "Cancelled."
		return model, nil
	default:
		return model, nil
	}

	target := model.target
	ctx, store, logger := model.ctx, model.store, model.logger
	model.closeModal()
	if target == nil {
		return model, nil
	}
	if model.detailID == target.ID {
		model.closeDetail()
	}
	return model, func() tea.Msg {
		if err := store.Delete(ctx, target.ID); err != nil {
			return mutationMsg{err: err}
		}
		logger.Debug("ticket deleted", "id", target.ID)
		return mutationMsg{notice: fmt.Sprintf("Deleted ticket #%d", target.ID)}
	}
}
