package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/HendryAvila/tickets/internal/tickets"
)

var (
	dim    = color.New(color.Faint)
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

func statusText(s tickets.Status) string {
	switch s {
	case tickets.StatusPending:
		return color.New(color.FgYellow).Sprint(s)
	case tickets.StatusInProgress:
		return color.New(color.FgBlue).Sprint(s)
	case tickets.StatusReadyToTest:
		return color.New(color.FgMagenta).Sprint(s)
	case tickets.StatusClosed:
		return color.New(color.FgGreen).Sprint(s)
	}
	return string(s)
}

func priorityText(p tickets.Priority) string {
	switch p {
	case tickets.PriorityHigh:
		return color.New(color.FgRed, color.Bold).Sprint(p)
	case tickets.PriorityMedium:
		return color.New(color.FgYellow).Sprint(p)
	case tickets.PriorityLow:
		return dim.Sprint(p)
	}
	return string(p)
}

func tagsText(tags []string) string {
	if len(tags) == 0 {
		return dim.Sprint("-")
	}
	return cyan.Sprint(tickets.JoinTags(tags))
}

func authorText(a tickets.Author) string {
	if a == tickets.AuthorHuman {
		return green.Sprint(a)
	}
	return color.New(color.FgBlue).Sprint(a)
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

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// printTickets writes a ticket table. The project column is added when
// the listing spans every project.
func printTickets(w io.Writer, list []tickets.Ticket, allProjects bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if allProjects {
		fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tTAGS\tPROJECT")
		fmt.Fprintln(tw, "--\t-----\t------\t--------\t----\t-------")
	} else {
		fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tTAGS")
		fmt.Fprintln(tw, "--\t-----\t------\t--------\t----")
	}
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s",
			cyan.Sprint(t.ID), truncate(t.Title, 40), statusText(t.Status), priorityText(t.Priority), tagsText(t.Tags))
		if allProjects {
			fmt.Fprintf(tw, "\t%s", projectName(t.Project))
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}

func printTicket(w io.Writer, t *tickets.Ticket) {
	fmt.Fprintf(w, "%s %s\n\n", color.New(color.FgCyan, color.Bold).Sprintf("#%d", t.ID), bold.Sprint(t.Title))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", dim.Sprint("Status"), statusText(t.Status))
	fmt.Fprintf(tw, "%s\t%s\n", dim.Sprint("Priority"), priorityText(t.Priority))
	fmt.Fprintf(tw, "%s\t%s\n", dim.Sprint("Tags"), tagsText(t.Tags))
	fmt.Fprintf(tw, "%s\t%s\n", dim.Sprint("Project"), projectName(t.Project))
	fmt.Fprintf(tw, "%s\t%s\n", dim.Sprint("Created"), displayTime(t.CreatedAt))
	fmt.Fprintf(tw, "%s\t%s\n", dim.Sprint("Updated"), displayTime(t.UpdatedAt))
	_ = tw.Flush()

	fmt.Fprintf(w, "\n%s\n", bold.Sprint("Description:"))
	if t.Description == "" {
		fmt.Fprintf(w, "  %s\n", dim.Sprint("(none)"))
	} else {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintln(w)

	if len(t.Comments) == 0 {
		fmt.Fprintln(w, dim.Sprint("No comments."))
		return
	}
	fmt.Fprintf(w, "%s\n", bold.Sprintf("Comments (%d):", len(t.Comments)))
	for _, c := range t.Comments {
		fmt.Fprintf(w, "  %s %s\n", authorText(c.Author), dim.Sprint(displayTime(c.CreatedAt)))
		fmt.Fprintf(w, "    %s\n\n", c.Content)
	}
}
