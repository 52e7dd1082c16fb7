// Package tui implements the interactive terminal front-end for the
// ticket store. Built on bubbletea (Elm architecture), it shows a ticket
// table for the current project, a detail view with comments, and modal
// forms for every mutation.
//
// The model never holds a transaction across user input: each modal
// closes before its store call runs as a tea.Cmd, and the list reloads
// after every write. A refresh therefore picks up whatever the CLI or
// the MCP server changed in the meantime.
//
// Data flow:
//
//	[tickets.Store] <- tea.Cmd (load / mutate)
//	        |
//	    [Model] <- bubbletea event loop
//	        |
//	  [terminal output]
package tui
