// Package console implements the terminal front end of the task list.
//
// Home holds the view state and applies the outcome of each API call; it has
// no I/O and is safe to test directly. The bubbletea model in tui.go turns
// key presses into API calls and feeds their results back into Home.
package console
