// package ui implements the interactive course player: a course list, a
// video sidebar, and a player pane with progress and notes, over a
// bubbletea Elm loop.
package ui
