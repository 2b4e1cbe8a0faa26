// Package ui contains the Bubble Tea program that presents tabbed,
// server-driven screens.
//
// The Model owns a nav.TabBar and acts as both its Viewport and its
// Observer: the tab bar hides the content area when a tab is selected,
// writes each completed screen into the model, and reports failures that the
// model shows in the status line.
//
// Message flow:
//   - Key presses are routed through a typed handler registry. Region list
//     movement and filtering stay inside the model; enter, esc and ctrl+r
//     become navigation intents handed to the tab bar.
//   - Loads run as tea.Cmd values issued by the nav package. Their
//     nav.LoadedMsg results come back through Update and are passed to
//     TabBar.Update, which drops anything stale.
//   - Submit regions with editable fields open a SubmitForm first; the edited
//     values replace the region's own when the form is submitted.
//
// Region list state (items, filter, cursor, scrolling) lives in
// internal/ui/state.List and is rebuilt every time a screen is written.
package ui
