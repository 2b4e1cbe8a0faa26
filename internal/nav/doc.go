// Package nav is the navigation engine: screens with cached content and
// interceptor bindings, per-tab backstacks, and the tab bar that routes a
// single shared viewport between tabs.
//
// All state is mutated from the Bubble Tea update loop. Fetches run inside
// tea.Cmd functions and report back as LoadedMsg values, which TabBar.Update
// routes to the owning tab. Each screen tags its requests with a generation
// so a response that arrives after the user has moved on is dropped without
// touching the cache.
package nav
