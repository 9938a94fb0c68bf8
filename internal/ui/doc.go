// Package ui implements the simplified hogar mode as a terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the large-button home screen:
//  1. [NowPlayingView] : One item at a time with a single play action
//  2. [PlayerView] : Playback instructions while the embed opens in the system browser
//  3. [BrowseView] : Every carousel item in a filterable list
//  4. [EventsView] : One nearby event at a time with a yes or next answer
//
// Items come from the backend listing of the device, then its stored plan, then a demo list.
// Playing an item from the plan records it as viewed so the caregiver sees it on the activity view.
//
// Keyboard navigation uses arrows, enter and single letters (s/n, e, b, t, c, q) with contextual help
// displayed via charmbracelet/bubbles/help. Text size and contrast follow [hogar.Settings].
package ui
