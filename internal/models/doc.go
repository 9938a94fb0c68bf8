// Package models defines the domain entities for grand: the elder profile a caregiver
// fills in, the generated content plan, feedback recorded by the player surfaces, and
// the local auth state.
//
// The package contains two categories of types:
//
// 1. Client state: JSON documents kept per device by the session store
//   - [ElderProfile] : who the content is for
//   - [GeneratedContent] : the current plan of videos, podcasts and events
//   - [DiscoveryItem] and [Event] : AI generated suggestions
//   - [FeedbackMap] : playback and like/dislike records keyed by [FeedbackKey]
//   - [AuthState] : login flag, role and selected profile
//
// 2. Persistent entities: database-backed models implementing [Model]
//   - [Device] : a browser or CLI install that owns client state
//
// JSON field names match what the content backend and web clients already exchange.
package models
