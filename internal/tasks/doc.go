// Package tasks orchestrates the long-running flows of a caregiver's plan with progress reporting.
//
// # Core Operations
//
// [ContentEngine] owns every write of generated content:
//
//  1. [ContentEngine.Generate] : home plan from the content backend
//     - Lists backend rows for the device's credencial (default 1)
//     - Splits YouTube rows into videos and Spotify rows into podcasts
//     - Optionally enriches podcasts with Spotify metadata
//     - Stores the sample plan, marked as fallback, when the backend fails
//
//  2. [ContentEngine.Regenerate] : rebuild the plan, optionally from new interests with the AI generator
//
//  3. [ContentEngine.Discover] and [ContentEngine.NearbyEvents] : AI suggestions and local events
//
//  4. [ContentEngine.TriggerBackendGeneration] : ask the backend to produce new links
//
// # Superseded Results
//
// Each device and slot has a generation counter. A result is stored only when no newer generation
// for the same slot started while it was running; otherwise the [Outcome] is marked stale.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Other Flows
//
//   - [Wizard] : step-by-step onboarding ending in registration or recommendations
//   - [Refresher] : cron-scheduled regeneration honouring each profile's update frequency
//   - [Exporter] : worker-pool export of many devices' plans with a manifest
package tasks
