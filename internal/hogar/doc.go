// Package hogar models the simplified mode used by the elder: a cyclic "now playing" card,
// the player routing derived from it, the one-at-a-time event prompt and the quick
// accessibility settings.
package hogar
