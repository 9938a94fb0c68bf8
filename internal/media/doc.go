// Package media extracts provider identifiers from YouTube and Spotify links and
// builds the thumbnail and embed URLs the player surfaces need.
//
// Extraction never fails loudly: anything unrecognised yields ("", false).
package media
