package models

import (
	"fmt"
	"time"
)

// Feedback is what the player surfaces record about one plan item.
// Liked is nil until the elder answers.
type Feedback struct {
	Viewed       bool       `json:"viewed"`
	Liked        *bool      `json:"liked,omitempty"`
	LastPlayedAt *time.Time `json:"lastPlayedAt,omitempty"`
}

// FeedbackMap is keyed by [FeedbackKey].
type FeedbackMap map[string]Feedback

// FeedbackKey joins a title and its flattened position: "<title>-<index>".
func FeedbackKey(title string, index int) string {
	return fmt.Sprintf("%s-%d", title, index)
}

// AfterRemoval returns fb re-keyed for the plan that results from dropping the item at
// position removed out of items. The removed item's feedback is discarded and later items
// keep theirs under their new position. Keys that match no item are carried over.
func (fb FeedbackMap) AfterRemoval(items []ContentItem, removed int) FeedbackMap {
	out := make(FeedbackMap, len(fb))
	for k, v := range fb {
		out[k] = v
	}
	for _, item := range items {
		if item.Position >= removed {
			delete(out, item.FeedbackKey())
		}
	}
	for _, item := range items {
		if item.Position <= removed {
			continue
		}
		if rec, ok := fb[item.FeedbackKey()]; ok {
			out[FeedbackKey(item.Title(), item.Position-1)] = rec
		}
	}
	return out
}

// Summary counts feedback across a plan.
type Summary struct {
	Liked     int `json:"liked"`
	Disliked  int `json:"disliked"`
	NotViewed int `json:"notViewed"`
	Total     int `json:"total"`
}
