package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/grand/internal/shared"
)

func samplePlan() *GeneratedContent {
	return &GeneratedContent{
		Videos:   []Video{{Title: "A"}, {Title: "B"}, {Title: "C"}},
		Podcasts: []Podcast{{Title: "P1"}, {Title: "P2"}},
		Events:   []Event{{Title: "E1"}},
	}
}

func TestElderProfile(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := NewElderProfile()
		if p.Mobility != MobilityBuena {
			t.Errorf("expected mobility buena, got %s", p.Mobility)
		}
		if p.UpdateFrequency != FrequencyWeekly {
			t.Errorf("expected weekly, got %s", p.UpdateFrequency)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name    string
			profile ElderProfile
			wantErr bool
		}{
			{name: "complete", profile: ElderProfile{Name: "Rosa", Age: "78", Interests: "tango"}},
			{name: "missing name", profile: ElderProfile{Age: "78", Interests: "tango"}, wantErr: true},
			{name: "blank age", profile: ElderProfile{Name: "Rosa", Age: "  ", Interests: "tango"}, wantErr: true},
			{name: "missing interests", profile: ElderProfile{Name: "Rosa", Age: "78"}, wantErr: true},
			{name: "bad mobility", profile: ElderProfile{Name: "Rosa", Age: "78", Interests: "x", Mobility: "rapida"}, wantErr: true},
			{name: "bad frequency", profile: ElderProfile{Name: "Rosa", Age: "78", Interests: "x", UpdateFrequency: "daily"}, wantErr: true},
		}
		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if err := tc.profile.Validate(); (err != nil) != tc.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
				}
			})
		}
	})

	t.Run("InterestList trims and drops empties", func(t *testing.T) {
		p := ElderProfile{Interests: " tango, , cocina ,fútbol,"}
		got := p.InterestList()
		want := []string{"tango", "cocina", "fútbol"}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("InterestList() = %v, want %v", got, want)
		}
	})

	t.Run("AddInterest dedupes", func(t *testing.T) {
		p := ElderProfile{Interests: "tango, cocina"}
		if p.AddInterest("  Tango ") {
			t.Error("duplicate interest should not be added")
		}
		if p.AddInterest("") {
			t.Error("empty interest should not be added")
		}
		if !p.AddInterest("jardinería") {
			t.Error("new interest should be added")
		}
		if p.Interests != "tango, cocina, jardinería" {
			t.Errorf("unexpected interests %q", p.Interests)
		}
	})

	t.Run("RemoveInterest", func(t *testing.T) {
		p := ElderProfile{Interests: "tango,cocina , fútbol"}
		if !p.RemoveInterest("COCINA") {
			t.Fatal("expected cocina to be removed")
		}
		if p.Interests != "tango, fútbol" {
			t.Errorf("unexpected interests %q", p.Interests)
		}
		if p.RemoveInterest("ajedrez") {
			t.Error("absent interest should report false")
		}
	})

	t.Run("AgeYears", func(t *testing.T) {
		if n, ok := (&ElderProfile{Age: " 81 "}).AgeYears(); !ok || n != 81 {
			t.Errorf("AgeYears() = %d, %v", n, ok)
		}
		if _, ok := (&ElderProfile{Age: "ochenta"}).AgeYears(); ok {
			t.Error("non numeric age should not parse")
		}
	})

	t.Run("JSON uses client field names", func(t *testing.T) {
		id := 7
		p := ElderProfile{Name: "Rosa", Age: "78", Interests: "tango", Mobility: MobilityBuena, UpdateFrequency: FrequencyWeekly, CredencialID: &id}
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		for _, key := range []string{`"updateFrequency":"weekly"`, `"credencial_id":7`, `"mobility":"buena"`} {
			if !strings.Contains(string(data), key) {
				t.Errorf("expected %s in %s", key, data)
			}
		}
		if strings.Contains(string(data), "createdAt") {
			t.Errorf("zero createdAt should be omitted: %s", data)
		}
	})
}

func TestUpdateFrequency(t *testing.T) {
	tt := []struct {
		freq UpdateFrequency
		want time.Duration
	}{
		{FrequencyWeekly, 7 * 24 * time.Hour},
		{FrequencyBiweekly, 14 * 24 * time.Hour},
		{FrequencyMonthly, 30 * 24 * time.Hour},
		{"", 7 * 24 * time.Hour},
	}
	for _, tc := range tt {
		if got := tc.freq.Interval(); got != tc.want {
			t.Errorf("%q.Interval() = %v, want %v", tc.freq, got, tc.want)
		}
	}
}

func TestGeneratedContent(t *testing.T) {
	t.Run("Remove keeps order", func(t *testing.T) {
		c := samplePlan()
		if err := c.Remove(BucketVideos, 1); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if len(c.Videos) != 2 || c.Videos[0].Title != "A" || c.Videos[1].Title != "C" {
			t.Errorf("unexpected videos after remove: %+v", c.Videos)
		}
	})

	t.Run("Remove does not alias the original slice", func(t *testing.T) {
		c := samplePlan()
		orig := c.Videos
		if err := c.Remove(BucketVideos, 0); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if orig[0].Title != "A" {
			t.Errorf("original backing array mutated: %+v", orig)
		}
	})

	t.Run("Remove errors", func(t *testing.T) {
		c := samplePlan()
		if err := c.Remove(BucketEvents, 1); !errors.Is(err, shared.ErrIndexOutOfRange) {
			t.Errorf("expected ErrIndexOutOfRange, got %v", err)
		}
		if err := c.Remove(BucketPodcasts, -1); !errors.Is(err, shared.ErrIndexOutOfRange) {
			t.Errorf("expected ErrIndexOutOfRange, got %v", err)
		}
		if err := c.Remove("music", 0); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Items flattens in order", func(t *testing.T) {
		items := samplePlan().Items()
		if len(items) != 6 {
			t.Fatalf("expected 6 items, got %d", len(items))
		}
		wantKinds := []Kind{KindVideo, KindVideo, KindVideo, KindPodcast, KindPodcast, KindEvent}
		for i, item := range items {
			if item.Kind != wantKinds[i] {
				t.Errorf("items[%d].Kind = %s, want %s", i, item.Kind, wantKinds[i])
			}
			if item.Position != i {
				t.Errorf("items[%d].Position = %d", i, item.Position)
			}
		}
		if items[3].FeedbackKey() != "P1-3" {
			t.Errorf("unexpected feedback key %q", items[3].FeedbackKey())
		}
		if items[5].Index != 0 || items[5].Bucket != BucketEvents {
			t.Errorf("event should map back to events[0], got %+v", items[5])
		}
	})

	t.Run("ParseBucket", func(t *testing.T) {
		for in, want := range map[string]Bucket{"video": BucketVideos, "podcasts": BucketPodcasts, "eventos": BucketEvents} {
			got, err := ParseBucket(in)
			if err != nil || got != want {
				t.Errorf("ParseBucket(%q) = %s, %v", in, got, err)
			}
		}
		if _, err := ParseBucket("music"); err == nil {
			t.Error("expected error for unknown bucket")
		}
	})
}

func TestFeedbackMap_AfterRemoval(t *testing.T) {
	yes := true
	items := samplePlan().Items()
	fb := FeedbackMap{
		"A-0":     {Viewed: true},
		"B-1":     {Viewed: true},
		"P1-3":    {Viewed: true, Liked: &yes},
		"E1-5":    {Viewed: true},
		"stale-9": {Viewed: true},
	}

	got := fb.AfterRemoval(items, 1)

	want := map[string]bool{"A-0": true, "P1-2": true, "E1-4": true, "stale-9": true}
	if len(got) != len(want) {
		t.Fatalf("AfterRemoval() = %v, want keys %v", got, want)
	}
	for k := range want {
		if _, ok := got[k]; !ok {
			t.Errorf("expected key %q in %v", k, got)
		}
	}
	if got["P1-2"].Liked == nil || !*got["P1-2"].Liked {
		t.Errorf("expected like to move with the item, got %+v", got["P1-2"])
	}
	if _, ok := fb["P1-3"]; !ok {
		t.Error("AfterRemoval must not modify the receiver")
	}
}

func TestDevice(t *testing.T) {
	d := NewDevice("", "browser")
	if err := d.Validate(); err == nil {
		t.Error("device without id should not validate")
	}
	d.SetID(shared.GenerateID())
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	d.SetLabel("")
	if err := d.Validate(); err == nil {
		t.Error("device without label should not validate")
	}
}

func TestRole(t *testing.T) {
	if r, ok := ParseRole("hogar"); !ok || r != RoleHogar {
		t.Errorf("ParseRole(hogar) = %s, %v", r, ok)
	}
	if r, ok := ParseRole("admin"); ok || r != RoleNone {
		t.Errorf("ParseRole(admin) = %s, %v", r, ok)
	}
}

func TestProfileOptions(t *testing.T) {
	if len(MockProfiles) != 2 {
		t.Fatalf("expected two picker profiles, got %d", len(MockProfiles))
	}
	if p, ok := FindProfileOption("nelida-78"); !ok || p.Age != 78 {
		t.Errorf("FindProfileOption(nelida-78) = %+v, %v", p, ok)
	}
	if _, ok := FindProfileOption("x"); ok {
		t.Error("expected unknown id to be missing")
	}
}
