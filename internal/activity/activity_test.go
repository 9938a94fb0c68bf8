package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/grand/internal/models"
)

func boolPtr(v bool) *bool { return &v }

func plan() *models.GeneratedContent {
	return &models.GeneratedContent{
		Videos:   []models.Video{{Title: "Tango"}, {Title: "Cocina"}},
		Podcasts: []models.Podcast{{Title: "Radio"}},
		Events:   []models.Event{{Title: "Bingo"}},
	}
}

func TestEntriesAndKPIs(t *testing.T) {
	now := time.Date(2025, 10, 22, 18, 0, 0, 0, time.UTC)
	played := now.Add(-49 * time.Hour)

	fb := models.FeedbackMap{
		"Tango-0": {Viewed: true, Liked: boolPtr(true), LastPlayedAt: &played},
		"Radio-2": {Viewed: true, Liked: boolPtr(true)},
	}

	entries := Entries(plan(), fb, now)
	require.Len(t, entries, 4)
	assert.Equal(t, StatusPlayed, entries[0].Status)
	assert.Equal(t, "Hace 2 días", entries[0].LastPlayed)
	assert.Equal(t, StatusNotStarted, entries[1].Status)
	assert.Equal(t, "Bingo-3", entries[3].Key)

	kpis := ComputeKPIs(entries)
	assert.Equal(t, KPIs{Programados: 4, Reproducidos: 2, NoIniciados: 2, TasaReproduccion: 50}, kpis)

	t.Run("rounding", func(t *testing.T) {
		k := ComputeKPIs([]Entry{{Status: StatusPlayed}, {Status: StatusNotStarted}, {Status: StatusNotStarted}})
		assert.Equal(t, 33, k.TasaReproduccion)

		k = ComputeKPIs([]Entry{{Status: StatusPlayed}, {Status: StatusPlayed}, {Status: StatusNotStarted}})
		assert.Equal(t, 67, k.TasaReproduccion)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, KPIs{}, ComputeKPIs(nil))
		assert.Nil(t, Entries(nil, fb, now))
	})
}

func TestFilterAndSort(t *testing.T) {
	entries := []Entry{
		{Kind: models.KindVideo, Title: "a", Status: StatusPlayed},
		{Kind: models.KindVideo, Title: "b", Status: StatusNotStarted},
		{Kind: models.KindPodcast, Title: "c", Status: StatusPlayed},
		{Kind: models.KindEvent, Title: "d", Status: StatusNotStarted},
	}

	tt := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"a", "b", "c", "d"}},
		{FilterVideos, []string{"a", "b"}},
		{FilterPodcasts, []string{"c"}},
		{FilterEventos, []string{"d"}},
	}
	for _, tc := range tt {
		t.Run(string(tc.filter), func(t *testing.T) {
			var got []string
			for _, e := range FilterEntries(entries, tc.filter) {
				got = append(got, e.Title)
			}
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("not started first, stable", func(t *testing.T) {
		sorted := SortByStatus(entries)
		var got []string
		for _, e := range sorted {
			got = append(got, e.Title)
		}
		assert.Equal(t, []string{"b", "d", "a", "c"}, got)
		assert.Equal(t, "a", entries[0].Title, "input must not be reordered")
	})

	t.Run("ParseFilter", func(t *testing.T) {
		f, err := ParseFilter("")
		require.NoError(t, err)
		assert.Equal(t, FilterAll, f)

		_, err = ParseFilter("musica")
		assert.Error(t, err)
	})
}

func TestSummarize(t *testing.T) {
	fb := models.FeedbackMap{
		"Tango-0":  {Viewed: true, Liked: boolPtr(true)},
		"Cocina-1": {Viewed: true, Liked: boolPtr(false)},
		"Radio-2":  {Viewed: true},
		"Bingo-9":  {Viewed: true, Liked: boolPtr(true)},
	}
	assert.Equal(t, models.Summary{Liked: 1, Disliked: 1, NotViewed: 1, Total: 4}, Summarize(plan(), fb))
	assert.Equal(t, models.Summary{}, Summarize(nil, fb))
}

func TestSurfaceFilters(t *testing.T) {
	items := []models.DiscoveryItem{{ID: "1", Type: models.KindPodcast}, {ID: "2", Type: models.KindMusic}, {ID: "3", Type: models.KindPodcast}}

	got, err := FilterDiscovery(items, "podcast")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = FilterDiscovery(items, All)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = FilterDiscovery(items, "eventos")
	assert.Error(t, err)

	events := []models.Event{{Title: "a", Type: "bingo"}, {Title: "b", Type: "misa"}, {Title: "c", Type: "Bingo"}}
	filtered, err := FilterEvents(events, "bingo")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].Title)

	_, err = FilterEvents(events, "cine")
	assert.Error(t, err)
}

func TestWeekRange(t *testing.T) {
	tt := []struct {
		name      string
		now       time.Time
		weeksBack int
		start     time.Time
		label     string
	}{
		{"wednesday", time.Date(2025, 10, 22, 18, 0, 0, 0, time.UTC), 0, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), "20 oct al 26 oct"},
		{"monday", time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), 0, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), "20 oct al 26 oct"},
		{"sunday belongs to the ending week", time.Date(2025, 10, 26, 23, 0, 0, 0, time.UTC), 0, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), "20 oct al 26 oct"},
		{"previous week across months", time.Date(2025, 11, 4, 9, 0, 0, 0, time.UTC), 1, time.Date(2025, 10, 27, 0, 0, 0, 0, time.UTC), "27 oct al 2 nov"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			start, end, label := WeekRange(tc.now, tc.weeksBack)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.start.AddDate(0, 0, 7), end)
			assert.Equal(t, tc.label, label)
		})
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2025, 10, 22, 18, 0, 0, 0, time.UTC)
	fb := models.FeedbackMap{"Tango-0": {Viewed: true}}

	r := Build(plan(), fb, FilterVideos, now, 0)
	assert.Equal(t, 25, r.KPIs.TasaReproduccion)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "Cocina", r.Items[0].Title)
	assert.False(t, r.Empty)
	assert.False(t, r.NoneReproduced)

	empty := Build(nil, nil, FilterAll, now, 0)
	assert.True(t, empty.Empty)
	assert.False(t, empty.NoneReproduced)

	none := Build(plan(), nil, FilterAll, now, 0)
	assert.True(t, none.NoneReproduced)
}

func TestRelativeDay(t *testing.T) {
	now := time.Date(2025, 10, 22, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "Hoy", RelativeDay(now.Add(-time.Hour), now))
	assert.Equal(t, "Hace 1 día", RelativeDay(now.Add(-10*time.Hour), now))
	assert.Equal(t, "Hace 3 días", RelativeDay(now.AddDate(0, 0, -3), now))
}
