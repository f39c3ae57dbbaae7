package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedReplaceIsWholesale(t *testing.T) {
	f := NewFeed[Post]()
	require.False(t, f.Loaded())

	require.True(t, f.Replace(1, []Post{{Title: "a"}, {Title: "b"}}))
	require.True(t, f.Replace(2, []Post{{Title: "c"}}))

	got := f.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Title)
	assert.Equal(t, 1, f.Len())
	assert.EqualValues(t, 2, f.Generation())
}

func TestFeedRefusesOlderGeneration(t *testing.T) {
	f := NewFeed[TaskPost]()
	require.True(t, f.Replace(5, []TaskPost{{Title: "new"}}))
	assert.False(t, f.Replace(3, []TaskPost{{Title: "old"}}))
	assert.Equal(t, "new", f.Snapshot()[0].Title)
	assert.EqualValues(t, 5, f.Generation())
}

func TestFeedSnapshotIsACopy(t *testing.T) {
	f := NewFeed[Post]()
	f.Replace(1, []Post{{Title: "a"}, {Title: "b"}})
	snap := f.Snapshot()
	snap[0].Title = "mutated"
	assert.Equal(t, "a", f.Snapshot()[0].Title)
}

func TestCountStats(t *testing.T) {
	s := CountStats([]Post{{Category: ProductNeed}, {Category: Unclear}, {Category: ProductNeed}})
	assert.Equal(t, Stats{ProductNeeds: 2, Unclear: 1, Total: 3}, s)
}

func TestScanNowStatsLeavesIrrelevantAndDangerAtZero(t *testing.T) {
	s := ScanNowStats([]TaskPost{
		{TaskCategory: SkillMatch},
		{TaskCategory: MaybeMatch},
		{TaskCategory: Danger},
		{TaskCategory: Irrelevant},
	})
	assert.Equal(t, TaskStats{SkillMatch: 1, MaybeMatch: 1, Total: 4}, s)
}

func TestIntervalLabel(t *testing.T) {
	n := 30
	assert.Equal(t, "30", SchedulerStatus{IntervalMinutes: &n}.IntervalLabel())
	assert.Equal(t, "?", SchedulerStatus{}.IntervalLabel())
}
