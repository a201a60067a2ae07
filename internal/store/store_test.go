package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/campsched/pkg/scheduler"
)

func sampleState() PersistedState {
	return PersistedState{
		ScheduleAssignments: []scheduler.Assignment{
			{BlockIdx: 0, Bunk: "Cabin1", DivName: "Juniors", Slots: []int{0, 1}, Pick: scheduler.Pick{Field: "Lake", Activity: "Swim"}, Cost: 120},
		},
		LeagueAssignments: []scheduler.Matchup{{Home: "Cabin1", Away: "Cabin2"}},
		UnifiedTimes:      []scheduler.TimeSlot{{StartMin: 540, EndMin: 600}},
		SavedAt:           time.Unix(1700000000, 0).UTC(),
	}
}

func TestSQLiteCacheRoundTrip(t *testing.T) {
	cache, err := OpenSQLiteCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	key := Key{CampID: "camp-a", DateKey: "2026-07-30", SchedulerID: "sched-1"}
	want := sampleState()

	require.NoError(t, cache.Save(key, want))

	got, ok, err := cache.Load(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want.ScheduleAssignments, got.ScheduleAssignments)
	require.Equal(t, want.LeagueAssignments, got.LeagueAssignments)
	require.Equal(t, want.UnifiedTimes, got.UnifiedTimes)
}

func TestSQLiteCacheLoadMissing(t *testing.T) {
	cache, err := OpenSQLiteCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	_, ok, err := cache.Load(Key{CampID: "nobody", DateKey: "2026-01-01", SchedulerID: "x"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteCacheSaveOverwrites(t *testing.T) {
	cache, err := OpenSQLiteCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	key := Key{CampID: "camp-a", DateKey: "2026-07-30", SchedulerID: "sched-1"}
	require.NoError(t, cache.Save(key, sampleState()))

	second := sampleState()
	second.ScheduleAssignments[0].Cost = 999
	require.NoError(t, cache.Save(key, second))

	got, ok, err := cache.Load(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 999, got.ScheduleAssignments[0].Cost)
}

func TestInMemoryCloudStoreRoundTrip(t *testing.T) {
	cloud := NewInMemoryCloudStore()
	ctx := context.Background()
	key := Key{CampID: "camp-a", DateKey: "2026-07-30", SchedulerID: "sched-1"}
	want := sampleState()

	require.NoError(t, cloud.Put(ctx, key, want, false))

	got, ok, err := cloud.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want.ScheduleAssignments, got.ScheduleAssignments)
}

func TestInMemoryCloudStoreMissingKey(t *testing.T) {
	cloud := NewInMemoryCloudStore()
	_, ok, err := cloud.Get(context.Background(), Key{CampID: "x", DateKey: "y", SchedulerID: "z"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPostEditGuardWindow(t *testing.T) {
	var guard PostEditGuard
	start := time.Unix(1700000000, 0)

	guard.Start(start, 8*time.Second)

	require.True(t, guard.Active(start.Add(1*time.Second)))
	require.True(t, guard.Active(start.Add(7*time.Second)))
	require.False(t, guard.Active(start.Add(9*time.Second)))
}

func TestPostEditGuardNeverStartedIsInactive(t *testing.T) {
	var guard PostEditGuard
	require.False(t, guard.Active(time.Now()))
}
