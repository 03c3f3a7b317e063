package services

import (
	"context"
	"testing"

	"github.com/harshal4412/ephemeral/internal/client/cache"
	"github.com/harshal4412/ephemeral/internal/client/models"
	"github.com/harshal4412/ephemeral/internal/client/remote"
	"github.com/harshal4412/ephemeral/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntryService(t *testing.T) (*fakeStore, *cache.EntryCache, EntryService) {
	t.Helper()
	fs := newFakeStore()
	c := cache.New()
	require.NoError(t, c.Replace(u1.ID, nil))
	return fs, c, NewEntryService(fs, c, testLogger())
}

func TestSave_UpsertIsIdempotentPerDay(t *testing.T) {
	fs, c, svc := newEntryService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, u1, "2024-03-01", models.MoodBlast, "great day", nil)
	require.NoError(t, err)
	assert.Equal(t, models.MoodBlast, saved.Mood)

	// second save for the same day replaces, never duplicates
	saved, err = svc.Save(ctx, u1, "2024-03-01", models.MoodFun, "revised", nil)
	require.NoError(t, err)
	assert.Equal(t, models.MoodFun, saved.Mood)
	assert.Equal(t, "revised", saved.Note)

	assert.Equal(t, 1, fs.count(u1.ID), "one record per (owner, date)")

	e, ok := c.Get("2024-03-01")
	require.True(t, ok)
	assert.Equal(t, models.MoodFun, e.Mood)
	assert.Equal(t, "revised", e.Note)
}

func TestSave_MissingMoodFailsBeforeRemoteCall(t *testing.T) {
	fs, c, svc := newEntryService(t)

	_, err := svc.Save(context.Background(), u1, "2024-03-01", "", "note", nil)
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, 0, fs.upsertCalls, "validation must reject before the remote store is contacted")
	assert.Equal(t, 0, c.Len())
}

func TestSave_InvalidEntryRejected(t *testing.T) {
	fs, _, svc := newEntryService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, u1, "2024-03-01", "meh", "note", nil)
	require.ErrorIs(t, err, common.ErrorValidation, "mood outside the closed set")

	_, err = svc.Save(ctx, u1, "March 1st", models.MoodFun, "note", nil)
	require.ErrorIs(t, err, common.ErrorValidation, "date must be an ISO day")

	atts := []models.Attachment{"a", "b", "c", "d"}
	_, err = svc.Save(ctx, u1, "2024-03-01", models.MoodFun, "note", atts)
	require.ErrorIs(t, err, common.ErrorValidation, "attachment cap")

	assert.Equal(t, 0, fs.upsertCalls)
}

func TestSave_RemoteFailureLeavesCacheUntouched(t *testing.T) {
	fs, c, svc := newEntryService(t)
	fs.upsertErr = remote.ErrUnavailable

	_, err := svc.Save(context.Background(), u1, "2024-03-01", models.MoodFun, "note", nil)
	require.ErrorIs(t, err, remote.ErrUnavailable)
	assert.Equal(t, 0, c.Len())
}

func TestDelete_RemovesRemoteThenCache(t *testing.T) {
	fs, c, svc := newEntryService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, u1, "2024-03-01", models.MoodBlast, "great day", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u1, "2024-03-01"))
	assert.Equal(t, 0, fs.count(u1.ID))
	assert.Equal(t, 0, c.Len())

	all, err := svc.FetchAll(ctx, u1)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDelete_RemoteFailureLeavesCacheUntouched(t *testing.T) {
	fs, c, svc := newEntryService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, u1, "2024-03-01", models.MoodBlast, "", nil)
	require.NoError(t, err)

	fs.deleteErr = remote.ErrUnavailable
	require.ErrorIs(t, svc.Delete(ctx, u1, "2024-03-01"), remote.ErrUnavailable)

	_, ok := c.Get("2024-03-01")
	assert.True(t, ok, "cache keeps last-known-good state on failure")
}

func TestFetchAll_DropsForeignRecords(t *testing.T) {
	fs, _, svc := newEntryService(t)
	fs.seed(u1.ID, "2024-03-01", "blast", "mine")
	fs.seed(u2.ID, "2024-03-02", "fun", "not mine")
	fs.selectLeakAll = true

	all, err := svc.FetchAll(context.Background(), u1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, u1.ID, all[0].Owner)
	assert.Equal(t, "2024-03-01", all[0].Date)
}

func TestFetchAll_RequiresIdentity(t *testing.T) {
	_, _, svc := newEntryService(t)

	_, err := svc.FetchAll(context.Background(), models.Identity{})
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefresh_PopulatesCache(t *testing.T) {
	fs, c, svc := newEntryService(t)
	fs.seed(u1.ID, "2024-03-01", "blast", "great day")
	fs.seed(u1.ID, "2024-03-02", "fun", "")

	require.NoError(t, svc.Refresh(context.Background(), u1))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, u1.ID, c.Owner())
}

func TestRefresh_FailureKeepsStaleCache(t *testing.T) {
	fs, c, svc := newEntryService(t)
	fs.seed(u1.ID, "2024-03-01", "blast", "")
	require.NoError(t, svc.Refresh(context.Background(), u1))
	require.Equal(t, 1, c.Len())

	fs.selectErr = remote.ErrUnavailable
	err := svc.Refresh(context.Background(), u1)
	require.ErrorIs(t, err, remote.ErrUnavailable)
	assert.Equal(t, 1, c.Len(), "stale-but-present beats empty")
}

func TestSave_AfterFailedRefreshStillReachesCache(t *testing.T) {
	fs := newFakeStore()
	c := cache.New()
	svc := NewEntryService(fs, c, testLogger())
	ctx := context.Background()

	// login whose initial fetch failed: the cache was cleared and never
	// rescoped to the new identity
	fs.selectErr = remote.ErrUnavailable
	require.Error(t, svc.Refresh(ctx, u1))
	require.Equal(t, "", c.Owner())

	fs.selectErr = nil
	saved, err := svc.Save(ctx, u1, "2024-03-01", models.MoodBlast, "great day", nil)
	require.NoError(t, err, "a remotely acknowledged save must not surface an error")
	assert.Equal(t, models.MoodBlast, saved.Mood)
	assert.Equal(t, 1, fs.count(u1.ID))

	e, ok := c.Get("2024-03-01")
	require.True(t, ok, "acknowledged write must reach the cache")
	assert.Equal(t, "great day", e.Note)
	assert.Equal(t, u1.ID, c.Owner())
}

func TestSaveReviseDeleteLifecycle(t *testing.T) {
	fs, _, svc := newEntryService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, u1, "2024-03-01", models.MoodBlast, "great day", nil)
	require.NoError(t, err)

	all, err := svc.FetchAll(ctx, u1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.MoodBlast, all[0].Mood)
	assert.Equal(t, "great day", all[0].Note)

	_, err = svc.Save(ctx, u1, "2024-03-01", models.MoodFun, "revised", nil)
	require.NoError(t, err)

	all, err = svc.FetchAll(ctx, u1)
	require.NoError(t, err)
	require.Len(t, all, 1, "revising a day must not grow the set")
	assert.Equal(t, models.MoodFun, all[0].Mood)
	assert.Equal(t, "revised", all[0].Note)

	require.NoError(t, svc.Delete(ctx, u1, "2024-03-01"))
	all, err = svc.FetchAll(ctx, u1)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 0, fs.count(u1.ID))
}

func TestRefresh_DiscardsResultAfterInvalidate(t *testing.T) {
	fs, c, svc := newEntryService(t)
	fs.seed(u1.ID, "2024-03-01", "blast", "")

	// identity switches while the fetch is in flight
	fs.selectHook = func() { svc.Invalidate() }

	require.NoError(t, svc.Refresh(context.Background(), u1))
	assert.Equal(t, 0, c.Len(), "stale fetch result must be discarded, not applied")
}
