package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestCollectionAddAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewCollection[domain.ScheduleItem](fixedClock(now))

	patientA, patientB := uuid.New(), uuid.New()
	titles := []string{"Morning Medication", "Breakfast", "Afternoon Walk"}
	for _, title := range titles {
		_, err := c.Add(ctx, domain.ScheduleItem{PatientID: patientA, Time: "08:00 AM", Title: title, Type: "task"})
		require.NoError(t, err)
	}
	other, err := c.Add(ctx, domain.ScheduleItem{PatientID: patientB, Time: "09:00 AM", Title: "Other", Type: "task"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, other.ID)
	assert.Equal(t, now, other.CreatedAt)

	items, err := c.ListFor(ctx, patientA)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, titles[i], item.Title, "insertion order must be kept")
		assert.Equal(t, patientA, item.PatientID)
	}

	none, err := c.ListFor(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
	assert.Equal(t, 4, c.Len())
}

func TestCollectionAddRejectsInvalid(t *testing.T) {
	t.Parallel()
	c := NewCollection[domain.Medication]()

	_, err := c.Add(context.Background(), domain.Medication{PatientID: uuid.New(), Name: ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var storeErr *store.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "medication", storeErr.Entity)
	assert.Zero(t, c.Len())
}

func TestCollectionUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := created
	c := NewCollection[domain.ScheduleItem](WithClock(func() time.Time { return clock }))

	item, err := c.Add(ctx, domain.ScheduleItem{PatientID: uuid.New(), Time: "08:00 AM", Title: "Pills", Type: "medication"})
	require.NoError(t, err)

	clock = created.Add(time.Hour)
	done := true
	updated, err := c.Update(ctx, item.ID, func(cur domain.ScheduleItem) (domain.ScheduleItem, error) {
		return domain.ScheduleItemPatch{Completed: &done}.Apply(cur), nil
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, clock, updated.UpdatedAt)

	t.Run("callback error leaves record unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := c.Update(ctx, item.ID, func(cur domain.ScheduleItem) (domain.ScheduleItem, error) {
			cur.Title = "mutated"
			return cur, boom
		})
		assert.ErrorIs(t, err, boom)
		got, _ := c.Get(ctx, item.ID)
		assert.Equal(t, "Pills", got.Title)
	})

	t.Run("invalid result is rejected", func(t *testing.T) {
		_, err := c.Update(ctx, item.ID, func(cur domain.ScheduleItem) (domain.ScheduleItem, error) {
			cur.Title = ""
			return cur, nil
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		got, _ := c.Get(ctx, item.ID)
		assert.Equal(t, "Pills", got.Title)
	})

	t.Run("owner cannot change", func(t *testing.T) {
		_, err := c.Update(ctx, item.ID, func(cur domain.ScheduleItem) (domain.ScheduleItem, error) {
			cur.PatientID = uuid.New()
			return cur, nil
		})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := c.Update(ctx, uuid.New(), func(cur domain.ScheduleItem) (domain.ScheduleItem, error) {
			t.Fatal("callback must not run for a missing record")
			return cur, nil
		})
		assert.ErrorIs(t, err, store.ErrRecordNotFound)
	})
}

func TestCollectionRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCollection[domain.GameDefinition]()
	patientID := uuid.New()

	var ids []uuid.UUID
	for _, title := range []string{"Memory Match", "Word Puzzle", "Pattern Recognition"} {
		def, err := c.Add(ctx, domain.GameDefinition{
			PatientID: patientID, Title: title,
			Variant: domain.VariantPairMatching, Difficulty: domain.DifficultyEasy,
		})
		require.NoError(t, err)
		ids = append(ids, def.ID)
	}

	require.NoError(t, c.Remove(ctx, ids[1]))
	assert.Equal(t, 2, c.Len())

	defs, _ := c.ListFor(ctx, patientID)
	require.Len(t, defs, 2)
	assert.Equal(t, "Memory Match", defs[0].Title)
	assert.Equal(t, "Pattern Recognition", defs[1].Title)

	assert.ErrorIs(t, c.Remove(ctx, ids[1]), store.ErrRecordNotFound)
	assert.ErrorIs(t, c.Remove(ctx, uuid.New()), store.ErrRecordNotFound)
	assert.Equal(t, 2, c.Len(), "failed removes must not change the collection size")
}

func TestCollectionReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCollection[domain.WalkingRoute]()

	route, err := c.Add(ctx, domain.WalkingRoute{PatientID: uuid.New(), Name: "Park Loop", Coordinates: []domain.Coordinate{
		{Latitude: 37.78825, Longitude: -122.4324},
		{Latitude: 37.78925, Longitude: -122.4344},
	}})
	require.NoError(t, err)

	route.Coordinates[0].Latitude = 0
	got, err := c.Get(ctx, route.ID)
	require.NoError(t, err)
	assert.Equal(t, 37.78825, got.Coordinates[0].Latitude)
}

func TestStoreNewWiresEveryKind(t *testing.T) {
	t.Parallel()
	s := New(WithLatency(time.Millisecond))

	require.NotNil(t, s.Users)
	require.NotNil(t, s.Medications)
	require.NotNil(t, s.Schedule)
	require.NotNil(t, s.Routes)
	require.NotNil(t, s.Photos)
	require.NotNil(t, s.GameDefinitions)

	_, err := s.Photos.Add(context.Background(), domain.FamilyPhoto{
		PatientID: uuid.New(), URI: "file:///photo.jpg", Title: "Family Dinner",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Photos.Len())
}
