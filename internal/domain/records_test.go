package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValidation(t *testing.T) {
	t.Parallel()

	patientID := uuid.New()

	tests := []struct {
		name    string
		record  interface{ Validate() error }
		wantErr bool
	}{
		{
			name: "valid medication",
			record: Medication{
				PatientID: patientID, Name: "Donepezil", Dosage: "5mg", Time: "08:00 AM", Frequency: "daily",
			},
		},
		{
			name:    "medication without name",
			record:  Medication{PatientID: patientID, Dosage: "5mg", Time: "08:00 AM", Frequency: "daily"},
			wantErr: true,
		},
		{
			name:    "medication without owner",
			record:  Medication{Name: "Donepezil", Dosage: "5mg", Time: "08:00 AM", Frequency: "daily"},
			wantErr: true,
		},
		{
			name:   "valid schedule item",
			record: ScheduleItem{PatientID: patientID, Time: "02:00 PM", Title: "Afternoon Medication", Type: "medication"},
		},
		{
			name:    "schedule item without title",
			record:  ScheduleItem{PatientID: patientID, Time: "02:00 PM", Type: "medication"},
			wantErr: true,
		},
		{
			name: "valid route",
			record: WalkingRoute{PatientID: patientID, Name: "Morning Walk", Coordinates: []Coordinate{
				{Latitude: 37.78825, Longitude: -122.4324},
				{Latitude: 37.78925, Longitude: -122.4344},
			}},
		},
		{
			name: "route with one point",
			record: WalkingRoute{PatientID: patientID, Name: "Stub", Coordinates: []Coordinate{
				{Latitude: 37.78825, Longitude: -122.4324},
			}},
			wantErr: true,
		},
		{
			name: "route with invalid latitude",
			record: WalkingRoute{PatientID: patientID, Name: "Nowhere", Coordinates: []Coordinate{
				{Latitude: 137, Longitude: 0}, {Latitude: 0, Longitude: 0},
			}},
			wantErr: true,
		},
		{
			name:   "valid photo",
			record: FamilyPhoto{PatientID: patientID, URI: "file:///photos/1.jpg", Title: "Grandchildren"},
		},
		{
			name:    "photo without uri",
			record:  FamilyPhoto{PatientID: patientID, Title: "Grandchildren"},
			wantErr: true,
		},
		{
			name: "valid game definition",
			record: GameDefinition{
				PatientID: patientID, Title: "Memory Match", Variant: VariantPairMatching, Difficulty: DifficultyEasy,
			},
		},
		{
			name: "game definition with unknown variant",
			record: GameDefinition{
				PatientID: patientID, Title: "Chess", Variant: GameVariant("chess"), Difficulty: DifficultyEasy,
			},
			wantErr: true,
		},
		{
			name: "game definition with non-alphabetic word",
			record: GameDefinition{
				PatientID: patientID, Title: "Words", Variant: VariantWordUnscramble, Difficulty: DifficultyEasy,
				Words: []string{"apple", "b4nana"},
			},
			wantErr: true,
		},
		{
			name: "sequence level whose answer is not offered",
			record: GameDefinition{
				PatientID: patientID, Title: "Patterns", Variant: VariantSequenceInference, Difficulty: DifficultyEasy,
				Sequences: []SequenceLevel{{Shown: []int{1, 2, 3}, Options: []int{5, 6}, CorrectNext: 4}},
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.record.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput), "error should wrap ErrInvalidInput: %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPatchesKeepIdentity(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	item := ScheduleItem{PatientID: uuid.New(), Time: "08:00 AM", Title: "Morning Medication", Type: "medication"}.
		WithID(uuid.New(), now)

	done := true
	patched := ScheduleItemPatch{Completed: &done}.Apply(item)

	assert.Equal(t, item.ID, patched.ID)
	assert.Equal(t, item.PatientID, patched.PatientID)
	assert.True(t, patched.Completed)
	assert.Equal(t, "Morning Medication", patched.Title)
	assert.False(t, item.Completed, "patching must not modify the original value")
}

func TestGameDefinitionCloneIsDeep(t *testing.T) {
	t.Parallel()

	def := GameDefinition{
		Words:     []string{"apple"},
		Sequences: []SequenceLevel{{Shown: []int{1, 2}, Options: []int{3, 4}, CorrectNext: 3}},
	}
	c := def.Clone()
	c.Words[0] = "pear"
	c.Sequences[0].Shown[0] = 99

	assert.Equal(t, "apple", def.Words[0])
	assert.Equal(t, 1, def.Sequences[0].Shown[0])
}

func TestFamilyPhotoWithIDSetsUploadedAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	photo := FamilyPhoto{Title: "Beach"}.WithID(uuid.New(), now)
	assert.Equal(t, now, photo.UploadedAt)

	earlier := now.Add(-48 * time.Hour)
	photo = FamilyPhoto{Title: "Beach", UploadedAt: earlier}.WithID(uuid.New(), now)
	assert.Equal(t, earlier, photo.UploadedAt)
}

func TestWalkingRouteDistances(t *testing.T) {
	t.Parallel()

	route := WalkingRoute{Coordinates: []Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 0.01},
	}}

	// 0.01 degrees of longitude on the equator is roughly 1112 meters.
	assert.InDelta(t, 1112, route.Length(), 2)

	// A point 0.001 degrees north of the middle of the segment is ~111 meters away.
	assert.InDelta(t, 111, route.DistanceFrom(Coordinate{Latitude: 0.001, Longitude: 0.005}), 1)

	// Beyond the end of the segment the distance is to the endpoint.
	assert.InDelta(t, 1112, route.DistanceFrom(Coordinate{Latitude: 0, Longitude: 0.02}), 2)

	assert.True(t, math.IsInf(WalkingRoute{}.DistanceFrom(Coordinate{}), 1))
}

func TestSafeZone(t *testing.T) {
	t.Parallel()

	center := Coordinate{Latitude: 37.78825, Longitude: -122.4324}
	zone := SafeZone{Center: center, RadiusMeters: DefaultSafeZoneRadius}
	require.NoError(t, zone.Validate())

	// 0.005 degrees of latitude is roughly 556 meters, 0.01 roughly 1112.
	inside := Coordinate{Latitude: center.Latitude + 0.005, Longitude: center.Longitude}
	outside := Coordinate{Latitude: center.Latitude + 0.01, Longitude: center.Longitude}

	tests := []struct {
		name  string
		zone  SafeZone
		point Coordinate
		want  bool
	}{
		{"center", zone, center, true},
		{"inside", zone, inside, true},
		{"outside", zone, outside, false},
		{"on boundary", SafeZone{Center: center, RadiusMeters: DistanceMeters(center, outside)}, outside, true},
		{"just past boundary", SafeZone{Center: center, RadiusMeters: DistanceMeters(center, outside) - 0.01}, outside, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.zone.Contains(tc.point))
		})
	}

	for _, bad := range []SafeZone{
		{Center: center},
		{Center: center, RadiusMeters: -5},
		{Center: Coordinate{Latitude: 91}, RadiusMeters: 10},
	} {
		err := bad.Validate()
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", bad)
	}
}
