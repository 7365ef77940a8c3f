package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/providers"
	apperrors "github.com/medichat/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hypertensionFixture sets up a disease requiring an ECG with two nearby
// internal-medicine hospitals: A holds the ECG, B does not but has more
// specialists and sits closer.
func hypertensionFixture() (*RecommendationService, *stubAuditRepo, *recordingEventBus) {
	hospitals := &stubHospitalRepo{hospitals: []*entities.Hospital{
		hospitalAt(1, "A내과의원", entities.CategoryClinic, seoulLat+0.02, seoulLon),
		hospitalAt(2, "B내과의원", entities.CategoryClinic, seoulLat+0.005, seoulLon),
	}}
	reference := &stubReferenceRepo{
		departments: map[int64][]*entities.Department{
			1: {{ID: 100, Name: "내과"}},
		},
		requiredEquipment: map[int64][]string{1: {"심전도계"}},
		hospitalEquipment: map[int64][]string{
			1: {"심전도계", "혈압계"},
			2: {"혈압계"},
		},
		specialists: map[int64]int{1: 2, 2: 6},
		details: map[int64][]entities.EquipmentDetail{
			1: {{Name: "심전도계", Code: "E01", Quantity: 1}},
		},
	}
	diseases := &stubDiseaseRepo{diseases: []*entities.Disease{
		{ID: 1, Name: "고혈압"},
	}}
	users := newStubUserRepo()
	audit := &stubAuditRepo{}
	bus := newRecordingEventBus()

	svc := NewRecommendationService(
		NewCandidateFilter(hospitals, reference),
		reference, diseases, users,
		NewScorer(DefaultScoringParams()),
		audit, bus, nil, 0,
	)
	return svc, audit, bus
}

func TestRecommend_EquipmentHolderOutranksCloserHospital(t *testing.T) {
	svc, _, _ := hypertensionFixture()

	set, err := svc.Recommend(context.Background(), RecommendRequest{
		DiseaseID: 1,
		Latitude:  seoulLat,
		Longitude: seoulLon,
		RadiusKm:  20,
		Limit:     3,
	})

	require.NoError(t, err)
	assert.Equal(t, "고혈압", set.DiseaseName)
	assert.Equal(t, 2, set.TotalCandidates)
	assert.Equal(t, []string{"심전도계"}, set.RequiredEquipment)
	require.Len(t, set.Recommendations, 2)

	// The ECG holder wins despite being farther with fewer specialists: the
	// 50-point equipment axis dominates the with-requirement profile.
	first, second := set.Recommendations[0], set.Recommendations[1]
	assert.Equal(t, int64(1), first.HospitalID)
	assert.True(t, first.EquipmentMatch)
	assert.Equal(t, 1, first.Rank)
	require.Len(t, first.EquipmentDetails, 1)
	assert.Equal(t, "심전도계", first.EquipmentDetails[0].Name)

	assert.Equal(t, int64(2), second.HospitalID)
	assert.False(t, second.EquipmentMatch)
	assert.Equal(t, 2, second.Rank)
	assert.Empty(t, second.EquipmentDetails)

	assert.Greater(t, first.Score, second.Score)
}

func TestRecommend_NoRequiredEquipmentMatchesEveryHospital(t *testing.T) {
	// A disease with mapped departments but no equipment requirement must
	// mark every candidate as an equipment match, holdings or not.
	hospitals := &stubHospitalRepo{hospitals: []*entities.Hospital{
		hospitalAt(1, "A내과의원", entities.CategoryClinic, seoulLat+0.02, seoulLon),
		hospitalAt(2, "B내과의원", entities.CategoryClinic, seoulLat+0.005, seoulLon),
	}}
	reference := &stubReferenceRepo{
		departments: map[int64][]*entities.Department{
			2: {{ID: 100, Name: "내과"}},
		},
		hospitalEquipment: map[int64][]string{
			1: {"혈압계"},
		},
		specialists: map[int64]int{1: 2, 2: 6},
	}
	diseases := &stubDiseaseRepo{diseases: []*entities.Disease{
		{ID: 2, Name: "감기"},
	}}
	svc := NewRecommendationService(
		NewCandidateFilter(hospitals, reference),
		reference, diseases, newStubUserRepo(),
		NewScorer(DefaultScoringParams()),
		&stubAuditRepo{}, newRecordingEventBus(), nil, 0,
	)

	set, err := svc.Recommend(context.Background(), RecommendRequest{
		DiseaseID: 2,
		Latitude:  seoulLat,
		Longitude: seoulLon,
		RadiusKm:  20,
		Limit:     3,
	})

	require.NoError(t, err)
	assert.Empty(t, set.RequiredEquipment)
	require.Len(t, set.Recommendations, 2)
	for _, rec := range set.Recommendations {
		assert.True(t, rec.EquipmentMatch, "hospital %d", rec.HospitalID)
	}
}

func TestRecommend_RanksAreDense(t *testing.T) {
	svc, _, _ := hypertensionFixture()

	set, err := svc.Recommend(context.Background(), RecommendRequest{
		DiseaseID: 1, Latitude: seoulLat, Longitude: seoulLon, RadiusKm: 20,
	})

	require.NoError(t, err)
	for i, rec := range set.Recommendations {
		assert.Equal(t, i+1, rec.Rank)
	}
}

func TestRecommend_NonPositiveLimitReturnsAll(t *testing.T) {
	svc, _, _ := hypertensionFixture()

	set, err := svc.Recommend(context.Background(), RecommendRequest{
		DiseaseID: 1, Latitude: seoulLat, Longitude: seoulLon, RadiusKm: 20, Limit: 0,
	})
	require.NoError(t, err)
	assert.Len(t, set.Recommendations, 2)

	set, err = svc.Recommend(context.Background(), RecommendRequest{
		DiseaseID: 1, Latitude: seoulLat, Longitude: seoulLon, RadiusKm: 20, Limit: 1,
	})
	require.NoError(t, err)
	assert.Len(t, set.Recommendations, 1)
	assert.Equal(t, 2, set.TotalCandidates)
}

func TestRecommend_UnknownDiseaseIsPrecondition(t *testing.T) {
	svc, _, _ := hypertensionFixture()

	_, err := svc.Recommend(context.Background(), RecommendRequest{
		DiseaseID: 42, Latitude: seoulLat, Longitude: seoulLon, RadiusKm: 20,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))
}

func TestRecommend_NoCandidatesIsNotAnError(t *testing.T) {
	svc, audit, bus := hypertensionFixture()

	// Radius too tight for either hospital.
	set, err := svc.Recommend(context.Background(), RecommendRequest{
		DiseaseID: 1, Latitude: seoulLat, Longitude: seoulLon, RadiusKm: 0.1,
		UserID: uuid.New(),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, set.TotalCandidates)
	assert.Empty(t, set.Recommendations)
	assert.Empty(t, audit.batches)
	assert.Empty(t, bus.published)
}

func TestRecommend_AuditRowsShareRunID(t *testing.T) {
	svc, audit, _ := hypertensionFixture()
	userID := uuid.New()

	_, err := svc.Recommend(context.Background(), RecommendRequest{
		DiseaseID: 1, Latitude: seoulLat, Longitude: seoulLon, RadiusKm: 20,
		UserID: userID,
	})

	require.NoError(t, err)
	require.Len(t, audit.batches, 1)
	rows := audit.batches[0]
	require.Len(t, rows, 2)
	assert.NotEqual(t, uuid.Nil, rows[0].RunID)
	assert.Equal(t, rows[0].RunID, rows[1].RunID)
	assert.Equal(t, userID, rows[0].UserID)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].Rank)
}

func TestRecommend_AnonymousRunSkipsAudit(t *testing.T) {
	svc, audit, _ := hypertensionFixture()

	_, err := svc.Recommend(context.Background(), RecommendRequest{
		DiseaseID: 1, Latitude: seoulLat, Longitude: seoulLon, RadiusKm: 20,
	})

	require.NoError(t, err)
	assert.Empty(t, audit.batches)
}

func TestRecommend_PublishesEvent(t *testing.T) {
	svc, _, bus := hypertensionFixture()

	_, err := svc.Recommend(context.Background(), RecommendRequest{
		DiseaseID: 1, Latitude: seoulLat, Longitude: seoulLon, RadiusKm: 20,
	})

	require.NoError(t, err)
	events := bus.published[providers.EventChannelRecommendations]
	require.Len(t, events, 1)
	assert.Equal(t, entities.EventTypeRecommendationCreated, events[0].Type)
}

func TestRecommendForUser_RequiresStoredLocation(t *testing.T) {
	hospitals := &stubHospitalRepo{}
	reference := &stubReferenceRepo{}
	diseases := &stubDiseaseRepo{diseases: []*entities.Disease{{ID: 1, Name: "고혈압"}}}
	users := newStubUserRepo()

	noLocation := &entities.User{ID: uuid.New(), Email: "a@b.c"}
	require.NoError(t, users.Create(context.Background(), noLocation))

	svc := NewRecommendationService(
		NewCandidateFilter(hospitals, reference),
		reference, diseases, users,
		NewScorer(DefaultScoringParams()), nil, nil, nil, 0,
	)

	_, err := svc.RecommendForUser(context.Background(), noLocation.ID, 1, 20, 3)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))
}

func TestRecommendByDiseaseName_UnknownName(t *testing.T) {
	svc, _, _ := hypertensionFixture()

	_, err := svc.RecommendByDiseaseName(context.Background(), "없는병", RecommendRequest{
		Latitude: seoulLat, Longitude: seoulLon, RadiusKm: 5,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePrecondition))
}
