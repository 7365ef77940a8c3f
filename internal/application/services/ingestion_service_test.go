package services

import (
	"context"
	"testing"

	"github.com/medichat/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestHospitals_CreatesWithHoldings(t *testing.T) {
	hospitals := &stubHospitalRepo{}
	equipment := newStubEquipmentRepo(
		&entities.EquipmentCategory{ID: 1, Name: "MRI", Code: "E10"},
		&entities.EquipmentCategory{ID: 2, Name: "심전도계", Code: "E01"},
	)
	svc := NewIngestionService(hospitals, equipment)

	report, err := svc.IngestHospitals(context.Background(), []HospitalRecord{
		{
			Name: "서울내과의원", Address: "서울시 중구",
			Latitude: seoulLat, Longitude: seoulLon,
			Category: "의원",
			Equipment: []EquipmentHolding{
				{Name: "MRI", Quantity: 1},
				{Name: "심전도계", Quantity: 2},
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, hospitals.hospitals, 1)
	assert.Equal(t, entities.CategoryClinic, hospitals.hospitals[0].Category)
	assert.Equal(t, map[int64]int{1: 1, 2: 2}, equipment.holdings[hospitals.hospitals[0].ID])
}

func TestIngestHospitals_SkipsInvalidRows(t *testing.T) {
	hospitals := &stubHospitalRepo{}
	svc := NewIngestionService(hospitals, newStubEquipmentRepo())

	report, err := svc.IngestHospitals(context.Background(), []HospitalRecord{
		{Name: "", Latitude: seoulLat, Longitude: seoulLon},
		{Name: "좌표없는의원", Latitude: 0, Longitude: 0},
		{Name: "범위밖의원", Latitude: 95, Longitude: seoulLon},
		{Name: "정상의원", Latitude: seoulLat, Longitude: seoulLon, Category: "의원"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 3, report.Skipped)
}

func TestIngestHospitals_UnknownEquipmentDropped(t *testing.T) {
	hospitals := &stubHospitalRepo{}
	equipment := newStubEquipmentRepo(&entities.EquipmentCategory{ID: 1, Name: "MRI"})
	svc := NewIngestionService(hospitals, equipment)

	report, err := svc.IngestHospitals(context.Background(), []HospitalRecord{
		{
			Name: "서울의원", Latitude: seoulLat, Longitude: seoulLon, Category: "의원",
			Equipment: []EquipmentHolding{
				{Name: "MRI", Quantity: 1},
				{Name: "양자스캐너", Quantity: 1},
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, []string{"양자스캐너"}, report.UnknownEquipment)
	// The known holding is still recorded.
	assert.Equal(t, map[int64]int{1: 1}, equipment.holdings[hospitals.hospitals[0].ID])
}

func TestIngestHospitals_NormalizesCategoryLabels(t *testing.T) {
	hospitals := &stubHospitalRepo{}
	svc := NewIngestionService(hospitals, newStubEquipmentRepo())

	_, err := svc.IngestHospitals(context.Background(), []HospitalRecord{
		{Name: "A", Latitude: seoulLat, Longitude: seoulLon, Category: "종합 병원"},
		{Name: "B", Latitude: seoulLat, Longitude: seoulLon, Category: "General Hospital"},
	})

	require.NoError(t, err)
	require.Len(t, hospitals.hospitals, 2)
	assert.Equal(t, entities.CategoryGeneralHospital, hospitals.hospitals[0].Category)
	assert.Equal(t, entities.CategoryGeneralHospital, hospitals.hospitals[1].Category)
}
