package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// a trimmed TireData export with both current and legacy record shapes
const rtdbExport = `{
	"01-01-2025": {
		"T1": {
			"tireNo": "T1",
			"vehicleNo": "PM0001",
			"vehicleType": "Prime Mover",
			"TirePosition": "Front Left",
			"tyrePressure": "46",
			"threadDepth": "12",
			"kmReading": "150000",
			"tirebrand": "Brand A",
			"tirestatus": "Good",
			"Date": "01-01-2025",
			"Time": "08:00:00"
		},
		"T2": {
			"vehicleNo": "PM0001",
			"TirePosition": "Front Right",
			"tyrePressure": "not-a-number",
			"threadDepth": "9",
			"dateTime": "1/1/2025, 8:05:00 AM"
		}
	},
	"02-01-2025": {
		"T1": {
			"tireNo": "T1",
			"vehicleNo": "PM0001",
			"TirePosition": "Front Left",
			"tyrePressure": "44",
			"threadDepth": "11",
			"Date": "02-01-2025",
			"Time": "08:00:00"
		}
	}
}`

func newRTDBTestServer(t *testing.T, wantAuth string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/TireData.json", r.URL.Path)
		if wantAuth != "" {
			require.Equal(t, wantAuth, r.URL.Query().Get("auth"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(rtdbExport))
	}))
}

func TestFetchSnapshot_NormalizesLegacyRecords(t *testing.T) {
	srv := newRTDBTestServer(t, "secret")
	defer srv.Close()

	client := NewRTDBClient(srv.URL, "secret", zap.NewNop())
	readings, err := client.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 3)

	// sorted oldest first, with tire id as the tie break within a partition
	assert.Equal(t, "T1", readings[0].TireID)
	assert.Equal(t, "01-01-2025", readings[0].RecordedDate)
	assert.Equal(t, "08:00:00", readings[0].RecordedTime)
	assert.Equal(t, 46.0, readings[0].Pressure)

	// T2 has no tireNo field; the store key fills it in, and the combined
	// en-US dateTime string splits into canonical date and time
	legacy := readings[1]
	assert.Equal(t, "T2", legacy.TireID)
	assert.Equal(t, "01-01-2025", legacy.RecordedDate)
	assert.Equal(t, "08:05:00", legacy.RecordedTime)
	assert.True(t, legacy.Pressure != legacy.Pressure, "unparseable pressure should be NaN")
	assert.Equal(t, 9.0, legacy.TreadDepth)

	assert.Equal(t, "02-01-2025", readings[2].RecordedDate)
	assert.Equal(t, 44.0, readings[2].Pressure)
}

func TestFetchSnapshot_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewRTDBClient(srv.URL, "", zap.NewNop())
	_, err := client.FetchSnapshot(context.Background())
	assert.Error(t, err)
}

func TestImportSnapshot_IsIdempotent(t *testing.T) {
	srv := newRTDBTestServer(t, "")
	defer srv.Close()

	repo := &fakeReadingsRepo{}
	client := NewRTDBClient(srv.URL, "", zap.NewNop())

	imported, err := client.ImportSnapshot(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 3, imported)
	assert.Len(t, repo.readings, 3)

	// a second import upserts into the same partitions
	imported, err = client.ImportSnapshot(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 3, imported)
	assert.Len(t, repo.readings, 3)
}
