package processors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONProcessorRecordsEnvelope(t *testing.T) {
	body := []byte(`{"records":[{"date":"2024-01-01","steps":7000,"heart_rate":65,"sleep_hours":7.5}]}`)
	records, err := NewJSONProcessor(body).Parse()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestJSONProcessorBareRecord(t *testing.T) {
	body := []byte(`{"date":"2024-01-01","steps":"7000","heart_rate":65,"sleep_hours":"7.5"}`)
	records, err := NewJSONProcessor(body).Parse()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestJSONProcessorEmptyRecordsList(t *testing.T) {
	records, err := NewJSONProcessor([]byte(`{"records":[]}`)).Parse()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestJSONProcessorRejectsWrongShapes(t *testing.T) {
	bodies := [][]byte{
		[]byte(`not json`),
		[]byte(`[1,2,3]`),
		[]byte(`"just a string"`),
		[]byte(`{"date":"2024-01-01"}`),
		[]byte(`{"date":"2024-01-01","steps":true,"heart_rate":65,"sleep_hours":7}`),
	}
	for _, body := range bodies {
		_, err := NewJSONProcessor(body).Parse()
		require.Error(t, err, "body %s", body)
		require.Contains(t, err.Error(), "Body must be", "body %s", body)
	}
}
