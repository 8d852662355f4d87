package recording

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tedpearson/edf-patient/recording/edftest"
)

func TestReadEDFMissingFile(t *testing.T) {
	_, err := ReadEDF(filepath.Join(t.TempDir(), "P1_HR_20230101.edf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadEDF(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		file     edftest.File
		channels []string
		rows     int
		period   time.Duration
	}{
		{
			name: "heart rate",
			file: edftest.File{Start: start, RecordDuration: 1, Records: 2, Signals: []edftest.Signal{
				{Label: "HR", SamplesPerRecord: 4, Samples: edftest.Ramp(60, 8)},
			}},
			channels: []string{"HR"},
			rows:     8,
			period:   250 * time.Millisecond,
		},
		{
			name: "accelerometer",
			file: edftest.File{Start: start, RecordDuration: 1, Records: 2, Signals: []edftest.Signal{
				{Label: "Acc x", SamplesPerRecord: 32, Samples: edftest.Ramp(0, 64)},
				{Label: "Acc y", SamplesPerRecord: 32, Samples: edftest.Ramp(100, 64)},
				{Label: "Acc z", SamplesPerRecord: 32, Samples: edftest.Ramp(-200, 64)},
			}},
			channels: []string{"Acc x", "Acc y", "Acc z"},
			rows:     64,
			period:   31250 * time.Microsecond,
		},
		{
			name: "annotation signal first",
			file: edftest.File{Start: start, RecordDuration: 2, Records: 3, Signals: []edftest.Signal{
				{Label: "EDF Annotations", SamplesPerRecord: 3, Samples: make([]int16, 9)},
				{Label: "EDA", SamplesPerRecord: 8, Samples: edftest.Ramp(1, 24)},
			}},
			channels: []string{"EDA"},
			rows:     24,
			period:   250 * time.Millisecond,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "P1_X_20230101.edf")
			require.NoError(t, edftest.Write(file, tt.file))

			tbl, err := ReadEDF(file)
			require.NoError(t, err)
			assert.Equal(t, tt.channels, tbl.Channels)
			require.Equal(t, tt.rows, tbl.Len())
			assert.True(t, tbl.Timestamps[0].Equal(start))
			for i := 1; i < tbl.Len(); i++ {
				assert.Equal(t, tt.period, tbl.Timestamps[i].Sub(tbl.Timestamps[i-1]), "row %d", i)
			}
			for i, name := range tt.channels {
				col, ok := tbl.Column(name)
				require.True(t, ok)
				var want []int16
				for _, s := range tt.file.Signals {
					if s.Label == name {
						want = s.Samples
					}
				}
				require.Len(t, col, len(want), "channel %d", i)
				for j := range want {
					assert.InDelta(t, float64(want[j]), col[j], 1e-9)
				}
			}
		})
	}
}

func TestReadEDFCorruptFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "P1_HR_20230101.edf")
	require.NoError(t, os.WriteFile(file, bytes.Repeat([]byte("garbage "), 64), 0o644))

	var err error
	require.NotPanics(t, func() { _, err = ReadEDF(file) })
	assert.ErrorContains(t, err, file)
}

func TestDataSamplesPerRecord(t *testing.T) {
	assert.Equal(t, 4, dataSamplesPerRecord([]string{"HR"}, []int{4}))
	assert.Equal(t, 32, dataSamplesPerRecord([]string{"EDF Annotations ", "Acc x"}, []int{60, 32}))
	assert.Equal(t, 0, dataSamplesPerRecord([]string{"EDF Annotations"}, []int{60}))
}

func TestStartTime(t *testing.T) {
	start, err := startTime(map[string]string{"startdate": "01.01.23", "starttime": "02.03.04 "})
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2023, 1, 1, 2, 3, 4, 0, time.UTC)))

	_, err = startTime(map[string]string{"startdate": "2023-01-01"})
	assert.Error(t, err)
}

func TestSignalTable(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		records  [][]float64
		channels []string
		wantErr  bool
	}{
		{
			name:     "single channel",
			labels:   []string{"HR  "},
			records:  [][]float64{{60, 61, 62}},
			channels: []string{"HR"},
		},
		{
			name:     "annotation signal skipped",
			labels:   []string{"Acc x", "Acc y", "EDF Annotations"},
			records:  [][]float64{{1, 2}, {3, 4}, {0}},
			channels: []string{"Acc x", "Acc y"},
		},
		{
			name:    "unequal lengths",
			labels:  []string{"Acc x", "Acc y"},
			records: [][]float64{{1, 2}, {3}},
			wantErr: true,
		},
		{
			name:    "only annotations",
			labels:  []string{"EDF Annotations"},
			records: [][]float64{{0}},
			wantErr: true,
		},
		{
			name:    "missing label",
			labels:  []string{},
			records: [][]float64{{1}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := signalTable(tt.labels, tt.records)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.channels, got.Channels)
			assert.Len(t, got.Data, len(tt.channels))
		})
	}
}
