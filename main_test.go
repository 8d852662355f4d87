package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tedpearson/edf-patient/recording/edftest"
)

func writePatient(t *testing.T) {
	t.Helper()
	dir := filepath.Join("data", "P1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "annotations_P1.csv"),
		[]byte("start_time,end_time,timezone\n1672531200000,1672531260000,2\n"), 0o644))
	require.NoError(t, edftest.Write(filepath.Join(dir, "P1_HR_20230101.edf"), edftest.File{
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), RecordDuration: 1, Records: 2,
		Signals: []edftest.Signal{{Label: "HR", SamplesPerRecord: 4, Samples: edftest.Ramp(60, 8)}},
	}))
}

func TestCLIExitCodes(t *testing.T) {
	assert.Equal(t, 0, cli([]string{"-v"}))
	assert.Equal(t, 2, cli([]string{"-no-such-flag"}))
	assert.Equal(t, 1, cli([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}))
	assert.Equal(t, 1, cli([]string{"-dir", t.TempDir(), "-id", "P9"}))
}

func TestCLIReadsAndCaches(t *testing.T) {
	chdirTemp(t)
	writePatient(t)

	require.Equal(t, 0, cli([]string{"-dir", "data", "-id", "P1", "-sensor", "hr"}))
	_, err := os.Stat("raw_data_P1_HR.parquet")
	require.NoError(t, err)

	require.NoError(t, os.Mkdir("cache", 0o755))
	require.NoError(t, os.WriteFile("edf-patient.yaml", []byte("data_dir: data\ncache_dir: cache\nlog_level: error\n"), 0o644))
	require.Equal(t, 0, cli([]string{"-config", "edf-patient.yaml", "-id", "P1", "-sensor", "HR", "-no-annotations"}))
	_, err = os.Stat(filepath.Join("cache", "raw_data_P1_HR.parquet"))
	require.NoError(t, err)

	require.Equal(t, 0, cli([]string{"-dir", "data", "-id", "P1", "-raw", "-no-save", "-cache", "unused.parquet"}))
	_, err = os.Stat("unused.parquet")
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Equal(t, 1, cli([]string{"-dir", "data", "-id", "P1", "-sensor", "ecg"}))
}

// chdirTemp changes into a fresh temp dir and restores the previous working
// directory on cleanup (equivalent of Go 1.24's t.Chdir(t.TempDir())).
func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
