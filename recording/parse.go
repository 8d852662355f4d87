package recording

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ishiikurisu/edf"
	"go.uber.org/zap"
)

const headerTimeLayout = "02.01.06 15.04.05"

// ReadEDF parses one EDF file into a Table with a column per signal and a
// timestamp per sample, starting at the recording start and spaced by the
// sampling period of the data signals. It logs through zap.L().
func ReadEDF(file string) (t *Table, err error) {
	if _, err := os.Stat(file); err != nil {
		return nil, err
	}
	// the edf package panics on unreadable input
	defer func() {
		if r := recover(); r != nil {
			t = nil
			err = fmt.Errorf("parsing %s: %v", file, r)
		}
	}()
	zap.L().Debug("Parsing EDF file", zap.String("file", file))
	data := edf.ReadFile(file)

	start, err := startTime(data.Header)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	labels := data.GetLabels()
	t, err = signalTable(labels, data.PhysicalRecords)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	samples := dataSamplesPerRecord(labels, data.GetNumberSamples())
	duration := data.GetDuration()
	if samples <= 0 || duration <= 0 {
		return nil, fmt.Errorf("parsing %s: invalid sampling (%d samples per %v s record)", file, samples, duration)
	}
	period := time.Duration(duration * float64(time.Second) / float64(samples))
	t.Timestamps = Timestamps(start, period, len(t.Data[0]))

	zap.L().Debug("Parsed EDF file",
		zap.String("file", file),
		zap.String("samples", humanize.Comma(int64(t.Len()))),
		zap.Strings("channels", t.Channels),
		zap.Time("start", start),
		zap.Duration("period", period))
	return t, nil
}

func skipSignal(label string) bool {
	name := strings.TrimSpace(label)
	return name == "EDF Annotations" || name == "Crc16"
}

// dataSamplesPerRecord is the record size of the first data signal.
func dataSamplesPerRecord(labels []string, samples []int) int {
	for i, label := range labels {
		if i < len(samples) && !skipSignal(label) {
			return samples[i]
		}
	}
	return 0
}

func startTime(header map[string]string) (time.Time, error) {
	stamp := strings.TrimSpace(header["startdate"]) + " " + strings.TrimSpace(header["starttime"])
	start, err := time.ParseInLocation(headerTimeLayout, stamp, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad start date/time %q: %w", stamp, err)
	}
	return start, nil
}

func signalTable(labels []string, records [][]float64) (*Table, error) {
	t := &Table{}
	for i, series := range records {
		if i >= len(labels) {
			return nil, fmt.Errorf("signal %d has no label", i)
		}
		if skipSignal(labels[i]) {
			continue
		}
		name := strings.TrimSpace(labels[i])
		if len(t.Data) > 0 && len(series) != len(t.Data[0]) {
			return nil, fmt.Errorf("signal %s has %d samples, %s has %d",
				name, len(series), t.Channels[0], len(t.Data[0]))
		}
		t.Channels = append(t.Channels, name)
		t.Data = append(t.Data, series)
	}
	if len(t.Data) == 0 {
		return nil, errors.New("no data signals")
	}
	return t, nil
}
