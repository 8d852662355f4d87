// Package recording reads EDF biosignal files into timestamped tables and
// stores those tables as Parquet.
package recording

import (
	"fmt"
	"slices"
	"time"
)

// TimestampColumn is the name of the derived time column.
const TimestampColumn = "timestamp"

// Table is a sensor recording: one column per signal channel plus a
// timestamp per row. Every column has the same length as Timestamps.
type Table struct {
	Channels   []string
	Data       [][]float64
	Timestamps []time.Time
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Timestamps)
}

// Column returns the samples of the named channel.
func (t *Table) Column(name string) ([]float64, bool) {
	i := slices.Index(t.Channels, name)
	if i < 0 {
		return nil, false
	}
	return t.Data[i], true
}

// Append stacks the rows of other below the rows of t.
func (t *Table) Append(other *Table) error {
	if t.Channels == nil && t.Len() == 0 {
		t.Channels = slices.Clone(other.Channels)
		t.Data = make([][]float64, len(other.Channels))
	} else if !slices.Equal(t.Channels, other.Channels) {
		return fmt.Errorf("cannot append channels %v to table with channels %v", other.Channels, t.Channels)
	}
	for i := range t.Data {
		t.Data[i] = append(t.Data[i], other.Data[i]...)
	}
	t.Timestamps = append(t.Timestamps, other.Timestamps...)
	return nil
}

// Concat row-stacks tables in the order given.
func Concat(tables ...*Table) (*Table, error) {
	out := &Table{}
	for _, t := range tables {
		if err := out.Append(t); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Timestamps returns n evenly spaced instants beginning at start.
func Timestamps(start time.Time, period time.Duration, n int) []time.Time {
	ts := make([]time.Time, n)
	for i := range ts {
		ts[i] = start.Add(period * time.Duration(i))
	}
	return ts
}

func (t *Table) validate() error {
	if len(t.Data) != len(t.Channels) {
		return fmt.Errorf("table has %d channel names but %d columns", len(t.Channels), len(t.Data))
	}
	for i, col := range t.Data {
		if len(col) != len(t.Timestamps) {
			return fmt.Errorf("channel %s has %d samples, expected %d", t.Channels[i], len(col), len(t.Timestamps))
		}
	}
	return nil
}
