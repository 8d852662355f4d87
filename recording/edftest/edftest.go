// Package edftest writes small EDF files for tests.
package edftest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Signal is one channel. Samples holds Records*SamplesPerRecord digital
// values; physical values equal digital ones.
type Signal struct {
	Label            string
	SamplesPerRecord int
	Samples          []int16
}

type File struct {
	Start          time.Time
	RecordDuration float64
	Records        int
	Signals        []Signal
}

// Write encodes f as an EDF file at path.
func Write(path string, f File) error {
	var buf bytes.Buffer
	ns := len(f.Signals)
	field := func(s string, n int) {
		if len(s) > n {
			s = s[:n]
		}
		fmt.Fprintf(&buf, "%-*s", n, s)
	}
	perSignal := func(n int, value func(Signal) string) {
		for _, s := range f.Signals {
			field(value(s), n)
		}
	}

	field("0", 8)
	field("X X X X", 80)
	field("Startdate X X X X", 80)
	field(f.Start.Format("02.01.06"), 8)
	field(f.Start.Format("15.04.05"), 8)
	field(strconv.Itoa(256*(ns+1)), 8)
	field("", 44)
	field(strconv.Itoa(f.Records), 8)
	field(strconv.FormatFloat(f.RecordDuration, 'g', -1, 64), 8)
	field(strconv.Itoa(ns), 4)
	perSignal(16, func(s Signal) string { return s.Label })
	perSignal(80, func(Signal) string { return "" })
	perSignal(8, func(Signal) string { return "" })
	perSignal(8, func(Signal) string { return "-32768" })
	perSignal(8, func(Signal) string { return "32767" })
	perSignal(8, func(Signal) string { return "-32768" })
	perSignal(8, func(Signal) string { return "32767" })
	perSignal(80, func(Signal) string { return "" })
	perSignal(8, func(s Signal) string { return strconv.Itoa(s.SamplesPerRecord) })
	perSignal(32, func(Signal) string { return "" })

	for r := 0; r < f.Records; r++ {
		for _, s := range f.Signals {
			if len(s.Samples) != f.Records*s.SamplesPerRecord {
				return fmt.Errorf("signal %s has %d samples, want %d", s.Label, len(s.Samples), f.Records*s.SamplesPerRecord)
			}
			chunk := s.Samples[r*s.SamplesPerRecord : (r+1)*s.SamplesPerRecord]
			if err := binary.Write(&buf, binary.LittleEndian, chunk); err != nil {
				return err
			}
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Ramp returns n samples counting up from first.
func Ramp(first int16, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = first + int16(i)
	}
	return out
}
