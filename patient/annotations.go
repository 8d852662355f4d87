package patient

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Annotations is a patient's seizure table.
type Annotations struct {
	File   string
	Header []string
	Rows   []Annotation
}

// Annotation is one labelled seizure. StartTime and EndTime are UTC epoch
// milliseconds and Timezone is the local offset in hours. TimestampStart
// and TimestampEnd are the local wall-clock times.
type Annotation struct {
	StartTime      int64
	EndTime        int64
	Timezone       float64
	TimestampStart time.Time
	TimestampEnd   time.Time
	Fields         map[string]string
}

const (
	colStart    = "start_time"
	colEnd      = "end_time"
	colTimezone = "timezone"
)

// SeizureAnnotations loads the single annotations file of the patient
// directory and keeps it on p.
func (p *Patient) SeizureAnnotations() (*Annotations, error) {
	files, err := listFiles(p.fs, p.dir, isAnnotationsFile)
	if err != nil {
		return nil, err
	}
	switch len(files) {
	case 0:
		return nil, fmt.Errorf("%w in %s", ErrNoAnnotations, p.dir)
	case 1:
	default:
		return nil, &AmbiguousAnnotationsError{Dir: p.dir, Files: files}
	}
	records, err := p.readRecords(filepath.Join(p.dir, files[0]))
	if err != nil {
		return nil, err
	}
	a, err := parseAnnotations(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", files[0], err)
	}
	a.File = files[0]
	p.logger.Info("Annotations file found: " + files[0])
	p.annotations = a
	return a, nil
}

func (p *Patient) readRecords(path string) ([][]string, error) {
	f, err := p.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		book, err := excelize.OpenReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Excel file %s: %w", path, err)
		}
		defer book.Close()
		sheet := book.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("excel file %s has no sheets", path)
		}
		return book.GetRows(sheet)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func parseAnnotations(records [][]string) (*Annotations, error) {
	if len(records) == 0 {
		return nil, errors.New("empty annotations file")
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	idx := make(map[string]int, 3)
	for _, name := range []string{colStart, colEnd, colTimezone} {
		i := slices.Index(header, name)
		if i < 0 {
			return nil, fmt.Errorf("missing column %s", name)
		}
		idx[name] = i
	}

	a := &Annotations{Header: header, Rows: make([]Annotation, 0, len(records)-1)}
	for n, record := range records[1:] {
		if blank(record) {
			continue
		}
		line := n + 2
		start, err := parseMillis(cell(record, idx[colStart]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, colStart, err)
		}
		end, err := parseMillis(cell(record, idx[colEnd]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, colEnd, err)
		}
		tz, err := parseOffsetHours(cell(record, idx[colTimezone]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, colTimezone, err)
		}
		fields := make(map[string]string, len(header))
		for i, h := range header {
			fields[h] = cell(record, i)
		}
		offset := time.Duration(tz * float64(time.Hour))
		a.Rows = append(a.Rows, Annotation{
			StartTime:      start,
			EndTime:        end,
			Timezone:       tz,
			TimestampStart: time.UnixMilli(start).UTC().Add(offset),
			TimestampEnd:   time.UnixMilli(end).UTC().Add(offset),
			Fields:         fields,
		})
	}
	return a, nil
}

// parseMillis accepts integers and integral floats such as "1.6725312e+12".
func parseMillis(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%s out of range", s)
	}
	return int64(f), nil
}

// parseOffsetHours reads a UTC offset in hours, at most a day either way.
func parseOffsetHours(s string) (float64, error) {
	tz, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(tz) || math.Abs(tz) > 24 {
		return 0, fmt.Errorf("%s out of range", s)
	}
	return tz, nil
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
