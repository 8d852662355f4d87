package patient

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	ErrNoAnnotations       = errors.New("no annotations file found")
	ErrMultipleAnnotations = errors.New("more than one annotations file found")
	ErrInvalidSensor       = errors.New("sensor not recognized")
	ErrNoSensorFiles       = errors.New("no sensor files found")
)

// DirNotFoundError is returned by New when the patient directory is missing.
type DirNotFoundError struct {
	Path string
}

func (e *DirNotFoundError) Error() string {
	return fmt.Sprintf("directory %s does not exist", e.Path)
}

func (e *DirNotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// AmbiguousAnnotationsError lists every candidate when a patient directory
// holds more than one annotations file.
type AmbiguousAnnotationsError struct {
	Dir   string
	Files []string
}

func (e *AmbiguousAnnotationsError) Error() string {
	return fmt.Sprintf("more than one annotations file found in %s: \n %s", e.Dir, strings.Join(e.Files, ", "))
}

func (e *AmbiguousAnnotationsError) Unwrap() error {
	return ErrMultipleAnnotations
}

type InvalidSensorError struct {
	Sensor string
}

func (e *InvalidSensorError) Error() string {
	names := make([]string, len(Sensors))
	for i, s := range Sensors {
		names[i] = strings.ToLower(string(s))
	}
	return fmt.Sprintf("sensor %s not recognized, please use one of the following: %s", e.Sensor, strings.Join(names, ", "))
}

func (e *InvalidSensorError) Unwrap() error {
	return ErrInvalidSensor
}

type NoSensorFilesError struct {
	Sensor Sensor
	Dir    string
}

func (e *NoSensorFilesError) Error() string {
	return fmt.Sprintf("no %s files found in %s", e.Sensor, e.Dir)
}

func (e *NoSensorFilesError) Unwrap() error {
	return ErrNoSensorFiles
}
