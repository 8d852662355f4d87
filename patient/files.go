package patient

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

const edfExt = ".edf"

// listFiles returns the names of regular files in dir accepted by keep,
// sorted lexically.
func listFiles(fsys afero.Fs, dir string, keep func(name string) bool) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !keep(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func isAnnotationsFile(name string) bool {
	return strings.Contains(strings.ToLower(name), "annotations")
}

func sensorFileFilter(sensor Sensor) func(string) bool {
	return func(name string) bool {
		return strings.Contains(strings.ToUpper(name), string(sensor)) && filepath.Ext(name) == edfExt
	}
}

// SensorFiles lists the EDF files of sensor in the patient directory. File
// names embed the recording date, so lexical order is chronological.
func (p *Patient) SensorFiles(sensor Sensor) ([]string, error) {
	names, err := listFiles(p.fs, p.dir, sensorFileFilter(sensor))
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, &NoSensorFilesError{Sensor: sensor, Dir: p.dir}
	}
	return names, nil
}
