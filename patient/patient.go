// Package patient gives access to one patient's sensor recordings and
// seizure annotations, caching parsed sensor data as Parquet.
package patient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/tedpearson/edf-patient/recording"
)

// ReadFunc parses one sensor file. The default, recording.ReadEDF, logs
// through zap.L() rather than the Patient's logger.
type ReadFunc func(path string) (*recording.Table, error)

type Patient struct {
	id          string
	dir         string
	fs          afero.Fs
	logger      *zap.Logger
	read        ReadFunc
	annotations *Annotations
}

type Option func(*Patient)

// WithFs sets the filesystem used for listing, annotations and the cache.
// Sensor files are still parsed by the ReadFunc, which defaults to the OS.
func WithFs(fsys afero.Fs) Option {
	return func(p *Patient) { p.fs = fsys }
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Patient) { p.logger = logger }
}

func WithReader(read ReadFunc) Option {
	return func(p *Patient) { p.read = read }
}

// New resolves the directory dir/id. It fails with a *DirNotFoundError if
// that is not a directory.
func New(id, dir string, opts ...Option) (*Patient, error) {
	p := &Patient{
		id:     id,
		fs:     afero.NewOsFs(),
		logger: zap.L(),
		read:   recording.ReadEDF,
	}
	for _, opt := range opts {
		opt(p)
	}
	path := filepath.Join(dir, id)
	ok, err := afero.IsDir(p.fs, path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking patient directory %s: %w", path, err)
	}
	if !ok {
		return nil, &DirNotFoundError{Path: path}
	}
	p.dir = path
	p.logger.Info(fmt.Sprintf("Patient directory found %q", path))
	return p, nil
}

func (p *Patient) ID() string {
	return p.id
}

func (p *Patient) Dir() string {
	return p.dir
}

// Annotations returns the table loaded by the last SeizureAnnotations call,
// or nil.
func (p *Patient) Annotations() *Annotations {
	return p.annotations
}

// CachePath is the default cache file for sensor, relative to the working
// directory.
func (p *Patient) CachePath(sensor Sensor) string {
	return fmt.Sprintf("raw_data_%s_%s.parquet", p.id, sensor)
}

// SensorDataRaw parses every file of the named sensor and stacks them in
// file order. When save is set the result is written to savePath, or to
// CachePath if savePath is empty.
func (p *Patient) SensorDataRaw(name string, save bool, savePath string) (*recording.Table, error) {
	sensor, err := NormalizeSensor(name)
	if err != nil {
		return nil, err
	}
	files, err := p.SensorFiles(sensor)
	if err != nil {
		return nil, err
	}
	data := &recording.Table{}
	for _, file := range files {
		t, err := p.read(filepath.Join(p.dir, file))
		if err != nil {
			return nil, err
		}
		if err := data.Append(t); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	p.logger.Info("Read sensor data",
		zap.String("sensor", string(sensor)),
		zap.Int("files", len(files)),
		zap.String("samples", humanize.Comma(int64(data.Len()))))
	if save {
		if savePath == "" {
			savePath = p.CachePath(sensor)
		}
		if err := p.writeCache(savePath, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// SensorData returns the cached table at savePath (or CachePath) if the
// file exists. Otherwise it calls SensorDataRaw and saves the result there.
// The cache is never checked against the source files.
func (p *Patient) SensorData(name string, savePath string) (*recording.Table, error) {
	sensor, err := NormalizeSensor(name)
	if err != nil {
		return nil, err
	}
	if savePath == "" {
		savePath = p.CachePath(sensor)
	}
	if info, err := p.fs.Stat(savePath); err == nil && !info.IsDir() {
		p.logger.Info("Reading cached sensor data", zap.String("file", savePath))
		return p.readCache(savePath)
	}
	return p.SensorDataRaw(name, true, savePath)
}

func (p *Patient) writeCache(path string, data *recording.Table) error {
	f, err := p.fs.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	err = recording.WriteParquet(w, data)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// a partial file would be taken as a cache hit next time
		_ = p.fs.Remove(path)
		return fmt.Errorf("writing cache %s: %w", path, err)
	}
	p.logger.Info("Saved sensor data", zap.String("file", path))
	return nil
}

func (p *Patient) readCache(path string) (*recording.Table, error) {
	f, err := p.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := recording.ReadParquet(context.Background(), f)
	if err != nil {
		return nil, fmt.Errorf("reading cache %s: %w", path, err)
	}
	return t, nil
}
