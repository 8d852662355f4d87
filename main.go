package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/tedpearson/edf-patient/patient"
	"github.com/tedpearson/edf-patient/recording"
)

var (
	version   = "development"
	goVersion = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(cli(os.Args[1:]))
}

// cli runs the command with args and returns the process exit code.
func cli(args []string) int {
	flags := flag.NewFlagSet("edf-patient", flag.ContinueOnError)
	configFile := flags.String("config", "", "Config file")
	dir := flags.String("dir", "", "Directory holding the patient folders")
	id := flags.String("id", "MSEL_01110", "Patient id")
	sensor := flags.String("sensor", "hr", "Sensor: bvp, temp, acc, eda or hr")
	cacheFile := flags.String("cache", "", "Cache file (default raw_data_<id>_<SENSOR>.parquet in the cache dir)")
	raw := flags.Bool("raw", false, "Always parse the EDF files instead of reading the cache")
	noSave := flags.Bool("no-save", false, "With -raw, don't write the cache file")
	skipAnnotations := flags.Bool("no-annotations", false, "Don't load seizure annotations")
	versionFlag := flags.Bool("v", false, "Show version and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	fmt.Printf("edf-patient version %s built on %s with %s\n", version, buildDate, goVersion)
	if *versionFlag {
		return 0
	}

	config, err := readConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *dir != "" {
		config.DataDir = *dir
	}
	logger, err := newLogger(config.LogLevel, config.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %s\n", err)
		return 1
	}
	defer logger.Sync()
	defer zap.ReplaceGlobals(logger)()

	if err := run(config, *id, *sensor, *cacheFile, *raw, !*noSave, !*skipAnnotations); err != nil {
		logger.Error("failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(config Config, id, sensor, cacheFile string, raw, save, annotations bool) error {
	p, err := patient.New(id, config.DataDir)
	if err != nil {
		return err
	}
	if annotations {
		a, err := p.SeizureAnnotations()
		if err != nil {
			return err
		}
		fmt.Printf("%s seizures annotated in %s\n", humanize.Comma(int64(len(a.Rows))), a.File)
		for _, row := range a.Rows {
			fmt.Printf("  %s - %s\n", row.TimestampStart.Format(timeLayout), row.TimestampEnd.Format(timeLayout))
		}
	}

	if cacheFile == "" && config.CacheDir != "" {
		s, err := patient.NormalizeSensor(sensor)
		if err != nil {
			return err
		}
		cacheFile = filepath.Join(config.CacheDir, p.CachePath(s))
	}
	var data *recording.Table
	if raw {
		data, err = p.SensorDataRaw(sensor, save, cacheFile)
	} else {
		data, err = p.SensorData(sensor, cacheFile)
	}
	if err != nil {
		return err
	}
	printSummary(data)
	return nil
}

const timeLayout = "2006-01-02 15:04:05.000"

func printSummary(data *recording.Table) {
	if data.Len() == 0 {
		fmt.Println("No samples")
		return
	}
	first, last := data.Timestamps[0], data.Timestamps[data.Len()-1]
	fmt.Printf("Found %s samples in %d channels %v spanning %s (%s - %s)\n",
		humanize.Comma(int64(data.Len())), len(data.Channels), data.Channels,
		last.Sub(first), first.Format(timeLayout), last.Format(timeLayout))
}
