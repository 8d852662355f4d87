package patient

import "strings"

// Sensor is the upper-case code embedded in sensor file names.
type Sensor string

const (
	BVP  Sensor = "BVP"
	TEMP Sensor = "TEMP"
	ACC  Sensor = "ACC"
	EDA  Sensor = "EDA"
	HR   Sensor = "HR"
)

var Sensors = []Sensor{BVP, TEMP, ACC, EDA, HR}

// NormalizeSensor matches name case-insensitively against the known sensors.
func NormalizeSensor(name string) (Sensor, error) {
	for _, s := range Sensors {
		if strings.EqualFold(name, string(s)) {
			return s, nil
		}
	}
	return "", &InvalidSensorError{Sensor: name}
}
