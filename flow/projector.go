package flow

import (
	"math"
	"strconv"
)

const (
	bytesPerKilobyte = 1024
	fractionScale    = 100
	// above this magnitude a float64 carries no fractional digits worth rounding
	maxScalable = 1e15
)

// DisplayRow is one formatted, unit converted table row
type DisplayRow struct {
	Key   string `json:"key"`
	Avr   string `json:"avr"`
	Pre1  string `json:"pre1"`
	Pre5  string `json:"pre5"`
	Pre15 string `json:"pre15"`

	values [NumSamples]float64
}

// Value returns the converted, unformatted number behind a numeric column.
// The name column has no numeric value and yields 0.
func (row DisplayRow) Value(col Column) float64 {
	switch col {
	case ColumnAverage:
		return row.values[IndexAverage]
	case ColumnPre1:
		return row.values[IndexPre1]
	case ColumnPre5:
		return row.values[IndexPre5]
	case ColumnPre15:
		return row.values[IndexPre15]
	default:
		return 0
	}
}

// ConversionFor returns the unit conversion applied to the samples of the provided key.
// Byte rates are shown in KB/s, everything else is left untouched.
func ConversionFor(key string) func(float64) float64 {
	switch key {
	case MetricByteIn, MetricByteOut:
		return toKilobytes
	default:
		return identity
	}
}

func toKilobytes(v float64) float64 {
	return v / bytesPerKilobyte
}

func identity(v float64) float64 {
	return v
}

// FormatValue renders a number as a fixed point decimal with exactly 2 fractional digits.
// Exact midpoints are rounded half away from zero, so 0.125 is shown as 0.13.
func FormatValue(v float64) string {
	if math.Abs(v) < maxScalable {
		v = math.Round(v*fractionScale) / fractionScale
	}

	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Project converts a record into display rows, one per key, in ascending key order.
// A nil or empty record produces no rows. A malformed series aborts the projection without partial output.
func Project(record MetricsRecord) ([]DisplayRow, error) {
	rows := make([]DisplayRow, 0, len(record))
	for _, key := range record.Keys() {
		row, err := projectRow(key, record[key])
		if err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func projectRow(key string, series []float64) (DisplayRow, error) {
	err := validateSeries(key, series)
	if err != nil {
		return DisplayRow{}, err
	}

	convert := ConversionFor(key)
	row := DisplayRow{Key: key}
	for i := 0; i < NumSamples; i++ {
		row.values[i] = convert(series[i])
	}

	row.Avr = FormatValue(row.values[IndexAverage])
	row.Pre1 = FormatValue(row.values[IndexPre1])
	row.Pre5 = FormatValue(row.values[IndexPre5])
	row.Pre15 = FormatValue(row.values[IndexPre15])

	return row, nil
}
