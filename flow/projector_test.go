package flow

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.00", FormatValue(0))
	assert.Equal(t, "1.00", FormatValue(1))
	assert.Equal(t, "0.50", FormatValue(0.5))
	assert.Equal(t, "1.23", FormatValue(1.234))
	assert.Equal(t, "1.24", FormatValue(1.236))
	assert.Equal(t, "1234567.89", FormatValue(1234567.891))
	assert.Equal(t, "-1.50", FormatValue(-1.5))

	// exact binary midpoints round half away from zero
	assert.Equal(t, "0.13", FormatValue(0.125))
	assert.Equal(t, "0.63", FormatValue(0.625))
	assert.Equal(t, "1.13", FormatValue(1.125))
	assert.Equal(t, "2.50", FormatValue(2.5))
	assert.Equal(t, "-0.13", FormatValue(-0.125))
	// 1.005 is stored slightly below the midpoint
	assert.Equal(t, "1.00", FormatValue(1.005))
	assert.Equal(t, "1000000000000000.00", FormatValue(1e15))

	for _, v := range []float64{0, 0.1, 3.14159, 1e9, 1.0 / 3, 99999.999} {
		formatted := FormatValue(v)
		parts := strings.Split(formatted, ".")
		require.Len(t, parts, 2, formatted)
		assert.Len(t, parts[1], 2, formatted)
	}
}

func TestConversionFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, ConversionFor(MetricByteIn)(1024))
	assert.Equal(t, 0.5, ConversionFor(MetricByteOut)(512))
	assert.Equal(t, 1024.0, ConversionFor(MetricByteRejected)(1024))
	assert.Equal(t, 7.0, ConversionFor("custom")(7))
}

func TestProject(t *testing.T) {
	t.Parallel()

	t.Run("nil record should return no rows", func(t *testing.T) {
		t.Parallel()

		rows, err := Project(nil)
		assert.Nil(t, err)
		assert.Empty(t, rows)
	})
	t.Run("empty record should return no rows", func(t *testing.T) {
		t.Parallel()

		rows, err := Project(MetricsRecord{})
		assert.Nil(t, err)
		assert.Empty(t, rows)
	})
	t.Run("byte rates are converted to kilobytes", func(t *testing.T) {
		t.Parallel()

		record := MetricsRecord{
			MetricByteIn:       {1024, 2048, 512, 256},
			MetricByteRejected: {1, 2, 3, 4},
		}

		rows, err := Project(record)
		require.Nil(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "byteIn", rows[0].Key)
		assert.Equal(t, "1.00", rows[0].Avr)
		assert.Equal(t, "2.00", rows[0].Pre1)
		assert.Equal(t, "0.50", rows[0].Pre5)
		assert.Equal(t, "0.25", rows[0].Pre15)

		assert.Equal(t, "byteRejected", rows[1].Key)
		assert.Equal(t, "1.00", rows[1].Avr)
		assert.Equal(t, "2.00", rows[1].Pre1)
		assert.Equal(t, "3.00", rows[1].Pre5)
		assert.Equal(t, "4.00", rows[1].Pre15)

		assert.Equal(t, "byteIn(KB/s)", LabelFor(rows[0].Key))
		assert.Equal(t, "byteRejected(B/s)", LabelFor(rows[1].Key))
	})
	t.Run("every key produces exactly one row", func(t *testing.T) {
		t.Parallel()

		record := MetricsRecord{
			MetricByteIn:               {2048, 0, 0, 0},
			MetricByteOut:              {4096, 1024, 0, 0},
			MetricByteRejected:         {0, 0, 0, 0},
			MetricFailedFetchRequest:   {1.5, 0, 0, 0},
			MetricFailedProduceRequest: {0.25, 0, 0, 0},
			MetricMessageIn:            {300, 200, 100, 50},
			"totalProduceRequest":      {12.346, 1, 2, 3, 99},
		}

		rows, err := Project(record)
		require.Nil(t, err)
		require.Len(t, rows, len(record))

		seen := make(map[string]DisplayRow)
		for _, row := range rows {
			seen[row.Key] = row
		}
		for key, series := range record {
			row, found := seen[key]
			require.True(t, found, key)

			convert := ConversionFor(key)
			assert.Equal(t, FormatValue(convert(series[0])), row.Avr)
			assert.Equal(t, FormatValue(convert(series[1])), row.Pre1)
			assert.Equal(t, FormatValue(convert(series[2])), row.Pre5)
			assert.Equal(t, FormatValue(convert(series[3])), row.Pre15)
		}

		assert.Equal(t, "2.00", seen[MetricByteIn].Avr)
		assert.Equal(t, "300.00", seen[MetricMessageIn].Avr)
		assert.Equal(t, "12.35", seen["totalProduceRequest"].Avr)
	})
	t.Run("kilobyte midpoints round up", func(t *testing.T) {
		t.Parallel()

		record := MetricsRecord{
			MetricByteIn: {128, 1152, 640, 896},
			"x":          {0.125, 2.5, 0.625, 1.005},
		}

		rows, err := Project(record)
		require.Nil(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, MetricByteIn, rows[0].Key)
		assert.Equal(t, "0.13", rows[0].Avr)
		assert.Equal(t, "1.13", rows[0].Pre1)
		assert.Equal(t, "0.63", rows[0].Pre5)
		assert.Equal(t, "0.88", rows[0].Pre15)

		assert.Equal(t, "x", rows[1].Key)
		assert.Equal(t, "0.13", rows[1].Avr)
		assert.Equal(t, "2.50", rows[1].Pre1)
		assert.Equal(t, "0.63", rows[1].Pre5)
		assert.Equal(t, "1.00", rows[1].Pre15)
	})
	t.Run("rows come out in ascending key order", func(t *testing.T) {
		t.Parallel()

		record := MetricsRecord{
			MetricMessageIn: {1, 1, 1, 1},
			MetricByteOut:   {1, 1, 1, 1},
			MetricByteIn:    {1, 1, 1, 1},
		}

		rows, err := Project(record)
		require.Nil(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, MetricByteIn, rows[0].Key)
		assert.Equal(t, MetricByteOut, rows[1].Key)
		assert.Equal(t, MetricMessageIn, rows[2].Key)
	})
	t.Run("short series should error", func(t *testing.T) {
		t.Parallel()

		record := MetricsRecord{
			MetricByteIn:    {1, 2, 3, 4},
			MetricMessageIn: {1, 2, 3},
		}

		rows, err := Project(record)
		assert.Nil(t, rows)

		var malformed *MalformedMetricsError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, MetricMessageIn, malformed.Key)
		assert.Contains(t, err.Error(), "messageIn")
	})
	t.Run("non finite sample should error", func(t *testing.T) {
		t.Parallel()

		rows, err := Project(MetricsRecord{MetricByteOut: {1, math.NaN(), 3, 4}})
		assert.Nil(t, rows)

		var malformed *MalformedMetricsError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, MetricByteOut, malformed.Key)

		_, err = Project(MetricsRecord{MetricByteOut: {1, 2, math.Inf(1), 4}})
		assert.True(t, errors.As(err, &malformed))
	})
}

func TestDisplayRow_Value(t *testing.T) {
	t.Parallel()

	rows, err := Project(MetricsRecord{MetricByteIn: {1024, 2048, 3072, 4096}})
	require.Nil(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 1.0, rows[0].Value(ColumnAverage))
	assert.Equal(t, 2.0, rows[0].Value(ColumnPre1))
	assert.Equal(t, 3.0, rows[0].Value(ColumnPre5))
	assert.Equal(t, 4.0, rows[0].Value(ColumnPre15))
	assert.Equal(t, 0.0, rows[0].Value(ColumnName))
}

func TestMetricsRecord_Validate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, MetricsRecord(nil).Validate())
	assert.Nil(t, MetricsRecord{"a": {0, 0, 0, 0}}.Validate())
	assert.Nil(t, MetricsRecord{"a": {0, 0, 0, 0, 5}}.Validate())

	err := MetricsRecord{"a": {0, 0, 0, 0}, "b": {}}.Validate()
	var malformed *MalformedMetricsError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "b", malformed.Key)
}

func TestScopeKind_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, KindTopic.IsValid())
	assert.True(t, KindBroker.IsValid())
	assert.True(t, KindCluster.IsValid())
	assert.False(t, ScopeKind("partition").IsValid())
	assert.False(t, ScopeKind("").IsValid())
}
