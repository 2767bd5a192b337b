package commonGo

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnvFile(t *testing.T) {
	t.Run("missing file should error", func(t *testing.T) {
		m := map[string]string{"SQLITE_PATH": ""}
		err := ReadEnvFile(filepath.Join(t.TempDir(), "missing.env"), m)
		assert.Error(t, err)
	})
	t.Run("missing key should error", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("OTHER_KEY=value\n"), 0o600))

		m := map[string]string{"FLOWMON_TEST_MISSING_KEY": ""}
		err := ReadEnvFile(envFile, m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FLOWMON_TEST_MISSING_KEY")
	})
	t.Run("should work", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("FLOWMON_TEST_DB=./db/flows.db\n"), 0o600))

		m := map[string]string{"FLOWMON_TEST_DB": ""}
		err := ReadEnvFile(envFile, m)
		require.NoError(t, err)
		assert.Equal(t, "./db/flows.db", m["FLOWMON_TEST_DB"])
	})
}

func TestCronJobStarter(t *testing.T) {
	t.Parallel()

	numCalls := uint32(0)
	ctx, cancel := context.WithCancel(context.Background())
	CronJobStarter(ctx, func(ctx context.Context) {
		atomic.AddUint32(&numCalls, 1)
	}, 20*time.Millisecond)

	time.Sleep(110 * time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)

	calls := atomic.LoadUint32(&numCalls)
	assert.GreaterOrEqual(t, calls, uint32(3))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, calls, atomic.LoadUint32(&numCalls))
}

func TestAttachFileLogger(t *testing.T) {
	log := logger.GetOrCreate("commonGo-test")

	t.Run("no log file requested", func(t *testing.T) {
		handler, err := AttachFileLogger(log, ArgsFileLogger{SaveLogFile: false})
		assert.Nil(t, err)
		assert.True(t, check.IfNil(handler))
	})
	t.Run("log file in the working directory", func(t *testing.T) {
		workingDir := t.TempDir()
		handler, err := AttachFileLogger(log, ArgsFileLogger{
			DefaultLogsPath: "logs",
			LogFilePrefix:   "test",
			WorkingDir:      workingDir,
			SaveLogFile:     true,
			LifeSpan:        time.Hour,
			LifeSpanInMB:    10,
		})
		require.Nil(t, err)
		require.False(t, check.IfNil(handler))

		_, err = os.Stat(filepath.Join(workingDir, "logs"))
		assert.Nil(t, err)

		assert.Nil(t, handler.Close())
	})
}
