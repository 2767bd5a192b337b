package commonGo

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

// ArgsFileLogger holds the settings of the optional log file
type ArgsFileLogger struct {
	DefaultLogsPath string
	LogFilePrefix   string
	WorkingDir      string
	SaveLogFile     bool
	LifeSpan        time.Duration
	LifeSpanInMB    uint64
}

// AttachFileLogger attaches, if required, a log file rotated by the provided life spans
func AttachFileLogger(log logger.Logger, args ArgsFileLogger) (FileLoggingHandler, error) {
	err := logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)

	if !args.SaveLogFile {
		return nil, nil
	}

	logFile, err := file.NewFileLogging(file.ArgsFileLogging{
		WorkingDir:      args.WorkingDir,
		DefaultLogsPath: args.DefaultLogsPath,
		LogFilePrefix:   args.LogFilePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("%w creating a log file", err)
	}
	err = logFile.ChangeFileLifeSpan(args.LifeSpan, args.LifeSpanInMB)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	return logFile, nil
}

// ReadEnvFile will read the file contents in the provided map. Every key of the map must be set.
func ReadEnvFile(envFile string, m map[string]string) error {
	err := godotenv.Load(envFile)
	if err != nil {
		return err
	}

	for k := range m {
		val := os.Getenv(k)
		if len(val) == 0 {
			return fmt.Errorf("%s is not set in the .env file", k)
		}

		m[k] = val
	}

	return nil
}

// CronJobStarter starts a go routine that calls the handler right away and then every timeToCall,
// until the context is done
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), timeToCall time.Duration) {
	go func() {
		timer := time.NewTimer(timeToCall)
		defer timer.Stop()

		handler(ctx)

		for {
			select {
			case <-timer.C:
				handler(ctx)
				timer.Reset(timeToCall)
			case <-ctx.Done():
				return
			}
		}
	}()
}
