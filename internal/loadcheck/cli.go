package loadcheck

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends JSON logs to both the console and a file. If logFile is
// empty, a timestamped filename is generated. The returned closer releases it.
func SetupLogging(logFile string) (io.Closer, error) {
	if logFile == "" {
		logFile = "loadcheck_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithFormat("json"), logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file, nil
}
