package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatterLine(t *testing.T) {
	f := &CustomFormatter{SystemName: "workhub-backend"}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "Event ID: TEST_EVENT, Description: hello",
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "Event Source: workhub-backend")
	assert.Contains(t, line, "Event Type: INFO")
	assert.Contains(t, line, "Message: Event ID: TEST_EVENT, Description: hello")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestInitLoggerCreatesCustomLogDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "backend.log")
	t.Setenv("LOG_FILE", logPath)

	InitLogger()

	// The directory comes from the configured path, not a hardcoded logs/.
	info, err := os.Stat(filepath.Dir(logPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// The init line is already written through the rotating file.
	_, err = os.Stat(logPath)
	require.NoError(t, err)
}
