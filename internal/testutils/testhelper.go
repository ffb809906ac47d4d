package testutils

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

// Test peer addresses for consistent mock central identification
const (
	TestPeer1 = "00:00:00:00:00:01"
	TestPeer2 = "00:00:00:00:00:02"
	TestPeer3 = "00:00:00:00:00:03"
)

type TestHelper struct {
	T      *testing.T
	Logger *logrus.Logger
}

// NewTestHelper creates a test helper with a debug logger.
// BLIMP_TEST_LOG_LEVEL overrides the level (e.g. "warn" to quiet runs).
func NewTestHelper(t *testing.T) *TestHelper {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel) // enable debug logs to track execution flow
	if lvl, err := logrus.ParseLevel(os.Getenv("BLIMP_TEST_LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}
	return &TestHelper{
		T:      t,
		Logger: logger,
	}
}
