package testlog

import (
	"testing"

	"github.com/danmuck/markview/internal/logging"
	"github.com/rs/zerolog/log"
)

func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log.Info().Msgf("test=%s", t.Name())
}

// Logf leaves a debug breadcrumb in the test log stream.
func Logf(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}
