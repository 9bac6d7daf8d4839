// Package loggertest routes the global logger to the test log.
package loggertest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/tranvictor/faucet/logger"
)

// Use sends logs to t.Log until the test ends.
func Use(t testing.TB) {
	t.Cleanup(logger.Replace(zaptest.NewLogger(t).Sugar()))
}
