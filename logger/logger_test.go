package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitFromStrings(t *testing.T) {
	prev := L()
	t.Cleanup(func() { set(prev) })

	require.NoError(t, InitFromStrings("debug", "json"))
	assert.NotSame(t, prev, L())

	require.NoError(t, InitFromStrings("info", "console"))
}

func TestInitFromStringsRejectsBadValues(t *testing.T) {
	prev := L()
	t.Cleanup(func() { set(prev) })

	assert.Error(t, InitFromStrings("loud", "console"))
	assert.Error(t, InitFromStrings("info", "xml"))
}

func TestReplaceRestores(t *testing.T) {
	prev := L()
	l := zap.NewExample().Sugar()
	restore := Replace(l)
	assert.Same(t, l, L())
	Infow("hello", "key", "value")
	restore()
	assert.Same(t, prev, L())
}
