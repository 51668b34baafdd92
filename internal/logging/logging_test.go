package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetAllReachesExistingAndLaterLoggers(t *testing.T) {
	l := GetLeveler()
	defer l.SetAll(zapcore.InfoLevel)

	_ = New("early")
	l.SetAll(zapcore.DebugLevel)
	_ = New("late")

	assert.Equal(t, zapcore.DebugLevel, l.GetLevel("early"))
	assert.Equal(t, zapcore.DebugLevel, l.GetLevel("late"))
	assert.Equal(t, zapcore.DebugLevel, l.GetLevel("never-built"))
}

func TestSetLevelIsPerName(t *testing.T) {
	l := GetLeveler()
	defer l.SetAll(zapcore.InfoLevel)

	_ = New("a")
	_ = New("b")
	l.SetLevel("a", zapcore.WarnLevel)

	assert.Equal(t, zapcore.WarnLevel, l.GetLevel("a"))
	assert.Equal(t, zapcore.InfoLevel, l.GetLevel("b"))
}

func TestSetLevelString(t *testing.T) {
	defer GetLeveler().SetAll(zapcore.InfoLevel)

	require.NoError(t, SetLevelString("error"))
	assert.Equal(t, zapcore.ErrorLevel, GetLeveler().GetLevel("anything"))

	assert.Error(t, SetLevelString("loud"))
}
