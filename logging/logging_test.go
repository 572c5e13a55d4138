package logging_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/RyanBlaney/sonido-doa/logging"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger_LevelsAndStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	l := logging.NewWriterLogger(&out, &errOut)

	l.Debug("hidden")
	l.Info("visible", logging.Fields{"b": 2, "a": 1})
	l.Warn("careful")
	l.Error(errors.New("boom"), "failed")

	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), "[INFO] visible a=1 b=2")
	require.Contains(t, errOut.String(), "[WARN] careful")
	require.Contains(t, errOut.String(), "[ERROR] failed: boom")

	l.SetLevel(logging.DebugLevel)
	l.Debug("now shown")
	require.Contains(t, out.String(), "[DEBUG] now shown")
}

func TestDefaultLogger_WithFieldsAndContext(t *testing.T) {
	var out bytes.Buffer
	l := logging.NewWriterLogger(&out, &out)

	child := l.WithFields(logging.Fields{"component": "estimator"})
	child.Info("hello", logging.Fields{"k": 2})
	require.Contains(t, out.String(), "component=estimator k=2")

	// Parent fields are unchanged.
	out.Reset()
	l.Info("plain")
	require.NotContains(t, out.String(), "component")

	ctx := logging.ContextWithFields(context.Background(), logging.Fields{"run": "r1"})
	l.WithContext(ctx).Info("ctx")
	require.Contains(t, out.String(), "run=r1")

	// A context without fields returns the same logger.
	require.Same(t, l, l.WithContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	lvl, err := logging.ParseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, logging.DebugLevel, lvl)

	lvl, err = logging.ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, logging.InfoLevel, lvl)

	_, err = logging.ParseLevel("verbose")
	require.Error(t, err)
}

func TestSetGlobalLogger_NilIsNoOp(t *testing.T) {
	prev := logging.GetGlobalLogger()
	t.Cleanup(func() { logging.SetGlobalLogger(prev) })

	logging.SetGlobalLogger(nil)
	require.IsType(t, &logging.NoOpLogger{}, logging.GetGlobalLogger())
	require.NotPanics(t, func() { logging.Info("dropped") })
}
