package ssalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/tetexact/ssacore/internal/ssa"
)

func TestNewSatisfiesSSALogger(t *testing.T) {
	var _ ssa.Logger = New(logrus.InfoLevel)
}

func TestWrapDelegatesToUnderlyingLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	a := Wrap(l)
	a.Infof("step %d fired", 7)

	if !strings.Contains(buf.String(), "step 7 fired") {
		t.Errorf("expected log output to contain formatted message, got %q", buf.String())
	}
}

func TestLevelFiltersLowerSeverity(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.WarnLevel)

	a := Wrap(l)
	a.Debugf("should not appear")
	a.Warnf("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Error("expected debug message to be filtered out at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("expected warn message to be logged")
	}
}
