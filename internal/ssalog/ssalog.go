// Package ssalog wires a logrus.Logger into internal/ssa's Logger
// interface, the way spatialmodel-inmap's cmd/inmapweb/main.go configures
// logrus.StandardLogger for its own server.
package ssalog

import (
	"github.com/sirupsen/logrus"
	"github.com/tetexact/ssacore/internal/ssa"
)

// Adapter implements ssa.Logger by delegating to a *logrus.Logger.
type Adapter struct {
	l *logrus.Logger
}

var _ ssa.Logger = (*Adapter)(nil)

// New builds an Adapter around a fresh logrus.Logger configured with a
// text formatter and the given level.
func New(level logrus.Level) *Adapter {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Adapter{l: l}
}

// Wrap adapts an already-configured logrus.Logger.
func Wrap(l *logrus.Logger) *Adapter { return &Adapter{l: l} }

func (a *Adapter) Debugf(format string, v ...any) { a.l.Debugf(format, v...) }
func (a *Adapter) Infof(format string, v ...any)  { a.l.Infof(format, v...) }
func (a *Adapter) Warnf(format string, v ...any)  { a.l.Warnf(format, v...) }
func (a *Adapter) Errorf(format string, v ...any) { a.l.Errorf(format, v...) }
