package rxn

import "github.com/sirupsen/logrus"

// Logger is what the engine logs through: overflow warnings from the
// triggers and delivery failures from the notification manager. Pass a
// *logrus.Logger or a *logrus.Entry carrying run fields.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

var (
	_ Logger = (*logrus.Logger)(nil)
	_ Logger = (*logrus.Entry)(nil)
)

// NoOpLogger discards everything. Worlds and managers built without a
// logger use it.
type NoOpLogger struct{}

func (NoOpLogger) Debugf(string, ...any) {}
func (NoOpLogger) Infof(string, ...any)  {}
func (NoOpLogger) Warnf(string, ...any)  {}
func (NoOpLogger) Errorf(string, ...any) {}

func NewNoOpLogger() Logger { return NoOpLogger{} }
