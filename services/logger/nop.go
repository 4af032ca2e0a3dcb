package logsvc

import "github.com/maktab-app/maktab/core"

// NopLogger discards everything; meant for tests.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (l *NopLogger) Enable(bool) {}

func (l *NopLogger) Debug(string, ...interface{}) {}

func (l *NopLogger) Info(string, ...interface{}) {}

func (l *NopLogger) Warn(string, ...interface{}) {}

func (l *NopLogger) Error(string, ...interface{}) {}

func (l *NopLogger) Fatal(string, ...interface{}) {}
