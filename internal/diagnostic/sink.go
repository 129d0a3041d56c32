package diagnostic

import (
	"context"
	"errors"
	"log/slog"
)

// Sink receives diagnostics from the driver. Formatting and output are up
// to the implementation.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(d Diagnostic)

// Report calls f.
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Tee fans every diagnostic out to all sinks in order.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			s.Report(d)
		}
	})
}

// coded is implemented by every typed pipeline error.
type coded interface {
	error
	Code() string
	Subject() string
}

// FromError converts err into an error diagnostic. Typed pipeline errors
// keep their code and subject; anything else is reported as "internal".
func FromError(err error, unit string) Diagnostic {
	d := Diagnostic{
		Severity: DiagnosticError,
		Code:     "internal",
		Message:  err.Error(),
		Unit:     unit,
	}

	var c coded
	if errors.As(err, &c) {
		d.Code = c.Code()
		d.Subject = c.Subject()
	}

	return d
}

// SlogSink logs diagnostics through a structured logger.
type SlogSink struct {
	Logger *slog.Logger
}

// Report logs d at the level matching its severity.
func (s SlogSink) Report(d Diagnostic) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	level := slog.LevelInfo

	switch d.Severity {
	case DiagnosticError:
		level = slog.LevelError
	case DiagnosticWarning:
		level = slog.LevelWarn
	}

	attrs := []any{"code", d.Code}
	if d.Subject != "" {
		attrs = append(attrs, "subject", d.Subject)
	}

	if d.Unit != "" {
		attrs = append(attrs, "unit", d.Unit)
	}

	logger.Log(context.Background(), level, d.Message, attrs...)
}
