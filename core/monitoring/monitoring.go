package monitoring

import "time"

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

// NopMonitor discards everything.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the process-wide monitor. A nil m is ignored.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// Current returns the process-wide monitor.
func Current() Monitor { return current }

// CaptureException records err tagged with the emitting component.
func CaptureException(err error, tags map[string]string) {
	current.CaptureException(err, tags)
}

// Recover captures panics in goroutines. It must be deferred directly.
func Recover() {
	if r := recover(); r != nil {
		current.CaptureException(panicError{r}, map[string]string{"panic": "true"})
		current.Flush(2 * time.Second)
		panic(r)
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	current.Flush(d)
}

type panicError struct{ v any }

func (p panicError) Error() string { return "panic: " + formatPanic(p.v) }

func formatPanic(v any) string {
	switch x := v.(type) {
	case error:
		return x.Error()
	case string:
		return x
	default:
		return "unknown value"
	}
}
