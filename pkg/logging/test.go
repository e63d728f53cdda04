package logging

import (
	"fmt"
	"strings"
	"testing"
)

// TestLogger routes log lines to t.Logf so they show up next to the failing test.
type TestLogger struct {
	t testing.TB
}

var _ Logger = (*TestLogger)(nil)

func NewTest(t testing.TB) *TestLogger { return &TestLogger{t: t} }

func (l *TestLogger) Debug(msg string, kv ...any) { l.log("DEBUG", msg, kv) }
func (l *TestLogger) Info(msg string, kv ...any)  { l.log("INFO", msg, kv) }
func (l *TestLogger) Warn(msg string, kv ...any)  { l.log("WARN", msg, kv) }
func (l *TestLogger) Error(msg string, kv ...any) { l.log("ERROR", msg, kv) }

func (l *TestLogger) log(level, msg string, kv []any) {
	l.t.Helper()
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	l.t.Logf("%s: %s%s", level, msg, b.String())
}
