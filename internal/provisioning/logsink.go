package provisioning

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// NewPulumiLogger returns a logr.Logger that writes to the engine log of a
// running program, so messages show up in the preview/up output of the stack.
// V(0) goes to Info, higher verbosity to Debug and errors to Error.
func NewPulumiLogger(ctx *pulumi.Context) logr.Logger {
	if ctx == nil || ctx.Log == nil {
		return logr.Discard()
	}
	return logr.New(&pulumiSink{log: ctx.Log})
}

// warningKey marks a log line that the engine log shows as a warning.
const warningKey = "warning"

type pulumiSink struct {
	log    pulumi.Log
	name   string
	values []any
}

func (s *pulumiSink) Init(logr.RuntimeInfo) {}

func (s *pulumiSink) Enabled(int) bool { return true }

func (s *pulumiSink) Info(level int, msg string, keysAndValues ...any) {
	text, warn := s.format(msg, keysAndValues)
	switch {
	case warn:
		_ = s.log.Warn(text, nil)
	case level > 0:
		_ = s.log.Debug(text, nil)
	default:
		_ = s.log.Info(text, nil)
	}
}

func (s *pulumiSink) Error(err error, msg string, keysAndValues ...any) {
	if err != nil {
		keysAndValues = append(keysAndValues, "error", err)
	}
	text, _ := s.format(msg, keysAndValues)
	_ = s.log.Error(text, nil)
}

func (s *pulumiSink) WithValues(keysAndValues ...any) logr.LogSink {
	values := make([]any, 0, len(s.values)+len(keysAndValues))
	values = append(values, s.values...)
	values = append(values, keysAndValues...)
	return &pulumiSink{log: s.log, name: s.name, values: values}
}

func (s *pulumiSink) WithName(name string) logr.LogSink {
	if s.name != "" {
		name = s.name + "/" + name
	}
	return &pulumiSink{log: s.log, name: name, values: s.values}
}

// format renders msg followed by key=value pairs and reports whether the
// line carries the warning marker.
func (s *pulumiSink) format(msg string, keysAndValues []any) (string, bool) {
	var b strings.Builder
	if s.name != "" {
		b.WriteString("[" + s.name + "] ")
	}
	b.WriteString(msg)

	warn := false
	all := append(append([]any{}, s.values...), keysAndValues...)
	for i := 0; i+1 < len(all); i += 2 {
		key := fmt.Sprint(all[i])
		if key == warningKey {
			warn = true
			continue
		}
		fmt.Fprintf(&b, " %s=%v", key, all[i+1])
	}
	return b.String(), warn
}
