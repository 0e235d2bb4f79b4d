package thread

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"loom/trace"
)

// FatalError signals a host-side invariant violation (spec §7): an
// illegal status transition, a return-value sanity failure, or an
// attempt to run the wrong frame kind for a method. These are
// implementation bugs, never JVM exceptions — the thread that hits one
// panics with a FatalError rather than unwinding through
// ScheduleException.
type FatalError struct {
	Msg    string
	Fields logrus.Fields
}

func (e *FatalError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s %v", e.Msg, e.Fields)
}

func (t *Thread) fatal(msg string, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["thread_id"] = int64(t.id)
	trace.Fatal(msg, fields)
	panic(&FatalError{Msg: msg, Fields: fields})
}
