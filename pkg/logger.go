package confreader

type Logger interface {
	Info(message string, module string)
	Error(string)
}

type nopLogger struct{}

func (nopLogger) Info(string, string) {}
func (nopLogger) Error(string)        {}

var logger Logger = nopLogger{}
var verbosity int

func SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	logger = l
}

// SetVerbosity controls how much of the graph walk is logged:
// 1 per application, 2 per extracted value, 3 per relation.
func SetVerbosity(v int) {
	verbosity = v
}
