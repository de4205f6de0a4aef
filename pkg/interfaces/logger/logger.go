package logger

// Logger is the minimal contract expected by go-cashflow services.
// Implementations may forward to go-logger, zap, logrus, etc. Variadic args
// are alternating key/value pairs.
type Logger interface {
	WithFields(fields map[string]any) Logger
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Nop is a no-op logger implementation useful for tests.
type Nop struct{}

// Ensure Nop satisfies Logger.
var _ Logger = (*Nop)(nil)

func (n *Nop) WithFields(fields map[string]any) Logger { return n }
func (n *Nop) Debug(msg string, args ...any)           {}
func (n *Nop) Info(msg string, args ...any)            {}
func (n *Nop) Warn(msg string, args ...any)            {}
func (n *Nop) Error(msg string, args ...any)           {}
