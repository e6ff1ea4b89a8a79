package i

// Logger is the leveled logger handed to services and infrastructure adapters.
type Logger interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
	Debug(msg string)
}
