package ports

// Notifier receives the user-facing outcome of every operation. Operations
// never surface failures any other way.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
	Warning(title, message string)
	Info(title, message string)
}
