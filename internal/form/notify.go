package form

import "log"

// Kind classifies a notification
type Kind string

// Notification kinds
const (
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

// Notification is a short-lived, human-readable signal about the outcome of
// a save, reset, upload or export
type Notification struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier receives notifications. Presentation is up to the implementation.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(Notification)

// Notify calls f(n)
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier writes notifications to the standard logger
type LogNotifier struct{}

// Notify logs n
func (LogNotifier) Notify(n Notification) {
	log.Printf("[notify] %s: %s - %s", n.Kind, n.Title, n.Message)
}

// Success builds a success notification
func Success(title, message string) Notification {
	return Notification{Kind: KindSuccess, Title: title, Message: message}
}

// Failure builds a failure notification
func Failure(title, message string) Notification {
	return Notification{Kind: KindFailure, Title: title, Message: message}
}
