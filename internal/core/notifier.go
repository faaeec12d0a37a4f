package core

// Notifier is the local-notification capability the UI layer grants to the
// scheduler. The scheduler never requests permission itself; it only notifies
// when permission was already granted, so Granted is checked before Notify.
type Notifier interface {
	Granted() bool
	Notify(title, body string) error
}

// NopNotifier reports no permission and drops notifications. Use when the
// host environment has no notification surface.
type NopNotifier struct{}

func (NopNotifier) Granted() bool { return false }

func (NopNotifier) Notify(string, string) error { return nil }
