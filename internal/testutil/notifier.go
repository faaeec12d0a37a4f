package testutil

import "sync"

// StubNotifier records notifications. GrantedFlag controls whether the
// scheduler is allowed to notify at all.
type StubNotifier struct {
	GrantedFlag bool

	mu            sync.Mutex
	Notifications []string
}

func (n *StubNotifier) Granted() bool { return n.GrantedFlag }

func (n *StubNotifier) Notify(title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notifications = append(n.Notifications, title+": "+body)
	return nil
}

// Count returns the number of notifications recorded.
func (n *StubNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Notifications)
}
