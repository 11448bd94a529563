package delta

// ListenerCount returns the number of subscriptions.
func (m *Manager) ListenerCount() int {
	return m.listeners.len()
}
