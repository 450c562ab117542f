package mailer

import "sync"

// Email is a message captured by MockMailer instead of being delivered.
type Email struct {
	To       string
	Template string
	Data     any
}

// MockMailer records outgoing mail so tests can assert on it. Safe for
// concurrent use; handlers send mail from background goroutines.
type MockMailer struct {
	mu     sync.RWMutex
	emails []Email
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.emails = append(m.emails, Email{
		To:       recipient,
		Template: templateFile,
		Data:     data,
	})

	return nil
}

// SentEmails returns a copy of every captured message, oldest first.
func (m *MockMailer) SentEmails() []Email {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Email, len(m.emails))
	copy(out, m.emails)
	return out
}

// LastEmail returns the most recently captured message, or false if none.
func (m *MockMailer) LastEmail() (Email, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.emails) == 0 {
		return Email{}, false
	}

	return m.emails[len(m.emails)-1], true
}

// Reset drops the captured messages.
func (m *MockMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.emails = nil
}
