package mailer

import "sync"

// Email is one message captured by the mock.
type Email struct {
	Recipient    string
	TemplateFile string
	Data         any
}

// MockMailer captures outgoing mail instead of dialing SMTP. It is safe to
// share with the reconciler's mail goroutines.
type MockMailer struct {
	mu   sync.Mutex
	sent []Email
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, Email{
		Recipient:    recipient,
		TemplateFile: templateFile,
		Data:         data,
	})

	return nil
}

// GetSentEmails returns a copy of every captured message.
func (m *MockMailer) GetSentEmails() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()

	emails := make([]Email, len(m.sent))
	copy(emails, m.sent)

	return emails
}

func (m *MockMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = nil
}
