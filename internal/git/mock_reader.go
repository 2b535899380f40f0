package git

// MockHistoryReader is a test double for HistoryReader.
// It allows tests to provide predefined commit data without needing a real Git repository.
type MockHistoryReader struct {
	Records []CommitRecord
	Error   error
}

// NewMockHistoryReader creates a new MockHistoryReader with the given data.
func NewMockHistoryReader(records []CommitRecord, err error) *MockHistoryReader {
	return &MockHistoryReader{
		Records: records,
		Error:   err,
	}
}

// ReadCommits returns the predefined records or error.
func (m *MockHistoryReader) ReadCommits() ([]CommitRecord, error) {
	return m.Records, m.Error
}

// Compile-time interface conformance check.
var _ RepositoryReader = (*MockHistoryReader)(nil)
