package store

// NewMemory opens an in-memory SQLite store.
// This is only intended for use in tests.
func NewMemory() (*Store, error) {
	return Open(":memory:")
}
