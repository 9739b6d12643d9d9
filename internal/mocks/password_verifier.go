package mocks

import "errors"

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return errors.New("password mismatch")
}

// PlainHasher implements auth.PasswordHasher and auth.PasswordVerifier with
// a reversible "hash", so tests avoid bcrypt's cost.
type PlainHasher struct {
	// Err, when set, is returned by Hash.
	Err error
}

const plainPrefix = "plain$"

// Hash implements auth.PasswordHasher.
func (h PlainHasher) Hash(password string) (string, error) {
	if h.Err != nil {
		return "", h.Err
	}
	return plainPrefix + password, nil
}

// Compare implements auth.PasswordVerifier.
func (h PlainHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != plainPrefix+password {
		return errors.New("password mismatch")
	}
	return nil
}
