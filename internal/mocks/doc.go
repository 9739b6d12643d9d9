// Package mocks provides centralized mock implementations for testing.
//
// Function-field mocks (MockJWTService, MockPasswordVerifier) suit simple
// stubbing; testify mocks (TestifyMockUserStore) suit tests that assert on
// calls. PlainHasher replaces bcrypt where hashing cost would slow tests.
//
//	verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
//	users := new(mocks.TestifyMockUserStore)
//	users.On("GetByEmail", mock.Anything, "patient@example.com").Return(user, nil)
package mocks
