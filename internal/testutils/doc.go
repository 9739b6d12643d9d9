// Package testutils holds helpers shared by HTTP-level tests: a real JWT
// service with a fixed test secret, error response assertions and
// temporary config files.
package testutils
