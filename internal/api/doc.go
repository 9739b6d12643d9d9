// Package api exposes the care companion facade over HTTP. Handlers decode
// and validate JSON requests, call one facade operation and map facade error
// kinds to status codes. Bearer tokens are JWTs naming a sign-in session, so
// signing out revokes them immediately.
package api
