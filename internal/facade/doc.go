// Package facade is the single entry point a host uses to drive the care
// companion. It composes the identity, record, reminder and play services
// over one injected store, tracks signed-in sessions, and classifies every
// error it returns into a Kind the host can show to the user.
package facade
