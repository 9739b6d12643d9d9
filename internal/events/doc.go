// Package events provides types and interfaces for publishing domain events.
//
// Services emit events such as a reminder falling due or a game session
// completing without knowing who listens. Hosts subscribe handlers to event
// types on a Bus, usually through On, which hands each handler its decoded
// payload.
//
// The primary components are:
// - Event: a typed occurrence with a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
// - Bus: the in-memory EventEmitter routing events by type
package events
