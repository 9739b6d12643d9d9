// Package store defines the persistence contracts of the care companion:
// the identity store holding users and the caretaker–patient link graph, and
// one owned-record store per record kind. The contracts keep services
// independent of the storage mechanism; the process-lifetime implementation
// lives in internal/platform/memory.
package store
