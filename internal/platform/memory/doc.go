// Package memory implements the store contracts with process-lifetime,
// mutex-guarded maps. Every value crossing the package boundary is cloned,
// so callers never share state with the store. An optional simulated latency
// lets hosts exercise the asynchronous shape of a networked backend.
package memory
