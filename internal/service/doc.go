// Package service holds the errors shared by the application services in its
// subpackages:
//
//   - identity: sign-up, sign-in and caretaker-patient links
//   - records: authorized access to patient-owned records
//   - reminder: the periodic schedule evaluator
//   - play: live game sessions and activity summaries
//   - auth: password hashing and JWT issuance
//
// Services receive their stores, metrics and logger through constructor
// injection and never depend on a specific store implementation.
package service
