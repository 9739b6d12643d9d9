// Package game implements the brain-training game engine.
//
// A Session runs one of three variants (pair matching, word unscramble and
// sequence inference) through the same lifecycle: setup generates the
// puzzle content and moves straight to playing, and the session ends in
// complete once the variant's goal is reached. Moves are applied through a
// single ApplyMove entry point that dispatches on the variant.
//
// The engine never starts timers. A mismatched pair in pair matching is
// reported as an UnflipRequest carrying a token; the runtime that owns the
// session schedules the unflip and calls ResolveUnflip when it fires.
package game
