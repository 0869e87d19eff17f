// Package models defines the core domain models for snap-split-cozy.
//
// # Flow
//
// A split runs through a short, linear pipeline:
//   - Receipt: what the analysis relay extracted from a photo
//   - Participant: a person picked from the session roster
//   - Assignment: which participant ordered each receipt line
//   - Breakdown: each participant's computed share
//
// All of it is transient. The state lives in a Session value that is carried
// from step to step and replaced wholesale on every change; nothing here is
// written to a database.
//
// # Design Principles
//
//  1. **Money is decimal**: amounts use shopspring/decimal, never float64
//  2. **Explicit defaults**: absent charges are zero, absent subtotal is tracked
//  3. **IDs over pointers**: assignments reference participants by ID
//  4. **Copy on write**: Session methods return new values
package models
