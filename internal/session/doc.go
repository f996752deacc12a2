// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives one planning session: collecting answers, waiting
// on generation, then showing a plan or an error.
//
// # Key Types
//
//   - Controller: the state machine, composing the wizard store and position
//   - Generator: anything that turns an answer set into a plan
//   - Submission: the attempt number and answer snapshot of one submit
//
// # States
//
//	collecting --submit--> loading --ok--> result
//	                               \--err-> error
//	collecting | result | error --restart--> collecting
//
// # Usage
//
// Synchronous callers use Submit:
//
//	sess := session.New(log)
//	sess.SetField(wizard.FieldExamName, "NEET UG")
//	...
//	if err := sess.Submit(ctx, client); err != nil {
//	    // sess.State() == session.StateError
//	}
//
// Event loops split it so the call can run off the loop:
//
//	sub, err := sess.BeginSubmit()
//	// later, with the generator's outcome:
//	sess.Complete(sub.Attempt, plan, err)
//
// Restart returns ErrBusy while loading. Complete drops outcomes for any
// attempt but the in-flight one.
package session
