// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry keeps a local usage ledger of plan generations.
//
// Each Gemini call is recorded with its model, latency, outcome and token
// counts in a SQLite database under the config directory. Answers and plans
// are not stored.
//
// # Usage
//
//	ledger, err := telemetry.Open(cfg.UsageDBPath())
//	if err != nil {
//	    return err
//	}
//	defer ledger.Close()
//
//	client.OnAttempt(func(a gemini.Attempt) {
//	    _ = ledger.Record(ctx, telemetry.FromAttempt(sessionID, a))
//	})
//
//	totals, _ := ledger.Totals(ctx)
package telemetry
