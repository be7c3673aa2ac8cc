// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package usage keeps a local ledger of model requests in SQLite.
//
// One row is written per model call: when it happened, which operation issued
// it, the model, latency, success and token counts. Prompt and reply text are
// never stored.
//
// # Usage
//
//	ledger, err := usage.Open("~/.companion/usage.db")
//	if err != nil {
//	    return err
//	}
//	defer ledger.Close()
//	_ = ledger.Record(ctx, usage.Entry{Op: usage.OpChat, Model: "gemini-1.5-flash", OK: true})
//	totals, _ := ledger.Totals(ctx)
package usage
