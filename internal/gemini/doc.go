// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides a client for the Google Gemini generateContent API.
//
// The client sends a single text prompt and returns the generated text along
// with token usage. It never retries: every call is exactly one HTTP request.
//
// # Key Types
//
//   - Client: HTTP client bound to one API key and one model
//   - Reply: generated text, finish reason, usage and latency
//   - APIError: decoded error envelope from a non-200 response
//
// # Usage
//
//	client := gemini.NewClient(apiKey).WithModel("gemini-1.5-flash")
//	reply, err := client.Generate(ctx, "Tell me a fun, interesting fact!")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(reply.Text)
//
// # Security
//
// The API key travels in the x-goog-api-key header rather than the URL, and is
// never logged. Use KeyFingerprint to identify a key in logs.
package gemini
