// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small string and file helpers shared across companion.
//
//   - TruncateWidth, StringWidth: display-width aware truncation (CJK, emoji)
//   - SingleLine: collapse multi-line text for status lines and log fields
//   - WriteFileAtomic: crash-safe file replacement used when saving config
package util
