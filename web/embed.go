// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the admin single-page application.
package web

import "embed"

//go:embed all:admin
var Admin embed.FS
