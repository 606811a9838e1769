// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "github.com/microcosm-cc/bluemonday"

// htmlSanitizer provides a reusable HTML sanitization policy for post and
// page content. It uses bluemonday's UGCPolicy which allows safe HTML tags
// for user-generated content while stripping potentially dangerous elements
// like <script>, event handlers, etc.
var htmlSanitizer = bluemonday.UGCPolicy()

// SanitizeHTML strips unsafe markup from user-submitted content before it
// is stored.
func SanitizeHTML(content string) string {
	return htmlSanitizer.Sanitize(content)
}
