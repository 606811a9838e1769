// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"strings"
	"testing"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		contains string
		excludes string
	}{
		{
			name:  "plain text unchanged",
			input: "Hello, world",
			want:  "Hello, world",
		},
		{
			name:  "safe markup kept",
			input: "<p>Hello <strong>there</strong></p>",
			want:  "<p>Hello <strong>there</strong></p>",
		},
		{
			name:     "script stripped",
			input:    `<p>ok</p><script>alert("xss")</script>`,
			contains: "<p>ok</p>",
			excludes: "<script>",
		},
		{
			name:     "event handlers stripped",
			input:    `<img src="x" onerror="alert(1)">`,
			excludes: "onerror",
		},
		{
			name:     "javascript urls stripped",
			input:    `<a href="javascript:alert(1)">click</a>`,
			excludes: "javascript:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeHTML(tt.input)
			if tt.want != "" && got != tt.want {
				t.Errorf("SanitizeHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("SanitizeHTML(%q) = %q, want it to contain %q", tt.input, got, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("SanitizeHTML(%q) = %q, want it to exclude %q", tt.input, got, tt.excludes)
			}
		})
	}
}
