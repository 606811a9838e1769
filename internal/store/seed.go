// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/model"
)

// Seed ensures the bootstrap admin account exists. It is idempotent:
// when a user with the configured admin email is already present,
// nothing is written.
func Seed(ctx context.Context, queries *Queries, cfg *config.Config, log *slog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	_, err := queries.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Name:         cfg.AdminName,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Info("admin user created", "email", user.Email)
	return nil
}
