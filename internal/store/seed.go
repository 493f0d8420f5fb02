package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/renacermascotas/renacer-go/internal/auth"
	"github.com/renacermascotas/renacer-go/internal/model"
)

// Initial admin account created by Seed.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@renacermascotas.com"
)

// Seed creates the initial admin account if no admin exists yet. The
// password comes from RENACER_ADMIN_PASSWORD; without it a random one is
// generated and printed to the log once.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	if _, err := queries.GetUserByUsername(ctx, DefaultAdminUsername); err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	password := os.Getenv("RENACER_ADMIN_PASSWORD")
	generated := false
	if password == "" {
		var err error
		if password, err = randomPassword(); err != nil {
			return fmt.Errorf("generating admin password: %w", err)
		}
		generated = true
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     DefaultAdminUsername,
		Email:        DefaultAdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	if generated {
		// Printed once, outside the log pipeline: log records at WARN and
		// above are mirrored into the events table and the plaintext must
		// never land there.
		fmt.Fprintf(os.Stdout, "generated admin password for %q: %s\n", user.Username, password)
		slog.Warn("created admin user with generated password",
			"id", user.ID, "username", user.Username)
	} else {
		slog.Info("created admin user", "id", user.ID, "username", user.Username)
	}
	return nil
}

func randomPassword() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
