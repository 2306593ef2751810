package main

import (
	"context"
	"fmt"

	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates an account and stores the returned session token.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	reg := models.Registration{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
		Role:     cmd.String("role"),
	}

	if reg.Role != models.RoleListener && reg.Role != models.RoleArtist {
		return fmt.Errorf("%w: role must be listener or artist", shared.ErrInvalidFlag)
	}

	r.logger.Info("registering account", "username", reg.Username, "role", reg.Role)

	if err := r.session.Register(ctx, reg); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	user := r.session.User()
	return r.writePlain("✓ Registered and signed in as %s (%s)\n", user.Username, user.Role)
}

// AuthLogin exchanges credentials for a session token and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds := models.Credentials{
		Identifier: cmd.String("identifier"),
		Password:   cmd.String("password"),
	}

	r.logger.Info("signing in", "identifier", creds.Identifier)

	if err := r.session.Login(ctx, creds); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	user := r.session.User()
	return r.writePlain("✓ Signed in as %s (%s)\n", user.Username, user.Role)
}

// AuthLogout clears the stored token. No server call is made.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout()
	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami validates the stored token against the platform and prints the profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	r.session.Rehydrate(ctx)

	user := r.session.User()
	if user == nil {
		return fmt.Errorf("%w: run 'soloplay auth login'", shared.ErrNotAuthenticated)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlain("Username: %s\n", user.Username)
	r.writePlain("Email:    %s\n", user.Email)
	r.writePlain("Role:     %s\n", user.Role)
	return nil
}
