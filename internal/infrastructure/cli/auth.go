// Package cli - auth.go holds the sign-in/sign-out commands.
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

func credentialFlags(email, password *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "email",
			Aliases:     []string{"e"},
			Usage:       "account email",
			Destination: email,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "password",
			Aliases:     []string{"p"},
			Usage:       "account password",
			Destination: password,
			Required:    true,
		},
	}
}

func cmdLogin() *cli.Command {
	var email, password string
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and persist the session",
		Flags: credentialFlags(&email, &password),
		Action: func(ctx context.Context, _ *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			a.restore(ctx)
			if err := a.session.Acquire(ctx, email, password); err != nil {
				return err
			}
			okText.Printf("Signed in as %s\n", a.session.CurrentEmail())
			return nil
		},
	}
}

func cmdSignup() *cli.Command {
	var email, password string
	return &cli.Command{
		Name:  "signup",
		Usage: "Create an account and sign in",
		Flags: credentialFlags(&email, &password),
		Action: func(ctx context.Context, _ *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			a.restore(ctx)
			if err := a.session.Register(ctx, email, password); err != nil {
				return err
			}
			okText.Printf("Account created, signed in as %s\n", a.session.CurrentEmail())
			return nil
		},
	}
}

func cmdLogout() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and forget the stored session",
		Action: func(ctx context.Context, _ *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			a.restore(ctx)
			a.session.Invalidate()
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func cmdWhoami() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the current session state",
		Action: func(ctx context.Context, _ *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			if a.restore(ctx) == entities.StateAuthenticated {
				okText.Printf("Signed in as %s\n", a.session.CurrentEmail())
			} else {
				noticeText.Println("Not signed in.")
			}
			return nil
		},
	}
}
