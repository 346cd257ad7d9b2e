package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/HeatherCyber/BlitzBuy/internal/model"
	"github.com/HeatherCyber/BlitzBuy/internal/security"
)

var loginMobile string

// loginCmd authenticates and persists the session ticket.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session ticket",
	Long: `Authenticates against the BlitzBuy backend with your mobile number.
The password is read from the terminal and pre-hashed before it is
transmitted; the plaintext never goes over the wire.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginMobile, "mobile", "m", "", "mobile number (11 digits)")
	_ = loginCmd.MarkFlagRequired("mobile")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	store, err := newSessionStore()
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	ctx := context.Background()
	ticket, err := client.Login(ctx, model.LoginForm{
		Mobile:   loginMobile,
		Password: security.InputPassToMidPass(string(raw)),
	})
	if err != nil {
		return err
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		logger.Warn("profile fetch failed after login", zap.Error(err))
		user = model.User{Mobile: loginMobile}
	}
	if err := store.Save(ticket, user); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", loginMobile)
	return nil
}

// logoutCmd clears the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if client, err := newClient(cfg, logger); err == nil {
			// Best effort; the local session is cleared regardless.
			_ = client.Logout(context.Background())
		}
		store, err := newSessionStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}
