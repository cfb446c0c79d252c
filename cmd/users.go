package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetsync/internal/config"
	"github.com/theirongolddev/budgetsync/internal/dashboard"
)

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Sign in or register on the service",
}

var usersSignInCmd = &cobra.Command{
	Use:   "signin NAME EMAIL",
	Short: "Sign in by name and email and remember the user",
	Args:  cobra.ExactArgs(2),
	RunE:  runUsersSignIn,
}

var usersRegisterCmd = &cobra.Command{
	Use:   "register NAME EMAIL",
	Short: "Create a user, or sign in if it already exists",
	Args:  cobra.ExactArgs(2),
	RunE:  runUsersRegister,
}

var usersNoSave bool

func init() {
	for _, c := range []*cobra.Command{usersSignInCmd, usersRegisterCmd} {
		c.Flags().BoolVar(&usersNoSave, "no-save", false, "Do not store the user id in the config file")
		usersCmd.AddCommand(c)
	}
	rootCmd.AddCommand(usersCmd)
}

func runUsersSignIn(cmd *cobra.Command, args []string) error {
	return signIn(cmd, args[0], args[1], false)
}

func runUsersRegister(cmd *cobra.Command, args []string) error {
	return signIn(cmd, args[0], args[1], true)
}

func signIn(cmd *cobra.Command, name, email string, register bool) error {
	d, err := newDashboard()
	if err != nil {
		return err
	}
	defer d.Close()

	u, err := d.SignIn(cmd.Context(), name, email, register)
	if errors.Is(err, dashboard.ErrUnknownUser) {
		return fmt.Errorf("no user named %q with email %q: run `budgetsync users register`", name, email)
	}
	if err != nil {
		return err
	}
	cfg.User.ID = u.ID

	fmt.Printf("  Signed in as %s <%s> (user %d)\n", u.Name, u.Email, u.ID)
	if usersNoSave {
		return nil
	}

	// Only the user id changes on disk; flag and env overrides stay out of it.
	onDisk, err := config.Load()
	if err != nil {
		return err
	}
	onDisk.User.ID = u.ID
	if err := config.Save(onDisk); err != nil {
		return err
	}
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	return nil
}
