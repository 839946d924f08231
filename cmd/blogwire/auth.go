package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogwire/blogwire/api"
	"github.com/blogwire/blogwire/session"
)

func loginCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and persist the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}

			user, err := a.sessions.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}
			fmt.Printf("Logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin if omitted)")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sessions.Logout()
			fmt.Println("Logged out")
			return nil
		},
	}
}

func registerCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create a new account (does not log in)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}

			user, err := a.sessions.Register(cmd.Context(), args[0], args[1], pw)
			if err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}
			fmt.Printf("Registered %s. Run '%s login %s' to log in.\n", user.Username, appName, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin if omitted)")
	return cmd
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sessions.Bootstrap(cmd.Context())

			user := a.sessions.CurrentUser()
			if user == nil {
				fmt.Println("Not logged in")
				return nil
			}

			fmt.Printf("%s <%s>\n", user.Username, user.Email)
			if user.Bio != "" {
				fmt.Printf("Bio: %s\n", user.Bio)
			}
			if !user.CreatedAt.IsZero() {
				fmt.Printf("Member since: %s\n", user.CreatedAt.Format("2006-01-02"))
			}

			if claims, err := session.Claims(a.sessions.Credential()); err == nil && !claims.ExpiresAt.IsZero() {
				if claims.Expired(time.Now()) {
					fmt.Println("Token: expired")
				} else {
					fmt.Printf("Token expires: %s\n", claims.ExpiresAt.Format(time.RFC3339))
				}
			}
			return nil
		},
	}
}

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}
	cmd.AddCommand(profileUpdateCmd(a))
	return cmd
}

func profileUpdateCmd(a *app) *cobra.Command {
	var update api.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if update == (api.ProfileUpdate{}) {
				return fmt.Errorf("nothing to update; pass at least one of --username, --email, --bio, --avatar")
			}

			a.sessions.Bootstrap(cmd.Context())
			user, err := a.sessions.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}
			fmt.Printf("Profile updated: %s <%s>\n", user.Username, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&update.Username, "username", "", "Display name")
	cmd.Flags().StringVar(&update.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&update.Bio, "bio", "", "Profile bio")
	cmd.Flags().StringVar(&update.Avatar, "avatar", "", "Avatar URL")
	return cmd
}

// resolvePassword returns the flag value or reads one line from stdin.
func resolvePassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
