package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/session"
	"github.com/wichananm65/pet-shop-storefront/internal/ui"
	"github.com/wichananm65/pet-shop-storefront/internal/validate"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validate.Required(email) || !validate.Required(password) {
				return errors.New("email and password are required")
			}
			if !validate.Email(email) {
				return fmt.Errorf("invalid email address %q", email)
			}

			btn := ui.NewButton("Login")
			btn.ShowLoading()
			if btn.Disabled() {
				fmt.Fprintln(cmd.ErrOrStderr(), "Logging in...")
			}
			resp, err := a.client.Login(cmd.Context(), strings.TrimSpace(email), password)
			btn.HideLoading("Login")
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			u := session.User{Email: email}
			if resp.User != nil {
				u = sessionUser(*resp.User)
			}
			if err := a.session.Save(resp.AccessToken, u); err != nil {
				return err
			}
			nav := ui.CurrentNavUser(a.session)
			a.alerts.Show("Welcome, "+nav.DisplayName, ui.KindSuccess)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func sessionUser(u api.User) session.User {
	return session.User{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Country: u.Country,
		Gender:  u.Gender,
		Image:   u.Image,
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ui.Logout(a.session); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return err
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in shopper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			nav := ui.CurrentNavUser(a.session)
			if !nav.LoggedIn {
				_, err := fmt.Fprintln(out, "Not logged in.")
				return err
			}
			fmt.Fprintf(out, "[%s] %s\n", nav.Initial, nav.DisplayName)
			if u := a.session.CurrentUser(); u != nil && u.Email != "" {
				fmt.Fprintln(out, u.Email)
			}
			if nav.Image != "" {
				fmt.Fprintln(out, "avatar: "+nav.Image)
			}
			return nil
		},
	}
}

func newNavCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:    "nav",
		Short:  "Print the navigation bar markup for the current session",
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), ui.Navigation(a.session))
			return err
		},
	}
}

func newCheckPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-password <password>",
		Short: "Score a password with the backend's strength rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := validate.CheckPasswordStrength(cmd.Context(), a.client, args[0], a.logger)
			if st == nil {
				return errors.New("could not check password strength")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d/5)\n", st.Strength, st.Score)
			for _, f := range st.Feedback {
				fmt.Fprintln(out, "  - "+f)
			}
			if !validate.Password(args[0]) {
				fmt.Fprintln(out, "Password must be at least 8 characters long")
			}
			return nil
		},
	}
}
