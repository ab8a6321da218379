package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Auth.Signup(name, email, password); err != nil {
			return err
		}
		session, err := a.Auth.Login(email, password)
		if err != nil {
			return err
		}

		fmt.Printf("Welcome, %s! You are logged in.\n", session.Name)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an existing account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		session, err := a.Auth.Login(email, password)
		if err != nil {
			return err
		}

		streak := a.Meta.TouchStreak(session.Email)
		fmt.Printf("Welcome back, %s! Streak: %d day(s).\n", session.Name, streak)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, ok := a.Auth.CurrentUser(); !ok {
			fmt.Println("Not logged in.")
			return nil
		}
		if err := a.Auth.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	signupCmd.Flags().String("name", "", "Display name")
	signupCmd.Flags().String("email", "", "Email address")
	signupCmd.Flags().String("password", "", "Password")
	_ = signupCmd.MarkFlagRequired("name")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")

	loginCmd.Flags().String("email", "", "Email address")
	loginCmd.Flags().String("password", "", "Password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
