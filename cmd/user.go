package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mixing-service/internal/services"
)

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCommand())
	return cmd
}

func newUserCreateCommand() *cobra.Command {
	var in services.NewUser
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user and print its API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			in.Username = args[0]
			user, token, err := services.NewUserService(rt.db, rt.logger).CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user:  %s (%s)\n", user.Username, user.ID)
			fmt.Fprintf(out, "staff: %t\n", user.IsStaff)
			fmt.Fprintf(out, "token: %s\n", token)
			fmt.Fprintln(out, "The token is shown only once.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&in.IsStaff, "staff", false, "grant staff access")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	return cmd
}
