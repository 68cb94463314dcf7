package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"precinct/contracts/records"
	"precinct/internal/console/session"
)

func newRegisterCmd(a *app) *cobra.Command {
	var req records.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a police officer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.api.Register(cmd.Context(), req); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, "Registration successful")
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.PoliceID, "police-id", "", "Police ID")
	f.StringVar(&req.PoliceName, "police-name", "", "Police name used to log in")
	f.StringVar(&req.Department, "department", "", "Department")
	f.StringVar(&req.PoliceAddress, "address", "", "Station address")
	f.StringVar(&req.Designation, "designation", "", "Designation")
	f.StringVar(&req.Password, "password", "", "Password")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var name, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check officer credentials against the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			officer, err := session.New().Login(cmd.Context(), a.api, name, password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Login successful (police ID %s)\n", officer.PoliceID)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "police-name", "", "Police name")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}
