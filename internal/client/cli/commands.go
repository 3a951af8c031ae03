package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// credentialFlags флаги команд, которым нужен пароль
type credentialFlags struct {
	Username     string
	Password     string
	PasswordFile string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Username, "username", "u", "", "username (prompted if empty)")
	cmd.Flags().StringVar(&f.Password, "password", "", "password (not recommended, use $"+EnvPassword+" or --password-file)")
	cmd.Flags().StringVar(&f.PasswordFile, "password-file", "", "path to file containing the password")
}

func (f *credentialFlags) passwords() Passwords {
	return Passwords{FromFile: f.PasswordFile, FromArgs: f.Password}
}

func newRegisterCommand(opts *RootOptions) *cobra.Command {
	creds := &credentialFlags{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new shopper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cli.runRegister(cmd.Context(), creds.Username, creds.passwords())
		},
	}
	creds.bind(cmd)
	return cmd
}

func newLoginCommand(opts *RootOptions) *cobra.Command {
	creds := &credentialFlags{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login and load your cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cli.runLogin(cmd.Context(), creds.Username, creds.passwords())
		},
	}
	creds.bind(cmd)
	return cmd
}

func newLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout and remove local cart data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cli.runLogout(cmd.Context())
		},
	}
}

func newStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication and cart status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cli.runStatus(cmd.Context())
		},
	}
}

func newCartCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cli.runCart(cmd.Context())
		},
	}
}

func newAddCommand(opts *RootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "add <item-id>",
		Short: "Add an item to the cart",
		Example: `  cartkeeper add sku-42
  cartkeeper add sku-42 --count 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cli.runChange(cmd.Context(), args[0], count, true)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of units to add")
	return cmd
}

func newRemoveCommand(opts *RootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:     "remove <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cli.runChange(cmd.Context(), args[0], count, false)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of units to remove")
	return cmd
}

func newSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the local cart with the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cli.runSync(cmd.Context())
		},
	}
}

func newCheckoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cli.runCheckout(cmd.Context())
		},
	}
}

func newWatchCommand(opts *RootOptions) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow cart and stock changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cli.runWatch(cmd.Context(), interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "refresh interval")
	return cmd
}

func newAdminCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator operations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable <user-id>",
			Short: "Enable the cart of a shopper",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.cli.runAdminSetCart(cmd.Context(), args[0], true)
			},
		},
		&cobra.Command{
			Use:   "disable <user-id>",
			Short: "Disable the cart of a shopper",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.cli.runAdminSetCart(cmd.Context(), args[0], false)
			},
		},
	)
	return cmd
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "cartkeeper client\nVersion:    %s\nBuild Date: %s\nGit Commit: %s\n",
				info.Version, info.BuildDate, info.GitCommit)
			return err
		},
	}
}
