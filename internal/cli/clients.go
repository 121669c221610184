package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/models"
)

func (r *runner) clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"client"},
		Short:   "Manage client applications and their API keys",
	}
	cmd.AddCommand(
		r.clientsListCmd(),
		r.clientsGetCmd(),
		r.clientsCreateCmd(),
		r.clientsDeleteCmd(),
		r.clientsRegenerateCmd(),
	)
	return cmd
}

func (r *runner) clientsListCmd() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List client applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			clients, err := mgr.Client().ListClients(cmd.Context())
			if err != nil {
				return err
			}

			return r.render(clients, func(w io.Writer) {
				if len(clients) == 0 {
					fmt.Fprintln(w, "No client applications.")
					return
				}
				rows := make([][]string, 0, len(clients))
				for _, c := range clients {
					key := c.MaskedKey()
					if reveal {
						key = c.APIKey
					}
					rows = append(rows, []string{
						c.ID,
						c.Name,
						truncate(c.Description, 40),
						key,
						yesNo(c.IsActive),
						humanize.Time(c.CreatedAt.Time),
					})
				}
				printTable(w, []string{"ID", "NAME", "DESCRIPTION", "API KEY", "ACTIVE", "CREATED"}, rows)
			})
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print full API keys in the table")
	return cmd
}

func (r *runner) clientsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one client application with its API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			c, err := mgr.Client().GetClient(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return r.render(c, func(w io.Writer) { printClient(w, c) })
		},
	}
}

func printClient(w io.Writer, c *models.ClientApplication) {
	printFields(w, [][2]string{
		{"ID", c.ID},
		{"Name", c.Name},
		{"Description", c.Description},
		{"API key", c.APIKey},
		{"Active", yesNo(c.IsActive)},
		{"Created", humanize.Time(c.CreatedAt.Time)},
		{"Updated", humanize.Time(c.UpdatedAt.Time)},
	})
}

func (r *runner) clientsCreateCmd() *cobra.Command {
	var (
		req      models.ClientRequest
		inactive bool
	)
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a client application",
		Long:    "Create a client application. The backend issues its API key, which is printed once created.",
		Example: `  aiconsole clients create --name telegram-bot --description "Support bot"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			req.IsActive = !inactive

			var created *models.ClientApplication
			err = mgr.Mutate(cmd.Context(), "create", app.ResourceClients, "", func(ctx context.Context) error {
				var err error
				created, err = mgr.Client().CreateClient(ctx, req)
				return err
			})
			if err != nil {
				return err
			}
			return r.render(created, func(w io.Writer) { printClient(w, created) })
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "client name")
	cmd.Flags().StringVar(&req.Description, "description", "", "free-text description")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the client disabled")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (r *runner) clientsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a client application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			id := args[0]
			if !yes {
				ok, err := r.confirm(fmt.Sprintf("Delete client %s? Its API key stops working.", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(r.opts.Out, "Aborted.")
					return nil
				}
			}
			err = mgr.Mutate(cmd.Context(), "delete", app.ResourceClients, id, func(ctx context.Context) error {
				return mgr.Client().DeleteClient(ctx, id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(r.opts.Out, "Client %s deleted\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (r *runner) clientsRegenerateCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "regenerate-key <id>",
		Short: "Issue a new API key for a client application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			id := args[0]
			if !yes {
				ok, err := r.confirm(fmt.Sprintf("Regenerate the API key of client %s? The current key stops working.", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(r.opts.Out, "Aborted.")
					return nil
				}
			}

			var updated *models.ClientApplication
			err = mgr.Mutate(cmd.Context(), "regenerate key", app.ResourceClients, id, func(ctx context.Context) error {
				var err error
				updated, err = mgr.Client().RegenerateAPIKey(ctx, id)
				return err
			})
			if err != nil {
				return err
			}
			return r.render(updated, func(w io.Writer) {
				fmt.Fprintf(w, "New API key for %s:\n%s\n", updated.Name, updated.APIKey)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
