package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/models"
)

func (r *runner) accessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "access",
		Aliases: []string{"grants"},
		Short:   "Manage which clients may use which networks",
	}
	cmd.AddCommand(
		r.accessListCmd(),
		r.accessStatsCmd(),
		r.accessGrantCmd(),
		r.accessRevokeCmd(),
		r.accessGrantAllCmd(),
		r.accessCheckCmd(),
	)
	return cmd
}

func (r *runner) accessListCmd() *cobra.Command {
	var clientID, networkID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List access grants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			if clientID != "" && networkID != "" {
				return fmt.Errorf("--client and --network cannot be combined")
			}

			var grants []models.ClientNetworkAccess
			switch {
			case clientID != "":
				grants, err = mgr.Client().ListClientAccess(cmd.Context(), clientID)
			case networkID != "":
				grants, err = mgr.Client().ListNetworkAccess(cmd.Context(), networkID)
			default:
				grants, err = mgr.Client().ListAccess(cmd.Context())
			}
			if err != nil {
				return err
			}

			return r.render(grants, func(w io.Writer) {
				if len(grants) == 0 {
					fmt.Fprintln(w, "No access grants.")
					return
				}
				rows := make([][]string, 0, len(grants))
				for _, a := range grants {
					rows = append(rows, []string{
						a.ID,
						a.ClientName,
						a.NetworkDisplayName,
						a.NetworkProvider,
						a.LimitsDescription(),
					})
				}
				printTable(w, []string{"ID", "CLIENT", "NETWORK", "PROVIDER", "LIMITS"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "only grants of this client id")
	cmd.Flags().StringVar(&networkID, "network", "", "only grants for this network id")
	return cmd
}

func (r *runner) accessStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize access grants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			st, err := mgr.Client().GetAccessStats(cmd.Context())
			if err != nil {
				return err
			}
			return r.render(st, func(w io.Writer) {
				printFields(w, [][2]string{
					{"Total grants", fmt.Sprint(st.TotalAccesses)},
					{"With limits", fmt.Sprint(st.AccessesWithLimits)},
					{"Unlimited", fmt.Sprint(st.UnlimitedAccesses)},
				})
			})
		},
	}
}

func (r *runner) accessGrantCmd() *cobra.Command {
	var (
		req            models.GrantAccessRequest
		daily, monthly int
	)
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant a client access to a network, or change the limits of a grant",
		Example: `  # Unlimited access
  aiconsole access grant --client <client-id> --network <network-id>

  # At most 100 requests a day
  aiconsole access grant --client <client-id> --network <network-id> --daily 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("daily") {
				if daily < 0 {
					return fmt.Errorf("--daily must not be negative")
				}
				req.DailyRequestLimit = &daily
			}
			if cmd.Flags().Changed("monthly") {
				if monthly < 0 {
					return fmt.Errorf("--monthly must not be negative")
				}
				req.MonthlyRequestLimit = &monthly
			}

			var grant *models.ClientNetworkAccess
			err = mgr.Mutate(cmd.Context(), "grant", app.ResourceAccess, "", func(ctx context.Context) error {
				var err error
				grant, err = mgr.Client().GrantAccess(ctx, req)
				return err
			})
			if err != nil {
				return err
			}
			return r.render(grant, func(w io.Writer) {
				fmt.Fprintf(w, "%s can use %s (%s)\n", grant.ClientName, grant.NetworkDisplayName, grant.LimitsDescription())
			})
		},
	}
	cmd.Flags().StringVar(&req.ClientID, "client", "", "client id")
	cmd.Flags().StringVar(&req.NetworkID, "network", "", "network id")
	cmd.Flags().IntVar(&daily, "daily", 0, "daily request limit (unlimited when omitted)")
	cmd.Flags().IntVar(&monthly, "monthly", 0, "monthly request limit (unlimited when omitted)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("network")
	return cmd
}

func (r *runner) accessRevokeCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an access grant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			id := args[0]
			if !yes {
				ok, err := r.confirm(fmt.Sprintf("Revoke access grant %s?", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(r.opts.Out, "Aborted.")
					return nil
				}
			}
			err = mgr.Mutate(cmd.Context(), "revoke", app.ResourceAccess, id, func(ctx context.Context) error {
				return mgr.Client().RevokeAccess(ctx, id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(r.opts.Out, "Access grant %s revoked\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (r *runner) accessGrantAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant-all <client-id>",
		Short: "Grant a client unlimited access to every active network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			clientID := args[0]

			var res *models.GrantAllResult
			err = mgr.Mutate(cmd.Context(), "grant all", app.ResourceAccess, clientID, func(ctx context.Context) error {
				var err error
				res, err = mgr.Client().GrantAllAccess(ctx, clientID)
				return err
			})
			if err != nil {
				return err
			}
			return r.render(res, func(w io.Writer) {
				if res.Message != "" {
					fmt.Fprintln(w, res.Message)
				} else {
					fmt.Fprintf(w, "Granted %d of %d networks, %d already granted\n", res.Granted, res.Total, res.Skipped)
				}
				if len(res.GrantedNetworks) > 0 {
					fmt.Fprintf(w, "New: %s\n", strings.Join(res.GrantedNetworks, ", "))
				}
			})
		},
	}
}

// checkRow is one probe as printed by access check.
type checkRow struct {
	Name     string `json:"name"`
	Detail   string `json:"detail,omitempty"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
	OK       bool   `json:"ok"`
}

func (r *runner) accessCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe the read-only access endpoints",
		Long: `Probe the read-only access endpoints (list, stats, by client, by network)
and report the outcome and latency of each. Nothing is changed on the server.
Probing stops at the first authentication failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}

			results := mgr.Client().CheckAccessEndpoints(cmd.Context())
			rows := make([]checkRow, 0, len(results))
			failed := 0
			for _, res := range results {
				row := checkRow{
					Name:     res.Name,
					Detail:   res.Detail,
					Duration: res.Duration.Round(time.Millisecond).String(),
					OK:       res.OK(),
				}
				if !res.OK() {
					row.Error = res.Err.Error()
					failed++
				}
				rows = append(rows, row)
			}

			err = r.render(rows, func(w io.Writer) {
				table := make([][]string, 0, len(rows))
				for _, row := range rows {
					status, detail := "ok", row.Detail
					if !row.OK {
						status, detail = "FAIL", truncate(row.Error, 60)
					}
					table = append(table, []string{row.Name, status, row.Duration, detail})
				}
				printTable(w, []string{"CHECK", "STATUS", "LATENCY", "DETAIL"}, table)
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(rows))
			}
			return nil
		},
	}
}
