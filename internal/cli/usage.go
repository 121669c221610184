package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/j-veylop/aiconsole/internal/logger"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/version"
)

func (r *runner) logsCmd() *cobra.Command {
	var (
		page, size int
		filter     models.LogFilter
		clientID   string
		networkID  string
		success    bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show one page of request logs, newest first",
		Example: `  aiconsole logs
  aiconsole logs --page 2 --size 50
  aiconsole logs --client <client-id> --success=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			if page < 1 {
				return fmt.Errorf("--page starts at 1")
			}
			if size < 1 {
				size = r.cfg.LogsPageSize
			}
			if cmd.Flags().Changed("client") {
				filter.ClientID = &clientID
			}
			if cmd.Flags().Changed("network") {
				filter.NetworkID = &networkID
			}
			if cmd.Flags().Changed("success") {
				filter.Success = &success
			}

			result, err := mgr.Client().ListLogs(cmd.Context(), page-1, size, filter)
			if err != nil {
				return err
			}
			// Past the end: show the last page instead of an empty one.
			if last := models.ClampPage(page-1, result.TotalPages); last != page-1 {
				page = last + 1
				if result, err = mgr.Client().ListLogs(cmd.Context(), last, size, filter); err != nil {
					return err
				}
			}

			return r.render(result, func(w io.Writer) {
				if len(result.Content) == 0 {
					fmt.Fprintln(w, "No request logs.")
					return
				}
				rows := make([][]string, 0, len(result.Content))
				for _, l := range result.Content {
					status := "ok"
					if !l.Success {
						status = "FAIL"
					}
					tokens := "-"
					if l.TokensUsed != nil {
						tokens = humanize.Comma(*l.TokensUsed)
					}
					rows = append(rows, []string{
						l.CreatedAt.Format("2006-01-02 15:04:05"),
						l.ClientApplicationName,
						l.NeuralNetworkName,
						l.RequestType,
						status,
						tokens,
						truncate(l.Prompt, 40),
					})
				}
				printTable(w, []string{"TIME", "CLIENT", "NETWORK", "TYPE", "STATUS", "TOKENS", "PROMPT"}, rows)
				fmt.Fprintf(w, "Page %d of %d (%s logs)\n", page, max(result.TotalPages, 1), humanize.Comma(result.TotalElements))
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", 0, "logs per page (default LOGS_PAGE_SIZE)")
	cmd.Flags().StringVar(&clientID, "client", "", "only logs of this client id")
	cmd.Flags().StringVar(&networkID, "network", "", "only logs of this network id")
	cmd.Flags().BoolVar(&success, "success", false, "only successful (true) or failed (false) requests")
	return cmd
}

func (r *runner) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show gateway usage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := r.requireSession()
			if err != nil {
				return err
			}
			st, err := mgr.Client().GetStats(cmd.Context())
			if err != nil {
				return err
			}
			// Keeps the console trend chart fed by scripted runs too.
			if err := mgr.RecordStats(cmd.Context(), st); err != nil {
				logger.Warn("failed to record stats snapshot", "error", err)
			}

			return r.render(st, func(w io.Writer) {
				printFields(w, [][2]string{
					{"Requests", humanize.Comma(st.TotalRequests)},
					{"Successful", humanize.Comma(st.SuccessfulRequests)},
					{"Failed", humanize.Comma(st.FailedRequests)},
					{"Success rate", strconv.FormatFloat(st.SuccessRate(), 'f', 1, 64) + "%"},
					{"Tokens", humanize.Comma(st.TotalTokensUsed)},
					{"Cost", humanize.FormatFloat("#,###.##", float64(st.TotalCostRub)) + " RUB"},
				})
				printCounts(w, "NETWORK", st.RequestsByNetwork)
				printCounts(w, "CLIENT", st.RequestsByClient)
			})
		},
	}
}

func printCounts(w io.Writer, label string, m map[string]int64) {
	if len(m) == 0 {
		return
	}
	counts := models.SortedCounts(m)
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Name, humanize.Comma(c.Value)})
	}
	fmt.Fprintln(w)
	printTable(w, []string{label, "REQUESTS"}, rows)
}

func (r *runner) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(r.opts.Out, version.Info())
		},
	}
}
