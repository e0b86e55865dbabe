package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	sqliteadapter "koralai-host/internal/adapters/store/sqlite"
	"koralai-host/internal/services/journalverify"

	"github.com/spf13/cobra"
)

func newHistoryCmd(g *globalFlags) *cobra.Command {
	var (
		limit  int
		verify bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded launches from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			db, err := sqliteadapter.Open(ctx, e.cfg.JournalDB)
			if err != nil {
				return err
			}
			defer db.Close()
			store := sqliteadapter.NewStore(db)

			out := cmd.OutOrStdout()
			if verify {
				// 链校验必须从第一条开始
				all, err := store.ListLaunches(ctx, 0)
				if err != nil {
					return err
				}
				res := journalverify.Verify(all)
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
				if !res.OK {
					return fmt.Errorf("launch journal verification failed: %d record(s)", res.Failed)
				}
				return nil
			}

			recs, err := store.ListLaunches(ctx, limit)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(recs)
			}

			total, err := store.CountLaunches(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tKIND\tBACKEND\tTARGET")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					time.Unix(r.OccurredAt, 0).Format("2006-01-02 15:04:05"), r.TargetKind, dash(r.Backend), r.Target)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "(%d of %d launches)\n", len(recs), total)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of most recent launches (0 = all)")
	cmd.Flags().BoolVar(&verify, "verify", false, "verify the journal hash chain instead of listing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
