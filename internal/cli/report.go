package cli

import (
	"fmt"

	"koralai-host/internal/adapters/settings"
	sqliteadapter "koralai-host/internal/adapters/store/sqlite"
	"koralai-host/internal/domain/model"
	"koralai-host/internal/services/diagreport"
	"koralai-host/internal/services/journalverify"
	"koralai-host/internal/services/startup"

	"github.com/spf13/cobra"
)

func newReportCmd(g *globalFlags) *cobra.Command {
	var (
		outPath string
		note    string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a diagnostic PDF (config, settings, startup target, journal)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			store := settings.NewStore(e.cfg.SettingsFile, e.cfg.DefaultHomepage, e.log)
			plan := (&startup.Launcher{Config: e.cfg, Settings: store, Log: e.log}).Plan()

			in := diagreport.Input{
				Config:         e.cfg,
				SettingsPath:   store.Path(),
				Settings:       plan.Settings,
				Target:         plan.Target,
				EntryPointPath: startup.EntryPointPath(e.cfg),
				Note:           note,
			}

			// 日志库打不开时报告照样生成，只是少了启动记录一节。
			if db, err := sqliteadapter.Open(ctx, e.cfg.JournalDB); err != nil {
				e.log.Warn().Err(err).Msg("launch journal unavailable for report")
			} else {
				defer db.Close()
				recs, err := sqliteadapter.NewStore(db).ListLaunches(ctx, 0)
				if err != nil {
					e.log.Warn().Err(err).Msg("list launches failed")
					recs = []model.LaunchRecord{}
				}
				res := journalverify.Verify(recs)
				in.Launches = recs
				in.Verify = &res
			}

			res, err := diagreport.Generate(ctx, in, outPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report written: %s\nsha256: %s\n", res.PDFPath, res.PDFSHA256)
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "data/reports/koralai-diagnostic.pdf", "output PDF path")
	cmd.Flags().StringVar(&note, "note", "", "free-form note printed in the report")
	return cmd
}
