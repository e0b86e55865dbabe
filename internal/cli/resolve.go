package cli

import (
	"encoding/json"

	"koralai-host/internal/adapters/settings"
	"koralai-host/internal/platform/logging"
	"koralai-host/internal/services/startup"

	"github.com/spf13/cobra"
)

func newResolveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the startup target without opening a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}
			l := &startup.Launcher{
				Config:   e.cfg,
				Settings: settings.NewStore(e.cfg.SettingsFile, e.cfg.DefaultHomepage, e.log),
				Log:      logging.Component(e.log, "startup"),
			}
			out := l.Plan()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(out.Target)
		},
	}
}
