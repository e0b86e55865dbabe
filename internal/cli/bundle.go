package cli

import (
	"fmt"
	"os"

	"koralai-host/internal/app"
	"koralai-host/internal/services/bundle"
	"koralai-host/internal/services/startup"

	"github.com/spf13/cobra"
)

func newBundleCmd(g *globalFlags) *cobra.Command {
	var (
		outDir   string
		bundleID string
		binary   string
	)
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Write a macOS .app (Info.plist, executable, bundled UI entry point)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}
			if binary == "" {
				if binary, err = os.Executable(); err != nil {
					return fmt.Errorf("locate executable: %w", err)
				}
			}
			res, err := bundle.Write(outDir, bundle.Meta{
				Name:             e.cfg.AppName,
				BundleID:         bundleID,
				Version:          app.Version,
				Executable:       "koralai",
				ExecutableSource: binary,
			}, startup.EntryPointPath(e.cfg))
			if err != nil {
				return err
			}
			info, err := bundle.ReadInfo(outDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "info.plist: %s (%s %s)\n", res.InfoPlist, info.CFBundleIdentifier, info.CFBundleShortVersionString)
			fmt.Fprintf(out, "executable: %s\n", res.Executable)
			if res.EntryPoint == "" {
				e.log.Warn().Str("entry_point", e.cfg.EntryPoint).Msg("entry point not found, bundle has no local ui")
			} else {
				fmt.Fprintf(out, "entry point: %s\n", res.EntryPoint)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "dist/Koralai.app", "bundle directory")
	cmd.Flags().StringVar(&bundleID, "bundle-id", "io.koralai.host", "CFBundleIdentifier")
	cmd.Flags().StringVar(&binary, "binary", "", "executable to place in Contents/MacOS (default: this binary)")
	return cmd
}
