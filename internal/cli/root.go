package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"koralai-host/internal/app"
	"koralai-host/internal/platform/logging"
	"koralai-host/internal/services/bundle"
	"koralai-host/internal/services/startup"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

// env 是每条命令共享的运行时依赖，在命令执行时构造一次。
type env struct {
	cfg app.Config
	log zerolog.Logger
}

func (g *globalFlags) load(cmd *cobra.Command) (*env, error) {
	cfg, err := app.LoadConfig(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	e := &env{
		cfg: cfg,
		log: logging.NewConsole(cmd.ErrOrStderr(), cfg.LogLevel),
	}
	if exe, err := os.Executable(); err == nil {
		e.cfg = withBundledEntryPoint(e.cfg, exe, e.log)
	}
	return e, nil
}

// withBundledEntryPoint 处理从 .app 启动的情况：工作目录里找不到入口文件时
// （Finder 启动时工作目录是 /），改用 Contents/Resources 里随包分发的那一份。
func withBundledEntryPoint(cfg app.Config, exe string, log zerolog.Logger) app.Config {
	bundled := bundle.EntryPointFor(exe, cfg.EntryPoint)
	if bundled == "" || startup.FileExists(startup.EntryPointPath(cfg)) || !startup.FileExists(bundled) {
		return cfg
	}
	log.Debug().Str("entry_point", bundled).Msg("using entry point bundled with the app")
	cfg.EntryPoint = bundled
	return cfg
}

func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "koralai",
		Short:         "Desktop host window for the Koralai web UI",
		Long:          "Koralai opens a native window with an embedded browser and loads the local UI entry point, falling back to the saved homepage.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}
			return runHost(cmd.Context(), e, false)
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "koralai.yaml", "optional YAML config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level override (debug|info|warn|error)")

	root.AddCommand(
		newRunCmd(g),
		newResolveCmd(g),
		newSettingsCmd(g),
		newHistoryCmd(g),
		newReportCmd(g),
		newBundleCmd(g),
	)

	root.Version = app.Version
	root.SetVersionTemplate(fmt.Sprintf("koralai %s (%s)\n", app.Version, app.Commit))

	return root
}

// Execute 是进程入口；Ctrl+C / SIGTERM 会取消命令的 context。
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
