package cli

import (
	"context"
	"database/sql"

	"koralai-host/internal/adapters/browser"
	"koralai-host/internal/adapters/settings"
	sqliteadapter "koralai-host/internal/adapters/store/sqlite"
	"koralai-host/internal/platform/logging"
	"koralai-host/internal/services/startup"

	"github.com/spf13/cobra"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	var noJournal bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the host window (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd)
			if err != nil {
				return err
			}
			return runHost(cmd.Context(), e, noJournal)
		},
	}
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "do not record this launch in the journal")
	return cmd
}

// runHost 是桌面宿主的启动顺序：
// 设置 -> 启动日志（可选，失败不阻塞）-> 浏览器后端 -> 导航 -> 事件循环。
func runHost(ctx context.Context, e *env, noJournal bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	l := &startup.Launcher{
		Config:   e.cfg,
		Settings: settings.NewStore(e.cfg.SettingsFile, e.cfg.DefaultHomepage, e.log),
		Log:      logging.Component(e.log, "startup"),
	}

	if !noJournal {
		db, err := sqliteadapter.Open(ctx, e.cfg.JournalDB)
		if err != nil {
			e.log.Warn().Err(err).Str("path", e.cfg.JournalDB).Msg("launch journal unavailable")
		} else {
			defer closeDB(db)
			l.Journal = sqliteadapter.NewStore(db)
		}
	}

	w, err := browser.Open(e.cfg, e.log)
	if err != nil {
		return err
	}
	defer w.Close()
	l.Backend = w.Backend()

	if _, err := l.Start(ctx, w); err != nil {
		return err
	}
	// Run 会监听 ctx：Ctrl+C / SIGTERM 取消时关闭窗口，进程随之退出
	return w.Run(ctx)
}

func closeDB(db *sql.DB) {
	_ = db.Close()
}
