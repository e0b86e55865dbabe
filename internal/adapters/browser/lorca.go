package browser

import (
	"context"
	"sync"

	"koralai-host/internal/app"

	"github.com/rs/zerolog"
	"github.com/zserge/lorca"
)

// lorcaWindow 借用本机 Chrome/Chromium 的 app 模式窗口，不需要 cgo。
type lorcaWindow struct {
	ui        lorca.UI
	log       zerolog.Logger
	closeOnce sync.Once
	closeErr  error
}

func newLorca(cfg app.Config, log zerolog.Logger) (Window, error) {
	if lorca.LocateChrome() == "" {
		return nil, ErrUnavailable
	}
	ui, err := lorca.New("", "", cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	return &lorcaWindow{ui: ui, log: log}, nil
}

func (l *lorcaWindow) NavigateFile(path string) error {
	return l.NavigateURL(FileURL(path))
}

func (l *lorcaWindow) NavigateURL(url string) error {
	l.log.Info().Str("url", url).Msg("navigate url")
	return l.ui.Load(url)
}

// Run 等待用户关闭 Chrome 窗口；ctx 取消时由我们关闭它。
func (l *lorcaWindow) Run(ctx context.Context) error {
	select {
	case <-l.ui.Done():
		return nil
	case <-ctx.Done():
		l.log.Info().Msg("shutdown requested, closing window")
		return l.Close()
	}
}

// Close 可重复调用，Chrome 进程只结束一次。
func (l *lorcaWindow) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.ui.Close()
	})
	return l.closeErr
}

func (l *lorcaWindow) Backend() string { return app.BackendLorca }
