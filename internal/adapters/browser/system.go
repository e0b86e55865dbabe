package browser

import (
	"context"

	"koralai-host/internal/app"

	"github.com/rs/zerolog"
	"github.com/skratchdot/open-golang/open"
)

// systemWindow 把目标交给系统默认浏览器，最后的兜底方案。
// 没有窗口生命周期可言：Run 立即返回。
type systemWindow struct {
	log     zerolog.Logger
	openURL func(string) error
}

func newSystem(_ app.Config, log zerolog.Logger) (Window, error) {
	return &systemWindow{log: log, openURL: open.Start}, nil
}

func (s *systemWindow) NavigateFile(path string) error {
	return s.NavigateURL(FileURL(path))
}

func (s *systemWindow) NavigateURL(url string) error {
	s.log.Info().Str("url", url).Msg("open in system browser")
	// 浏览器是否真正打开不影响宿主进程。
	return s.openURL(url)
}

func (s *systemWindow) Run(context.Context) error { return nil }

func (s *systemWindow) Close() error { return nil }

func (s *systemWindow) Backend() string { return app.BackendSystem }
