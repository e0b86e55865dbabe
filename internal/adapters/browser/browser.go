package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"koralai-host/internal/app"
	"koralai-host/internal/platform/logging"

	"github.com/rs/zerolog"
)

// Window 是一个可运行的浏览器宿主。
// NavigateFile / NavigateURL 满足 startup.Browser；
// Run 阻塞直到窗口关闭或 ctx 被取消（Ctrl+C / SIGTERM），取消时主动结束窗口。
type Window interface {
	NavigateFile(path string) error
	NavigateURL(url string) error
	Run(ctx context.Context) error
	Close() error
	Backend() string
}

// ErrUnavailable 表示当前构建/环境不支持该后端。
var ErrUnavailable = errors.New("browser backend unavailable")

type factory struct {
	name string
	open func(cfg app.Config, log zerolog.Logger) (Window, error)
}

// 按优先级排列：原生 WebView -> Chrome app 模式 -> 系统默认浏览器。
func factories() []factory {
	return []factory{
		{app.BackendWebView, newWebView},
		{app.BackendLorca, newLorca},
		{app.BackendSystem, newSystem},
	}
}

// Open 按 cfg.Backend 创建窗口；auto 时依次尝试，失败的后端记日志后跳过。
func Open(cfg app.Config, log zerolog.Logger) (Window, error) {
	log = logging.Component(log, "browser")

	var errs []error
	for _, f := range factories() {
		if cfg.Backend != app.BackendAuto && cfg.Backend != f.name {
			continue
		}
		w, err := f.open(cfg, log)
		if err == nil {
			log.Info().Str("backend", f.name).Msg("browser backend ready")
			return w, nil
		}
		log.Warn().Err(err).Str("backend", f.name).Msg("browser backend failed")
		errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("unknown browser backend: %s", cfg.Backend)
	}
	return nil, errors.Join(errs...)
}

// FileURL 把本地路径转换为 file:// URL（Windows 盘符路径补前导斜杠）。
func FileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
