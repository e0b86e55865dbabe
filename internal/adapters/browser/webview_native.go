//go:build cgo && (darwin || windows || webview)

package browser

import (
	"context"
	"runtime"

	"koralai-host/internal/app"

	"github.com/rs/zerolog"
	webview "github.com/webview/webview_go"
)

// webviewWindow 使用系统 WebView（WebKit/WebView2/WebKitGTK）渲染。
// 窗口必须在创建它的 OS 线程上运行事件循环。
type webviewWindow struct {
	w   webview.WebView
	log zerolog.Logger
}

func newWebView(cfg app.Config, log zerolog.Logger) (Window, error) {
	runtime.LockOSThread()

	w := webview.New(false)
	if w == nil {
		runtime.UnlockOSThread()
		return nil, ErrUnavailable
	}
	w.SetTitle(cfg.WindowTitle)
	w.SetSize(cfg.Width, cfg.Height, webview.HintNone)
	return &webviewWindow{w: w, log: log}, nil
}

func (v *webviewWindow) NavigateFile(path string) error {
	u := FileURL(path)
	v.log.Info().Str("url", u).Msg("navigate local file")
	v.w.Navigate(u)
	return nil
}

func (v *webviewWindow) NavigateURL(url string) error {
	v.log.Info().Str("url", url).Msg("navigate url")
	v.w.Navigate(url)
	return nil
}

// Run 阻塞在原生事件循环上；ctx 取消时把 Terminate 投递到 UI 线程。
func (v *webviewWindow) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return nil
	}
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			v.log.Info().Msg("shutdown requested, closing window")
			v.w.Dispatch(v.w.Terminate)
		case <-stop:
		}
	}()
	v.w.Run()
	return nil
}

func (v *webviewWindow) Close() error {
	v.w.Destroy()
	runtime.UnlockOSThread()
	return nil
}

func (v *webviewWindow) Backend() string { return app.BackendWebView }
