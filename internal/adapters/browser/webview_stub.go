//go:build !cgo || !(darwin || windows || webview)

package browser

import (
	"fmt"

	"koralai-host/internal/app"

	"github.com/rs/zerolog"
)

func newWebView(app.Config, zerolog.Logger) (Window, error) {
	return nil, fmt.Errorf("%w: native webview not compiled in (needs cgo; on linux build with -tags webview)", ErrUnavailable)
}
