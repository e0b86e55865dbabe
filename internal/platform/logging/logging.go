package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New 创建带时间戳的 zerolog 日志器；level 无法识别时回退到 info。
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// NewConsole 人类可读格式，w 为 nil 时写 stderr；桌面宿主默认使用它。
func NewConsole(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}, level)
}

// Component 派生一个带 component 字段的子日志器。
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
