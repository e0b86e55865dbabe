package startup

import (
	"fmt"
	"os"
	"path/filepath"

	"koralai-host/internal/app"
	"koralai-host/internal/domain/model"

	"github.com/rs/zerolog"
)

// Browser 是内嵌浏览器控件的最小边界：只能打开本地文件或 URL。
type Browser interface {
	NavigateFile(path string) error
	NavigateURL(url string) error
}

// FileExists 是 Resolve 默认使用的存在性检查，只认普通文件。
func FileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// EntryPointPath 把配置里的入口文件解析为绝对路径（相对工作目录）。
func EntryPointPath(cfg app.Config) string {
	abs, err := filepath.Abs(cfg.EntryPoint)
	if err != nil {
		return cfg.EntryPoint
	}
	return abs
}

// Homepage 返回设置里的 homepage；只有键缺失时才回退到配置默认值，空字符串照用。
func Homepage(cfg app.Config, doc model.Settings) string {
	if v, ok := doc.Homepage(); ok {
		return v
	}
	return cfg.DefaultHomepage
}

// Resolve 计算启动目标：
// 1) 本地入口文件存在：无条件优先，返回其绝对路径
// 2) 否则记录缺失并返回 homepage（用户值或内置默认）
//
// exists 为 nil 时使用 FileExists。
func Resolve(cfg app.Config, doc model.Settings, exists func(string) bool, log zerolog.Logger) model.Target {
	if exists == nil {
		exists = FileExists
	}

	entry := EntryPointPath(cfg)
	if exists(entry) {
		log.Info().Str("path", entry).Msg("loading local ui")
		return model.Target{Kind: model.TargetLocalFile, Value: entry}
	}

	home := Homepage(cfg, doc)
	log.Warn().Str("entry_point", cfg.EntryPoint).Msg("local ui entry point not found")
	log.Info().Str("url", home).Msg("loading fallback homepage")
	return model.Target{Kind: model.TargetURL, Value: home}
}

// Navigate 把目标分派给浏览器控件。
func Navigate(b Browser, t model.Target) error {
	switch t.Kind {
	case model.TargetLocalFile:
		return b.NavigateFile(t.Value)
	case model.TargetURL:
		return b.NavigateURL(t.Value)
	default:
		return fmt.Errorf("unknown target kind: %q", t.Kind)
	}
}
