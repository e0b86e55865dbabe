package startup

import (
	"context"
	"encoding/json"

	"koralai-host/internal/app"
	"koralai-host/internal/domain/model"
	"koralai-host/internal/platform/hash"

	"github.com/rs/zerolog"
)

// SettingsLoader 是 Launcher 对设置存储的依赖。
type SettingsLoader interface {
	Load() model.Settings
}

// Journal 是启动留痕的依赖，nil 表示不留痕。
type Journal interface {
	AppendLaunch(ctx context.Context, rec model.LaunchRecord) (model.LaunchRecord, error)
}

// Launcher 串起启动流程：读设置 -> 解析目标 -> 留痕 -> 导航。
type Launcher struct {
	Config   app.Config
	Settings SettingsLoader
	Journal  Journal
	Exists   func(string) bool
	Backend  string
	Log      zerolog.Logger
}

// Outcome 是一次启动的结果。
type Outcome struct {
	Settings model.Settings
	Target   model.Target
	Launch   *model.LaunchRecord
}

// Plan 只做“读设置 + 解析”，不触碰浏览器，也不留痕。
func (l *Launcher) Plan() Outcome {
	doc := l.Settings.Load()
	return Outcome{
		Settings: doc,
		Target:   Resolve(l.Config, doc, l.Exists, l.Log),
	}
}

// Start 执行完整启动流程。
// 留痕失败只记日志，不阻塞导航；导航错误原样返回给调用方。
func (l *Launcher) Start(ctx context.Context, b Browser) (Outcome, error) {
	out := l.Plan()

	if l.Journal != nil {
		rec, err := l.Journal.AppendLaunch(ctx, model.LaunchRecord{
			TargetKind:     out.Target.Kind,
			Target:         out.Target.Value,
			Homepage:       Homepage(l.Config, out.Settings),
			EntryPoint:     EntryPointPath(l.Config),
			Backend:        l.Backend,
			SettingsSHA256: SettingsDigest(out.Settings),
			AppVersion:     app.Version,
		})
		if err != nil {
			l.Log.Warn().Err(err).Msg("could not record launch")
		} else {
			out.Launch = &rec
		}
	}

	if err := Navigate(b, out.Target); err != nil {
		return out, err
	}
	return out, nil
}

// SettingsDigest 对设置文档做稳定摘要（json.Marshal 对 map 键排序）。
func SettingsDigest(doc model.Settings) string {
	raw, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return hash.Bytes(raw)
}
