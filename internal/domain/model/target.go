package model

// TargetKind 表示启动时要展示的目标类型。
type TargetKind string

const (
	// TargetLocalFile 本地 UI 入口文件（绝对路径）。
	TargetLocalFile TargetKind = "local_file"
	// TargetURL 远程地址（用户 homepage 或内置默认值）。
	TargetURL TargetKind = "url"
)

// Target 是启动解析的结果，不落盘，每次启动计算一次。
type Target struct {
	Kind  TargetKind `json:"kind"`
	Value string     `json:"value"`
}
