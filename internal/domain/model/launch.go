package model

import (
	"strconv"

	"koralai-host/internal/platform/hash"
)

// LaunchRecord 表示一次启动留痕（launches 表）。
// chain_hash 把相邻记录串起来，用于发现被改写或删除的历史。
type LaunchRecord struct {
	LaunchID       string     `json:"launch_id"`
	TargetKind     TargetKind `json:"target_kind"`
	Target         string     `json:"target"`
	Homepage       string     `json:"homepage,omitempty"`
	EntryPoint     string     `json:"entry_point"`
	Backend        string     `json:"backend,omitempty"`
	SettingsSHA256 string     `json:"settings_sha256"`
	AppVersion     string     `json:"app_version,omitempty"`
	OccurredAt     int64      `json:"occurred_at"`
	ChainPrevHash  string     `json:"chain_prev_hash,omitempty"`
	ChainHash      string     `json:"chain_hash"`
}

// ComputeChainHash 按固定字段顺序计算链式哈希，覆盖除链字段以外的所有列。
// Store.AppendLaunch 与 journalverify 必须使用同一个公式。
func (r LaunchRecord) ComputeChainHash(prev string) string {
	return hash.Text(
		prev,
		r.LaunchID,
		string(r.TargetKind),
		r.Target,
		r.Homepage,
		r.EntryPoint,
		r.Backend,
		r.SettingsSHA256,
		r.AppVersion,
		strconv.FormatInt(r.OccurredAt, 10),
	)
}
