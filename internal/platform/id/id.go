package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// New 生成 prefix_毫秒时间戳_随机后缀 形式的 ID，例如 launch_1700000000000_a1b2c3d4e5f6。
// 本地单机场景足够唯一，也方便在日志里按时间排序阅读。
func New(prefix string) string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(buf))
}
