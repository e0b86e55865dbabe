package model

// KeyHomepage 是设置文档中首页地址的键名。
const KeyHomepage = "homepage"

// Settings 表示持久化的用户设置文档（扁平的 string -> string 映射）。
//
// 约定：对外返回的 Settings 永远不为 nil；加载失败时退化为空映射。
// 不做 schema 校验，未知键原样保留。
type Settings map[string]string

// Homepage 返回 homepage 键的值；只有键不存在时 ok=false，空字符串原样返回。
func (s Settings) Homepage() (string, bool) {
	v, ok := s[KeyHomepage]
	return v, ok
}
