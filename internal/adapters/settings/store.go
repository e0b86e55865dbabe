package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"koralai-host/internal/domain/model"
	"koralai-host/internal/platform/logging"

	"github.com/rs/zerolog"
)

// Store 负责设置文档的加载、首次初始化与保存。
//
// 错误策略：加载路径上的任何失败都只记日志，不向调用方抛出；
// 调用方拿到的永远是一个可用的映射（可能为空，需要自行回退默认值）。
type Store struct {
	path            string
	defaultHomepage string
	log             zerolog.Logger
}

func NewStore(path, defaultHomepage string, log zerolog.Logger) *Store {
	return &Store{
		path:            path,
		defaultHomepage: defaultHomepage,
		log:             logging.Component(log, "settings"),
	}
}

// Path 返回设置文件路径。
func (s *Store) Path() string {
	return s.path
}

// ErrCorrupt 表示设置文件存在但内容无法解析为 string -> string 对象。
var ErrCorrupt = errors.New("settings file is corrupt")

// Load 读取设置文档：
// - 文件不存在：写入 {homepage: 默认首页} 并返回它（写入失败也照样返回该文档）
// - 文件可解析为 JSON 对象：原样返回，不写盘
// - 文件损坏/不可读：记日志并返回空映射（不是默认文档）
func (s *Store) Load() model.Settings {
	doc, err := s.Read()
	switch {
	case err == nil:
		return doc
	case errors.Is(err, os.ErrNotExist):
		doc = model.Settings{model.KeyHomepage: s.defaultHomepage}
		s.log.Info().Str("path", s.path).Msg("settings file not found, creating defaults")
		_ = s.Save(doc)
		return doc
	case errors.Is(err, ErrCorrupt):
		s.log.Warn().Err(err).Str("path", s.path).Msg("could not parse settings, using defaults")
	default:
		s.log.Warn().Err(err).Str("path", s.path).Msg("could not read settings, using defaults")
	}
	return model.Settings{}
}

// Read 只读取并解析，不回退、不写盘。
// 文件不存在时错误满足 errors.Is(err, os.ErrNotExist)，内容损坏时满足 errors.Is(err, ErrCorrupt)。
func (s *Store) Read() (model.Settings, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	doc, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return doc, nil
}

// Save 整体覆盖写入设置文档（4 空格缩进）。
// 失败时记日志并返回错误；Load 内部调用时忽略该错误，内存中的文档仍然有效。
func (s *Store) Save(doc model.Settings) error {
	err := s.write(doc)
	if err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("could not save settings")
	}
	return err
}

func (s *Store) write(doc model.Settings) error {
	if doc == nil {
		doc = model.Settings{}
	}
	// URL 里的 & 不转义成 \u0026，保持文件可读
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	raw := bytes.TrimRight(buf.Bytes(), "\n")
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// decode 只接受 string -> string 的 JSON 对象；null 视为空对象。
func decode(raw []byte) (model.Settings, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("settings file is empty")
	}
	var doc model.Settings
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = model.Settings{}
	}
	return doc, nil
}
