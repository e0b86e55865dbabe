package bundle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

// Meta 描述写入 Info.plist 的应用元数据。
type Meta struct {
	Name       string
	BundleID   string
	Version    string
	Executable string
	// ExecutableSource 为可执行文件来源路径，非空时拷贝到 Contents/MacOS/<Executable>。
	ExecutableSource string
}

// Info 是 Info.plist 中我们关心的字段。
type Info struct {
	CFBundleName               string `plist:"CFBundleName"`
	CFBundleDisplayName        string `plist:"CFBundleDisplayName"`
	CFBundleIdentifier         string `plist:"CFBundleIdentifier"`
	CFBundleShortVersionString string `plist:"CFBundleShortVersionString"`
	CFBundleVersion            string `plist:"CFBundleVersion"`
	CFBundleExecutable         string `plist:"CFBundleExecutable,omitempty"`
	CFBundlePackageType        string `plist:"CFBundlePackageType"`
	NSHighResolutionCapable    bool   `plist:"NSHighResolutionCapable"`
}

// Result 记录 Write 产出的文件。
type Result struct {
	InfoPlist  string
	EntryPoint string // 拷贝进 Resources 的入口文件，未拷贝时为空
	Executable string // 拷贝进 MacOS 的可执行文件，未拷贝时为空
}

// Write 在 appDir 下生成 macOS .app 骨架：
// - Contents/Info.plist（XML 格式）
// - Contents/Resources/<entry point>，仅当入口文件存在时拷贝
// - Contents/MacOS/<Executable>，仅当给出 ExecutableSource 时拷贝
func Write(appDir string, meta Meta, entryPoint string) (*Result, error) {
	appDir = strings.TrimSpace(appDir)
	if appDir == "" {
		return nil, errors.New("bundle dir is required")
	}
	if strings.TrimSpace(meta.BundleID) == "" {
		return nil, errors.New("bundle id is required")
	}
	if strings.TrimSpace(meta.Name) == "" {
		meta.Name = filepath.Base(strings.TrimSuffix(appDir, ".app"))
	}
	if strings.TrimSpace(meta.Version) == "" {
		meta.Version = "0.0.0"
	}
	if strings.TrimSpace(meta.ExecutableSource) != "" && strings.TrimSpace(meta.Executable) == "" {
		return nil, errors.New("executable name is required when a binary is bundled")
	}

	contents := filepath.Join(appDir, "Contents")
	resources := filepath.Join(contents, "Resources")
	if err := os.MkdirAll(resources, 0o755); err != nil {
		return nil, fmt.Errorf("create bundle dirs: %w", err)
	}

	info := Info{
		CFBundleName:               meta.Name,
		CFBundleDisplayName:        meta.Name,
		CFBundleIdentifier:         meta.BundleID,
		CFBundleShortVersionString: meta.Version,
		CFBundleVersion:            meta.Version,
		CFBundleExecutable:         meta.Executable,
		CFBundlePackageType:        "APPL",
		NSHighResolutionCapable:    true,
	}
	raw, err := plist.MarshalIndent(info, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("encode info.plist: %w", err)
	}
	res := &Result{InfoPlist: filepath.Join(contents, "Info.plist")}
	if err := os.WriteFile(res.InfoPlist, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write info.plist: %w", err)
	}

	if strings.TrimSpace(entryPoint) != "" {
		st, err := os.Stat(entryPoint)
		if err == nil && !st.IsDir() {
			dst := filepath.Join(resources, filepath.Base(entryPoint))
			if err := copyFile(entryPoint, dst); err != nil {
				return nil, fmt.Errorf("copy entry point: %w", err)
			}
			res.EntryPoint = dst
		}
	}

	if src := strings.TrimSpace(meta.ExecutableSource); src != "" {
		macos := filepath.Join(contents, "MacOS")
		if err := os.MkdirAll(macos, 0o755); err != nil {
			return nil, fmt.Errorf("create bundle dirs: %w", err)
		}
		dst := filepath.Join(macos, meta.Executable)
		if err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("copy executable: %w", err)
		}
		if err := os.Chmod(dst, 0o755); err != nil {
			return nil, fmt.Errorf("chmod executable: %w", err)
		}
		res.Executable = dst
	}

	return res, nil
}

// EntryPointFor 在可执行文件位于 <X>.app/Contents/MacOS 下时，
// 返回 Contents/Resources 里对应的入口文件路径；不在 bundle 内或入口是绝对路径时返回空串。
func EntryPointFor(exePath, entryPoint string) string {
	if exePath == "" || entryPoint == "" || filepath.IsAbs(entryPoint) {
		return ""
	}
	macos := filepath.Dir(filepath.Clean(exePath))
	contents := filepath.Dir(macos)
	if filepath.Base(macos) != "MacOS" || filepath.Base(contents) != "Contents" ||
		!strings.HasSuffix(filepath.Dir(contents), ".app") {
		return ""
	}
	return filepath.Join(contents, "Resources", filepath.Base(entryPoint))
}

// ReadInfo 读取 .app 的 Info.plist（XML 或二进制 plist 均可）。
func ReadInfo(appDir string) (*Info, error) {
	raw, err := os.ReadFile(filepath.Join(appDir, "Contents", "Info.plist"))
	if err != nil {
		return nil, fmt.Errorf("read info.plist: %w", err)
	}
	var info Info
	if _, err := plist.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("parse info.plist: %w", err)
	}
	return &info, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
