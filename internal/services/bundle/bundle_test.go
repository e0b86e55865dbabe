package bundle

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func TestWrite_RoundTripWithEntryPoint(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(entry, []byte("<html>ui</html>"), 0o644))

	appDir := filepath.Join(dir, "Koralai.app")
	res, err := Write(appDir, Meta{BundleID: "io.koralai.host", Version: "0.2.0", Executable: "koralai"}, entry)
	require.NoError(t, err)
	require.FileExists(t, res.InfoPlist)

	copied, err := os.ReadFile(res.EntryPoint)
	require.NoError(t, err)
	require.Equal(t, "<html>ui</html>", string(copied))

	info, err := ReadInfo(appDir)
	require.NoError(t, err)
	require.Equal(t, "Koralai", info.CFBundleName)
	require.Equal(t, "io.koralai.host", info.CFBundleIdentifier)
	require.Equal(t, "0.2.0", info.CFBundleShortVersionString)
	require.Equal(t, "APPL", info.CFBundlePackageType)
	require.True(t, info.NSHighResolutionCapable)
}

func TestWrite_MissingEntryPointIsSkipped(t *testing.T) {
	appDir := filepath.Join(t.TempDir(), "Koralai.app")
	res, err := Write(appDir, Meta{Name: "Koralai", BundleID: "io.koralai.host"}, filepath.Join(appDir, "nope.html"))
	require.NoError(t, err)
	require.Empty(t, res.EntryPoint)

	info, err := ReadInfo(appDir)
	require.NoError(t, err)
	require.Equal(t, "0.0.0", info.CFBundleVersion)
}

func TestWrite_RequiresBundleID(t *testing.T) {
	_, err := Write(filepath.Join(t.TempDir(), "X.app"), Meta{}, "")
	require.Error(t, err)
}

func TestReadInfo_BinaryPlist(t *testing.T) {
	appDir := filepath.Join(t.TempDir(), "Bin.app")
	require.NoError(t, os.MkdirAll(filepath.Join(appDir, "Contents"), 0o755))

	raw, err := plist.Marshal(Info{CFBundleName: "Bin", CFBundleIdentifier: "io.bin"}, plist.BinaryFormat)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "Contents", "Info.plist"), raw, 0o644))

	info, err := ReadInfo(appDir)
	require.NoError(t, err)
	require.Equal(t, "io.bin", info.CFBundleIdentifier)
}

func TestWrite_CopiesExecutable(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "koralai-bin")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o644))

	appDir := filepath.Join(dir, "Koralai.app")
	res, err := Write(appDir, Meta{BundleID: "io.koralai.host", Executable: "koralai", ExecutableSource: bin}, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(appDir, "Contents", "MacOS", "koralai"), res.Executable)

	st, err := os.Stat(res.Executable)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o755), st.Mode().Perm())
	}

	info, err := ReadInfo(appDir)
	require.NoError(t, err)
	require.Equal(t, "koralai", info.CFBundleExecutable)
}

func TestWrite_ExecutableSourceNeedsName(t *testing.T) {
	_, err := Write(filepath.Join(t.TempDir(), "X.app"), Meta{BundleID: "io.x", ExecutableSource: "/bin/true"}, "")
	require.ErrorContains(t, err, "executable name")
}

func TestEntryPointFor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix paths only")
	}
	app := filepath.Join(string(filepath.Separator), "Applications", "Koralai.app")
	exe := filepath.Join(app, "Contents", "MacOS", "koralai")

	require.Equal(t, filepath.Join(app, "Contents", "Resources", "index.html"), EntryPointFor(exe, "index.html"))
	require.Equal(t, filepath.Join(app, "Contents", "Resources", "index.html"), EntryPointFor(exe, filepath.Join("web", "index.html")))

	require.Empty(t, EntryPointFor(filepath.Join(string(filepath.Separator), "usr", "local", "bin", "koralai"), "index.html"))
	require.Empty(t, EntryPointFor(exe, filepath.Join(string(filepath.Separator), "opt", "index.html")))
	require.Empty(t, EntryPointFor("", "index.html"))
}
