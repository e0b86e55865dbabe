package startup

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"koralai-host/internal/adapters/settings"
	"koralai-host/internal/app"
	"koralai-host/internal/domain/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type call struct {
	kind  string
	value string
}

type recordingBrowser struct {
	calls []call
	err   error
}

func (b *recordingBrowser) NavigateFile(path string) error {
	b.calls = append(b.calls, call{"file", path})
	return b.err
}

func (b *recordingBrowser) NavigateURL(url string) error {
	b.calls = append(b.calls, call{"url", url})
	return b.err
}

type staticSettings model.Settings

func (s staticSettings) Load() model.Settings { return maps.Clone(model.Settings(s)) }

type fakeJournal struct {
	recs []model.LaunchRecord
	err  error
}

func (j *fakeJournal) AppendLaunch(_ context.Context, rec model.LaunchRecord) (model.LaunchRecord, error) {
	if j.err != nil {
		return model.LaunchRecord{}, j.err
	}
	rec.LaunchID = "launch_test"
	rec.ChainHash = rec.ComputeChainHash("")
	j.recs = append(j.recs, rec)
	return rec, nil
}

func testConfig(dir string) app.Config {
	cfg := app.DefaultConfig()
	cfg.EntryPoint = filepath.Join(dir, "index.html")
	cfg.SettingsFile = filepath.Join(dir, "koralai_settings.json")
	return cfg
}

func always(v bool) func(string) bool {
	return func(string) bool { return v }
}

func TestResolve_LocalFileWinsOverHomepage(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	require.NoError(t, os.WriteFile(cfg.EntryPoint, []byte("<html></html>"), 0o644))

	got := Resolve(cfg, model.Settings{"homepage": "https://example.com"}, nil, zerolog.Nop())
	require.Equal(t, model.Target{Kind: model.TargetLocalFile, Value: cfg.EntryPoint}, got)
}

func TestResolve_MissingEntryUsesSavedHomepage(t *testing.T) {
	cfg := testConfig(t.TempDir())

	got := Resolve(cfg, model.Settings{"homepage": "https://example.com"}, nil, zerolog.Nop())
	require.Equal(t, model.Target{Kind: model.TargetURL, Value: "https://example.com"}, got)
}

func TestResolve_MissingHomepageKeyUsesDefault(t *testing.T) {
	cfg := testConfig(t.TempDir())

	got := Resolve(cfg, model.Settings{}, always(false), zerolog.Nop())
	require.Equal(t, model.Target{Kind: model.TargetURL, Value: cfg.DefaultHomepage}, got)

	got = Resolve(cfg, model.Settings{"theme": "dark"}, always(false), zerolog.Nop())
	require.Equal(t, cfg.DefaultHomepage, got.Value)
}

func TestResolve_EmptyHomepageIsKeptAsLoaded(t *testing.T) {
	cfg := testConfig(t.TempDir())

	got := Resolve(cfg, model.Settings{"homepage": ""}, always(false), zerolog.Nop())
	require.Equal(t, model.Target{Kind: model.TargetURL, Value: ""}, got)
}

func TestResolve_DirectoryIsNotAnEntryPoint(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	require.NoError(t, os.Mkdir(cfg.EntryPoint, 0o755))

	got := Resolve(cfg, model.Settings{}, nil, zerolog.Nop())
	require.Equal(t, model.TargetURL, got.Kind)
}

func TestResolve_RelativeEntryPointIsMadeAbsolute(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("index.html", []byte("x"), 0o644))

	cfg := app.DefaultConfig()
	got := Resolve(cfg, model.Settings{}, nil, zerolog.Nop())
	require.Equal(t, model.TargetLocalFile, got.Kind)
	require.True(t, filepath.IsAbs(got.Value))
	require.Equal(t, "index.html", filepath.Base(got.Value))
}

func TestNavigate_Dispatch(t *testing.T) {
	b := &recordingBrowser{}
	require.NoError(t, Navigate(b, model.Target{Kind: model.TargetLocalFile, Value: "/a/index.html"}))
	require.NoError(t, Navigate(b, model.Target{Kind: model.TargetURL, Value: "https://x.com"}))
	require.Equal(t, []call{{"file", "/a/index.html"}, {"url", "https://x.com"}}, b.calls)

	require.Error(t, Navigate(b, model.Target{Kind: "ftp", Value: "x"}))
}

func TestLauncherStart_FirstRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	store := settings.NewStore(cfg.SettingsFile, cfg.DefaultHomepage, zerolog.Nop())
	journal := &fakeJournal{}
	b := &recordingBrowser{}

	l := &Launcher{Config: cfg, Settings: store, Journal: journal, Backend: "system", Log: zerolog.Nop()}
	out, err := l.Start(context.Background(), b)
	require.NoError(t, err)

	require.Equal(t, model.Settings{"homepage": cfg.DefaultHomepage}, out.Settings)
	require.Equal(t, []call{{"url", cfg.DefaultHomepage}}, b.calls)
	require.FileExists(t, cfg.SettingsFile)

	require.Len(t, journal.recs, 1)
	require.NotNil(t, out.Launch)
	require.Equal(t, model.TargetURL, journal.recs[0].TargetKind)
	require.Equal(t, SettingsDigest(out.Settings), journal.recs[0].SettingsSHA256)
	require.Equal(t, "system", journal.recs[0].Backend)
}

func TestLauncherStart_LocalFile(t *testing.T) {
	cfg := testConfig(t.TempDir())
	b := &recordingBrowser{}

	l := &Launcher{
		Config:   cfg,
		Settings: staticSettings{"homepage": "https://example.com"},
		Exists:   always(true),
		Log:      zerolog.Nop(),
	}
	out, err := l.Start(context.Background(), b)
	require.NoError(t, err)
	require.Nil(t, out.Launch)
	require.Equal(t, []call{{"file", cfg.EntryPoint}}, b.calls)
}

func TestLauncherStart_JournalFailureDoesNotBlockNavigation(t *testing.T) {
	cfg := testConfig(t.TempDir())
	b := &recordingBrowser{}

	l := &Launcher{
		Config:   cfg,
		Settings: staticSettings{},
		Journal:  &fakeJournal{err: errors.New("disk full")},
		Exists:   always(false),
		Log:      zerolog.Nop(),
	}
	out, err := l.Start(context.Background(), b)
	require.NoError(t, err)
	require.Nil(t, out.Launch)
	require.Equal(t, []call{{"url", cfg.DefaultHomepage}}, b.calls)
}

func TestLauncherStart_NavigationErrorIsReturned(t *testing.T) {
	cfg := testConfig(t.TempDir())
	b := &recordingBrowser{err: errors.New("no display")}

	l := &Launcher{Config: cfg, Settings: staticSettings{}, Exists: always(false), Log: zerolog.Nop()}
	_, err := l.Start(context.Background(), b)
	require.ErrorContains(t, err, "no display")
}

func TestSettingsDigestIsOrderIndependent(t *testing.T) {
	a := model.Settings{"homepage": "https://x.com", "theme": "dark"}
	b := model.Settings{"theme": "dark", "homepage": "https://x.com"}
	require.Equal(t, SettingsDigest(a), SettingsDigest(b))
	require.NotEqual(t, SettingsDigest(a), SettingsDigest(model.Settings{}))
}
