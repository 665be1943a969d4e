package pkgpackage

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssembleAPKWritesManifestAndAllABIs(t *testing.T) {
	dir := t.TempDir()
	arm64 := filepath.Join(dir, "arm64.so")
	armv7 := filepath.Join(dir, "armv7.so")
	require.NoError(t, os.WriteFile(arm64, []byte("arm64-object"), 0o644))
	require.NoError(t, os.WriteFile(armv7, []byte("armv7-object"), 0o644))

	out := t.TempDir()
	res, err := AssembleAPK("hello", map[string]string{
		"arm64-v8a":   arm64,
		"armeabi-v7a": armv7,
	}, map[string]string{"package": "com.example.hello"}, out)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, "hello.apk"), res.OutputPath)
	require.Empty(t, res.Warnings)

	zr, err := zip.OpenReader(res.OutputPath)
	require.NoError(t, err)
	defer zr.Close()

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	require.True(t, names["AndroidManifest.xml"])
	require.True(t, names["lib/arm64-v8a/libhello.so"])
	require.True(t, names["lib/armeabi-v7a/libhello.so"])
}

func TestAssembleAPKRequiresPackage(t *testing.T) {
	out := t.TempDir()
	_, err := AssembleAPK("hello", map[string]string{"arm64-v8a": "does-not-matter.so"}, map[string]string{}, out)
	require.Error(t, err)
}

func TestAssembleAPKRequiresABIOutputs(t *testing.T) {
	out := t.TempDir()
	_, err := AssembleAPK("hello", map[string]string{}, map[string]string{"package": "com.example.hello"}, out)
	require.Error(t, err)
}

func TestBundleEmscriptenWritesLauncherScripts(t *testing.T) {
	out := t.TempDir()
	res, err := BundleEmscripten("game", out, map[string]string{"port": "9000"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, "game.html"), res.OutputPath)

	sh, err := os.ReadFile(filepath.Join(out, "serve.sh"))
	require.NoError(t, err)
	require.Contains(t, string(sh), "9000")

	ps1, err := os.ReadFile(filepath.Join(out, "serve.ps1"))
	require.NoError(t, err)
	require.Contains(t, string(ps1), "9000")
}

func TestAssembleAppBundleLayout(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "hello")
	require.NoError(t, os.WriteFile(exe, []byte("binary"), 0o755))

	out := t.TempDir()
	res, err := AssembleAppBundle("hello", exe, out, map[string]string{"bundle_id": "com.example.hello"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, "hello.app"), res.OutputPath)

	data, err := os.ReadFile(filepath.Join(out, "hello.app", "Contents", "MacOS", "hello"))
	require.NoError(t, err)
	require.Equal(t, "binary", string(data))

	plist, err := os.ReadFile(filepath.Join(out, "hello.app", "Contents", "Info.plist"))
	require.NoError(t, err)
	require.Contains(t, string(plist), "com.example.hello")
}
