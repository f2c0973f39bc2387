package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type release struct {
	manifest string
	binary   []byte
}

func serveRelease(t *testing.T, r release) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/releases/manifest.yaml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(r.manifest))
	})
	mux.HandleFunc("/releases/card-gate", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(r.binary)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server.URL + "/releases/manifest.yaml"
}

func manifestFor(t *testing.T, version string, binary []byte) string {
	t.Helper()

	sum, err := Checksum(binary)
	require.NoError(t, err)

	return "version: " + version + "\nurl: card-gate\nchecksum: " + sum + "\n"
}

// TestParseManifest validates required fields.
func TestParseManifest(t *testing.T) {
	t.Parallel()

	_, err := ParseManifest([]byte("url: x\nchecksum: AAAA\n"))
	require.ErrorIs(t, err, errManifestVersion)

	_, err = ParseManifest([]byte("version: 1.0.0\nchecksum: AAAA\n"))
	require.ErrorIs(t, err, errManifestURL)

	_, err = ParseManifest([]byte("version: 1.0.0\nurl: x\n"))
	require.ErrorIs(t, err, errManifestSum)

	_, err = ParseManifest([]byte("version: one\nurl: x\nchecksum: AAAA\n"))
	require.Error(t, err)

	_, err = ParseManifest([]byte("version: 1.0.0\nurl: x\nchecksum: '***'\n"))
	require.Error(t, err)

	m, err := ParseManifest([]byte("version: 1.2.0\nurl: x\nchecksum: AAAA\n"))
	require.NoError(t, err)
	require.True(t, m.NewerThan("1.1.9"))
	require.False(t, m.NewerThan("1.2.0"))
	require.False(t, m.NewerThan("2.0.0"))
	require.True(t, m.NewerThan("dev"))
}

// TestRun_AppliesNewerRelease swaps the binary when the manifest is newer.
func TestRun_AppliesNewerRelease(t *testing.T) {
	t.Parallel()

	binary := []byte("#!/bin/sh\necho new\n")
	manifestURL := serveRelease(t, release{manifest: manifestFor(t, "0.2.0", binary), binary: binary})

	target := filepath.Join(t.TempDir(), "card-gate")
	require.NoError(t, os.WriteFile(target, []byte("old"), DefaultFileMode))

	u, err := New(manifestURL, target, "0.1.0")
	require.NoError(t, err)

	applied, err := u.Run(context.Background())
	require.NoError(t, err)
	require.True(t, applied)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, binary, got)

	sum, err := FileChecksum(target)
	require.NoError(t, err)

	want, err := Checksum(binary)
	require.NoError(t, err)
	require.Equal(t, want, sum)
}

// TestRun_SkipsSameVersion leaves the binary alone.
func TestRun_SkipsSameVersion(t *testing.T) {
	t.Parallel()

	binary := []byte("new")
	manifestURL := serveRelease(t, release{manifest: manifestFor(t, "0.1.0", binary), binary: binary})

	target := filepath.Join(t.TempDir(), "card-gate")
	require.NoError(t, os.WriteFile(target, []byte("old"), DefaultFileMode))

	u, err := New(manifestURL, target, "0.1.0")
	require.NoError(t, err)

	applied, err := u.Run(context.Background())
	require.NoError(t, err)
	require.False(t, applied)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "old", string(got))
}

// TestRun_RejectsChecksumMismatch keeps the old binary when the download is corrupt.
func TestRun_RejectsChecksumMismatch(t *testing.T) {
	t.Parallel()

	manifestURL := serveRelease(t, release{
		manifest: manifestFor(t, "0.2.0", []byte("expected")),
		binary:   []byte("tampered"),
	})

	target := filepath.Join(t.TempDir(), "card-gate")
	require.NoError(t, os.WriteFile(target, []byte("old"), DefaultFileMode))

	u, err := New(manifestURL, target, "0.1.0")
	require.NoError(t, err)

	_, err = u.Run(context.Background())
	require.Error(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "old", string(got))
}

// TestNew_Validates rejects missing settings.
func TestNew_Validates(t *testing.T) {
	t.Parallel()

	_, err := New("", "x", "1.0.0")
	require.ErrorIs(t, err, errNoManifestURL)

	_, err = New("http://x", "", "1.0.0")
	require.ErrorIs(t, err, errNoTargetBinary)

	_, err = New("http://x", "x", "")
	require.ErrorIs(t, err, errNoCurrentVersion)
}

// TestCheck_BadStatus reports a missing manifest.
func TestCheck_BadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	u, err := New(server.URL+"/manifest.yaml", "x", "1.0.0")
	require.NoError(t, err)

	_, _, err = u.Check(context.Background())
	require.ErrorIs(t, err, errBadHTTPStatus)
}

// TestExecute_OverrideURL replaces the target named on the command line.
func TestExecute_OverrideURL(t *testing.T) {
	t.Parallel()

	binary := []byte("#!/bin/sh\necho newest\n")
	manifestURL := serveRelease(t, release{manifest: manifestFor(t, "99.0.0", binary), binary: binary})

	target := filepath.Join(t.TempDir(), "card-gate")
	require.NoError(t, os.WriteFile(target, []byte("old"), DefaultFileMode))

	err := Execute(context.Background(), &Options{ManifestURL: manifestURL, Target: target})
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, binary, got)
}

// TestExecute_MissingConfig fails before touching anything.
func TestExecute_MissingConfig(t *testing.T) {
	t.Parallel()

	err := Execute(context.Background(), &Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
		Target:     filepath.Join(t.TempDir(), "card-gate"),
	})
	require.Error(t, err)
}
