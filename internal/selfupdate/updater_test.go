package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    platformAsset
		wantErr bool
	}{
		{"darwin amd64", "darwin", "amd64", platformAsset{"polyglot_Darwin_x86_64.tar.gz", "polyglot"}, false},
		{"darwin arm64", "darwin", "arm64", platformAsset{"polyglot_Darwin_arm64.tar.gz", "polyglot"}, false},
		{"linux amd64", "linux", "amd64", platformAsset{"polyglot_Linux_x86_64.tar.gz", "polyglot"}, false},
		{"linux arm64", "linux", "arm64", platformAsset{"polyglot_Linux_arm64.tar.gz", "polyglot"}, false},
		{"windows amd64", "windows", "amd64", platformAsset{"polyglot_Windows_x86_64.zip", "polyglot.exe"}, false},
		{"windows arm64", "windows", "arm64", platformAsset{}, true},
		{"linux 386", "linux", "386", platformAsset{}, true},
		{"unsupported os", "freebsd", "amd64", platformAsset{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assetFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "normal",
			input: "abc123  polyglot_Darwin_arm64.tar.gz\ndef456  polyglot_Linux_x86_64.tar.gz\n",
			want: map[string]string{
				"polyglot_Darwin_arm64.tar.gz": "abc123",
				"polyglot_Linux_x86_64.tar.gz": "def456",
			},
		},
		{
			name:  "binary mode and upper case",
			input: "ABC123 *polyglot_Windows_x86_64.zip",
			want:  map[string]string{"polyglot_Windows_x86_64.zip": "abc123"},
		},
		{
			name:  "empty",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "malformed lines skipped",
			input: "abc123  file.tar.gz\nbadline\n  \nfoo  bar  baz\nghi789  other.tar.gz\n",
			want: map[string]string{
				"file.tar.gz":  "abc123",
				"other.tar.gz": "ghi789",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseChecksums([]byte(tt.input))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello world")
	h := sha256.Sum256(data)
	correctHex := hex.EncodeToString(h[:])

	t.Run("match", func(t *testing.T) {
		assert.NoError(t, verifyChecksum(data, correctHex))
	})

	t.Run("mismatch", func(t *testing.T) {
		err := verifyChecksum(data, "0000000000000000000000000000000000000000000000000000000000000000")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrChecksum)
	})
}

func TestExtractBinary(t *testing.T) {
	binaryContent := []byte("#!/bin/sh\necho polyglot")
	unix := platformAsset{archive: "polyglot_Linux_x86_64.tar.gz", binary: "polyglot"}

	t.Run("tar.gz", func(t *testing.T) {
		archive := buildTarGz(t, "polyglot_1.2.0/polyglot", binaryContent)
		got, err := extractBinary(archive, unix)
		require.NoError(t, err)
		assert.Equal(t, binaryContent, got)
	})

	t.Run("zip", func(t *testing.T) {
		archive := buildZip(t, "polyglot.exe", binaryContent)
		got, err := extractBinary(archive, platformAsset{archive: "polyglot_Windows_x86_64.zip", binary: "polyglot.exe"})
		require.NoError(t, err)
		assert.Equal(t, binaryContent, got)
	})

	t.Run("missing binary", func(t *testing.T) {
		archive := buildTarGz(t, "README.md", binaryContent)
		_, err := extractBinary(archive, unix)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestApplyUpdate(t *testing.T) {
	t.Run("replace in place", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "polyglot")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

		require.NoError(t, applyUpdate([]byte("new-binary-content"), target, false))

		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, []byte("new-binary-content"), got)

		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file should be gone")
	})

	t.Run("move aside", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "polyglot.exe")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

		require.NoError(t, applyUpdate([]byte("new"), target, true))

		old, err := os.ReadFile(target + ".old")
		require.NoError(t, err)
		assert.Equal(t, []byte("old"), old)
	})

	t.Run("missing target", func(t *testing.T) {
		err := applyUpdate([]byte("new"), filepath.Join(t.TempDir(), "nope"), false)
		require.Error(t, err)
	})
}

func TestUpdate(t *testing.T) {
	binaryContent := []byte("new-polyglot-binary")
	archive := buildTarGz(t, "polyglot", binaryContent)
	archiveHash := sha256.Sum256(archive)
	archiveHex := hex.EncodeToString(archiveHash[:])

	t.Run("happy path", func(t *testing.T) {
		dir := t.TempDir()
		execPath := filepath.Join(dir, "polyglot")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))

		asset := "polyglot_Darwin_arm64.tar.gz"
		checksums := fmt.Sprintf("%s  %s\n", archiveHex, asset)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/repos/abhisek/polyglot/releases/latest":
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
			case r.URL.Path == fmt.Sprintf("/abhisek/polyglot/releases/download/v2.0.0/%s", asset):
				_, _ = w.Write(archive)
			case r.URL.Path == "/abhisek/polyglot/releases/download/v2.0.0/checksums.txt":
				_, _ = w.Write([]byte(checksums))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
			withPlatform("darwin", "arm64"),
		)

		var stages []string
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		// Verify binary was replaced.
		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, binaryContent, got)

		// Verify all stages were reported.
		assert.Equal(t, []string{StageCheck, StageDownload, StageVerify, StageExtract, StageApply, StageDone}, stages)
	})

	t.Run("dev build", func(t *testing.T) {
		checker := NewChecker()
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"tag_name":"v1.0.0","html_url":"https://example.com/v1.0.0"}`))
		}))
		defer server.Close()

		checker := NewChecker(WithBaseURL(server.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		asset := "polyglot_Darwin_arm64.tar.gz"
		checksums := fmt.Sprintf("%s  %s\n", "0000000000000000000000000000000000000000000000000000000000000000", asset)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/repos/abhisek/polyglot/releases/latest":
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
			case r.URL.Path == fmt.Sprintf("/abhisek/polyglot/releases/download/v2.0.0/%s", asset):
				_, _ = w.Write(archive)
			case r.URL.Path == "/abhisek/polyglot/releases/download/v2.0.0/checksums.txt":
				_, _ = w.Write([]byte(checksums))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withPlatform("darwin", "arm64"),
		)
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("download failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/repos/abhisek/polyglot/releases/latest":
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withPlatform("linux", "amd64"),
		)
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

func TestUpdate_PinnedVersion(t *testing.T) {
	binaryContent := []byte("pinned-binary")
	archive := buildTarGz(t, "polyglot", binaryContent)
	sum := sha256.Sum256(archive)
	asset := "polyglot_Linux_arm64.tar.gz"

	var sawLatest bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/abhisek/polyglot/releases/latest":
			sawLatest = true
		case "/abhisek/polyglot/releases/download/v1.5.0/" + asset:
			_, _ = w.Write(archive)
		case "/abhisek/polyglot/releases/download/v1.5.0/checksums.txt":
			_, _ = fmt.Fprintf(w, "%s  %s\n", hex.EncodeToString(sum[:]), asset)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	execPath := filepath.Join(t.TempDir(), "polyglot")
	require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))

	checker := NewChecker(
		WithBaseURL(server.URL),
		WithDownloadBaseURL(server.URL),
		withExecPath(func() (string, error) { return execPath, nil }),
		withPlatform("linux", "arm64"),
	)

	var stages []string
	err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v2.0.0", TargetVersion: "1.5.0"}, func(p UpdateProgress) {
		stages = append(stages, p.Stage)
	})
	require.NoError(t, err)
	assert.False(t, sawLatest, "pinned version should skip the latest-release lookup")
	assert.NotContains(t, stages, StageCheck)

	got, err := os.ReadFile(execPath)
	require.NoError(t, err)
	assert.Equal(t, binaryContent, got)
}

func TestUpdate_PinnedVersionErrors(t *testing.T) {
	checker := NewChecker()

	err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "latest-ish"}, func(UpdateProgress) {})
	assert.ErrorIs(t, err, ErrBadVersion)

	err = checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "1.0.0"}, func(UpdateProgress) {})
	assert.ErrorIs(t, err, ErrAlreadyLatest)
}

// buildZip creates a zip archive containing a single file.
func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// buildTarGz creates a tar.gz archive containing a single file.
func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name,
		Size: int64(len(content)),
		Mode: 0755,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/abhisek/polyglot/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"tag_name":"v1.4.0","html_url":"https://example.com/v1.4.0"}`))
	}))
	defer server.Close()

	tests := []struct {
		current string
		want    bool
	}{
		{"v1.3.9", true},
		{"1.3.0", true},
		{"v1.4.0", false},
		{"v2.0.0", false},
		{"(devel)", false},
	}
	checker := NewChecker(WithBaseURL(server.URL))
	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			got, err := checker.Check(context.Background(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, "v1.4.0", got.LatestVersion)
			assert.Equal(t, "https://example.com/v1.4.0", got.ReleaseURL)
			assert.Equal(t, tt.want, got.UpdateAvailable)
		})
	}
}

func TestCheck_BadTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"nightly"}`))
	}))
	defer server.Close()

	_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a semantic version")
}
