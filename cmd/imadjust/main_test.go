package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/imadjust/pkg/codec"
	"github.com/JaimeStill/imadjust/pkg/levels"
)

func setupFolders(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	t.Chdir(root)

	in := filepath.Join(root, "in")
	if err := os.MkdirAll(in, 0755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}

	buf, err := levels.NewBuffer(4, 4, 3, levels.Depth8)
	if err != nil {
		t.Fatalf("NewBuffer() failed: %v", err)
	}
	for i := range buf.Pix {
		buf.Pix[i] = float64(i * 5 % 256)
	}
	for _, name := range []string{"a.tiff", "b.tiff"} {
		if err := codec.Encode(buf, filepath.Join(in, name)); err != nil {
			t.Fatalf("Encode(%s) failed: %v", name, err)
		}
	}

	return in, filepath.Join(root, "out")
}

func outputs(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s) failed: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_Success(t *testing.T) {
	in, out := setupFolders(t)

	code := run([]string{"-input", in, "-output", out, "-log-level", "error"}, io.Discard)
	if code != exitOK {
		t.Fatalf("run() = %d, want %d", code, exitOK)
	}

	got := outputs(t, out)
	if want := []string{"a.tiff", "b.tiff"}; !slices.Equal(got, want) {
		t.Errorf("outputs = %v, want %v", got, want)
	}
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name   string
		strict bool
		want   int
	}{
		{"lenient", false, exitOK},
		{"strict", true, exitFailures},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := setupFolders(t)
			if err := os.WriteFile(filepath.Join(in, "c.tiff"), []byte("not a tiff"), 0644); err != nil {
				t.Fatalf("WriteFile() failed: %v", err)
			}

			args := []string{"-input", in, "-output", out, "-log-level", "error"}
			if tt.strict {
				args = append(args, "-strict")
			}

			if code := run(args, io.Discard); code != tt.want {
				t.Errorf("run() = %d, want %d", code, tt.want)
			}

			got := outputs(t, out)
			if want := []string{"a.tiff", "b.tiff"}; !slices.Equal(got, want) {
				t.Errorf("outputs = %v, want %v", got, want)
			}
		})
	}
}

func TestRun_InvalidAdjustment(t *testing.T) {
	in, out := setupFolders(t)

	code := run([]string{"-input", in, "-output", out, "-low-in", "0.9", "-high-in", "0.1"}, io.Discard)
	if code != exitFatal {
		t.Fatalf("run() = %d, want %d", code, exitFatal)
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output folder exists after rejected adjustment: %v", err)
	}
}

func TestRun_MissingConfig(t *testing.T) {
	in, out := setupFolders(t)

	var stdout bytes.Buffer
	code := run([]string{"-config", "missing.toml", "-input", in, "-output", out}, &stdout)
	if code != exitFatal {
		t.Errorf("run() = %d, want %d", code, exitFatal)
	}
	if !strings.Contains(stdout.String(), "config load failed") {
		t.Errorf("stdout = %q, want config load diagnostic", stdout.String())
	}
}

func TestRun_ConfigFile(t *testing.T) {
	in, out := setupFolders(t)

	data := "[batch]\n" +
		"input_folder = " + quote(in) + "\n" +
		"output_folder = " + quote(out) + "\n" +
		"input_file_pattern = \"a.*\"\n\n" +
		"[logging]\nlevel = \"error\"\n"
	if err := os.WriteFile("config.toml", []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if code := run(nil, io.Discard); code != exitOK {
		t.Fatalf("run() = %d, want %d", code, exitOK)
	}

	got := outputs(t, out)
	if want := []string{"a.tiff"}; !slices.Equal(got, want) {
		t.Errorf("outputs = %v, want %v", got, want)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	var stdout bytes.Buffer
	if code := run([]string{"-bogus"}, &stdout); code != exitUsage {
		t.Errorf("run() = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(stdout.String(), "-bogus") {
		t.Errorf("stdout = %q, want flag error", stdout.String())
	}
}

func quote(s string) string {
	return "'" + s + "'"
}
