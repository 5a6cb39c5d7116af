package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AT-290690/gif-player/pkg/adapters/filesink"
	"github.com/AT-290690/gif-player/pkg/adapters/gifdecoder"
)

// writeFixture writes a 6x4 animation of five frames, each filled with its
// own colour.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()

	palette := color.Palette{
		color.RGBA{0x00, 0x00, 0x00, 0xff},
		color.RGBA{0xff, 0x00, 0x00, 0xff},
		color.RGBA{0x00, 0xff, 0x00, 0xff},
		color.RGBA{0x00, 0x00, 0xff, 0xff},
		color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
	var g gif.GIF
	for i := 0; i < 5; i++ {
		pm := image.NewPaletted(image.Rect(0, 0, 6, 4), palette)
		for j := range pm.Pix {
			pm.Pix[j] = uint8(i)
		}
		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, 5)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	g.Config = image.Config{ColorModel: palette, Width: 6, Height: 4}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, &g); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	path := filepath.Join(dir, "colours.gif")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"gifplayer"}, args...))
	return out.String(), err
}

// runUntil runs the app with a context that is cancelled after d.
func runUntil(t *testing.T, d time.Duration, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.RunContext(ctx, append([]string{"gifplayer"}, args...))
	return out.String(), err
}

func TestCut(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "clip.gif")

	if _, err := run(t, "--quiet", "cut", "--start", "3", "--end", "1", "-o", output, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("expected output file to be written: %v", err)
	}
	seq, err := gifdecoder.New().Decode(data)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if seq.Len() != 3 {
		t.Fatalf("expected 3 frames, got %d", seq.Len())
	}
	if seq.Width != 6 || seq.Height != 4 {
		t.Errorf("expected 6x4 canvas, got %dx%d", seq.Width, seq.Height)
	}
}

func TestCut_DefaultEnd(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "tail.gif")

	if _, err := run(t, "--quiet", "cut", "--start", "2", "-o", output, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("expected output file to be written: %v", err)
	}
	seq, err := gifdecoder.New().Decode(data)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if seq.Len() != 3 {
		t.Errorf("expected frames 2 to 4, got %d frames", seq.Len())
	}
}

func TestCut_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	text := filepath.Join(dir, "notes.txt")
	os.WriteFile(text, []byte("hello"), 0o644)
	fake := filepath.Join(dir, "fake.gif")
	os.WriteFile(fake, []byte("hello"), 0o644)

	tests := []struct {
		name string
		args []string
	}{
		{"out of range", []string{"--quiet", "cut", "--start", "0", "--end", "5", "-o", filepath.Join(dir, "x.gif"), input}},
		{"wrong extension", []string{"--quiet", "cut", "-o", filepath.Join(dir, "x.gif"), text}},
		{"not a gif", []string{"--quiet", "cut", "-o", filepath.Join(dir, "x.gif"), fake}},
		{"missing file", []string{"--quiet", "cut", "-o", filepath.Join(dir, "x.gif"), filepath.Join(dir, "missing.gif")}},
		{"no argument", []string{"--quiet", "cut", "-o", filepath.Join(dir, "x.gif")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "x.gif")); !os.IsNotExist(err) {
		t.Error("expected no output on error")
	}
}

func TestProbe(t *testing.T) {
	input := writeFixture(t, t.TempDir())

	out, err := run(t, "--quiet", "probe", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "GIF89a 6x4") {
		t.Errorf("expected header line, got:\n%s", out)
	}
	// Header, column titles and one row per frame.
	if lines := strings.Count(strings.TrimSpace(out), "\n") + 1; lines != 7 {
		t.Errorf("expected 7 lines, got %d:\n%s", lines, out)
	}
	// 50ms frames are played as declared.
	if !strings.Contains(out, "50ms") {
		t.Errorf("expected frame delays, got:\n%s", out)
	}
}

func TestProbe_MarkdownReport(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	report := filepath.Join(dir, "reports", "colours.md")

	out, err := run(t, "--quiet", "probe", "--format", "markdown", "--report", report, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	written, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("expected report file: %v", err)
	}
	if string(written) != out {
		t.Errorf("expected the printed and written reports to match")
	}
	if !strings.Contains(out, "| 4 | (0,0)-(6,4) | 50 ms | 50 ms |") {
		t.Errorf("expected markdown frame rows, got:\n%s", out)
	}
}

func TestProbe_UnknownFormat(t *testing.T) {
	input := writeFixture(t, t.TempDir())

	if _, err := run(t, "--quiet", "probe", "--format", "xml", input); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestFrames(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "frames")

	if _, err := run(t, "--quiet", "frames", "-o", output, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		path := filepath.Join(output, "colours", "frames", filesink.FrameFileName(i))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected frame %d to be written: %v", i, err)
		}
	}
}

func TestPlay(t *testing.T) {
	input := writeFixture(t, t.TempDir())

	out, err := run(t, "--quiet", "play", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "stopped at frame") && !strings.Contains(out, "フレーム") {
		t.Errorf("expected a playback report, got %q", out)
	}
}

func TestWatch_Existing(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a gif"), 0o644); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	out, err := runUntil(t, 300*time.Millisecond, "--quiet", "watch", "--existing", "--play", dir)
	if err != nil {
		t.Fatalf("expected a clean shutdown on cancel, got %v", err)
	}
	if !strings.Contains(out, "colours.gif (6x4, 5 ") {
		t.Errorf("expected the existing GIF to be loaded, got %q", out)
	}
	if n := strings.Count(out, "colours.gif"); n != 1 {
		t.Errorf("expected one loaded instance, got %d in %q", n, out)
	}
	if strings.Contains(out, "notes.txt") {
		t.Errorf("expected the stray file to be skipped, got %q", out)
	}
}

func TestWatch_Errors(t *testing.T) {
	_, err := run(t, "--quiet", "watch")
	if err == nil || !strings.Contains(err.Error(), "DIR") {
		t.Errorf("expected a usage error without DIR, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("expected output to contain version %q, got %q", version, out)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	cfgPath := filepath.Join(dir, "gifplayer.yaml")
	os.WriteFile(cfgPath, []byte("workers: 3\nflatten: false\n"), 0o644)
	output := filepath.Join(dir, "clip.gif")

	if _, err := run(t, "--quiet", "--config", cfgPath, "cut", "-o", output, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("workers: -3\n"), 0o644)
	if _, err := run(t, "--quiet", "--config", bad, "cut", "-o", output, input); err == nil {
		t.Error("expected error for invalid config")
	}
}
