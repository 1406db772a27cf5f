package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/paraviz/internal/scene"
)

func script(n int) *scene.Script {
	s := &scene.Script{
		Title: "demo",
		FPS:   1000,
		Axes:  scene.Axes{TMin: 0, TMax: 1, YMin: -1, YMax: 1},
	}
	s.Stages = []scene.StageInfo{{Kind: scene.StageIteration, K: 2, First: 0, Count: n}}
	for i := 0; i < n; i++ {
		s.Frames = append(s.Frames, scene.Frame{Index: i, Stage: scene.StageIteration, K: 2, Subtitle: "step"})
	}
	return s
}

func TestPlayDrawsEveryFrame(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlayer(&buf, Options{Width: 20, Height: 4, Plain: true})
	if err := p.Play(context.Background(), script(5)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if n := strings.Count(out, clearScreen); n != 5 {
		t.Errorf("redraws = %d, want 5", n)
	}
	if !strings.HasPrefix(out, hideCursor) || !strings.HasSuffix(out, showCursor) {
		t.Error("cursor not hidden and restored")
	}
	if !strings.Contains(out, "[iteration k=2]") {
		t.Error("header is missing the stage")
	}
}

func TestPlayLoopsUntilCancelled(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlayer(&buf, Options{Width: 10, Height: 2, Plain: true, Loop: true})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	err := p.Play(ctx, script(3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if n := strings.Count(buf.String(), clearScreen); n <= 3 {
		t.Errorf("looping player drew only %d frames", n)
	}
}

func TestPlayEmptyScript(t *testing.T) {
	p := NewPlayer(&bytes.Buffer{}, Options{})
	if err := p.Play(context.Background(), &scene.Script{}); !errors.Is(err, scene.ErrEmptyRun) {
		t.Errorf("err = %v", err)
	}
}

func TestPlainHeaderHasNoStyling(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlayer(&buf, Options{Width: 10, Height: 2, Plain: true})
	if err := p.Play(context.Background(), script(1)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimPrefix(buf.String(), hideCursor+clearScreen), "\n")
	if want := "  demo  [iteration k=2]  t=0.00s"; lines[0] != want {
		t.Errorf("header = %q, want %q", lines[0], want)
	}
}
