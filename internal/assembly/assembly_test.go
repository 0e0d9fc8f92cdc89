package assembly

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/jackzampolin/reel/internal/api"
	"github.com/jackzampolin/reel/internal/home"
	"github.com/jackzampolin/reel/internal/providers"
)

// fakeRenderer is a Renderer that writes synthetic output files.
type fakeRenderer struct {
	probeDuration float64
	probeErr      error
	concatErr     error
	stillErr      error
	outputBytes   int

	mu          sync.Mutex
	concatCalls int
	stillCalls  int
}

func (f *fakeRenderer) ProbeDuration(ctx context.Context, path string) (float64, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return f.probeDuration, nil
}

func (f *fakeRenderer) writeOutput(path string) error {
	n := f.outputBytes
	if n == 0 {
		n = minOutputBytes * 2
	}
	return os.WriteFile(path, bytes.Repeat([]byte("v"), n), 0o644)
}

func (f *fakeRenderer) RenderConcat(ctx context.Context, clipPaths []string, audioPath string, audioDuration float64, outputPath string) error {
	f.mu.Lock()
	f.concatCalls++
	f.mu.Unlock()
	if f.concatErr != nil {
		return f.concatErr
	}
	return f.writeOutput(outputPath)
}

func (f *fakeRenderer) RenderStill(ctx context.Context, imagePath, audioPath, outputPath string) error {
	f.mu.Lock()
	f.stillCalls++
	f.mu.Unlock()
	if f.stillErr != nil {
		return f.stillErr
	}
	return f.writeOutput(outputPath)
}

func testHome(t *testing.T) *home.Dir {
	t.Helper()
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatal(err)
	}
	return h
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatusStorePersistsAcrossInstances(t *testing.T) {
	h := testHome(t)
	store := NewStatusStore(h, discardLogger())

	store.Update("v1", api.PhaseProcessing, 50, "Rendering video...", "")

	// A fresh store with empty memory falls back to the persisted file.
	fresh := NewStatusStore(h, discardLogger())
	st, ok := fresh.Get("v1")
	if !ok {
		t.Fatal("status not found via file fallback")
	}
	if st.Status != api.PhaseProcessing || st.Progress != 50 {
		t.Errorf("status = %+v", st)
	}
}

func TestStatusStoreComplete(t *testing.T) {
	h := testHome(t)
	store := NewStatusStore(h, discardLogger())

	store.Update("v1", api.PhaseProcessing, 95, "Finalizing video file...", "")
	store.Complete("v1", 73.5, 2_400_000, 3, h.VideoPath("v1"))

	st, ok := store.Get("v1")
	if !ok {
		t.Fatal("status not found")
	}
	if st.Status != api.PhaseCompleted || st.Progress != 100 {
		t.Errorf("status = %+v", st)
	}
	if st.DurationSeconds != 73.5 || st.FileSize != 2_400_000 || st.ClipsUsed != 3 {
		t.Errorf("metadata = %+v", st)
	}
}

func TestStatusStoreClearAll(t *testing.T) {
	h := testHome(t)
	store := NewStatusStore(h, discardLogger())
	store.Update("v1", api.PhaseFailed, 0, "", "boom")

	store.ClearAll()

	if _, ok := store.Get("v1"); ok {
		t.Error("status survived ClearAll")
	}
	if _, err := os.Stat(h.StatusPath("v1")); !os.IsNotExist(err) {
		t.Error("status file survived ClearAll")
	}
}

func TestRecoverOverridesFailedStatus(t *testing.T) {
	h := testHome(t)
	store := NewStatusStore(h, discardLogger())

	videoPath := h.VideoPath("v1")
	if err := os.WriteFile(videoPath, bytes.Repeat([]byte("v"), minRecoverableBytes), 0o644); err != nil {
		t.Fatal(err)
	}
	store.Update("v1", api.PhaseFailed, 0, "", "status file corrupted")

	st, _ := store.Get("v1")
	got := store.Recover(context.Background(), st, &fakeRenderer{probeDuration: 42}, videoPath)

	if got.Status != api.PhaseCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	if got.DurationSeconds != 42 {
		t.Errorf("duration = %v, want probed 42", got.DurationSeconds)
	}
	if got.FileSize != int64(minRecoverableBytes) {
		t.Errorf("file size = %d", got.FileSize)
	}
	if got.Error != "" {
		t.Errorf("error not cleared: %q", got.Error)
	}

	// The rewrite is persisted, not just returned.
	stored, _ := store.Get("v1")
	if stored.Status != api.PhaseCompleted {
		t.Error("recovered status not stored")
	}
}

func TestRecoverIgnoresSmallArtifacts(t *testing.T) {
	h := testHome(t)
	store := NewStatusStore(h, discardLogger())

	videoPath := h.VideoPath("v1")
	if err := os.WriteFile(videoPath, []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	store.Update("v1", api.PhaseFailed, 0, "", "render crashed")

	st, _ := store.Get("v1")
	got := store.Recover(context.Background(), st, &fakeRenderer{}, videoPath)

	if got.Status != api.PhaseFailed {
		t.Errorf("status = %s, want failed to stand", got.Status)
	}
}

func TestRecoverLeavesTerminalStatesAlone(t *testing.T) {
	h := testHome(t)
	store := NewStatusStore(h, discardLogger())

	videoPath := h.VideoPath("v1")
	if err := os.WriteFile(videoPath, bytes.Repeat([]byte("v"), minRecoverableBytes), 0o644); err != nil {
		t.Fatal(err)
	}
	store.Complete("v1", 30, 123, 2, videoPath)

	st, _ := store.Get("v1")
	got := store.Recover(context.Background(), st, &fakeRenderer{probeDuration: 99}, videoPath)

	if got.DurationSeconds != 30 {
		t.Errorf("completed status was rewritten: %+v", got)
	}
}

func runnerEnv(t *testing.T, renderer *fakeRenderer, stock providers.StockProvider) (*Runner, *home.Dir) {
	t.Helper()
	h := testHome(t)
	if err := os.WriteFile(h.ScriptPath("s1"), []byte("script"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(h.AudioPath("s1"), []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &Runner{
		Home:     h,
		Store:    NewStatusStore(h, discardLogger()),
		Stock:    stock,
		Renderer: renderer,
		Logger:   discardLogger(),
	}, h
}

func TestRunnerCompletesWithStockClips(t *testing.T) {
	renderer := &fakeRenderer{probeDuration: 12}
	stock := &providers.MockStockProvider{
		Clips: []providers.StockClip{
			{ID: 1, URL: "http://stock.test/1.mp4", DurationSeconds: 12},
			{ID: 2, URL: "http://stock.test/2.mp4", DurationSeconds: 12},
			{ID: 3, URL: "http://stock.test/3.mp4", DurationSeconds: 12},
		},
	}
	r, _ := runnerEnv(t, renderer, stock)

	var progress []int
	r.Store.SetWatcher(func(st api.JobStatus) {
		progress = append(progress, st.Progress)
	})

	r.Run(context.Background(), Job{VideoID: "v1", ScriptID: "s1", Topic: "nature"})

	st, ok := r.Store.Get("v1")
	if !ok {
		t.Fatal("no status recorded")
	}
	if st.Status != api.PhaseCompleted {
		t.Fatalf("status = %s (%s), want completed", st.Status, st.Error)
	}
	// Audio is 12s and the first clip covers it, so a single clip is used.
	if st.ClipsUsed != 1 {
		t.Errorf("clips used = %d, want 1", st.ClipsUsed)
	}
	if st.DurationSeconds != 12 {
		t.Errorf("duration = %v", st.DurationSeconds)
	}

	want := []int{10, 30, 50, 70, 80, 95, 100}
	if len(progress) != len(want) {
		t.Fatalf("progress milestones = %v, want %v", progress, want)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Fatalf("progress milestones = %v, want %v", progress, want)
		}
	}
}

func TestRunnerFallsBackToStillRender(t *testing.T) {
	renderer := &fakeRenderer{probeDuration: 12, concatErr: errors.New("bad clip stream")}
	stock := &providers.MockStockProvider{
		Clips: []providers.StockClip{{ID: 1, URL: "http://stock.test/1.mp4", DurationSeconds: 12}},
	}
	r, h := runnerEnv(t, renderer, stock)

	thumb := h.ThumbnailPath("t1")
	if err := os.WriteFile(thumb, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	r.Run(context.Background(), Job{VideoID: "v1", ScriptID: "s1", Topic: "nature", ThumbnailPath: thumb})

	st, _ := r.Store.Get("v1")
	if st.Status != api.PhaseCompleted {
		t.Fatalf("status = %s (%s), want completed via still fallback", st.Status, st.Error)
	}
	if st.ClipsUsed != 1 {
		t.Errorf("clips used = %d, want 1 for static video", st.ClipsUsed)
	}
	if renderer.stillCalls != 1 {
		t.Errorf("still render calls = %d, want 1", renderer.stillCalls)
	}
}

func TestRunnerFailsWithoutThumbnailFallback(t *testing.T) {
	renderer := &fakeRenderer{probeDuration: 12, concatErr: errors.New("bad clip stream")}
	stock := &providers.MockStockProvider{
		Clips: []providers.StockClip{{ID: 1, URL: "http://stock.test/1.mp4", DurationSeconds: 12}},
	}
	r, _ := runnerEnv(t, renderer, stock)

	r.Run(context.Background(), Job{VideoID: "v1", ScriptID: "s1", Topic: "nature"})

	st, _ := r.Store.Get("v1")
	if st.Status != api.PhaseFailed {
		t.Fatalf("status = %s, want failed", st.Status)
	}
	if st.Error == "" {
		t.Error("empty error on failed status")
	}
}

func TestRunnerFailsOnMissingInputs(t *testing.T) {
	h := testHome(t)
	r := &Runner{
		Home:     h,
		Store:    NewStatusStore(h, discardLogger()),
		Renderer: &fakeRenderer{},
		Logger:   discardLogger(),
	}

	r.Run(context.Background(), Job{VideoID: "v1", ScriptID: "missing", Topic: "x"})

	st, _ := r.Store.Get("v1")
	if st.Status != api.PhaseFailed {
		t.Fatalf("status = %s, want failed", st.Status)
	}
}

func TestRunnerRejectsTinyOutput(t *testing.T) {
	renderer := &fakeRenderer{probeDuration: 12, outputBytes: 100}
	stock := &providers.MockStockProvider{
		Clips: []providers.StockClip{{ID: 1, URL: "http://stock.test/1.mp4", DurationSeconds: 12}},
	}
	r, _ := runnerEnv(t, renderer, stock)

	r.Run(context.Background(), Job{VideoID: "v1", ScriptID: "s1", Topic: "nature"})

	st, _ := r.Store.Get("v1")
	if st.Status != api.PhaseFailed {
		t.Fatalf("status = %s, want failed for undersized output", st.Status)
	}
}
