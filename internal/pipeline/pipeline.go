package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackzampolin/reel/internal/api"
)

// Client is the remote generation surface the pipeline drives. *api.Client
// satisfies it.
type Client interface {
	StatusClient
	GenerateScript(ctx context.Context, topic string, durationMinutes int) (*api.GenerateScriptResponse, error)
	GenerateVoice(ctx context.Context, scriptID string) (*api.GenerateVoiceResponse, error)
	GenerateThumbnail(ctx context.Context, topic string) (*api.GenerateThumbnailResponse, error)
	SearchStockFootage(ctx context.Context, topic string, count int) (*api.StockVideosResponse, error)
	GenerateMetadata(ctx context.Context, topic, scriptContent string) (*api.MetadataResponse, error)
	TriggerAssembly(ctx context.Context, scriptID, topic string) (*api.AssembleVideoResponse, error)
}

// Request describes one pipeline run.
type Request struct {
	Topic           string
	DurationMinutes int
}

// Validate rejects requests the server would refuse anyway.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return errors.New("topic is required")
	}
	if r.DurationMinutes < 1 || r.DurationMinutes > 60 {
		return fmt.Errorf("duration must be between 1 and 60 minutes, got %d", r.DurationMinutes)
	}
	return nil
}

// StageError is a pipeline failure attributed to the stage that raised it.
// Results from stages completed before the failure remain in the bundle.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ErrRunSuperseded is returned by a run whose poller was cancelled because
// a newer run took over.
var ErrRunSuperseded = errors.New("pipeline run superseded by a newer run")

// Event is one progress observation from a running pipeline.
type Event struct {
	Stage    Stage
	Message  string
	Progress int // 0-100, only meaningful during assembly polling
	Err      error
}

// Options configure a Pipeline.
type Options struct {
	// StockClipCount is how many stock clips to request. Defaults to 10.
	StockClipCount int
	Poll           PollConfig
	Logger         *slog.Logger
	// OnEvent, if set, receives progress events synchronously from the
	// running pipeline goroutine.
	OnEvent func(Event)
}

// Pipeline runs the generation stages in order against a backend server.
// At most one run is active per Pipeline; starting a new run cancels the
// previous run's status poller and replaces the result bundle.
type Pipeline struct {
	client  Client
	poller  *Poller
	opts    Options
	logger  *slog.Logger
	onEvent func(Event)

	mu     sync.Mutex
	bundle *Bundle
	watch  *Watch
	cancel context.CancelCauseFunc
}

// New creates a pipeline against client.
func New(client Client, opts Options) *Pipeline {
	if opts.StockClipCount <= 0 {
		opts.StockClipCount = 10
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	onEvent := opts.OnEvent
	if onEvent == nil {
		onEvent = func(Event) {}
	}
	return &Pipeline{
		client:  client,
		poller:  NewPoller(client, opts.Poll, opts.Logger),
		opts:    opts,
		logger:  opts.Logger,
		onEvent: onEvent,
		bundle:  NewBundle(),
	}
}

// Bundle returns the current run's result bundle.
func (p *Pipeline) Bundle() *Bundle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bundle
}

// Cancel stops the active status poller, if any.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	w := p.watch
	p.watch = nil
	p.mu.Unlock()
	if w != nil {
		w.Cancel()
	}
}

// Run executes the full pipeline for req and returns the completed bundle.
// Stages run strictly in order; the first failure halts the run, and results
// from earlier stages stay available on the returned bundle. A new Run
// discards the previous bundle and cancels the previous run outright,
// whether it is still working through stages or already polling its
// assembly job; the superseded run returns ErrRunSuperseded.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Bundle, error) {
	if err := req.Validate(); err != nil {
		return nil, &StageError{Stage: StageScript, Err: err}
	}

	runCtx, cancelRun := context.WithCancelCause(ctx)
	defer cancelRun(nil)

	p.mu.Lock()
	prev := p.watch
	prevCancel := p.cancel
	p.watch = nil
	p.cancel = cancelRun
	bundle := NewBundle()
	p.bundle = bundle
	p.mu.Unlock()
	if prevCancel != nil {
		prevCancel(ErrRunSuperseded)
	}
	if prev != nil {
		prev.Cancel()
	}

	log := p.logger.With("topic", req.Topic, "duration_minutes", req.DurationMinutes)
	log.Info("starting pipeline run")

	if err := p.runScript(runCtx, req, bundle); err != nil {
		return bundle, err
	}
	if err := p.runVoice(runCtx, bundle); err != nil {
		return bundle, err
	}
	if err := p.runThumbnail(runCtx, req, bundle); err != nil {
		return bundle, err
	}
	if err := p.runStockFootage(runCtx, req, bundle); err != nil {
		return bundle, err
	}
	if err := p.runMetadata(runCtx, req, bundle); err != nil {
		return bundle, err
	}
	if err := p.runAssembly(runCtx, req, bundle); err != nil {
		return bundle, err
	}

	log.Info("pipeline run complete", "unconfirmed", bundle.Video().Unconfirmed)
	return bundle, nil
}

// runErr reports why a run can no longer proceed: ErrRunSuperseded when a
// newer run cancelled this one, otherwise the context's own error.
func runErr(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return context.Cause(ctx)
}

func (p *Pipeline) runScript(ctx context.Context, req Request, b *Bundle) error {
	if err := runErr(ctx); err != nil {
		return p.fail(StageScript, err)
	}
	p.onEvent(Event{Stage: StageScript, Message: "generating script"})
	resp, err := p.client.GenerateScript(ctx, req.Topic, req.DurationMinutes)
	if err != nil {
		return p.fail(StageScript, err)
	}
	b.setScript(&ScriptResult{
		ID:        resp.ScriptID,
		WordCount: resp.WordCount,
		Text:      resp.Content,
	})
	p.logger.Info("script generated", "script_id", resp.ScriptID, "words", resp.WordCount)
	return nil
}

func (p *Pipeline) runVoice(ctx context.Context, b *Bundle) error {
	if err := runErr(ctx); err != nil {
		return p.fail(StageVoice, err)
	}
	p.onEvent(Event{Stage: StageVoice, Message: "synthesizing voiceover"})
	resp, err := p.client.GenerateVoice(ctx, b.Script().ID)
	if err != nil {
		return p.fail(StageVoice, err)
	}
	b.setVoice(&VoiceResult{ScriptID: resp.ScriptID})
	p.logger.Info("voiceover synthesized", "script_id", resp.ScriptID)
	return nil
}

func (p *Pipeline) runThumbnail(ctx context.Context, req Request, b *Bundle) error {
	if err := runErr(ctx); err != nil {
		return p.fail(StageThumbnail, err)
	}
	p.onEvent(Event{Stage: StageThumbnail, Message: "generating thumbnail"})
	resp, err := p.client.GenerateThumbnail(ctx, req.Topic)
	if err != nil {
		return p.fail(StageThumbnail, err)
	}
	b.setThumbnail(&ThumbnailResult{ID: resp.ThumbnailID, ImageURL: resp.ImageURL})
	p.logger.Info("thumbnail generated", "thumbnail_id", resp.ThumbnailID)
	return nil
}

func (p *Pipeline) runStockFootage(ctx context.Context, req Request, b *Bundle) error {
	if err := runErr(ctx); err != nil {
		return p.fail(StageStockFootage, err)
	}
	p.onEvent(Event{Stage: StageStockFootage, Message: "searching stock footage"})
	resp, err := p.client.SearchStockFootage(ctx, req.Topic, p.opts.StockClipCount)
	if err != nil {
		return p.fail(StageStockFootage, err)
	}
	b.setStock(&StockFootageResult{TotalFound: resp.TotalFound, Clips: resp.Videos})
	p.logger.Info("stock footage found", "clips", len(resp.Videos), "total", resp.TotalFound)
	return nil
}

func (p *Pipeline) runMetadata(ctx context.Context, req Request, b *Bundle) error {
	if err := runErr(ctx); err != nil {
		return p.fail(StageMetadata, err)
	}
	p.onEvent(Event{Stage: StageMetadata, Message: "generating metadata"})
	resp, err := p.client.GenerateMetadata(ctx, req.Topic, b.Script().Text)
	if err != nil {
		return p.fail(StageMetadata, err)
	}
	b.setMetadata(&MetadataResult{
		Titles:      resp.Titles,
		Description: resp.Description,
		Tags:        resp.Tags,
	})
	p.logger.Info("metadata generated", "titles", len(resp.Titles), "tags", len(resp.Tags))
	return nil
}

func (p *Pipeline) runAssembly(ctx context.Context, req Request, b *Bundle) error {
	if err := runErr(ctx); err != nil {
		return p.fail(StageAssembly, err)
	}
	p.onEvent(Event{Stage: StageAssembly, Message: "starting video assembly"})
	resp, err := p.client.TriggerAssembly(ctx, b.Script().ID, req.Topic)
	if err != nil {
		return p.fail(StageAssembly, err)
	}
	p.logger.Info("assembly job started", "job_id", resp.VideoID)

	watch := p.poller.Start(ctx, resp.VideoID)
	p.mu.Lock()
	if err := runErr(ctx); err != nil {
		// A newer run took over between the trigger and here; its watch
		// must stay the only registered one.
		p.mu.Unlock()
		watch.Cancel()
		return p.fail(StageAssembly, err)
	}
	p.watch = watch
	p.mu.Unlock()

	for u := range watch.Updates() {
		if !u.Terminal {
			p.onEvent(Event{
				Stage:    StageAssembly,
				Message:  u.Message,
				Progress: u.Status.Progress,
			})
			continue
		}
		return p.settleAssembly(resp.VideoID, req, b, u)
	}
	// Updates closed without a terminal verdict: the watch was cancelled,
	// either by a newer run or by context teardown.
	if err := runErr(ctx); err != nil {
		return p.fail(StageAssembly, err)
	}
	return p.fail(StageAssembly, ErrRunSuperseded)
}

// settleAssembly turns the poller's terminal update into a bundle result
// or a stage error.
func (p *Pipeline) settleAssembly(jobID string, req Request, b *Bundle, u Update) error {
	switch u.Outcome {
	case OutcomeConfirmed:
		b.setVideo(&VideoResult{
			JobID:           jobID,
			DurationSeconds: u.Status.DurationSeconds,
			SizeBytes:       u.Status.FileSize,
			ClipsUsed:       u.Status.ClipsUsed,
		})
		p.onEvent(Event{Stage: StageAssembly, Message: "video assembly complete", Progress: 100})
		return nil

	case OutcomeUnconfirmed:
		// The artifact is presumed to exist but the status channel never
		// confirmed it, so the completion metadata is an estimate.
		b.setVideo(&VideoResult{
			JobID:           jobID,
			DurationSeconds: float64(req.DurationMinutes * 60),
			ClipsUsed:       u.Status.ClipsUsed,
			Unconfirmed:     true,
		})
		p.onEvent(Event{Stage: StageAssembly, Message: u.Message, Progress: 100})
		return nil

	default:
		return p.fail(StageAssembly, errors.New(u.Message))
	}
}

func (p *Pipeline) fail(stage Stage, err error) error {
	serr := &StageError{Stage: stage, Err: err}
	p.logger.Error("pipeline stage failed", "stage", string(stage), "error", err)
	p.onEvent(Event{Stage: stage, Message: serr.Error(), Err: serr})
	return serr
}
