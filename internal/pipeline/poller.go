package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackzampolin/reel/internal/api"
)

// StatusClient is the status surface the poller drives. *api.Client
// satisfies it; tests substitute scripted fakes.
type StatusClient interface {
	JobStatus(ctx context.Context, videoID string) (*api.JobStatus, error)
	ProbeArtifact(ctx context.Context, videoID string) (bool, error)
}

// PollConfig tunes the status polling loop.
type PollConfig struct {
	// Interval between polls after the immediate first one.
	Interval time.Duration
	// MaxPolls bounds the total number of status requests.
	MaxPolls int
	// FailureTrustPolls is the attempt count below which a failed status is
	// trusted outright. At or above it, a failed status triggers the
	// artifact probe before the job is declared lost.
	FailureTrustPolls int
	// ErrorProbeAfter is the attempt count at or above which a transport
	// error also triggers the artifact probe instead of only being skipped.
	ErrorProbeAfter int
}

// DefaultPollConfig matches the server's render cadence: a five minute
// budget at two second intervals.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		Interval:          2 * time.Second,
		MaxPolls:          150,
		FailureTrustPolls: 10,
		ErrorProbeAfter:   30,
	}
}

func (c PollConfig) withDefaults() PollConfig {
	d := DefaultPollConfig()
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.MaxPolls <= 0 {
		c.MaxPolls = d.MaxPolls
	}
	if c.FailureTrustPolls <= 0 {
		c.FailureTrustPolls = d.FailureTrustPolls
	}
	if c.ErrorProbeAfter <= 0 {
		c.ErrorProbeAfter = d.ErrorProbeAfter
	}
	return c
}

// Outcome classifies how a watch ended.
type Outcome int

const (
	// OutcomeNone marks a non-terminal progress update.
	OutcomeNone Outcome = iota
	// OutcomeConfirmed means the status channel reported completed.
	OutcomeConfirmed
	// OutcomeUnconfirmed means the job is assumed done without the status
	// channel confirming it: either the artifact probe found the output
	// behind a failed or erroring status, or the poll budget ran out.
	OutcomeUnconfirmed
	// OutcomeFailed means the job is lost. A cancelled watch has no
	// outcome at all; its Updates channel just closes.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeUnconfirmed:
		return "unconfirmed"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// Update is one observation from the polling loop. Terminal updates carry
// the final Outcome; at most one terminal update is delivered per watch,
// always last.
type Update struct {
	Terminal bool
	Outcome  Outcome
	Poll     int
	Status   api.JobStatus
	Message  string
}

// Watch is a handle on one polling loop. Updates is closed when the loop
// exits; Cancel stops the loop and is safe to call more than once.
type Watch struct {
	JobID string

	updates    chan Update
	cancel     context.CancelFunc
	cancelOnce sync.Once
	done       chan struct{}
}

// Updates streams poll observations. The channel is buffered for the full
// poll budget, so the loop never blocks on a slow consumer.
func (w *Watch) Updates() <-chan Update { return w.updates }

// Done is closed when the polling loop has fully stopped.
func (w *Watch) Done() <-chan struct{} { return w.done }

// Cancel stops the polling loop. No updates are delivered after Cancel
// returns and the Done channel is closed.
func (w *Watch) Cancel() {
	w.cancelOnce.Do(w.cancel)
	<-w.done
}

// Poller watches background assembly jobs until they settle.
type Poller struct {
	client StatusClient
	cfg    PollConfig
	logger *slog.Logger
}

// NewPoller creates a poller. Zero config fields take defaults.
func NewPoller(client StatusClient, cfg PollConfig, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{client: client, cfg: cfg.withDefaults(), logger: logger}
}

// Start begins watching jobID. The first poll is issued immediately, then
// one per interval until a terminal update or cancellation.
func (p *Poller) Start(ctx context.Context, jobID string) *Watch {
	ctx, cancel := context.WithCancel(ctx)
	w := &Watch{
		JobID:   jobID,
		updates: make(chan Update, p.cfg.MaxPolls+2),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go p.run(ctx, w)
	return w
}

func (p *Poller) run(ctx context.Context, w *Watch) {
	defer close(w.done)
	defer close(w.updates)
	defer w.cancel()

	log := p.logger.With("job_id", w.JobID)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for poll := 1; ; poll++ {
		if ctx.Err() != nil {
			return
		}
		if done := p.pollOnce(ctx, w, log, poll); done {
			return
		}
		if poll >= p.cfg.MaxPolls {
			// Budget exhausted. Long renders routinely outlive the budget,
			// so assume the job finished rather than declaring it lost.
			log.Warn("poll budget exhausted, assuming completion", "polls", poll)
			p.emit(ctx, w, Update{
				Terminal: true,
				Outcome:  OutcomeUnconfirmed,
				Poll:     poll,
				Message:  "poll budget exhausted; assuming the render finished",
			})
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pollOnce performs one status request and reports whether the watch is done.
func (p *Poller) pollOnce(ctx context.Context, w *Watch, log *slog.Logger, poll int) bool {
	st, err := p.client.JobStatus(ctx, w.JobID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		log.Debug("status poll error", "poll", poll, "error", err)
		if poll >= p.cfg.ErrorProbeAfter {
			if exists, perr := p.client.ProbeArtifact(ctx, w.JobID); perr == nil && exists {
				log.Info("status channel unreachable but artifact exists", "poll", poll)
				p.emit(ctx, w, Update{
					Terminal: true,
					Outcome:  OutcomeUnconfirmed,
					Poll:     poll,
					Message:  "status unreachable; output artifact found",
				})
				return true
			}
		}
		return false
	}

	switch st.Status {
	case api.PhaseCompleted:
		p.emit(ctx, w, Update{
			Terminal: true,
			Outcome:  OutcomeConfirmed,
			Poll:     poll,
			Status:   *st,
			Message:  st.Message,
		})
		return true

	case api.PhaseFailed:
		if poll < p.cfg.FailureTrustPolls {
			// An early failure is a real rejection from the render job.
			p.emit(ctx, w, Update{
				Terminal: true,
				Outcome:  OutcomeFailed,
				Poll:     poll,
				Status:   *st,
				Message:  failureMessage(st),
			})
			return true
		}
		// Late failures can be stale status files left behind by a job
		// that actually produced output. Let the artifact decide.
		exists, perr := p.client.ProbeArtifact(ctx, w.JobID)
		if perr == nil && exists {
			log.Info("failed status overridden by artifact probe", "poll", poll)
			p.emit(ctx, w, Update{
				Terminal: true,
				Outcome:  OutcomeUnconfirmed,
				Poll:     poll,
				Status:   *st,
				Message:  "status reported failure but the output artifact exists",
			})
			return true
		}
		if perr != nil {
			log.Debug("artifact probe error", "poll", poll, "error", perr)
		}
		p.emit(ctx, w, Update{
			Terminal: true,
			Outcome:  OutcomeFailed,
			Poll:     poll,
			Status:   *st,
			Message:  failureMessage(st),
		})
		return true

	default: // queued, processing
		p.emit(ctx, w, Update{
			Outcome: OutcomeNone,
			Poll:    poll,
			Status:  *st,
			Message: st.Message,
		})
		return false
	}
}

func (p *Poller) emit(ctx context.Context, w *Watch, u Update) {
	if ctx.Err() != nil {
		return
	}
	select {
	case w.updates <- u:
	default:
		// Buffer sized for the whole budget; dropping here means the
		// consumer abandoned the watch.
	}
}

func failureMessage(st *api.JobStatus) string {
	if st.Error != "" {
		return st.Error
	}
	if st.Message != "" {
		return st.Message
	}
	return "video assembly failed"
}
