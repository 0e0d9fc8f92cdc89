package api

import "time"

// Deadlines is the per-operation client deadline table. Each remote
// operation gets its own budget, separate from the render job's server-side
// budget, so a premature client abort is never confused with the remote job
// failing.
type Deadlines struct {
	Voice       time.Duration
	Thumbnail   time.Duration
	StockSearch time.Duration
	Metadata    time.Duration
	Assemble    time.Duration
	Status      time.Duration
	Probe       time.Duration
	Download    time.Duration

	// Script budget scales with requested output length; see ScriptDeadline.
	ScriptBase   time.Duration
	ScriptPerMin time.Duration
	ScriptMax    time.Duration
}

// DefaultDeadlines returns deadlines calibrated to observed provider latency.
func DefaultDeadlines() Deadlines {
	return Deadlines{
		Voice:        300 * time.Second,
		Thumbnail:    120 * time.Second,
		StockSearch:  30 * time.Second,
		Metadata:     30 * time.Second,
		Assemble:     30 * time.Second,
		Status:       10 * time.Second,
		Probe:        10 * time.Second,
		Download:     10 * time.Minute,
		ScriptBase:   30 * time.Second,
		ScriptPerMin: 10 * time.Second,
		ScriptMax:    180 * time.Second,
	}
}

// ScriptDeadline returns the script generation budget for a requested
// duration. Language-model latency grows with output length, so the budget
// scales with the requested minutes up to a cap.
func (d Deadlines) ScriptDeadline(durationMinutes int) time.Duration {
	deadline := d.ScriptBase + time.Duration(durationMinutes)*d.ScriptPerMin
	if deadline > d.ScriptMax {
		deadline = d.ScriptMax
	}
	return deadline
}

// For returns the deadline for a fixed-budget operation. Script deadlines
// are duration-dependent; use ScriptDeadline for those.
func (d Deadlines) For(op Operation) time.Duration {
	switch op {
	case OpVoice:
		return d.Voice
	case OpThumbnail:
		return d.Thumbnail
	case OpStockSearch:
		return d.StockSearch
	case OpMetadata:
		return d.Metadata
	case OpAssemble:
		return d.Assemble
	case OpStatus:
		return d.Status
	case OpProbe:
		return d.Probe
	case OpDownload:
		return d.Download
	default:
		return d.ScriptMax
	}
}
