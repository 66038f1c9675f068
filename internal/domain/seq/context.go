package seq

import (
	"context"
	"io"
	"time"
)

// RunContext provides context for step execution (Check, Apply, Verify).
// It carries the cancellation context, the per-step timeout, and the
// output writer that receives captured command output verbatim.
type RunContext struct {
	ctx     context.Context
	dryRun  bool
	timeout time.Duration
	output  io.Writer
}

// NewRunContext creates a new RunContext with the given context.
func NewRunContext(ctx context.Context) RunContext {
	return RunContext{
		ctx:    ctx,
		output: io.Discard,
	}
}

// Context returns the underlying context.Context.
func (r RunContext) Context() context.Context {
	return r.ctx
}

// ApplyContext returns a context bounded by the per-step timeout, with
// its cancel function. A zero timeout disables the bound.
func (r RunContext) ApplyContext() (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(r.ctx)
	}
	return context.WithTimeout(r.ctx, r.timeout)
}

// DryRun returns whether this is a dry-run execution.
func (r RunContext) DryRun() bool {
	return r.dryRun
}

// WithDryRun returns a new RunContext with the dry-run flag set.
func (r RunContext) WithDryRun(dryRun bool) RunContext {
	newCtx := r
	newCtx.dryRun = dryRun
	return newCtx
}

// Timeout returns the per-step timeout (zero means unbounded).
func (r RunContext) Timeout() time.Duration {
	return r.timeout
}

// WithTimeout returns a new RunContext with the per-step timeout set.
func (r RunContext) WithTimeout(timeout time.Duration) RunContext {
	newCtx := r
	newCtx.timeout = timeout
	return newCtx
}

// Output returns the writer for verbatim command output.
func (r RunContext) Output() io.Writer {
	return r.output
}

// WithOutput returns a new RunContext with the output writer set.
func (r RunContext) WithOutput(w io.Writer) RunContext {
	newCtx := r
	newCtx.output = w
	return newCtx
}
