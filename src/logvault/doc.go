// Package logvault is a structured, async-aware logging pipeline. Producers
// build immutable events and emit them through a bounded queue; a single
// background consumer drains the queue into configured sinks (console,
// in-memory ring, rotating archive files, or a SQLite archive store).
//
// Quick start:
//
//	p, err := logvault.New(nil)
//	if err != nil {
//	    panic(err)
//	}
//	defer p.Close(context.Background())
//
//	auth := p.Named("auth")
//	auth.Emit(ctx, logvault.Info("login accepted").With("user", id))
//
// Emit never performs I/O on the caller's goroutine; it suspends only when
// the queue is full. Sink failures are retried and counted in the
// background, never surfaced to producers.
package logvault
