package watch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/veldt-labs/sponsorctl/internal/adapters/render/pools"
	"github.com/veldt-labs/sponsorctl/internal/application"
	"go.uber.org/zap"
)

// Countdowns recompute locally every second; the server is only consulted
// on the cron schedule.
const renderTick = time.Second

// Watcher keeps a live view of the pool collection: it repaints every
// second so countdowns advance, and reloads from the server on a cron
// schedule. It blocks until the context is canceled.
type Watcher struct {
	cron    *cron.Cron
	manager *application.PoolManager
	out     io.Writer
	log     *zap.Logger
}

func NewWatcher(manager *application.PoolManager, out io.Writer, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}

	return &Watcher{
		cron:    cron.New(),
		manager: manager,
		out:     out,
		log:     log,
	}
}

// Run reloads and renders one frame immediately, then renders every second
// and reloads on every cron tick until ctx is done. spec is a cron
// expression or an @every duration.
func (w *Watcher) Run(ctx context.Context, spec string) error {
	w.manager.LoadPools(ctx)
	w.render()

	if _, err := w.cron.AddFunc(spec, func() {
		w.manager.LoadPools(ctx)
	}); err != nil {
		return fmt.Errorf("register refresh schedule: %w", err)
	}

	w.cron.Start()
	defer w.cron.Stop()

	ticker := time.NewTicker(renderTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.render()
		}
	}
}

func (w *Watcher) render() {
	snapshot := w.manager.Snapshot()
	frame, err := pools.Render(snapshot, pools.RenderOptions{Now: snapshot.Now})
	if err != nil {
		w.log.Warn("render watch frame", zap.Error(err))
		return
	}

	// Clear the screen and repaint, terminal-dashboard style.
	fmt.Fprint(w.out, "\033[2J\033[H")
	fmt.Fprintln(w.out, frame)
}
