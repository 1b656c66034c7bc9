package worker

import (
	"context"
	"sort"
	"sync"
	"time"

	"backoffice/internal/amqp"
	"backoffice/internal/log"
)

// Exporter writes one year's report out.
type Exporter interface {
	Export(ctx context.Context, year int) error
}

// ExportWorker turns ledger.changed events into report exports. Bursts of
// events for the same year collapse into one export once the year has been
// quiet for the debounce window.
type ExportWorker struct {
	exporter Exporter
	debounce time.Duration
	now      func() time.Time
	logger   *log.Logger

	mu      sync.Mutex
	pending map[int]time.Time
}

func NewExportWorker(exporter Exporter, debounce time.Duration, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportWorker{
		exporter: exporter,
		debounce: debounce,
		now:      time.Now,
		logger:   logger.WithComponent(log.ComponentWorker),
		pending:  make(map[int]time.Time),
	}
}

// HandleLedgerChanged is the AMQP handler. With no debounce the export runs
// inline and its error makes the broker redeliver the message.
func (w *ExportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	w.logger.InfoContext(ctx, "Ledger changed",
		log.FieldEventID, msg.EventID,
		log.FieldEntity, msg.Entity,
		log.FieldEntityID, msg.EntityID,
		log.FieldOperation, msg.Operation,
		log.FieldYear, msg.Year)

	if w.debounce <= 0 {
		return w.exporter.Export(ctx, msg.Year)
	}
	w.schedule(msg.Year)
	return nil
}

func (w *ExportWorker) schedule(year int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[year] = w.now().Add(w.debounce)
}

// Flush exports every year whose quiet period has elapsed. Failed years are
// scheduled again.
func (w *ExportWorker) Flush(ctx context.Context) {
	now := w.now()
	var due []int
	w.mu.Lock()
	for year, at := range w.pending {
		if !at.After(now) {
			due = append(due, year)
			delete(w.pending, year)
		}
	}
	w.mu.Unlock()
	sort.Ints(due)

	for _, year := range due {
		if err := w.exporter.Export(ctx, year); err != nil {
			w.logger.ErrorContext(ctx, "Report export failed, rescheduling",
				log.FieldYear, year,
				log.FieldError, err)
			w.mu.Lock()
			if _, ok := w.pending[year]; !ok {
				w.pending[year] = now.Add(w.debounce)
			}
			w.mu.Unlock()
		}
	}
}

// Pending returns the years waiting for export.
func (w *ExportWorker) Pending() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	years := make([]int, 0, len(w.pending))
	for y := range w.pending {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Run flushes due exports until ctx ends, then drains whatever is left.
func (w *ExportWorker) Run(ctx context.Context) error {
	interval := w.debounce / 2
	if interval < 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return nil
		case <-ticker.C:
			w.Flush(ctx)
		}
	}
}

func (w *ExportWorker) drain() {
	years := w.Pending()
	if len(years) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	w.logger.InfoContext(ctx, "Draining pending exports", "years", years)
	w.mu.Lock()
	for _, y := range years {
		w.pending[y] = time.Time{}
	}
	w.mu.Unlock()
	w.Flush(ctx)
}

// StartupExport refreshes the current year so a worker that was down while
// the ledger changed catches up.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	year := w.now().Year()
	if err := w.exporter.Export(ctx, year); err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Startup export completed", log.FieldYear, year)
	return nil
}
