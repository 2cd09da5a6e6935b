// Package jobs contains the background job handlers: ledger export and
// evidence thumbnail generation.
package jobs

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"robolog/internal/metrics"
	"robolog/internal/repository"
	"robolog/internal/storage"
	"robolog/internal/worker"
)

// ledgerHeader is the first row of every monthly ledger file. The
// column order matches the persisted report row.
var ledgerHeader = []string{
	"Semana", "Fecha", "Turno", "Técnico", "Apoyo", "Celda", "Robot",
	"Código de Fallo", "Sub Modo de Falla", "Trabajo Realizado",
	"Acciones", "Solución", "Número de Orden", "Tipo de Orden",
	"Estado", "Minutos de Paro", "Comentario",
}

// ExportReportHandler appends submitted reports to a monthly CSV
// ledger object in storage. The ledger mirrors what technicians used
// to keep in a shared spreadsheet, one file per calendar month.
type ExportReportHandler struct {
	queries *repository.Queries
	store   storage.Store
	logger  *slog.Logger

	// The ledger append is a read-modify-write on one object, so
	// concurrent exports for the same month must be serialized or the
	// last writer discards the others' rows. One lock per ledger key;
	// the map only ever holds one entry per calendar month.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewExportReportHandler creates a handler for ledger export jobs.
func NewExportReportHandler(queries *repository.Queries, store storage.Store, logger *slog.Logger) *ExportReportHandler {
	return &ExportReportHandler{
		queries: queries,
		store:   store,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Type returns the job type identifier.
func (h *ExportReportHandler) Type() string {
	return worker.JobTypeExportReport
}

// Handle appends one report to its month's ledger.
func (h *ExportReportHandler) Handle(ctx context.Context, payload []byte) error {
	var p worker.ExportReportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}

	report, err := h.queries.GetReport(ctx, p.ReportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The report was deleted before export ran; retrying
			// cannot help.
			return worker.NewPermanentError(fmt.Errorf("report %s not found", p.ReportID))
		}
		return fmt.Errorf("get report: %w", err)
	}

	key := LedgerKey(report.ReportDate)
	if err := h.appendRow(ctx, key, ledgerRow(report)); err != nil {
		return err
	}

	metrics.LedgerRowsExported.Inc()
	h.logger.Info("report exported to ledger", "report_id", report.ID, "ledger", key)
	return nil
}

// appendRow rewrites the ledger at key with row appended, holding the
// ledger's lock for the whole read-modify-write.
func (h *ExportReportHandler) appendRow(ctx context.Context, key string, row []string) error {
	lock := h.ledgerLock(key)
	lock.Lock()
	defer lock.Unlock()

	existing, err := h.readLedger(ctx, key)
	if err != nil {
		return fmt.Errorf("read ledger %s: %w", key, err)
	}

	var buf bytes.Buffer
	buf.Write(existing)
	w := csv.NewWriter(&buf)
	if len(existing) == 0 {
		if err := w.Write(ledgerHeader); err != nil {
			return fmt.Errorf("write ledger header: %w", err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write ledger row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}

	err = h.store.Put(ctx, key, &buf, storage.PutOptions{
		ContentType: "text/csv",
		Overwrite:   true,
	})
	if err != nil {
		return fmt.Errorf("store ledger %s: %w", key, err)
	}
	return nil
}

func (h *ExportReportHandler) ledgerLock(key string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	lock, ok := h.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[key] = lock
	}
	return lock
}

// LedgerKey returns the storage key of the ledger that covers date.
func LedgerKey(date time.Time) string {
	return fmt.Sprintf("ledgers/%s.csv", date.Format("2006-01"))
}

func (h *ExportReportHandler) readLedger(ctx context.Context, key string) ([]byte, error) {
	rc, _, err := h.store.Get(ctx, key)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ledgerRow flattens a stored report into the ledger's column order.
func ledgerRow(r repository.Report) []string {
	return []string{
		strconv.Itoa(int(r.Week)),
		r.ReportDate.Format("2006-01-02"),
		r.Shift,
		r.Technician,
		r.SupportStaff,
		r.Cell,
		r.Robot,
		r.FaultCode,
		r.FaultDescription,
		r.WorkDescription,
		r.Actions,
		r.Solution,
		r.OrderNumber,
		r.OrderType,
		r.Status,
		strconv.Itoa(int(r.DowntimeMinutes)),
		strings.TrimSpace(r.Comment),
	}
}
