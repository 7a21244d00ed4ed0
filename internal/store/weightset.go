package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"buzz-workers/internal/common/errors"
	"buzz-workers/internal/engine/scoring"
)

// ErrNoRun is returned when a scope has never been calibrated.
var ErrNoRun = stderrors.New("no calibration run for scope")

// CalibrationRun is one persisted calibration: the weight set plus how it
// was produced.
type CalibrationRun struct {
	ID           uuid.UUID          `json:"runId"`
	Scope        string             `json:"scope"`
	TableVersion string             `json:"tableVersion"`
	WeightSet    *scoring.WeightSet `json:"weightSet"`
	Correlation  float64            `json:"correlation"`
	Notes        string             `json:"notes,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func NewCalibrationRun(scope, tableVersion string, ws *scoring.WeightSet, correlation float64) *CalibrationRun {
	return &CalibrationRun{
		ID:           uuid.New(),
		Scope:        scope,
		TableVersion: tableVersion,
		WeightSet:    ws,
		Correlation:  correlation,
		CreatedAt:    time.Now().UTC(),
	}
}

// DefaultRun wraps the prior weight set for a scope that has no stored run.
func DefaultRun(scope string) *CalibrationRun {
	return &CalibrationRun{
		ID:        uuid.Nil,
		Scope:     scope,
		WeightSet: scoring.DefaultWeightSet(scoring.StatusDefault, 0),
	}
}

// WeightSetRepository stores calibration runs in postgres: one score_history
// row per run and one score_weights row per bucket.
type WeightSetRepository struct {
	db *sql.DB
}

func NewWeightSetRepository(db *sql.DB) *WeightSetRepository {
	return &WeightSetRepository{db: db}
}

const (
	insertHistorySQL = `INSERT INTO score_history (run_id, scope, status, table_version, sample_size, correlation, low, high, notes, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	insertWeightSQL  = `INSERT INTO score_weights (run_id, bucket, weight) VALUES ($1, $2, $3)`
	latestRunSQL     = `SELECT run_id, status, table_version, sample_size, correlation, low, high, notes, created_at FROM score_history WHERE scope = $1 ORDER BY created_at DESC LIMIT 1`
	runWeightsSQL    = `SELECT bucket, weight FROM score_weights WHERE run_id = $1`
)

func (r *WeightSetRepository) SaveRun(ctx context.Context, run *CalibrationRun) error {
	if run == nil || run.WeightSet == nil {
		return errors.NewInvalidInputError("calibration run has no weight set")
	}
	ws := run.WeightSet

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewModelStoreFailedError(fmt.Errorf("begin: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	var notes sql.NullString
	if run.Notes != "" {
		notes = sql.NullString{String: run.Notes, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, insertHistorySQL,
		run.ID, run.Scope, string(ws.Status), run.TableVersion, ws.SampleSize,
		run.Correlation, ws.Low, ws.High, notes, run.CreatedAt,
	); err != nil {
		return errors.NewModelStoreFailedError(fmt.Errorf("insert score_history: %w", err))
	}

	buckets := make([]string, 0, len(ws.Weights))
	for b := range ws.Weights {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)
	for _, b := range buckets {
		if _, err := tx.ExecContext(ctx, insertWeightSQL, run.ID, b, ws.Weights[b]); err != nil {
			return errors.NewModelStoreFailedError(fmt.Errorf("insert score_weights %s: %w", b, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewModelStoreFailedError(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// LatestRun loads the newest run of scope, or ErrNoRun.
func (r *WeightSetRepository) LatestRun(ctx context.Context, scope string) (*CalibrationRun, error) {
	run := &CalibrationRun{Scope: scope, WeightSet: &scoring.WeightSet{Weights: map[string]float64{}}}
	var (
		status string
		notes  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, latestRunSQL, scope).Scan(
		&run.ID, &status, &run.TableVersion, &run.WeightSet.SampleSize,
		&run.Correlation, &run.WeightSet.Low, &run.WeightSet.High, &notes, &run.CreatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRun
	}
	if err != nil {
		return nil, errors.NewModelStoreFailedError(fmt.Errorf("select score_history: %w", err))
	}
	run.WeightSet.Status = scoring.Status(status)
	run.Notes = notes.String

	rows, err := r.db.QueryContext(ctx, runWeightsSQL, run.ID)
	if err != nil {
		return nil, errors.NewModelStoreFailedError(fmt.Errorf("select score_weights: %w", err))
	}
	defer rows.Close()
	for rows.Next() {
		var (
			bucket string
			weight float64
		)
		if err := rows.Scan(&bucket, &weight); err != nil {
			return nil, errors.NewModelStoreFailedError(fmt.Errorf("scan score_weights: %w", err))
		}
		run.WeightSet.Weights[bucket] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewModelStoreFailedError(err)
	}

	if err := scoring.Validate(run.WeightSet); err != nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	return run, nil
}
