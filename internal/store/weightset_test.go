package store

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buzz-workers/internal/common/errors"
	"buzz-workers/internal/engine/enginerr"
	"buzz-workers/internal/engine/features"
	"buzz-workers/internal/engine/scoring"
)

func testRun() *CalibrationRun {
	ws := scoring.NewWeightSet(map[string]float64{
		features.BucketKey(features.IsThread, "true"):        0.4,
		features.BucketKey(features.HasExternalLink, "true"): -0.2,
	}, scoring.StatusCalibrated, 42)
	run := NewCalibrationRun("global", "default", ws, 0.37)
	run.CreatedAt = baseTime
	return run
}

// ==========================
// SaveRun
// ==========================

func TestWeightSetRepository_SaveRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	run := testRun()
	ws := run.WeightSet

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO score_history")).
		WithArgs(sqlmock.AnyArg(), "global", "calibrated", "default", 42, 0.37, ws.Low, ws.High, nil, baseTime).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// buckets are written in sorted order
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO score_weights")).
		WithArgs(sqlmock.AnyArg(), features.BucketKey(features.HasExternalLink, "true"), -0.2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO score_weights")).
		WithArgs(sqlmock.AnyArg(), features.BucketKey(features.IsThread, "true"), 0.4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewWeightSetRepository(db).SaveRun(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeightSetRepository_SaveRunRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO score_history")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO score_weights")).
		WillReturnError(stderrors.New("disk full"))
	mock.ExpectRollback()

	err = NewWeightSetRepository(db).SaveRun(context.Background(), testRun())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeModelStoreFailed, errors.Normalize(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeightSetRepository_SaveRunRequiresWeights(t *testing.T) {
	err := NewWeightSetRepository(nil).SaveRun(context.Background(), &CalibrationRun{Scope: "global"})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.Normalize(err).Code)
}

// ==========================
// LatestRun
// ==========================

var historyColumns = []string{"run_id", "status", "table_version", "sample_size", "correlation", "low", "high", "notes", "created_at"}

func TestWeightSetRepository_LatestRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	want := testRun()
	id := uuid.MustParse("9b2f4c1e-3a55-4d0b-8f6e-2c7d1a0e5b44")

	mock.ExpectQuery(regexp.QuoteMeta("FROM score_history WHERE scope = $1")).
		WithArgs("global").
		WillReturnRows(sqlmock.NewRows(historyColumns).
			AddRow(id.String(), "calibrated", "default", 42, 0.37, want.WeightSet.Low, want.WeightSet.High, nil, baseTime))
	mock.ExpectQuery(regexp.QuoteMeta("FROM score_weights WHERE run_id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"bucket", "weight"}).
			AddRow(features.BucketKey(features.IsThread, "true"), 0.4).
			AddRow(features.BucketKey(features.HasExternalLink, "true"), -0.2))

	got, err := NewWeightSetRepository(db).LatestRun(context.Background(), "global")
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "global", got.Scope)
	assert.Equal(t, 0.37, got.Correlation)
	assert.Equal(t, want.WeightSet.Weights, got.WeightSet.Weights)
	assert.Equal(t, scoring.StatusCalibrated, got.WeightSet.Status)
	assert.Equal(t, 42, got.WeightSet.SampleSize)
	assert.Equal(t, want.WeightSet.Low, got.WeightSet.Low)
	assert.Equal(t, want.WeightSet.High, got.WeightSet.High)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeightSetRepository_LatestRunNone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM score_history").WillReturnRows(sqlmock.NewRows(historyColumns))

	_, err = NewWeightSetRepository(db).LatestRun(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoRun)
}

func TestWeightSetRepository_LatestRunCorrupt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM score_history").
		WillReturnRows(sqlmock.NewRows(historyColumns).
			AddRow(uuid.NewString(), "calibrated", "default", 12, 0.1, 0.0, 1.0, "hand edited", baseTime))
	mock.ExpectQuery("FROM score_weights").
		WillReturnRows(sqlmock.NewRows([]string{"bucket", "weight"}).AddRow("not_a_feature=yes", 1.0))

	_, err = NewWeightSetRepository(db).LatestRun(context.Background(), "global")
	require.Error(t, err)
	assert.True(t, enginerr.IsConfiguration(err))
}
