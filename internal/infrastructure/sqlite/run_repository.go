package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JulHeg/LeRobotPanorama/internal/core/domain"
	"github.com/JulHeg/LeRobotPanorama/internal/core/repository"
)

const runColumns = "id, run_id, script, command, pid, status, return_code, log_file, start_time, end_time, config"

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) repository.RunRepository {
	return &runRepository{db: db}
}

// runRow is the scan target; nullable columns and the JSON config column
// are converted in toDomain.
type runRow struct {
	ID         int64         `db:"id"`
	RunID      string        `db:"run_id"`
	Script     string        `db:"script"`
	Command    string        `db:"command"`
	PID        sql.NullInt64 `db:"pid"`
	Status     string        `db:"status"`
	ReturnCode sql.NullInt64 `db:"return_code"`
	LogFile    string        `db:"log_file"`
	StartTime  time.Time     `db:"start_time"`
	EndTime    sql.NullTime  `db:"end_time"`
	Config     string        `db:"config"`
}

func (r runRow) toDomain() (*domain.Run, error) {
	run := &domain.Run{
		ID:        r.ID,
		RunID:     r.RunID,
		Script:    domain.Script(r.Script),
		Command:   r.Command,
		Status:    domain.RunStatus(r.Status),
		LogFile:   r.LogFile,
		StartTime: r.StartTime,
	}

	if r.PID.Valid {
		pid := int(r.PID.Int64)
		run.PID = &pid
	}
	if r.ReturnCode.Valid {
		rc := int(r.ReturnCode.Int64)
		run.ReturnCode = &rc
	}
	if r.EndTime.Valid {
		run.EndTime = &r.EndTime.Time
	}

	if err := json.Unmarshal([]byte(r.Config), &run.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run config: %w", err)
	}

	return run, nil
}

func (r *runRepository) Create(ctx context.Context, run *domain.Run) error {
	configJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal run config: %w", err)
	}

	query := `
		INSERT INTO run (run_id, script, command, pid, status, return_code, log_file, start_time, end_time, config)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var endTime sql.NullTime
	if run.EndTime != nil {
		endTime = sql.NullTime{Valid: true, Time: *run.EndTime}
	}

	result, err := r.db.ExecContext(ctx, query,
		run.RunID,
		string(run.Script),
		run.Command,
		NullInt(run.PID),
		run.Status,
		NullInt(run.ReturnCode),
		run.LogFile,
		run.StartTime,
		endTime,
		string(configJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	run.ID = id

	return nil
}

func (r *runRepository) FindByID(ctx context.Context, id int64) (*domain.Run, error) {
	query := fmt.Sprintf("SELECT %s FROM run WHERE id = ?", runColumns)

	var row runRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find run: %w", err)
	}

	return row.toDomain()
}

func (r *runRepository) FindByRunID(ctx context.Context, runID string) (*domain.Run, error) {
	query := fmt.Sprintf("SELECT %s FROM run WHERE run_id = ?", runColumns)

	var row runRow
	err := r.db.GetContext(ctx, &row, query, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find run: %w", err)
	}

	return row.toDomain()
}

func (r *runRepository) Update(ctx context.Context, run *domain.Run) error {
	configJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal run config: %w", err)
	}

	query := `
		UPDATE run
		SET pid = ?, status = ?, return_code = ?, end_time = ?, config = ?
		WHERE id = ?
	`

	var endTime sql.NullTime
	if run.EndTime != nil {
		endTime = sql.NullTime{Valid: true, Time: *run.EndTime}
	}

	result, err := r.db.ExecContext(ctx, query,
		NullInt(run.PID),
		run.Status,
		NullInt(run.ReturnCode),
		endTime,
		string(configJSON),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %d", run.ID)
	}

	return nil
}

func (r *runRepository) List(ctx context.Context, filter repository.RunFilter) ([]*domain.Run, error) {
	query := fmt.Sprintf("SELECT %s FROM run WHERE 1=1", runColumns)
	args := []interface{}{}

	query, args = ApplyFilters(query, args, filter.Filters)
	query = ApplyOrdering(query, filter.Order, "start_time DESC")
	query, args = ApplyPagination(query, args, filter.Page, filter.PerPage)

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*domain.Run, 0, len(rows))
	for _, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, nil
}

func (r *runRepository) Count(ctx context.Context, filter repository.RunFilter) (int, error) {
	query := "SELECT COUNT(*) FROM run WHERE 1=1"
	args := []interface{}{}

	query, args = ApplyFilters(query, args, filter.Filters)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}

	return count, nil
}

func (r *runRepository) FindRunning(ctx context.Context) ([]*domain.Run, error) {
	query := fmt.Sprintf("SELECT %s FROM run WHERE status = ? ORDER BY start_time ASC", runColumns)

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, domain.RunStatusRunning); err != nil {
		return nil, fmt.Errorf("failed to find running runs: %w", err)
	}

	runs := make([]*domain.Run, 0, len(rows))
	for _, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, nil
}
