package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"github.com/jackc/pgx/v5"
)

var eventColumns = []string{
	"timetable", "line_in_file", "batch_id", "train_headcode", "operator_code", "tsc", "train_speed_load",
	"run_type", "run_time_range", "from_time", "to_time", "from_code", "to_code", "route", "running_line",
	"platform", "movement_type", "sectional_running_time", "runtime", "dwell", "engineering_allowance",
	"pathing_allowance", "performance_allowance", "adjustment_allowance", "train_description",
}

const batchMarkerTTL = 72 * time.Hour

func eventRow(batchID string, ev types.Event) []any {
	return []any{
		ev.Timetable, ev.LineInFile, batchID, ev.TrainHeadcode, ev.OperatorCode, ev.TSC, ev.TrainSpeedLoad,
		string(ev.RunType), ev.RunTimeRange, ev.FromTime, ev.ToTime, ev.FromCode, ev.ToCode, ev.Route, ev.RunningLine,
		ev.Platform, ev.MovementType, ev.SectionalRunningTime, ev.Runtime, ev.Dwell, ev.EngineeringAllowance,
		ev.PathingAllowance, ev.PerformanceAllowance, ev.AdjustmentAllowance, ev.TrainDescription,
	}
}

// StoreEvents writes a batch into pex_event, replacing rows of the same timetable lines.
// It reports false without writing when the batch was already stored.
func (dc *DataClient) StoreEvents(ctx context.Context, batch types.EventBatch) (bool, error) {
	if dc.rdb != nil {
		seen, err := dc.rdb.Exists(ctx, utils.EventBatchKey(batch.ID)).Result()
		if err != nil {
			dc.logger.Warnw("batch marker read failed", "batch", batch.ID, "error", err)
		} else if seen > 0 {
			return false, nil
		}
	}

	lines := make([]int, len(batch.Events))
	rows := make([][]any, len(batch.Events))
	for i, ev := range batch.Events {
		lines[i] = ev.LineInFile
		rows[i] = eventRow(batch.ID, ev)
	}

	tx, err := dc.pg.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM pex_event
		WHERE timetable = $1 AND line_in_file = ANY($2)
	`, batch.Timetable, lines); err != nil {
		return false, err
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"pex_event"}, eventColumns, pgx.CopyFromRows(rows)); err != nil {
		return false, fmt.Errorf("failed to copy events: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	if dc.rdb != nil {
		if err := dc.rdb.Set(ctx, utils.EventBatchKey(batch.ID), batch.Timetable, batchMarkerTTL).Err(); err != nil {
			dc.logger.Warnw("batch marker write failed", "batch", batch.ID, "error", err)
		}
	}

	return true, nil
}

// CountEvents returns the number of stored events for a timetable.
func (dc *DataClient) CountEvents(ctx context.Context, timetable string) (int, error) {
	var count int
	err := dc.pg.QueryRow(ctx, `SELECT COUNT(*) FROM pex_event WHERE timetable = $1`, timetable).Scan(&count)
	return count, err
}
