package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"github.com/jackc/pgx/v5"
)

func (dc *DataClient) GetOperatorNames(ctx context.Context) (map[string]string, error) {
	rows, err := dc.pg.Query(ctx, `
		SELECT code, name
		FROM reference_toc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	operators := make(map[string]string)
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, err
		}
		operators[code] = name
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return operators, nil
}

func (dc *DataClient) GetTiplocNames(ctx context.Context) (map[string]string, error) {
	rows, err := dc.pg.Query(ctx, `
		SELECT tiploc_code, description, tps_description
		FROM tiploc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make(map[string]string)
	for rows.Next() {
		var code string
		var description, tpsDescription sql.NullString

		if err := rows.Scan(&code, &description, &tpsDescription); err != nil {
			return nil, err
		}

		// unnamed TIPLOCs resolve to their own code
		if name := preferredName(description, tpsDescription); name != "" {
			stations[code] = name
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stations, nil
}

func preferredName(description, tpsDescription sql.NullString) string {
	if description.Valid && len(description.String) > 0 {
		return description.String
	}
	if tpsDescription.Valid && len(tpsDescription.String) > 0 {
		return tpsDescription.String
	}
	return ""
}

// ReplaceOperators swaps the whole operator table for the given names.
func (dc *DataClient) ReplaceOperators(ctx context.Context, operators map[string]string) error {
	tx, err := dc.pg.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, "TRUNCATE TABLE reference_toc"); err != nil {
		return err
	}

	rows := make([][]any, 0, len(operators))
	for code, name := range operators {
		rows = append(rows, []any{code, name})
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"reference_toc"}, []string{"code", "name"}, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to copy operators: %w", err)
	}

	return tx.Commit(ctx)
}

// UpsertTiplocNames sets the description of each TIPLOC, leaving other rows untouched.
func (dc *DataClient) UpsertTiplocNames(ctx context.Context, stations map[string]string) error {
	tx, err := dc.pg.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for code, name := range stations {
		batch.Queue(`
			INSERT INTO tiploc (tiploc_code, description)
			VALUES ($1, $2)
			ON CONFLICT (tiploc_code) DO UPDATE SET description = EXCLUDED.description
		`, code, name)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert tiplocs: %w", err)
	}

	return tx.Commit(ctx)
}

// LoadReference returns both lookup tables, served from redis when cached.
func (dc *DataClient) LoadReference(ctx context.Context) (map[string]string, map[string]string, error) {
	operators, err := dc.cachedTable(ctx, utils.OperatorReferenceKey(), dc.GetOperatorNames)
	if err != nil {
		return nil, nil, err
	}
	stations, err := dc.cachedTable(ctx, utils.TiplocReferenceKey(), dc.GetTiplocNames)
	if err != nil {
		return nil, nil, err
	}

	dc.logger.Infow("loaded reference data", "operators", len(operators), "tiplocs", len(stations))
	return operators, stations, nil
}

func (dc *DataClient) cachedTable(ctx context.Context, key string, load func(context.Context) (map[string]string, error)) (map[string]string, error) {
	if dc.rdb != nil {
		cached, err := dc.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			dc.logger.Warnw("reference cache read failed", "key", key, "error", err)
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	table, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if dc.rdb != nil && len(table) > 0 {
		pipe := dc.rdb.TxPipeline()
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, table)
		pipe.Expire(ctx, key, dc.cacheTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			dc.logger.Warnw("reference cache write failed", "key", key, "error", err)
		}
	}

	return table, nil
}

// InvalidateReference drops both cached lookup tables.
func (dc *DataClient) InvalidateReference(ctx context.Context) error {
	if dc.rdb == nil {
		return nil
	}
	return dc.rdb.Del(ctx, utils.OperatorReferenceKey(), utils.TiplocReferenceKey()).Err()
}
