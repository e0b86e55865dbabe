package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"koralai-host/internal/domain/model"
	"koralai-host/internal/platform/id"
)

// Store 封装启动日志（launches 表）的读写。
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// AppendLaunch 追加一条启动记录，补齐 launch_id / occurred_at / 链式哈希后返回。
// 链的前驱取自最后一条记录（按 seq），空库时前驱为空串。
func (s *Store) AppendLaunch(ctx context.Context, rec model.LaunchRecord) (model.LaunchRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.LaunchRecord{}, fmt.Errorf("begin tx append launch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	prev := ""
	err = tx.QueryRowContext(ctx, `
		SELECT chain_hash
		FROM launches
		ORDER BY seq DESC
		LIMIT 1
	`).Scan(&prev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.LaunchRecord{}, fmt.Errorf("query previous chain hash: %w", err)
	}
	err = nil

	if rec.LaunchID == "" {
		rec.LaunchID = id.New("launch")
	}
	if rec.OccurredAt == 0 {
		rec.OccurredAt = time.Now().Unix()
	}
	rec.ChainPrevHash = prev
	rec.ChainHash = rec.ComputeChainHash(prev)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO launches(
			launch_id, target_kind, target, homepage, entry_point, backend,
			settings_sha256, app_version, occurred_at, chain_prev_hash, chain_hash
		)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.LaunchID, string(rec.TargetKind), rec.Target, nullIfEmpty(rec.Homepage), rec.EntryPoint,
		nullIfEmpty(rec.Backend), rec.SettingsSHA256, nullIfEmpty(rec.AppVersion), rec.OccurredAt,
		nullIfEmpty(prev), rec.ChainHash)
	if err != nil {
		return model.LaunchRecord{}, fmt.Errorf("insert launch: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return model.LaunchRecord{}, fmt.Errorf("commit append launch: %w", err)
	}
	return rec, nil
}

// ListLaunches 返回最近 limit 条记录（按时间正序）；limit<=0 返回全部。
func (s *Store) ListLaunches(ctx context.Context, limit int) ([]model.LaunchRecord, error) {
	query := `
		SELECT
			launch_id,
			target_kind,
			target,
			COALESCE(homepage, ''),
			entry_point,
			COALESCE(backend, ''),
			settings_sha256,
			COALESCE(app_version, ''),
			occurred_at,
			COALESCE(chain_prev_hash, ''),
			chain_hash,
			seq
		FROM launches
	`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, `SELECT * FROM (`+query+` ORDER BY seq DESC LIMIT ?) ORDER BY seq ASC`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query+` ORDER BY seq ASC`)
	}
	if err != nil {
		return nil, fmt.Errorf("query launches: %w", err)
	}
	defer rows.Close()

	out := []model.LaunchRecord{}
	for rows.Next() {
		var (
			item model.LaunchRecord
			kind string
			seq  int64
		)
		if err := rows.Scan(
			&item.LaunchID,
			&kind,
			&item.Target,
			&item.Homepage,
			&item.EntryPoint,
			&item.Backend,
			&item.SettingsSHA256,
			&item.AppVersion,
			&item.OccurredAt,
			&item.ChainPrevHash,
			&item.ChainHash,
			&seq,
		); err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}
		item.TargetKind = model.TargetKind(kind)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launches: %w", err)
	}
	return out, nil
}

// CountLaunches 返回启动记录总数。
func (s *Store) CountLaunches(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM launches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count launches: %w", err)
	}
	return n, nil
}

// GetSchemaMetaValue 查询 schema_meta 表指定 key 的 value，不存在时返回空串。
func (s *Store) GetSchemaMetaValue(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `
		SELECT value
		FROM schema_meta
		WHERE key = ?
		LIMIT 1
	`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("query schema_meta %s: %w", key, err)
	}
	return v, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
