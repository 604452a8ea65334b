// Package report_repo provides the PostgreSQL implementation for day reports.
package report_repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"tavolo/internal/core/businessday"
	"tavolo/internal/domain/reports"
	"tavolo/internal/infrastructure/storage/postgres"
)

const reportsTable = "day_reports"

// Compile-time check that ReportRepo implements reports.Repository.
var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository on a (date, payload jsonb)
// table. Payloads written before the multi-run format hold a single run
// at the top level; DecodePayload upgrades that shape on read, so the
// stored bytes are never rewritten for old days.
type ReportRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// runsPayload is the current storage shape.
type runsPayload struct {
	Runs []reports.Run `json:"runs"`
}

// DecodePayload decodes a stored report payload into a DayReport,
// upgrading the legacy single-run shape {createdAt, orderCount, ...}
// to a one-element run list.
func DecodePayload(date businessday.Date, payload []byte) (*reports.DayReport, error) {
	var current runsPayload
	if err := json.Unmarshal(payload, &current); err == nil && current.Runs != nil {
		return &reports.DayReport{Date: date, Runs: current.Runs}, nil
	}

	var legacy reports.Run
	if err := json.Unmarshal(payload, &legacy); err != nil {
		return nil, fmt.Errorf("decode report payload for %s: %w", date, err)
	}

	return &reports.DayReport{Date: date, Runs: []reports.Run{legacy}}, nil
}

// EncodePayload encodes a DayReport into the current storage shape.
func EncodePayload(report *reports.DayReport) ([]byte, error) {
	payload, err := json.Marshal(runsPayload{Runs: report.Runs})
	if err != nil {
		return nil, fmt.Errorf("encode report payload for %s: %w", report.Date, err)
	}
	return payload, nil
}

// Get returns the report for a date, or nil when none exists.
func (r *ReportRepo) Get(ctx context.Context, date businessday.Date) (*reports.DayReport, error) {
	q := r.builder.
		Select("payload").
		From(reportsTable).
		Where(squirrel.Eq{"date": date}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payload []byte
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	return DecodePayload(date, payload)
}

// Put upserts the report for its date.
func (r *ReportRepo) Put(ctx context.Context, report *reports.DayReport) error {
	payload, err := EncodePayload(report)
	if err != nil {
		return err
	}

	q := r.builder.
		Insert(reportsTable).
		Columns("date", "payload").
		Values(report.Date, payload).
		Suffix("ON CONFLICT (date) DO UPDATE SET payload = EXCLUDED.payload")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	_, err = r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("put report: %w", err)
	}

	return nil
}

// ListRange returns reports with start <= date <= end, ascending by date.
func (r *ReportRepo) ListRange(ctx context.Context, start, end businessday.Date) ([]*reports.DayReport, error) {
	q := r.builder.
		Select("date", "payload").
		From(reportsTable).
		Where(squirrel.GtOrEq{"date": start}).
		Where(squirrel.LtOrEq{"date": end}).
		OrderBy("date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var result []*reports.DayReport
	for rows.Next() {
		var (
			date    businessday.Date
			payload []byte
		)
		if err := rows.Scan(&date, &payload); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}

		report, err := DecodePayload(date, payload)
		if err != nil {
			return nil, err
		}
		result = append(result, report)
	}

	return result, rows.Err()
}
