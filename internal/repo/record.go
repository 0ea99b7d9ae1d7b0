// Package repo contains all database access logic for the transport report API.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ycliang/transport-report/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRecordRepo defines the persistence operations for trip records.
// The interface deliberately mirrors the upstream spreadsheet's contract:
// single-row append and full-table read, nothing else. There is no update,
// no delete, and no filtered query — month and day filtering happen in the
// service layer over the full set, exactly as the report always worked.
type TripRecordRepo interface {
	// Append inserts one record and returns the persisted row (with
	// DB-generated id and created_at populated).
	Append(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error)

	// ListAll returns every record, newest trip date first (ties broken by
	// creation time descending, so the latest filing is always first).
	ListAll(ctx context.Context) ([]domain.TripRecord, error)
}

// pgTripRecordRepo is the Postgres implementation of TripRecordRepo.
type pgTripRecordRepo struct {
	db db
}

// NewTripRecordRepo constructs a TripRecordRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRecordRepo(db db) TripRecordRepo {
	return &pgTripRecordRepo{db: db}
}

// Append inserts one trip record row and returns the full persisted record.
func (r *pgTripRecordRepo) Append(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
	const q = `
		INSERT INTO trip_records (
			driver, trip_date, start_time, end_time, route,
			odometer_start, odometer_end, distance,
			pallets_sent, pallets_received, pallets_total,
			empty_baskets, empty_pallets, customer_count, remark
		) VALUES (
			@driver, @trip_date, @start_time, @end_time, @route,
			@odometer_start, @odometer_end, @distance,
			@pallets_sent, @pallets_received, @pallets_total,
			@empty_baskets, @empty_pallets, @customer_count, @remark
		)
		RETURNING ` + recordColumns

	args := pgx.NamedArgs{
		"driver":           rec.Driver,
		"trip_date":        rec.TripDate,
		"start_time":       rec.StartTime,
		"end_time":         rec.EndTime,
		"route":            rec.Route,
		"odometer_start":   rec.OdometerStart,
		"odometer_end":     rec.OdometerEnd,
		"distance":         rec.Distance,
		"pallets_sent":     rec.PalletsSent,
		"pallets_received": rec.PalletsReceived,
		"pallets_total":    rec.PalletsTotal,
		"empty_baskets":    rec.EmptyBaskets,
		"empty_pallets":    rec.EmptyPallets,
		"customer_count":   rec.CustomerCount,
		"remark":           rec.Remark,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRecord(row)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("repo.TripRecordRepo.Append: %w", err)
	}
	return result, nil
}

// ListAll returns every trip record, newest first.
func (r *pgTripRecordRepo) ListAll(ctx context.Context) ([]domain.TripRecord, error) {
	const q = `
		SELECT ` + recordColumns + `
		FROM trip_records
		ORDER BY trip_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRecordRepo.ListAll: %w", err)
	}
	defer rows.Close()

	var records []domain.TripRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRecordRepo.ListAll: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRecordRepo.ListAll: rows: %w", err)
	}

	return records, nil
}

// recordColumns is the canonical column list shared by Append's RETURNING
// clause and ListAll's SELECT, so scanRecord sees one fixed order.
const recordColumns = `
	id, driver, trip_date, start_time, end_time, route,
	odometer_start, odometer_end, distance,
	pallets_sent, pallets_received, pallets_total,
	empty_baskets, empty_pallets, customer_count, remark, created_at`

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanRecord to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord maps a single database row into a domain.TripRecord.
func scanRecord(s scanner) (domain.TripRecord, error) {
	var (
		rec      domain.TripRecord
		id       pgtype.UUID
		tripDate pgtype.Date
	)

	err := s.Scan(
		&id, &rec.Driver, &tripDate, &rec.StartTime, &rec.EndTime, &rec.Route,
		&rec.OdometerStart, &rec.OdometerEnd, &rec.Distance,
		&rec.PalletsSent, &rec.PalletsReceived, &rec.PalletsTotal,
		&rec.EmptyBaskets, &rec.EmptyPallets, &rec.CustomerCount,
		&rec.Remark, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripRecord{}, domain.ErrNotFound
		}
		return domain.TripRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.TripDate = tripDate.Time
	return rec, nil
}
