package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRecordNotFound = errors.New("booking record not found")

// BookingRecordRepository is the durable local side of the ticket store.
// Appends are all-or-nothing per record and idempotent by ticket number.
type BookingRecordRepository interface {
	Append(ctx context.Context, rec *domain.BookingRecord) error
	ListByIdentity(ctx context.Context, identityID string) ([]domain.BookingRecord, error)
	GetByTicketNumber(ctx context.Context, ticketNumber string) (*domain.BookingRecord, error)
	UpdateStatus(ctx context.Context, ticketNumber string, status domain.RecordStatus) (*domain.BookingRecord, error)
	MarkReconciled(ctx context.Context, ticketNumber string) (*domain.BookingRecord, error)
	ListLocalSimulated(ctx context.Context) ([]domain.BookingRecord, error)
}

type PGBookingRecordRepository struct {
	db *pgxpool.Pool
}

func NewBookingRecordRepository(db *pgxpool.Pool) BookingRecordRepository {
	return &PGBookingRecordRepository{db: db}
}

const recordColumns = `ticket_number, booking_reference, payment_confirmation_id, identity_id, flight, passenger, seat, cabin_class, total_cents, payment_method, status, origin, created_at`

func (r *PGBookingRecordRepository) Append(ctx context.Context, rec *domain.BookingRecord) error {
	flight, err := json.Marshal(rec.Flight)
	if err != nil {
		return fmt.Errorf("marshal flight snapshot: %w", err)
	}
	passenger, err := json.Marshal(rec.Passenger)
	if err != nil {
		return fmt.Errorf("marshal passenger snapshot: %w", err)
	}
	var seat []byte
	if rec.Seat != nil {
		if seat, err = json.Marshal(rec.Seat); err != nil {
			return fmt.Errorf("marshal seat snapshot: %w", err)
		}
	}

	_, err = r.db.Exec(ctx, `INSERT INTO booking_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (ticket_number) DO NOTHING`,
		rec.TicketNumber, rec.BookingReference, rec.PaymentConfirmationID, rec.IdentityID,
		flight, passenger, seat, rec.CabinClass, int64(rec.TotalPaid), rec.PaymentMethod,
		rec.Status, rec.Origin, rec.CreatedAt)
	return err
}

func (r *PGBookingRecordRepository) ListByIdentity(ctx context.Context, identityID string) ([]domain.BookingRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recordColumns+` FROM booking_records WHERE identity_id=$1 ORDER BY created_at DESC`, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *PGBookingRecordRepository) GetByTicketNumber(ctx context.Context, ticketNumber string) (*domain.BookingRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+recordColumns+` FROM booking_records WHERE ticket_number=$1`, ticketNumber)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *PGBookingRecordRepository) UpdateStatus(ctx context.Context, ticketNumber string, status domain.RecordStatus) (*domain.BookingRecord, error) {
	row := r.db.QueryRow(ctx, `UPDATE booking_records SET status=$1 WHERE ticket_number=$2 RETURNING `+recordColumns, status, ticketNumber)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *PGBookingRecordRepository) MarkReconciled(ctx context.Context, ticketNumber string) (*domain.BookingRecord, error) {
	row := r.db.QueryRow(ctx, `UPDATE booking_records SET origin=$1 WHERE ticket_number=$2 RETURNING `+recordColumns, domain.OriginRemote, ticketNumber)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *PGBookingRecordRepository) ListLocalSimulated(ctx context.Context) ([]domain.BookingRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recordColumns+` FROM booking_records WHERE origin=$1 ORDER BY created_at`, domain.OriginLocalSimulated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.BookingRecord, error) {
	var (
		rec        domain.BookingRecord
		flight     []byte
		passenger  []byte
		seat       []byte
		totalCents int64
	)
	if err := row.Scan(&rec.TicketNumber, &rec.BookingReference, &rec.PaymentConfirmationID, &rec.IdentityID,
		&flight, &passenger, &seat, &rec.CabinClass, &totalCents, &rec.PaymentMethod,
		&rec.Status, &rec.Origin, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(flight, &rec.Flight); err != nil {
		return nil, fmt.Errorf("decode flight snapshot: %w", err)
	}
	if err := json.Unmarshal(passenger, &rec.Passenger); err != nil {
		return nil, fmt.Errorf("decode passenger snapshot: %w", err)
	}
	if len(seat) > 0 {
		rec.Seat = &domain.SeatSelection{}
		if err := json.Unmarshal(seat, rec.Seat); err != nil {
			return nil, fmt.Errorf("decode seat snapshot: %w", err)
		}
	}
	rec.TotalPaid = domain.Money(totalCents)
	return &rec, nil
}

func scanRecords(rows pgx.Rows) ([]domain.BookingRecord, error) {
	records := make([]domain.BookingRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

var _ BookingRecordRepository = (*PGBookingRecordRepository)(nil)
