package tickets

import "github.com/aircompany/bookingflow/internal/domain"

// Merge combines the durable local record list with the remote collaborator's
// view, deduplicated by ticket number. The remote copy is authoritative when
// both sides hold the same ticket; local-only entries (typically fallback
// simulations) are preserved. Merge is pure and idempotent: merging a result
// with itself yields the same set.
func Merge(local, remote []domain.BookingRecord) []domain.BookingRecord {
	merged := make([]domain.BookingRecord, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local)+len(remote))

	for _, rec := range remote {
		if _, dup := seen[rec.TicketNumber]; dup {
			continue
		}
		seen[rec.TicketNumber] = struct{}{}
		merged = append(merged, rec)
	}
	for _, rec := range local {
		if _, dup := seen[rec.TicketNumber]; dup {
			continue
		}
		seen[rec.TicketNumber] = struct{}{}
		merged = append(merged, rec)
	}
	return merged
}
