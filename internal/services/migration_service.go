package services

import (
	"context"
	"fmt"
	"time"

	"busagency/internal/domain"
	"busagency/internal/repositories"
	"busagency/internal/utils"
)

const (
	TripMigrated = "migrated"
	TripSkipped  = "skipped"
)

// MigrationService backfills seat maps for trips created before seat maps
// existed. Idempotent: trips that already have seat rows are skipped, so the
// whole batch can be re-run at any time.
type MigrationService struct {
	TripsRepo   repositories.TripsRepository
	SeatMapRepo repositories.SeatMapRepository
	SeatMaps    SeatMapService
	// Pause spaces out trips so a large backfill does not hammer the store.
	Pause     time.Duration
	RequestID string
}

type MigrationSummary struct {
	Total         int     `json:"total"`
	Migrated      int     `json:"migrated"`
	Skipped       int     `json:"skipped"`
	Errors        int     `json:"errors"`
	FailedTripIDs []int64 `json:"failedTripIds,omitempty"`
}

type MigrationStatus struct {
	TotalActiveTrips  int     `json:"totalActiveTrips"`
	TripsWithSeatMaps int     `json:"tripsWithSeatMaps"`
	PercentComplete   float64 `json:"percentComplete"`
	Complete          bool    `json:"complete"`
}

// MigrateAll walks every active trip. A failing trip is counted and logged,
// never aborts the batch; it simply stays unmigrated for the next run.
func (s MigrationService) MigrateAll(ctx context.Context) (MigrationSummary, error) {
	summary := MigrationSummary{}

	ids, err := s.TripsRepo.ListActiveIDs(ctx)
	if err != nil {
		return summary, domain.InternalError{Msg: "failed to list active trips", Err: err}
	}
	summary.Total = len(ids)

	for i, tripID := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, err := s.MigrateTrip(ctx, tripID)
		switch {
		case err != nil:
			summary.Errors++
			summary.FailedTripIDs = append(summary.FailedTripIDs, tripID)
			utils.LogEvent(s.RequestID, "migration", "trip_error",
				fmt.Sprintf("trip_id=%d err=%v", tripID, err))
		case outcome == TripSkipped:
			summary.Skipped++
		default:
			summary.Migrated++
		}

		if s.Pause > 0 && i < len(ids)-1 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(s.Pause):
			}
		}
	}

	utils.LogEvent(s.RequestID, "migration", "done",
		fmt.Sprintf("total=%d migrated=%d skipped=%d errors=%d",
			summary.Total, summary.Migrated, summary.Skipped, summary.Errors))
	return summary, nil
}

// MigrateTrip backfills one trip: generate the seat map, then reconcile
// availability against existing bookings. Already-migrated trips are skipped.
func (s MigrationService) MigrateTrip(ctx context.Context, tripID int64) (string, error) {
	count, err := s.SeatMapRepo.CountByTrip(ctx, tripID)
	if err != nil {
		return "", domain.InternalError{Msg: "failed to check seat map", Err: err}
	}
	if count > 0 {
		return TripSkipped, nil
	}

	if _, err := s.seatMaps().InitializeTrip(ctx, tripID); err != nil {
		return "", err
	}
	if err := s.seatMaps().SyncTrip(ctx, tripID); err != nil {
		return "", err
	}
	return TripMigrated, nil
}

// Status reports completion without touching any data: total active trips vs
// trips that have at least one seat row.
func (s MigrationService) Status(ctx context.Context) (MigrationStatus, error) {
	total, err := s.TripsRepo.CountActive(ctx)
	if err != nil {
		return MigrationStatus{}, domain.InternalError{Msg: "failed to count trips", Err: err}
	}
	withSeats, err := s.SeatMapRepo.DistinctTripCount(ctx)
	if err != nil {
		return MigrationStatus{}, domain.InternalError{Msg: "failed to count seat maps", Err: err}
	}

	status := MigrationStatus{
		TotalActiveTrips:  total,
		TripsWithSeatMaps: withSeats,
	}
	if total > 0 {
		status.PercentComplete = float64(withSeats) / float64(total) * 100
	} else {
		status.PercentComplete = 100
	}
	status.Complete = withSeats >= total
	return status, nil
}

func (s MigrationService) seatMaps() SeatMapService {
	sm := s.SeatMaps
	if sm.RequestID == "" {
		sm.RequestID = s.RequestID
	}
	return sm
}
