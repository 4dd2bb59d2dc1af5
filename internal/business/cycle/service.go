package cycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

// ErrNotEnoughData is returned when fewer than two periods are recorded, so
// no cycle length can be derived.
var ErrNotEnoughData = errors.New("not enough records for a prediction")

// maxSamples caps how many recent cycle gaps feed the average.
const maxSamples = 6

type Service struct {
	db      database.PGX
	records cycleRepository
}

type cycleRepository interface {
	AddRecord(ctx context.Context, q database.Queryable, record *model.CycleRecord) (int64, error)
	UpdateRecord(ctx context.Context, q database.Queryable, record *model.CycleRecord) error
	GetRecord(ctx context.Context, q database.Queryable, id int64) (*model.CycleRecord, error)
	GetRecords(ctx context.Context, q database.Queryable, memberID int64, limit int) ([]*model.CycleRecord, error)
	DeleteRecord(ctx context.Context, q database.Queryable, id, memberID int64) error
}

func NewService(db database.PGX, repo cycleRepository) *Service {
	return &Service{
		db:      db,
		records: repo,
	}
}

func (s *Service) AddRecord(ctx context.Context, record *model.CycleRecord) (int64, error) {
	record.StartDate = recurrence.DateOf(record.StartDate)
	if record.EndDate != nil {
		d := recurrence.DateOf(*record.EndDate)
		record.EndDate = &d
		if d.Before(record.StartDate) {
			return 0, fmt.Errorf("end date before start date")
		}
	}

	id, err := s.records.AddRecord(ctx, s.db, record)
	if err != nil {
		return 0, fmt.Errorf("records.AddRecord: %w", err)
	}

	return id, nil
}

// CloseRecord sets the end date of an open period.
func (s *Service) CloseRecord(ctx context.Context, id, memberID int64, end time.Time) error {
	record, err := s.records.GetRecord(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("records.GetRecord: %w", err)
	}
	if record.MemberID != memberID {
		return model.ErrNoRecord
	}

	d := recurrence.DateOf(end)
	if d.Before(record.StartDate) {
		return fmt.Errorf("end date before start date")
	}
	record.EndDate = &d

	if err := s.records.UpdateRecord(ctx, s.db, record); err != nil {
		return fmt.Errorf("records.UpdateRecord: %w", err)
	}

	return nil
}

func (s *Service) Records(ctx context.Context, memberID int64) ([]*model.CycleRecord, error) {
	records, err := s.records.GetRecords(ctx, s.db, memberID, 0)
	if err != nil {
		return nil, fmt.Errorf("records.GetRecords: %w", err)
	}

	return records, nil
}

func (s *Service) DeleteRecord(ctx context.Context, id, memberID int64) error {
	if err := s.records.DeleteRecord(ctx, s.db, id, memberID); err != nil {
		return fmt.Errorf("records.DeleteRecord: %w", err)
	}

	return nil
}

// Predict estimates the next period start from the average of the most
// recent cycle gaps.
func (s *Service) Predict(ctx context.Context, memberID int64) (*model.CyclePrediction, error) {
	records, err := s.records.GetRecords(ctx, s.db, memberID, maxSamples+1)
	if err != nil {
		return nil, fmt.Errorf("records.GetRecords: %w", err)
	}

	return predict(records)
}

// predict works on records ordered newest first.
func predict(records []*model.CycleRecord) (*model.CyclePrediction, error) {
	if len(records) < 2 {
		return nil, ErrNotEnoughData
	}

	totalDays := 0
	samples := 0
	for i := 0; i+1 < len(records) && samples < maxSamples; i++ {
		gap := int(records[i].StartDate.Sub(records[i+1].StartDate).Hours() / 24)
		if gap <= 0 {
			continue
		}
		totalDays += gap
		samples++
	}

	if samples == 0 {
		return nil, ErrNotEnoughData
	}

	avg := totalDays / samples

	return &model.CyclePrediction{
		NextStart:    records[0].StartDate.AddDate(0, 0, avg),
		AvgCycleDays: avg,
		SamplesUsed:  samples,
	}, nil
}
