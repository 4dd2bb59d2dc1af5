package cycle

import (
	"errors"
	"testing"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func startsAt(dates ...time.Time) []*model.CycleRecord {
	records := make([]*model.CycleRecord, len(dates))
	for i, d := range dates {
		records[i] = &model.CycleRecord{ID: int64(i + 1), MemberID: 1, StartDate: d}
	}
	return records
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name          string
		records       []*model.CycleRecord
		wantNextStart time.Time
		wantAvg       int
		wantSamples   int
		wantErr       error
	}{
		{
			name:    "no records",
			records: nil,
			wantErr: ErrNotEnoughData,
		},
		{
			name:    "single record",
			records: startsAt(day(2024, 3, 1)),
			wantErr: ErrNotEnoughData,
		},
		{
			name:          "two records",
			records:       startsAt(day(2024, 3, 29), day(2024, 3, 1)),
			wantNextStart: day(2024, 4, 26),
			wantAvg:       28,
			wantSamples:   1,
		},
		{
			name: "uneven gaps average out",
			records: startsAt(
				day(2024, 3, 29), // gap 30
				day(2024, 2, 28), // gap 26
				day(2024, 2, 2),
			),
			wantNextStart: day(2024, 4, 26),
			wantAvg:       28,
			wantSamples:   2,
		},
		{
			name: "only recent gaps counted",
			records: startsAt(
				day(2024, 7, 1),
				day(2024, 6, 3),
				day(2024, 5, 6),
				day(2024, 4, 8),
				day(2024, 3, 11),
				day(2024, 2, 12),
				day(2024, 1, 15),
			),
			wantAvg:       28,
			wantNextStart: day(2024, 7, 29),
			wantSamples:   6,
		},
		{
			name:    "duplicate start dates give no usable gap",
			records: startsAt(day(2024, 3, 1), day(2024, 3, 1)),
			wantErr: ErrNotEnoughData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := predict(tt.records)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.NextStart.Equal(tt.wantNextStart) {
				t.Errorf("next start = %v, want %v", got.NextStart, tt.wantNextStart)
			}
			if got.AvgCycleDays != tt.wantAvg {
				t.Errorf("avg cycle days = %v, want %v", got.AvgCycleDays, tt.wantAvg)
			}
			if got.SamplesUsed != tt.wantSamples {
				t.Errorf("samples used = %v, want %v", got.SamplesUsed, tt.wantSamples)
			}
		})
	}
}
