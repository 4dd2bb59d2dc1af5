package cycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/jackc/pgx/v4"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select("id", "member_id", "start_date", "end_date", "note", "created_at").
	From(database.CycleTable)

type recordDTO struct {
	ID        int64
	MemberID  int64
	StartDate time.Time
	EndDate   *time.Time
	Note      string
	CreatedAt time.Time
}

func mapToRecord(d *recordDTO) *model.CycleRecord {
	return &model.CycleRecord{
		ID:        d.ID,
		MemberID:  d.MemberID,
		StartDate: d.StartDate.UTC(),
		EndDate:   d.EndDate,
		Note:      d.Note,
		CreatedAt: d.CreatedAt,
	}
}

func (*Repository) AddRecord(ctx context.Context, q database.Queryable, record *model.CycleRecord) (int64, error) {
	qb := database.PSQL.
		Insert(database.CycleTable).
		Columns("member_id", "start_date", "end_date", "note").
		Values(record.MemberID, record.StartDate, record.EndDate, record.Note).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		if database.IsUniqueViolation(err) {
			return 0, model.ErrAlreadyExists
		}
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

func (*Repository) UpdateRecord(ctx context.Context, q database.Queryable, record *model.CycleRecord) error {
	qb := database.PSQL.
		Update(database.CycleTable).
		SetMap(map[string]interface{}{
			"end_date": record.EndDate,
			"note":     record.Note,
		}).
		Where(sq.Eq{"id": record.ID, "member_id": record.MemberID})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}

// GetRecords returns the member's records newest first, at most limit of them
// (0 means all).
func (*Repository) GetRecords(ctx context.Context, q database.Queryable, memberID int64, limit int) ([]*model.CycleRecord, error) {
	qb := baseQuery.
		Where(sq.Eq{"member_id": memberID}).
		OrderBy("start_date desc")

	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}

	var dtos []*recordDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.CycleRecord, len(dtos))
	for i, d := range dtos {
		res[i] = mapToRecord(d)
	}

	return res, nil
}

func (*Repository) GetRecord(ctx context.Context, q database.Queryable, id int64) (*model.CycleRecord, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": id})

	dto := &recordDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToRecord(dto), nil
}

func (*Repository) DeleteRecord(ctx context.Context, q database.Queryable, id, memberID int64) error {
	qb := database.PSQL.
		Delete(database.CycleTable).
		Where(sq.Eq{"id": id, "member_id": memberID})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
