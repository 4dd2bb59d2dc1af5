package gamification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/database/databasetest"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

type fakePetsRepo struct {
	pets      map[int64]*model.Pet
	entries   []*model.XPEntry
	summaries map[string]map[int64]int
	rollovers map[string]struct{}
}

func newFakePetsRepo() *fakePetsRepo {
	return &fakePetsRepo{
		pets:      map[int64]*model.Pet{},
		summaries: map[string]map[int64]int{},
		rollovers: map[string]struct{}{},
	}
}

func (f *fakePetsRepo) EnsurePet(_ context.Context, _ database.Queryable, memberID int64) (*model.Pet, error) {
	if pet, ok := f.pets[memberID]; ok {
		cp := *pet
		return &cp, nil
	}
	pet := &model.Pet{ID: memberID, MemberID: memberID, Stage: model.StageEgg}
	f.pets[memberID] = pet
	cp := *pet
	return &cp, nil
}

func (f *fakePetsRepo) GetPetByMember(_ context.Context, _ database.Queryable, memberID int64) (*model.Pet, error) {
	pet, ok := f.pets[memberID]
	if !ok {
		return nil, model.ErrNoRecord
	}
	cp := *pet
	return &cp, nil
}

func (f *fakePetsRepo) UpdatePet(_ context.Context, _ database.Queryable, pet *model.Pet) error {
	cp := *pet
	f.pets[pet.MemberID] = &cp
	return nil
}

func (f *fakePetsRepo) AddXPEntry(_ context.Context, _ database.Queryable, entry *model.XPEntry) error {
	f.entries = append(f.entries, entry)
	if f.summaries[entry.Month] == nil {
		f.summaries[entry.Month] = map[int64]int{}
	}
	f.summaries[entry.Month][entry.MemberID] += entry.Points
	return nil
}

func (f *fakePetsRepo) GetMonthSummaries(_ context.Context, _ database.Queryable, _ int64, month string) ([]*model.XPSummary, error) {
	var res []*model.XPSummary
	for memberID, points := range f.summaries[month] {
		res = append(res, &model.XPSummary{MemberID: memberID, Month: month, Points: points})
	}
	return res, nil
}

func (f *fakePetsRepo) AddRollover(_ context.Context, _ database.Queryable, _ int64, month string) error {
	if _, ok := f.rollovers[month]; ok {
		return model.ErrAlreadyExists
	}
	f.rollovers[month] = struct{}{}
	return nil
}

type fakeFamiliesRepo struct {
	members []*model.Member
}

func (f *fakeFamiliesRepo) GetFamilyMembers(_ context.Context, _ database.Queryable, _ int64) ([]*model.Member, error) {
	return f.members, nil
}

func newTestService(pets *fakePetsRepo, families *fakeFamiliesRepo) *Service {
	s := NewService(&databasetest.FakeDB{}, pets, families, 100)
	s.now = func() time.Time {
		return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{xp: 0, want: 1},
		{xp: 99, want: 1},
		{xp: 100, want: 2},
		{xp: 450, want: 5},
		{xp: 900, want: 10},
		{xp: -10, want: 1},
	}

	for _, tt := range tests {
		if got := Level(tt.xp); got != tt.want {
			t.Errorf("Level(%v) = %v, want %v", tt.xp, got, tt.want)
		}
	}
}

func TestStageForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  model.GrowthStage
	}{
		{level: 1, want: model.StageBaby},
		{level: 4, want: model.StageBaby},
		{level: 5, want: model.StageChild},
		{level: 9, want: model.StageChild},
		{level: 10, want: model.StageAdult},
		{level: 25, want: model.StageAdult},
	}

	for _, tt := range tests {
		if got := StageForLevel(tt.level); got != tt.want {
			t.Errorf("StageForLevel(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSpeciesForDeterministic(t *testing.T) {
	first := SpeciesFor(42, "2024-01")
	for i := 0; i < 10; i++ {
		if got := SpeciesFor(42, "2024-01"); got != first {
			t.Fatalf("SpeciesFor changed between calls: %v then %v", first, got)
		}
	}

	if first < 0 || int(first) >= model.NumSpecies {
		t.Fatalf("SpeciesFor returned %v, outside the species range", first)
	}
}

func TestAwardAndRetract(t *testing.T) {
	pets := newFakePetsRepo()
	s := newTestService(pets, &fakeFamiliesRepo{})

	ctx := context.Background()
	db := &databasetest.FakeDB{}

	if err := s.AwardTaskXP(ctx, db, 1, 10, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.RetractTaskXP(ctx, db, 1, 10, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pet := pets.pets[1]
	if pet.XP != 0 {
		t.Errorf("XP after award and retract = %v, want 0", pet.XP)
	}
	if len(pets.entries) != 2 {
		t.Errorf("ledger entries = %v, want 2 (retraction must not delete)", len(pets.entries))
	}
	if pets.entries[1].Points != -30 {
		t.Errorf("retraction entry points = %v, want -30", pets.entries[1].Points)
	}
}

func TestRetractNeverGoesNegative(t *testing.T) {
	pets := newFakePetsRepo()
	s := newTestService(pets, &fakeFamiliesRepo{})

	ctx := context.Background()
	db := &databasetest.FakeDB{}

	if err := s.AwardTaskXP(ctx, db, 1, 10, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A second retraction for the same toggle should clamp, not underflow.
	if err := s.RetractTaskXP(ctx, db, 1, 10, 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pets.pets[1].XP != 0 {
		t.Errorf("XP = %v, want clamp at 0", pets.pets[1].XP)
	}
}

func TestEggStaysEggUntilRollover(t *testing.T) {
	pets := newFakePetsRepo()
	s := newTestService(pets, &fakeFamiliesRepo{})

	if err := s.AwardBonus(context.Background(), 1, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pets.pets[1].Stage != model.StageEgg {
		t.Errorf("stage = %v, want egg before rollover", pets.pets[1].Stage)
	}
}

func TestRollover(t *testing.T) {
	pets := newFakePetsRepo()
	families := &fakeFamiliesRepo{members: []*model.Member{
		{ID: 1, MemberCreate: model.MemberCreate{FamilyID: 7}},
		{ID: 2, MemberCreate: model.MemberCreate{FamilyID: 7}},
	}}
	s := newTestService(pets, families)

	ctx := context.Background()

	// Member 1 clears the threshold, member 2 does not.
	if err := s.AwardBonus(ctx, 1, 120); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AwardBonus(ctx, 2, 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Rollover(ctx, 7, "2024-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hatched := pets.pets[1]
	if hatched.Stage == model.StageEgg {
		t.Fatal("member 1's pet should have hatched")
	}
	if hatched.HatchedMonth != "2024-01" {
		t.Errorf("hatched month = %q, want 2024-01", hatched.HatchedMonth)
	}
	if hatched.Species != SpeciesFor(1, "2024-01") {
		t.Errorf("species = %v, want deterministic %v", hatched.Species, SpeciesFor(1, "2024-01"))
	}

	if pets.pets[2].Stage != model.StageEgg {
		t.Error("member 2's pet should still be an egg")
	}
}

func TestRolloverIdempotent(t *testing.T) {
	pets := newFakePetsRepo()
	families := &fakeFamiliesRepo{members: []*model.Member{
		{ID: 1, MemberCreate: model.MemberCreate{FamilyID: 7}},
	}}
	s := newTestService(pets, families)

	ctx := context.Background()
	if err := s.AwardBonus(ctx, 1, 200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Rollover(ctx, 7, "2024-01"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	speciesAfterFirst := pets.pets[1].Species

	err := s.Rollover(ctx, 7, "2024-01")
	if !errors.Is(err, model.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists on repeat rollover, got %v", err)
	}
	if pets.pets[1].Species != speciesAfterFirst {
		t.Error("repeat rollover must not change the pet")
	}
}
