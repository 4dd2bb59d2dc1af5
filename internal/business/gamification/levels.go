package gamification

import (
	"fmt"
	"hash/fnv"

	"github.com/avasilkov/family-organizer-backend/internal/model"
)

const xpPerLevel = 100

// Level derives a pet's level from its accumulated XP.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return 1 + xp/xpPerLevel
}

// StageForLevel maps a hatched pet's level to its growth stage.
func StageForLevel(level int) model.GrowthStage {
	switch {
	case level >= 10:
		return model.StageAdult
	case level >= 5:
		return model.StageChild
	default:
		return model.StageBaby
	}
}

// SpeciesFor picks the species an egg hatches into. It hashes the member and
// the hatch month so the result is deterministic: re-running a rollover can
// never produce a different pet.
func SpeciesFor(memberID int64, month string) model.PetSpecies {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%s", memberID, month)
	return model.PetSpecies(h.Sum32() % uint32(model.NumSpecies))
}

// recompute refreshes the derived stage after an XP change. Eggs stay eggs;
// only the monthly rollover hatches them.
func recompute(pet *model.Pet) {
	if pet.Stage == model.StageEgg {
		return
	}
	pet.Stage = StageForLevel(Level(pet.XP))
}
