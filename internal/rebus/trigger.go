package rebus

// LowLevelThreshold is the remaining-level count below which a generation run is requested.
const LowLevelThreshold = 3

// LevelsRemaining is total stored levels minus the player's current level.
func LevelsRemaining(totalLevels, currentLevel int) int {
	return totalLevels - currentLevel
}

// ShouldGenerate is evaluated after a correct guess with the already-advanced level.
// There is no debouncing across players.
func ShouldGenerate(totalLevels, currentLevel int) bool {
	return LevelsRemaining(totalLevels, currentLevel) < LowLevelThreshold
}
