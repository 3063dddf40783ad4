package progress

// XPPerLevel is the XP span of one level.
const XPPerLevel = 500

// Level computes a user's level from their XP total. Level is always derived
// from XP, never incremented on its own, so the two cannot drift.
// XP 0-499 is level 1, 500-999 is level 2, and so on without upper bound.
func Level(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}
