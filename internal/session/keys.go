package session

// Storage keys. The names match what earlier web clients wrote so exported state stays readable.
const (
	keyElderProfile      = "elderProfile"
	keyGeneratedContent  = "generatedContent"
	keyDiscoveredContent = "discoveredContent"
	keyNearbyEvents      = "nearbyEvents"
	keyContentFeedback   = "contentFeedback"
	keyCredencialID      = "credencial_id"
	keyWeeklyPlan        = "weeklyPlan"

	keyAuthLoggedIn = "auth.isLoggedIn"
	keyAuthRole     = "auth.role"
	keyAuthProfile  = "auth.profileId"
	keyAuthRemember = "auth.rememberOnThisDevice"
)

// derivedKeys are invalidated whenever the profile changes.
var derivedKeys = []string{keyWeeklyPlan, keyDiscoveredContent, keyNearbyEvents}

// AllKeys lists every key the store may write, for export and wipe.
func AllKeys() []string {
	return []string{
		keyElderProfile, keyGeneratedContent, keyDiscoveredContent, keyNearbyEvents,
		keyContentFeedback, keyCredencialID, keyWeeklyPlan,
		keyAuthLoggedIn, keyAuthRole, keyAuthProfile, keyAuthRemember,
	}
}

// ContentKey is the key the plan is stored under, for backends that track write times.
const ContentKey = keyGeneratedContent
