package models

// Role is who is using the device.
type Role string

const (
	RoleNone     Role = ""
	RoleFamiliar Role = "familiar"
	RoleHogar    Role = "hogar"
)

// ParseRole accepts "familiar" and "hogar"; anything else is [RoleNone].
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleFamiliar, RoleHogar:
		return Role(s), true
	}
	return RoleNone, false
}

// AuthState is the local, unauthenticated login state of a device.
type AuthState struct {
	IsLoggedIn           bool   `json:"isLoggedIn"`
	Role                 Role   `json:"role"`
	ProfileID            string `json:"profileId,omitempty"`
	RememberOnThisDevice bool   `json:"rememberOnThisDevice"`
}

// ProfileOption is an entry of the caregiver's profile picker.
type ProfileOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Initials string `json:"initials"`
}

// MockProfiles are the fixed profiles offered by the picker.
var MockProfiles = []ProfileOption{
	{ID: "nelida-78", Name: "Nélida", Age: 78, Initials: "N"},
	{ID: "hector-81", Name: "Héctor", Age: 81, Initials: "H"},
}

// FindProfileOption looks up a picker entry by id.
func FindProfileOption(id string) (ProfileOption, bool) {
	for _, p := range MockProfiles {
		if p.ID == id {
			return p, true
		}
	}
	return ProfileOption{}, false
}
