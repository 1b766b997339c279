package enums

import "fmt"

// ProfileRole represents the coarse platform role attached to a profile.
type ProfileRole string

const (
	ProfileRoleAdmin      ProfileRole = "admin"
	ProfileRolePharmacist ProfileRole = "pharmacist"
)

var validProfileRoles = []ProfileRole{
	ProfileRoleAdmin,
	ProfileRolePharmacist,
}

// String implements fmt.Stringer.
func (r ProfileRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ProfileRole.
func (r ProfileRole) IsValid() bool {
	for _, candidate := range validProfileRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseProfileRole converts raw input into a ProfileRole.
func ParseProfileRole(value string) (ProfileRole, error) {
	for _, candidate := range validProfileRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid profile role %q", value)
}
