package social

import (
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Fallback display attributes when the provider sends no usable name.
const (
	FallbackFirstName = "Unknown"
	FallbackLastName  = "User"
)

// Profile is the verified identity payload a trusted OAuth provider hands us
// after its own protocol exchange completed. The linker never talks to the
// provider itself.
type Profile struct {
	Provider       string `json:"provider"`
	ProviderUserID string `json:"provider_user_id"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	AvatarURL      string `json:"avatar_url"`
}

// Validate checks the fields the linker cannot work without.
func (p Profile) Validate() error {
	return validation.Errors{
		"provider":         validation.Validate(p.Provider, validation.Required),
		"provider_user_id": validation.Validate(p.ProviderUserID, validation.Required),
		"email":            validation.Validate(p.Email, validation.Required, is.Email),
	}.Filter()
}

// FirstName returns the leading token of the display name.
func (p Profile) FirstName() string {
	first, _ := SplitDisplayName(p.DisplayName)
	return first
}

// LastName returns everything after the first whitespace boundary.
func (p Profile) LastName() string {
	_, last := SplitDisplayName(p.DisplayName)
	return last
}

// SplitDisplayName derives first and last name from a provider display name.
// The split happens on the first whitespace boundary: the first token becomes
// the first name and the remainder the last name. An empty remainder falls
// back to "User", an absent display name to "Unknown" / "User".
func SplitDisplayName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FallbackFirstName, FallbackLastName
	}

	cut := strings.IndexFunc(name, unicode.IsSpace)
	if cut < 0 {
		return name, FallbackLastName
	}

	rest := strings.TrimSpace(name[cut:])
	if rest == "" {
		return name[:cut], FallbackLastName
	}

	return name[:cut], rest
}
