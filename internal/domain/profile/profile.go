// Package profile holds the immutable candidate profile snapshot served by the
// discovery feed. Summaries are produced by the search port and never mutated
// by the core.
package profile

// Summary is a read-only candidate profile card.
type Summary struct {
	id          string
	displayName string
	age         int
	gender      string
	city        string
	bio         string
	avatarURL   string
	interests   []string
}

// New creates a profile summary. Age 0 and empty strings mean "absent".
func New(id, displayName string, age int, gender, city, bio, avatarURL string, interests []string) Summary {
	return Summary{
		id:          id,
		displayName: displayName,
		age:         age,
		gender:      gender,
		city:        city,
		bio:         bio,
		avatarURL:   avatarURL,
		interests:   append([]string(nil), interests...),
	}
}

// Reconstruct rebuilds a summary from storage without copying the interests slice.
// The repository owns the slice it passes in.
func Reconstruct(id, displayName string, age int, gender, city, bio, avatarURL string, interests []string) Summary {
	return Summary{
		id:          id,
		displayName: displayName,
		age:         age,
		gender:      gender,
		city:        city,
		bio:         bio,
		avatarURL:   avatarURL,
		interests:   interests,
	}
}

// ID returns the unique profile identifier.
func (s *Summary) ID() string { return s.id }

// DisplayName returns the profile display name.
func (s *Summary) DisplayName() string { return s.displayName }

// Age returns the profile age (0 = not set).
func (s *Summary) Age() int { return s.age }

// Gender returns the profile gender ("" = not set).
func (s *Summary) Gender() string { return s.gender }

// City returns the profile city.
func (s *Summary) City() string { return s.city }

// Bio returns the profile bio text.
func (s *Summary) Bio() string { return s.bio }

// AvatarURL returns the avatar image URL.
func (s *Summary) AvatarURL() string { return s.avatarURL }

// Interests returns the ordered interest tags.
func (s *Summary) Interests() []string { return s.interests }
