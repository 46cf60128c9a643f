package session

import (
	"encoding/json"
	"slices"
)

// User is the profile of the signed in account as returned by the API.
type User struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	SustainabilityScore float64  `json:"sustainabilityScore"`
	JoinedChallenges    int      `json:"joinedChallenges"`
	CompletedChallenges int      `json:"completedChallenges"`
	Achievements        []string `json:"achievements"`
	CarbonFootprint     float64  `json:"carbonFootprint,omitempty"`
}

// UnmarshalJSON accepts the identifier as either "id" or "_id".
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var wire struct {
		plain
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*u = User(wire.plain)
	if u.ID == "" {
		u.ID = wire.LegacyID
	}
	return nil
}

func (u User) clone() User {
	u.Achievements = slices.Clone(u.Achievements)
	return u
}

// ProfileUpdate is a partial user record. Nil fields are left untouched
// when merged; JSON fields that do not map to a user attribute are dropped.
type ProfileUpdate struct {
	Name                *string   `json:"name,omitempty"`
	Email               *string   `json:"email,omitempty"`
	SustainabilityScore *float64  `json:"sustainabilityScore,omitempty"`
	JoinedChallenges    *int      `json:"joinedChallenges,omitempty"`
	CompletedChallenges *int      `json:"completedChallenges,omitempty"`
	Achievements        *[]string `json:"achievements,omitempty"`
	CarbonFootprint     *float64  `json:"carbonFootprint,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p == ProfileUpdate{}
}

// Merge returns a copy of u with every non-nil field of p applied.
func (u User) Merge(p ProfileUpdate) User {
	out := u.clone()

	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.SustainabilityScore != nil {
		out.SustainabilityScore = *p.SustainabilityScore
	}
	if p.JoinedChallenges != nil {
		out.JoinedChallenges = *p.JoinedChallenges
	}
	if p.CompletedChallenges != nil {
		out.CompletedChallenges = *p.CompletedChallenges
	}
	if p.Achievements != nil {
		out.Achievements = slices.Clone(*p.Achievements)
	}
	if p.CarbonFootprint != nil {
		out.CarbonFootprint = *p.CarbonFootprint
	}

	return out
}
