package domain

import "time"

type SessionID string

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label is the role-derived text used when a message is rendered for export.
func (r Role) Label() string {
	return string(r)
}

type TravelStyle string

const (
	StyleBeach     TravelStyle = "beach"     // Sun, sea and resorts
	StyleCity      TravelStyle = "city"      // Urban sightseeing and shopping
	StyleNature    TravelStyle = "nature"    // Hiking, national parks
	StyleCulture   TravelStyle = "culture"   // Museums, history, heritage sites
	StyleFood      TravelStyle = "food"      // Local cuisine and markets
	StyleAdventure TravelStyle = "adventure" // Outdoor activities and sports
)

type Timestamp = time.Time
