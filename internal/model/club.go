package model

import "time"

// Club represents a named group with an admin and a member set
type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Admin       string    `json:"admin"`
	UsersList   []string  `json:"users_list"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// HasMember reports whether userID is in the club's users list
func (c *Club) HasMember(userID string) bool {
	return containsID(c.UsersList, userID)
}

// ClubListing is a club as returned by the directory listing:
// admin expanded, members left as ids.
type ClubListing struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Admin       *PublicUser `json:"admin"`
	UsersList   []string    `json:"users_list"`
	CreatedOn   time.Time   `json:"created_on"`
	UpdatedOn   time.Time   `json:"updated_on"`
}

// ClubDetail is a single club with admin and members expanded
type ClubDetail struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Admin       *PublicUser   `json:"admin"`
	UsersList   []*PublicUser `json:"users_list"`
	CreatedOn   time.Time     `json:"created_on"`
	UpdatedOn   time.Time     `json:"updated_on"`
}

// CreateClubRequest is the body of POST /v1/clubs
type CreateClubRequest struct {
	ClubName    string `json:"clubName"`
	IDAdmin     string `json:"idAdmin"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// MembershipRequest is the body of PUT /v1/clubs and PUT /v1/clubs/unsubscribe
type MembershipRequest struct {
	IDUser string `json:"idUser"`
	IDClub string `json:"idClub"`
}
