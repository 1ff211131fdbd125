package domain

type User struct {
	ID        ID     `json:"id"`
	Username  string `json:"username,omitempty"`
	Followers []ID   `json:"followers"`
}

// Viewer is the identity looking at a page. The zero value is an anonymous
// viewer.
type Viewer struct {
	ID       ID
	Username string
	Token    string
}

func (v Viewer) SignedIn() bool {
	return v.ID != ""
}
