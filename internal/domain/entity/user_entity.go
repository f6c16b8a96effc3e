package entity

// Roles known to the storefront backend.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the signed-in account as reported by the backend's auth endpoints.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// SessionState is the visitor's view of whether they are signed in and as whom.
type SessionState struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"is_authenticated"`
	IsInitialized   bool  `json:"is_initialized"`
}

// Credentials is the persisted token pair plus the user fields kept next to it.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	UserEmail    string
	UserName     string
	UserRole     string
}

func (c Credentials) User() *User {
	if c.UserID == "" {
		return nil
	}
	return &User{ID: c.UserID, Email: c.UserEmail, Name: c.UserName, Role: c.UserRole}
}
