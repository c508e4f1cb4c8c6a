package models

// Membership roles, ordered by privilege.
const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
	RoleViewer = "VIEWER"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor || role == RoleViewer
}

// Invitation lifecycle. ACCEPTED and EXPIRED are terminal.
const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationExpired  = "EXPIRED"
)

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

type Organization struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`

	Members  []*OrganizationMember `json:"members,omitempty"`
	UserRole string                `json:"user_role,omitempty"`
}

type OrganizationMember struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	Role           string `json:"role"`
	JoinedAt       int64  `json:"joined_at"`

	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type OrganizationInvitation struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Token          string `json:"-"`
	InvitedBy      string `json:"invited_by"`
	Status         string `json:"status"`
	CreatedAt      int64  `json:"created_at"`
	ExpiresAt      int64  `json:"expires_at"`
	AcceptedAt     *int64 `json:"accepted_at,omitempty"`
}

type Namespace struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OrgID     string `json:"organization_id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// OrganizationID satisfies authz.OrganizationScoped.
func (n *Namespace) OrganizationID() string {
	return n.OrgID
}

type ShortURL struct {
	ID          string `json:"id"`
	OriginalURL string `json:"original_url"`
	ShortCode   string `json:"short_code"`
	NamespaceID string `json:"namespace_id"`
	CreatedBy   string `json:"created_by,omitempty"`
	ClickCount  int64  `json:"click_count"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`

	NamespaceName string `json:"namespace_name,omitempty"`
	OrgID         string `json:"-"`
}

// OrganizationID satisfies authz.OrganizationScoped. Short URLs reach
// their organization through the owning namespace; repositories join
// it in on read.
func (u *ShortURL) OrganizationID() string {
	return u.OrgID
}
