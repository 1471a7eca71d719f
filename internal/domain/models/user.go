package models

type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAgencyAdmin    Role = "agency_admin"
	RoleAgencyEmployee Role = "agency_employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAgencyAdmin, RoleAgencyEmployee:
		return true
	}
	return false
}

type User struct {
	ID           int64  `json:"id"`
	AgencyID     int64  `json:"agencyId,omitempty"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"isActive"`
}
