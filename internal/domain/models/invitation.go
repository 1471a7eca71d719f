package models

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRevoked  InvitationStatus = "revoked"
)

type Invitation struct {
	ID        int64            `json:"id"`
	AgencyID  int64            `json:"agencyId"`
	Email     string           `json:"email"`
	Role      Role             `json:"role"`
	Token     string           `json:"token"`
	Status    InvitationStatus `json:"status"`
	InvitedBy int64            `json:"invitedBy"`
	ExpiresAt string           `json:"expiresAt"`
}
