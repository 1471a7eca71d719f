package models

type Bus struct {
	ID           int64  `json:"id"`
	AgencyID     int64  `json:"agencyId"`
	LicensePlate string `json:"licensePlate"`
	TotalSeats   int    `json:"totalSeats"`
	IsVIP        bool   `json:"isVip"`
	IsActive     bool   `json:"isActive"`
}
