package models

// NamedReference is the id/name pair used by all the lookup tables.
type NamedReference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Country = NamedReference
type Role = NamedReference
type Sector = NamedReference
type Referral = NamedReference
type DocumentType = NamedReference

type CountryPhoneCode struct {
	ID        string `json:"id"`
	CountryID string `json:"countryId"`
	PhoneCode string `json:"phoneCode"`
}
