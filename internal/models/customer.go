package models

import "encoding/json"

type CustomerCreate struct {
	FirstName                  string `json:"firstName"`
	LastName                   string `json:"lastName"`
	Email                      string `json:"email"`
	Password                   string `json:"password"`
	MobileNo                   string `json:"mobileNo"`
	Company                    string `json:"company"`
	CompanyWebsite             string `json:"companyWebsite"`
	CompanySize                int    `json:"companySize"`
	BusinessAddress            string `json:"businessAddress"`
	BusinessPhone              string `json:"businessPhone"`
	BusinessDescription        string `json:"businessDescription"`
	PrimaryContactName         string `json:"primaryContactName"`
	PrimaryContactEmail        string `json:"primaryContactEmail"`
	PrimaryContactRole         string `json:"primaryContactRole"`
	CountryID                  string `json:"countryId"`
	RoleID                     string `json:"roleId"`
	OtherRoleSpecification     string `json:"otherRoleSpecification"`
	SectorID                   string `json:"sectorId"`
	OtherSectorSpecification   string `json:"otherSectorSpecification"`
	ReferralID                 string `json:"referralId"`
	OtherReferralSpecification string `json:"otherReferralSpecification"`
	CountryPhoneCodeID         string `json:"countryPhoneCodeId"`
	// the backend spells it this way
	ReceiveNewsletter   bool `json:"recieveNewsletter"`
	AcceptPrivacyPolicy bool `json:"acceptPrivacyPolicy"`
}

// CurrentUser is the identity returned by /identities/current-user.
type CurrentUser struct {
	ID                         string         `json:"id"`
	FirstName                  string         `json:"firstName"`
	LastName                   string         `json:"lastName"`
	Email                      string         `json:"email"`
	Company                    string         `json:"company"`
	MobileNo                   string         `json:"mobileNo"`
	IsEmailVerified            bool           `json:"isEmailVerified"`
	IsActive                   bool           `json:"isActive"`
	Country                    NamedReference `json:"country"`
	Role                       NamedReference `json:"role"`
	CompanyWebsite             string         `json:"companyWebsite"`
	CompanySize                int            `json:"companySize"`
	BusinessDescription        string         `json:"businessDescription"`
	BusinessAddress            string         `json:"businessAddress"`
	BusinessPhone              string         `json:"businessPhone"`
	PrimaryContactName         string         `json:"primaryContactName"`
	PrimaryContactEmail        string         `json:"primaryContactEmail"`
	PrimaryContactRole         string         `json:"primaryContactRole"`
	Sector                     NamedReference `json:"sector"`
	Referral                   NamedReference `json:"referral"`
	CountryPhoneCode           NamedReference `json:"countryPhoneCode"`
	ReceiveNewsletter          bool           `json:"recieveNewsletter"`
	AcceptPrivacyPolicy        bool           `json:"acceptPrivacyPolicy"`
	AcceptTermsOfService       bool           `json:"acceptTermsOfService"`
	Interest                   string         `json:"interest"`
	SendingFrequency           string         `json:"sendingFrequency"`
	SendingVolume              string         `json:"sendingVolume"`
	SendingType                string         `json:"sendingType"`
	TwoFactorEnabled           bool           `json:"twoFactorEnabled"`
	EmailVerifiedAt            *string        `json:"emailVerifiedAt"`
	CreatedAt                  string         `json:"createdAt"`
	UpdatedAt                  string         `json:"updatedAt"`
	IsDeleted                  bool           `json:"isDeleted"`
	OtherRoleSpecification     *string        `json:"otherRoleSpecification"`
	OtherSectorSpecification   *string        `json:"otherSectorSpecification"`
	OtherReferralSpecification *string        `json:"otherReferralSpecification"`
}

type BusinessInformation struct {
	ID                  string `json:"id"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	MobileNo            string `json:"mobileNo"`
	Company             string `json:"company"`
	CompanyWebsite      string `json:"companyWebsite"`
	CompanySize         int    `json:"companySize"`
	BusinessDescription string `json:"businessDescription"`
	BusinessAddress     string `json:"businessAddress"`
	BusinessPhone       string `json:"businessPhone"`
	PrimaryContactName  string `json:"primaryContactName"`
	PrimaryContactEmail string `json:"primaryContactEmail"`
	PrimaryContactRole  string `json:"primaryContactRole"`
	CountryName         string `json:"countryName"`
	RoleName            string `json:"roleName"`
	SectorName          string `json:"sectorName"`
	Interest            string `json:"interest"`
	SendingFrequency    string `json:"sendingFrequency"`
	SendingVolume       string `json:"sendingVolume"`
	SendingType         string `json:"sendingType"`
	ReceiveNewsletter   bool   `json:"recieveNewsletter"`
	AcceptPrivacyPolicy bool   `json:"acceptPrivacyPolicy"`
	CreatedAt           string `json:"createdAt"`
}

type BusinessUpdate struct {
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	Email                 string `json:"email"`
	Password              string `json:"password"`
	MobileNo              string `json:"mobileNo"`
	Company               string `json:"company"`
	BusinessDescription   string `json:"businessDescription"`
	BusinessAddress       string `json:"businessAddress"`
	BusinessPhone         string `json:"businessPhone"`
	PrimaryContactName    string `json:"primaryContactName"`
	PrimaryContactEmail   string `json:"primaryContactEmail"`
	PrimaryContactRole    string `json:"primaryContactRole"`
	Interest              string `json:"interest"`
	SendingFrequency      string `json:"sendingFrequency"`
	SendingVolume         string `json:"sendingVolume"`
	SendingType           string `json:"sendingType"`
	CountryID             string `json:"countryId,omitempty"`
	RoleID                string `json:"roleId,omitempty"`
	SectorID              string `json:"sectorId,omitempty"`
	ReferralID            string `json:"referralId,omitempty"`
	CountryPhoneCodeID    string `json:"countryPhoneCodeId,omitempty"`
	ReceiveNewsletter     bool   `json:"recieveNewsletter"`
	AcceptPrivacyPolicy   bool   `json:"acceptPrivacyPolicy"`
	CustomerAccountStatus int    `json:"customerAccountStatus"`
}

// Profile is the free-form profile document sent to PUT /customers/{id}. It is
// kept as a map so fields unknown to the gateway survive the round trip.
type Profile map[string]any

const profileLockField string = "isFinalizedLock"

// WithLock returns a copy of the profile with the finalized lock flag set.
func (p Profile) WithLock(locked bool) Profile {
	output := make(Profile, len(p)+1)
	for key, val := range p {
		output[key] = val
	}
	output[profileLockField] = locked
	return output
}

// Preferences are the UI settings kept next to the session credentials.
type Preferences struct {
	DarkMode      bool `json:"darkMode"`
	ProfileLocked bool `json:"profileLocked"`
}

// Profile turns the user into the profile document the update endpoint expects.
func (u CurrentUser) Profile() (Profile, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	output := Profile{}
	err = json.Unmarshal(raw, &output)
	if err != nil {
		return nil, err
	}
	return output, nil
}
