package models

import "strings"

// ProfileType is the account kind chosen at registration. Values are the
// labels the API stores.
type ProfileType string

const (
	ProfileIndividual   ProfileType = "Pessoa Física"
	ProfileCompany      ProfileType = "Pessoa Jurídica"
	ProfileOrganization ProfileType = "Organização"
	ProfileNGO          ProfileType = "ONG"
)

var profileAliases = map[string]ProfileType{
	"pessoa física":   ProfileIndividual,
	"pessoa fisica":   ProfileIndividual,
	"individual":      ProfileIndividual,
	"pessoa jurídica": ProfileCompany,
	"pessoa juridica": ProfileCompany,
	"company":         ProfileCompany,
	"organização":     ProfileOrganization,
	"organizacao":     ProfileOrganization,
	"organization":    ProfileOrganization,
	"ong":             ProfileNGO,
	"ngo":             ProfileNGO,
}

// ParseProfileType maps an API label or an English alias to a ProfileType.
func ParseProfileType(s string) (ProfileType, bool) {
	pt, ok := profileAliases[strings.ToLower(strings.TrimSpace(s))]
	return pt, ok
}

// User is the normalized profile record kept on the device.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	City        string      `json:"city"`
	District    string      `json:"district"`
	ProfileType ProfileType `json:"profile_type"`
	Avatar      string      `json:"avatar"`
}

// APIUser is the user shape returned by the API. Success and Message are
// present when the server answers with a bare acknowledgement.
type APIUser struct {
	ID      FlexID `json:"id"`
	Nome    string `json:"nome"`
	Email   string `json:"email"`
	Cidade  string `json:"cidade"`
	Bairro  string `json:"bairro_ou_distrito"`
	Tipo    string `json:"tipo"`
	Avatar  string `json:"avatar"`
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// HasIdentity reports whether any identifying user field is set.
func (u *APIUser) HasIdentity() bool {
	return u.ID != "" || u.Email != "" || u.Nome != ""
}

// UserPatch lists the fields to overwrite in a stored User; nil means keep.
type UserPatch struct {
	Name        *string
	Email       *string
	City        *string
	District    *string
	ProfileType *ProfileType
	Avatar      *string
}

// Apply overwrites the non-nil fields of u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.City != nil {
		u.City = *p.City
	}
	if p.District != nil {
		u.District = *p.District
	}
	if p.ProfileType != nil {
		u.ProfileType = *p.ProfileType
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}

// Registration is the new-account form. The password travels separately
// so it can be wiped after use.
type Registration struct {
	Name        string
	Email       string
	City        string
	District    string
	ProfileType ProfileType
}

// MinPasswordLength is the shortest password the registration form accepts.
const MinPasswordLength = 6

// Validate checks the form fields and the password length.
func (r Registration) Validate(password []byte) error {
	v := &ValidationError{}
	if strings.TrimSpace(r.Name) == "" {
		v.add("name", "required")
	}
	validateEmail(v, r.Email)
	if strings.TrimSpace(r.City) == "" {
		v.add("city", "required")
	}
	if strings.TrimSpace(r.District) == "" {
		v.add("district", "required")
	}
	if _, ok := ParseProfileType(string(r.ProfileType)); !ok {
		v.add("profile_type", "must be one of Pessoa Física, Pessoa Jurídica, Organização, ONG")
	}
	if len(password) < MinPasswordLength {
		v.add("password", "must have at least 6 characters")
	}
	return v.errOrNil()
}

// AccountUpdate is the profile edit form. An empty Password keeps the
// current one.
type AccountUpdate struct {
	Name        string
	Email       string
	City        string
	District    string
	ProfileType ProfileType
	Password    string
}

func (a AccountUpdate) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(a.Name) == "" {
		v.add("name", "required")
	}
	validateEmail(v, a.Email)
	if a.ProfileType != "" {
		if _, ok := ParseProfileType(string(a.ProfileType)); !ok {
			v.add("profile_type", "unknown profile type")
		}
	}
	if a.Password != "" && len(a.Password) < MinPasswordLength {
		v.add("password", "must have at least 6 characters")
	}
	return v.errOrNil()
}

func validateEmail(v *ValidationError, email string) {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	switch {
	case email == "":
		v.add("email", "required")
	case at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], "."):
		v.add("email", "invalid address")
	}
}

// UserProfile is a user together with the donations they published.
type UserProfile struct {
	User      User
	Donations []Donation
}

// APIUserComplete is the body of GET /users/:id/completo.
type APIUserComplete struct {
	APIUser
	Doacoes []Donation `json:"doacoes"`
}
