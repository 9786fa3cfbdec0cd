package models

import "gorm.io/gorm"

// Roles a user account can hold. The "agence" role unlocks the agency
// workflow once an Agence profile has been configured.
const (
	RoleClient     = "client"
	RoleLivreur    = "livreur"
	RoleAgence     = "agence"
	RoleBackoffice = "backoffice"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleClient, RoleLivreur, RoleAgence, RoleBackoffice:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Nom       string  `json:"nom"`
	Prenoms   string  `json:"prenoms"`
	Telephone string  `json:"telephone" gorm:"uniqueIndex"`
	Email     *string `json:"email,omitempty" gorm:"uniqueIndex"`
	Password  string  `json:"-"`
	Role      string  `json:"role"`
	Actif     bool    `json:"actif" gorm:"default:true"`

	// Set only for role "agence", once the profile has been configured.
	Agence *Agence `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"agence,omitempty"`
}
