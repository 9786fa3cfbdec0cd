package models

import "gorm.io/gorm"

// Horaire is one entry of an agency's weekly opening schedule.
// Times are 24h "HH:MM" strings.
type Horaire struct {
	Jour      string `json:"jour"`
	Ouverture string `json:"ouverture"`
	Fermeture string `json:"fermeture"`
}

// Agence is a delivery agency profile, owned 1:1 by a user of role "agence".
// Agencies accept parcel requests inside their coverage zone and operate
// the couriers that fulfil them.
type Agence struct {
	gorm.Model
	UserID           uint      `json:"user_id" gorm:"uniqueIndex"`
	NomAgence        string    `json:"nom_agence"`
	Telephone        string    `json:"telephone"`
	Description      string    `json:"description"`
	Adresse          string    `json:"adresse"`
	Ville            string    `json:"ville"`
	Commune          string    `json:"commune"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Horaires         []Horaire `json:"horaires" gorm:"serializer:json"`
	Photos           []string  `json:"photos,omitempty" gorm:"serializer:json"`
	ZoneCouvertureKm float64   `json:"zone_couverture_km" gorm:"default:10"`
	Actif            bool      `json:"actif" gorm:"default:true"`
	MessageAccueil   string    `json:"message_accueil,omitempty"`
	Promotions       []string  `json:"promotions,omitempty" gorm:"serializer:json"`
}
