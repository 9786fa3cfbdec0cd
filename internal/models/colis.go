package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Colis is a parcel tracked through the delivery pipeline. It is created
// by the client intake flow and mutated exclusively through the workflow
// package once an agency takes it over.
type Colis struct {
	gorm.Model
	CodeSuivi    string      `json:"code_suivi" gorm:"uniqueIndex"`
	Statut       ColisStatus `json:"statut" gorm:"default:en_attente"`
	ExpediteurID uint        `json:"expediteur_id"`
	AgenceID     *uint       `json:"agence_id" gorm:"index"`
	LivreurID    *uint       `json:"livreur_id" gorm:"index"`

	Poids     float64 `json:"poids"`
	PrixTotal float64 `json:"prix_total"`

	// Proof-of-delivery references, set independently of each other.
	PhotoLivraison        string `json:"photo_livraison,omitempty"`
	SignatureDestinataire string `json:"signature_destinataire,omitempty"`

	MotifAnnulation string     `json:"motif_annulation,omitempty"`
	DateLivraison   *time.Time `json:"date_livraison,omitempty"`

	// Optimistic concurrency token, bumped by every workflow mutation.
	Version uint `json:"version"`

	Agence  *Agence `gorm:"foreignKey:AgenceID" json:"-"`
	Livreur *User   `gorm:"foreignKey:LivreurID" json:"-"`
}

// TableName pins the table name: gorm pluralization mangles "colis".
func (Colis) TableName() string { return "colis" }

// BeforeCreate assigns the public tracking code and the initial status.
func (c *Colis) BeforeCreate(tx *gorm.DB) error {
	if c.CodeSuivi == "" {
		c.CodeSuivi = uuid.NewString()
	}
	if c.Statut == "" {
		c.Statut = StatusEnAttente
	}
	return nil
}
