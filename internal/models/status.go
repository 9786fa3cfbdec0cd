package models

import "fmt"

// ColisStatus is the pipeline stage of a parcel.
//
//	en_attente → valide → en_enlevement → recupere → en_transit
//	           → en_agence → en_livraison → livre
//
// en_attente and valide can also branch to annule. livre and annule
// are terminal.
type ColisStatus string

const (
	StatusEnAttente    ColisStatus = "en_attente"
	StatusValide       ColisStatus = "valide"
	StatusEnEnlevement ColisStatus = "en_enlevement"
	StatusRecupere     ColisStatus = "recupere"
	StatusEnTransit    ColisStatus = "en_transit"
	StatusEnAgence     ColisStatus = "en_agence"
	StatusEnLivraison  ColisStatus = "en_livraison"
	StatusLivre        ColisStatus = "livre"
	StatusAnnule       ColisStatus = "annule"
)

// transitions maps each status to the statuses legally reachable from it.
var transitions = map[ColisStatus][]ColisStatus{
	StatusEnAttente:    {StatusValide, StatusAnnule},
	StatusValide:       {StatusEnEnlevement, StatusAnnule},
	StatusEnEnlevement: {StatusRecupere},
	StatusRecupere:     {StatusEnTransit},
	StatusEnTransit:    {StatusEnAgence},
	StatusEnAgence:     {StatusEnLivraison},
	StatusEnLivraison:  {StatusLivre},
	StatusLivre:        {},
	StatusAnnule:       {},
}

// ParseColisStatus converts a raw string into a known status.
func ParseColisStatus(raw string) (ColisStatus, error) {
	s := ColisStatus(raw)
	if _, ok := transitions[s]; !ok {
		return "", fmt.Errorf("statut de colis inconnu: %q", raw)
	}
	return s, nil
}

func (s ColisStatus) String() string { return string(s) }

// Valid reports whether s is a member of the status enum.
func (s ColisStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition is possible from s.
func (s ColisStatus) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether moving from s to next is one legal step.
func (s ColisStatus) CanTransitionTo(next ColisStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
