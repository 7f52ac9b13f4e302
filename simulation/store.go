// Package simulation persiste les simulations nommées dans un fichier
// JSON local : un seul tableau sérialisé, aucun aller-retour réseau.
package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mbc-portail/simulateur"
)

// ErrNomVide est retourné quand on tente d'enregistrer sans libellé.
var ErrNomVide = errors.New("nom de simulation vide")

// Enregistrement est une simulation sauvegardée : la saisie brute, pas
// les résultats — ceux-ci se recalculent au chargement.
type Enregistrement struct {
	ID      string                    `json:"id"`
	Type    simulateur.TypeSimulation `json:"type"`
	Nom     string                    `json:"nom"`
	Donnees simulateur.Saisie         `json:"donnees"`
	Date    time.Time                 `json:"date"`
}

// Store possède le fichier de simulations. Dernier écrivain gagnant;
// un contenu corrompu est remplacé par une collection vide au chargement.
type Store struct {
	chemin string
	log    *zap.Logger
	mu     sync.Mutex
}

func NewStore(chemin string, log *zap.Logger) *Store {
	return &Store{chemin: chemin, log: log}
}

// Save crée un enregistrement avec un identifiant frais et la date
// courante. Le nom est obligatoire.
func (s *Store) Save(t simulateur.TypeSimulation, nom string, donnees simulateur.Saisie) (Enregistrement, error) {
	if nom == "" {
		return Enregistrement{}, ErrNomVide
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	enr := Enregistrement{
		ID:      uuid.NewString(),
		Type:    t,
		Nom:     nom,
		Donnees: donnees,
		Date:    time.Now(),
	}
	tous := s.charger()
	tous = append(tous, enr)
	if err := s.ecrire(tous); err != nil {
		return Enregistrement{}, err
	}
	return enr, nil
}

// ListByType retourne les enregistrements du type demandé.
func (s *Store) ListByType(t simulateur.TypeSimulation) []Enregistrement {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Enregistrement
	for _, enr := range s.charger() {
		if enr.Type == t {
			out = append(out, enr)
		}
	}
	return out
}

// GetByID retourne l'enregistrement demandé, ou faux s'il n'existe pas.
func (s *Store) GetByID(id string) (Enregistrement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, enr := range s.charger() {
		if enr.ID == id {
			return enr, true
		}
	}
	return Enregistrement{}, false
}

// Delete supprime définitivement — pas de corbeille. Idempotent :
// supprimer un identifiant absent n'est pas une erreur.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tous := s.charger()
	garde := tous[:0]
	for _, enr := range tous {
		if enr.ID != id {
			garde = append(garde, enr)
		}
	}
	return s.ecrire(garde)
}

// MiseAJour décrit une modification partielle d'un enregistrement.
type MiseAJour struct {
	Nom     string
	Donnees simulateur.Saisie
}

// Update fusionne les champs fournis et rafraîchit la date. Sans effet
// si l'identifiant est absent. L'identifiant, lui, ne change jamais.
func (s *Store) Update(id string, maj MiseAJour) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tous := s.charger()
	for i, enr := range tous {
		if enr.ID != id {
			continue
		}
		if maj.Nom != "" {
			tous[i].Nom = maj.Nom
		}
		if maj.Donnees != nil {
			tous[i].Donnees = maj.Donnees
		}
		tous[i].Date = time.Now()
		return s.ecrire(tous)
	}
	return nil
}

// ClearAll vide la collection.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ecrire([]Enregistrement{})
}

// charger lit le fichier. Fichier absent = collection vide; contenu
// illisible = collection vide, le magasin se répare tout seul.
func (s *Store) charger() []Enregistrement {
	raw, err := os.ReadFile(s.chemin)
	if err != nil {
		return nil
	}
	var tous []Enregistrement
	if err := json.Unmarshal(raw, &tous); err != nil {
		s.log.Warn("fichier de simulations corrompu, réinitialisation",
			zap.String("chemin", s.chemin), zap.Error(err))
		if werr := s.ecrire([]Enregistrement{}); werr != nil {
			s.log.Warn("réinitialisation impossible", zap.Error(werr))
		}
		return nil
	}
	return tous
}

func (s *Store) ecrire(tous []Enregistrement) error {
	raw, err := json.Marshal(tous)
	if err != nil {
		return fmt.Errorf("sérialisation simulations: %w", err)
	}
	if err := os.WriteFile(s.chemin, raw, 0o644); err != nil {
		return fmt.Errorf("écriture simulations: %w", err)
	}
	return nil
}
