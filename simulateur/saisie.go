// Package simulateur regroupe les moteurs de calcul des simulateurs
// fiscaux et financiers du site : fonctions pures, sans entrées/sorties,
// totales sur leur domaine. Une valeur numérique absente ou illisible
// vaut 0, jamais une erreur.
package simulateur

import (
	"fmt"
	"strconv"
	"strings"
)

// Saisie est le jeu de champs d'un formulaire, tel que persisté par le
// magasin de simulations : des chaînes brutes, jamais évaluées.
type Saisie map[string]string

// Nombre lit un champ numérique. Virgule décimale française acceptée.
func (s Saisie) Nombre(cle string) float64 {
	brut := strings.TrimSpace(s[cle])
	if brut == "" {
		return 0
	}
	brut = strings.ReplaceAll(brut, " ", "")
	brut = strings.ReplaceAll(brut, ",", ".")
	v, err := strconv.ParseFloat(brut, 64)
	if err != nil {
		return 0
	}
	return v
}

func (s Saisie) Entier(cle string) int {
	return int(s.Nombre(cle))
}

func (s Saisie) Booleen(cle string) bool {
	switch strings.ToLower(strings.TrimSpace(s[cle])) {
	case "true", "1", "oui", "on":
		return true
	}
	return false
}

// Ligne est une paire libellé/valeur affichable, consommée par l'export
// PDF et les récapitulatifs.
type Ligne struct {
	Libelle string `json:"libelle"`
	Valeur  string `json:"valeur"`
}

// Euros met en forme un montant au format français : 1 234,56 €.
func Euros(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	entier := int64(v)
	centimes := int64(v*100+0.5) - entier*100
	if centimes >= 100 {
		entier++
		centimes -= 100
	}

	chiffres := strconv.FormatInt(entier, 10)
	var b strings.Builder
	pre := len(chiffres) % 3
	if pre > 0 {
		b.WriteString(chiffres[:pre])
	}
	for i := pre; i < len(chiffres); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(chiffres[i : i+3])
	}

	signe := ""
	if neg {
		signe = "-"
	}
	return fmt.Sprintf("%s%s,%02d €", signe, b.String(), centimes)
}

// Pourcent met en forme un taux déjà exprimé en pourcentage : 25,5 %.
func Pourcent(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.1f %%", v), ".", ",")
}
