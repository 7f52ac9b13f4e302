package simulateur

// ChargesEntree est la saisie typée du simulateur de charges sociales
// du dirigeant.
type ChargesEntree struct {
	RemunerationBrute float64
	Statut            StatutDirigeant
}

func ChargesDepuisSaisie(s Saisie) (ChargesEntree, error) {
	statut, err := ParseStatutDirigeant(s["statut"])
	if err != nil {
		return ChargesEntree{}, err
	}
	return ChargesEntree{
		RemunerationBrute: s.Nombre("remuneration_brute"),
		Statut:            statut,
	}, nil
}

type ChargesResultat struct {
	RemunerationBrute float64         `json:"remuneration_brute"`
	Statut            StatutDirigeant `json:"statut"`
	Taux              float64         `json:"taux"`
	Charges           float64         `json:"charges"`
	RemunerationNette float64         `json:"remuneration_nette"`
}

// CalculCharges applique le taux forfaitaire approximatif du statut.
func (b *Bareme) CalculCharges(e ChargesEntree) ChargesResultat {
	taux := b.Charges[e.Statut]
	charges := e.RemunerationBrute * taux
	return ChargesResultat{
		RemunerationBrute: e.RemunerationBrute,
		Statut:            e.Statut,
		Taux:              taux,
		Charges:           charges,
		RemunerationNette: e.RemunerationBrute - charges,
	}
}

func (r ChargesResultat) Lignes() []Ligne {
	return []Ligne{
		{"Rémunération brute", Euros(r.RemunerationBrute)},
		{"Taux de charges", Pourcent(r.Taux * 100)},
		{"Charges sociales", Euros(r.Charges)},
		{"Rémunération nette", Euros(r.RemunerationNette)},
	}
}
