package simulateur

// Taux de TVA proposés par le formulaire. Le calcul reste exact pour
// tout autre taux numérique : aucune validation ne rejette une valeur.
var TauxTVA = []float64{20, 10, 5.5, 2.1}

// TVAResultat est le détail d'un calcul HT → TTC.
type TVAResultat struct {
	MontantHT  float64 `json:"montant_ht"`
	Taux       float64 `json:"taux"`
	MontantTVA float64 `json:"montant_tva"`
	MontantTTC float64 `json:"montant_ttc"`
}

// TVA calcule la TVA et le TTC à partir d'un montant hors taxes et d'un
// taux exprimé en pourcentage.
func (b *Bareme) CalculTVA(s Saisie) TVAResultat {
	ht := s.Nombre("montant_ht")
	taux := s.Nombre("taux")
	tva := ht * taux / 100

	return TVAResultat{
		MontantHT:  ht,
		Taux:       taux,
		MontantTVA: tva,
		MontantTTC: ht + tva,
	}
}

func (r TVAResultat) Lignes() []Ligne {
	return []Ligne{
		{"Montant HT", Euros(r.MontantHT)},
		{"Taux de TVA", Pourcent(r.Taux)},
		{"Montant TVA", Euros(r.MontantTVA)},
		{"Montant TTC", Euros(r.MontantTTC)},
	}
}
