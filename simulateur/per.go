package simulateur

// PEREntree est la saisie typée du simulateur de sortie de PER.
type PEREntree struct {
	MontantBrut float64
	Age         int
	Sortie      SortiePER
}

func PERDepuisSaisie(s Saisie) (PEREntree, error) {
	sortie, err := ParseSortiePER(s["sortie"])
	if err != nil {
		return PEREntree{}, err
	}
	return PEREntree{
		MontantBrut: s.Nombre("montant_brut"),
		Age:         s.Entier("age"),
		Sortie:      sortie,
	}, nil
}

type PERResultat struct {
	MontantBrut     float64   `json:"montant_brut"`
	Sortie          SortiePER `json:"sortie"`
	FractionTaxable float64   `json:"fraction_taxable"`
	Impot           float64   `json:"impot"`
	MontantNet      float64   `json:"montant_net"`
}

// CalculPER calcule l'imposition d'une sortie de plan épargne retraite.
// En capital, la fraction taxable dépend de l'abattement lié à l'âge;
// en rente, elle suit les tranches d'âge du régime des rentes à titre
// onéreux. Le reste est taxé au taux forfaitaire.
func (b *Bareme) CalculPER(e PEREntree) PERResultat {
	var fraction float64
	switch e.Sortie {
	case SortieCapital:
		abattement := b.PER.AbattementCapital
		if e.Age >= b.PER.AgeSenior {
			abattement = b.PER.AbattementCapitalSenior
		}
		fraction = 1 - abattement
	case SortieRente:
		switch {
		case e.Age < 50:
			fraction = 0.70
		case e.Age < 60:
			fraction = 0.50
		case e.Age < 70:
			fraction = 0.40
		default:
			fraction = 0.30
		}
	}

	impot := e.MontantBrut * fraction * b.PER.TauxImposition
	return PERResultat{
		MontantBrut:     e.MontantBrut,
		Sortie:          e.Sortie,
		FractionTaxable: fraction,
		Impot:           impot,
		MontantNet:      e.MontantBrut - impot,
	}
}

func (r PERResultat) Lignes() []Ligne {
	mode := "Sortie en capital"
	if r.Sortie == SortieRente {
		mode = "Sortie en rente"
	}
	return []Ligne{
		{"Montant brut", Euros(r.MontantBrut)},
		{"Mode de sortie", mode},
		{"Fraction taxable", Pourcent(r.FractionTaxable * 100)},
		{"Impôt", Euros(r.Impot)},
		{"Montant net", Euros(r.MontantNet)},
	}
}
