package simulateur

// DividendesEntree est la saisie typée du simulateur de dividendes.
type DividendesEntree struct {
	MontantBrut float64
	Option      OptionDividendes
	// Taux marginal choisi (en pourcentage) pour l'option barème.
	TrancheIR float64
}

func DividendesDepuisSaisie(s Saisie) (DividendesEntree, error) {
	option, err := ParseOptionDividendes(s["option"])
	if err != nil {
		return DividendesEntree{}, err
	}
	return DividendesEntree{
		MontantBrut: s.Nombre("montant_brut"),
		Option:      option,
		TrancheIR:   s.Nombre("tranche_ir"),
	}, nil
}

type DividendesResultat struct {
	MontantBrut         float64          `json:"montant_brut"`
	Option              OptionDividendes `json:"option"`
	PrelevementsSociaux float64          `json:"prelevements_sociaux"`
	ImpotRevenu         float64          `json:"impot_revenu"`
	MontantNet          float64          `json:"montant_net"`
}

// CalculDividendes applique les prélèvements sociaux puis l'impôt sur le
// revenu, au PFU ou à la tranche choisie du barème progressif.
func (b *Bareme) CalculDividendes(e DividendesEntree) DividendesResultat {
	ps := e.MontantBrut * b.Dividendes.TauxPrelevementsSociaux

	var ir float64
	switch e.Option {
	case DividendesPFU:
		ir = e.MontantBrut * b.Dividendes.TauxPFU
	case DividendesBareme:
		ir = e.MontantBrut * e.TrancheIR / 100
	}

	return DividendesResultat{
		MontantBrut:         e.MontantBrut,
		Option:              e.Option,
		PrelevementsSociaux: ps,
		ImpotRevenu:         ir,
		MontantNet:          e.MontantBrut - ps - ir,
	}
}

func (r DividendesResultat) Lignes() []Ligne {
	mode := "Prélèvement forfaitaire unique"
	if r.Option == DividendesBareme {
		mode = "Barème progressif"
	}
	return []Ligne{
		{"Dividendes bruts", Euros(r.MontantBrut)},
		{"Mode d'imposition", mode},
		{"Prélèvements sociaux", Euros(r.PrelevementsSociaux)},
		{"Impôt sur le revenu", Euros(r.ImpotRevenu)},
		{"Dividendes nets", Euros(r.MontantNet)},
	}
}
