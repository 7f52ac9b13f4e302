package simulateur

// MicroEntree est la saisie typée du simulateur micro-entreprise.
type MicroEntree struct {
	Regime          RegimeMicro
	ChiffreAffaires float64
	Acre            bool
	AnneeAcre       int
}

// MicroDepuisSaisie coerce la saisie brute. Seul le régime peut échouer :
// c'est une clé fermée, pas un nombre.
func MicroDepuisSaisie(s Saisie) (MicroEntree, error) {
	regime, err := ParseRegimeMicro(s["regime"])
	if err != nil {
		return MicroEntree{}, err
	}
	return MicroEntree{
		Regime:          regime,
		ChiffreAffaires: s.Nombre("chiffre_affaires"),
		Acre:            s.Booleen("acre"),
		AnneeAcre:       s.Entier("annee_acre"),
	}, nil
}

// MicroResultat détaille les prélèvements du régime micro. En cas de
// dépassement du plafond, tous les montants restent à zéro.
type MicroResultat struct {
	Regime             RegimeMicro `json:"regime"`
	ChiffreAffaires    float64     `json:"chiffre_affaires"`
	Plafond            float64     `json:"plafond"`
	DepassementPlafond bool        `json:"depassement_plafond"`
	TauxCotisations    float64     `json:"taux_cotisations"`
	Cotisations        float64     `json:"cotisations"`
	Impot              float64     `json:"impot"`
	RevenuNet          float64     `json:"revenu_net"`
	TauxPrelevement    float64     `json:"taux_prelevement"`
}

// Micro calcule cotisations sociales, versement libératoire et revenu
// net d'un micro-entrepreneur. L'ACRE réduit le taux de cotisations à
// 25/50/75 % du taux normal selon l'année d'exonération.
func (b *Bareme) CalculMicro(e MicroEntree) MicroResultat {
	taux := b.Micro[e.Regime]
	r := MicroResultat{
		Regime:          e.Regime,
		ChiffreAffaires: e.ChiffreAffaires,
		Plafond:         taux.Plafond,
	}

	if e.ChiffreAffaires > taux.Plafond {
		r.DepassementPlafond = true
		return r
	}

	tauxCotisations := taux.TauxCotisations
	if e.Acre {
		if coef, ok := b.Acre[e.AnneeAcre]; ok {
			tauxCotisations *= coef
		}
	}

	r.TauxCotisations = tauxCotisations
	r.Cotisations = e.ChiffreAffaires * tauxCotisations
	r.Impot = e.ChiffreAffaires * taux.TauxVersementLiberatoire
	r.RevenuNet = e.ChiffreAffaires - r.Cotisations - r.Impot
	if e.ChiffreAffaires > 0 {
		r.TauxPrelevement = (r.Cotisations + r.Impot) / e.ChiffreAffaires * 100
	}
	return r
}

func (r MicroResultat) Lignes() []Ligne {
	if r.DepassementPlafond {
		return []Ligne{
			{"Chiffre d'affaires", Euros(r.ChiffreAffaires)},
			{"Plafond du régime", Euros(r.Plafond)},
			{"Dépassement de plafond", "oui"},
		}
	}
	return []Ligne{
		{"Chiffre d'affaires", Euros(r.ChiffreAffaires)},
		{"Cotisations sociales", Euros(r.Cotisations)},
		{"Versement libératoire", Euros(r.Impot)},
		{"Revenu net", Euros(r.RevenuNet)},
		{"Taux de prélèvement global", Pourcent(r.TauxPrelevement)},
	}
}
