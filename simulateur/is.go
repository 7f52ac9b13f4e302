package simulateur

// ISResultat détaille l'impôt sur les sociétés par tranche. Les deux
// tranches sont rapportées séparément quand le taux réduit s'applique.
type ISResultat struct {
	ResultatFiscal      float64 `json:"resultat_fiscal"`
	TauxReduitApplique  bool    `json:"taux_reduit_applique"`
	ImpotTauxReduit     float64 `json:"impot_taux_reduit"`
	ImpotTauxNormal     float64 `json:"impot_taux_normal"`
	ContributionSociale float64 `json:"contribution_sociale"`
	ImpotTotal          float64 `json:"impot_total"`
	TauxMoyen           float64 `json:"taux_moyen"`
	ResultatApresImpot  float64 `json:"resultat_apres_impot"`
}

// IS calcule l'impôt sur les sociétés. Champs attendus : resultat_fiscal,
// chiffre_affaires, pme (éligibilité au taux réduit), contribution_sociale.
func (b *Bareme) CalculIS(s Saisie) ISResultat {
	resultat := s.Nombre("resultat_fiscal")
	ca := s.Nombre("chiffre_affaires")
	pme := s.Booleen("pme")
	avecContribution := s.Booleen("contribution_sociale")

	r := ISResultat{ResultatFiscal: resultat}
	if resultat <= 0 {
		r.ResultatApresImpot = resultat
		return r
	}

	eligible := pme && ca <= b.IS.PlafondCAPME
	switch {
	case eligible && resultat <= b.IS.PlafondTauxReduit:
		r.TauxReduitApplique = true
		r.ImpotTauxReduit = resultat * b.IS.TauxReduit
	case eligible:
		r.TauxReduitApplique = true
		r.ImpotTauxReduit = b.IS.PlafondTauxReduit * b.IS.TauxReduit
		r.ImpotTauxNormal = (resultat - b.IS.PlafondTauxReduit) * b.IS.TauxNormal
	default:
		r.ImpotTauxNormal = resultat * b.IS.TauxNormal
	}

	if avecContribution && ca > b.IS.SeuilContributionSociale {
		r.ContributionSociale = resultat * b.IS.TauxContributionSociale
	}

	r.ImpotTotal = r.ImpotTauxReduit + r.ImpotTauxNormal + r.ContributionSociale
	r.TauxMoyen = r.ImpotTotal / resultat * 100
	r.ResultatApresImpot = resultat - r.ImpotTotal
	return r
}

func (r ISResultat) Lignes() []Ligne {
	lignes := []Ligne{
		{"Résultat fiscal", Euros(r.ResultatFiscal)},
	}
	if r.TauxReduitApplique {
		lignes = append(lignes, Ligne{"Impôt au taux réduit (15 %)", Euros(r.ImpotTauxReduit)})
	}
	if r.ImpotTauxNormal > 0 {
		lignes = append(lignes, Ligne{"Impôt au taux normal (25 %)", Euros(r.ImpotTauxNormal)})
	}
	if r.ContributionSociale > 0 {
		lignes = append(lignes, Ligne{"Contribution sociale (3,3 %)", Euros(r.ContributionSociale)})
	}
	return append(lignes,
		Ligne{"Impôt total", Euros(r.ImpotTotal)},
		Ligne{"Taux moyen d'imposition", Pourcent(r.TauxMoyen)},
		Ligne{"Résultat après impôt", Euros(r.ResultatApresImpot)},
	)
}
