package simulateur

// APLEntree est la saisie typée de l'estimateur d'aide au logement.
type APLEntree struct {
	RevenusAnnuels float64
	LoyerMensuel   float64
	Foyer          FoyerAPL
	Zone           ZoneAPL
	EnfantsACharge int
}

func APLDepuisSaisie(s Saisie) (APLEntree, error) {
	foyer, err := ParseFoyerAPL(s["foyer"])
	if err != nil {
		return APLEntree{}, err
	}
	zone, err := ParseZoneAPL(s["zone"])
	if err != nil {
		return APLEntree{}, err
	}
	return APLEntree{
		RevenusAnnuels: s.Nombre("revenus_annuels"),
		LoyerMensuel:   s.Nombre("loyer_mensuel"),
		Foyer:          foyer,
		Zone:           zone,
		EnfantsACharge: s.Entier("enfants_a_charge"),
	}, nil
}

type APLResultat struct {
	AideMensuelle float64 `json:"aide_mensuelle"`
	TauxEffort    float64 `json:"taux_effort"`
}

// CalculAPL estime l'aide mensuelle au logement. L'aide est nulle hors
// éligibilité (revenus ou loyer non positifs, revenus au-dessus du
// plafond du foyer) et ne court qu'au-delà du taux d'effort plancher.
// Plafonnée à une part fixe du loyer.
func (b *Bareme) CalculAPL(e APLEntree) APLResultat {
	var r APLResultat
	if e.RevenusAnnuels <= 0 || e.LoyerMensuel <= 0 {
		return r
	}
	if e.RevenusAnnuels >= b.APL.PlafondsRevenus[e.Foyer] {
		return r
	}

	revenuMensuel := e.RevenusAnnuels / 12
	r.TauxEffort = e.LoyerMensuel / revenuMensuel
	if r.TauxEffort <= b.APL.SeuilTauxEffort {
		return r
	}

	aide := (e.LoyerMensuel - b.APL.SeuilTauxEffort*revenuMensuel) *
		b.APL.CoefficientsZone[e.Zone] * b.APL.CoefficientsFoyer[e.Foyer]
	aide *= 1 + b.APL.MajorationParEnfant*float64(e.EnfantsACharge)

	if plafond := e.LoyerMensuel * b.APL.PlafondPartLoyer; aide > plafond {
		aide = plafond
	}
	r.AideMensuelle = aide
	return r
}

func (r APLResultat) Lignes() []Ligne {
	return []Ligne{
		{"Taux d'effort", Pourcent(r.TauxEffort * 100)},
		{"Aide mensuelle estimée", Euros(r.AideMensuelle)},
	}
}
