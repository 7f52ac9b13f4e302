package simulateur

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Clés fermées des tables de taux. Une valeur hors énumération est une
// erreur explicite de l'appelant, jamais un zéro silencieux.
type (
	// RegimeMicro identifie le régime micro-entreprise.
	RegimeMicro string
	// FoyerAPL identifie la composition du foyer pour l'aide au logement.
	FoyerAPL string
	// ZoneAPL identifie la zone géographique CAF.
	ZoneAPL string
	// StatutDirigeant identifie le statut social du dirigeant.
	StatutDirigeant string
	// OptionDividendes identifie le mode d'imposition des dividendes.
	OptionDividendes string
	// SortiePER identifie le mode de sortie d'un plan épargne retraite.
	SortiePER string
)

const (
	RegimeVente    RegimeMicro = "vente"
	RegimeServices RegimeMicro = "services"
	RegimeLiberal  RegimeMicro = "liberal"

	FoyerCelibataire FoyerAPL = "celibataire"
	FoyerCouple      FoyerAPL = "couple"
	FoyerParentIsole FoyerAPL = "parent_isole"

	Zone1 ZoneAPL = "zone1"
	Zone2 ZoneAPL = "zone2"
	Zone3 ZoneAPL = "zone3"

	StatutPresidentSASU StatutDirigeant = "president_sasu"
	StatutGerantEURL    StatutDirigeant = "gerant_eurl"
	StatutEI            StatutDirigeant = "entreprise_individuelle"

	DividendesPFU    OptionDividendes = "pfu"
	DividendesBareme OptionDividendes = "bareme"

	SortieCapital SortiePER = "capital"
	SortieRente   SortiePER = "rente"
)

func ParseRegimeMicro(v string) (RegimeMicro, error) {
	switch RegimeMicro(v) {
	case RegimeVente, RegimeServices, RegimeLiberal:
		return RegimeMicro(v), nil
	}
	return "", fmt.Errorf("régime micro inconnu: %q", v)
}

func ParseFoyerAPL(v string) (FoyerAPL, error) {
	switch FoyerAPL(v) {
	case FoyerCelibataire, FoyerCouple, FoyerParentIsole:
		return FoyerAPL(v), nil
	}
	return "", fmt.Errorf("type de foyer inconnu: %q", v)
}

func ParseZoneAPL(v string) (ZoneAPL, error) {
	switch ZoneAPL(v) {
	case Zone1, Zone2, Zone3:
		return ZoneAPL(v), nil
	}
	return "", fmt.Errorf("zone inconnue: %q", v)
}

func ParseStatutDirigeant(v string) (StatutDirigeant, error) {
	switch StatutDirigeant(v) {
	case StatutPresidentSASU, StatutGerantEURL, StatutEI:
		return StatutDirigeant(v), nil
	}
	return "", fmt.Errorf("statut dirigeant inconnu: %q", v)
}

func ParseOptionDividendes(v string) (OptionDividendes, error) {
	switch OptionDividendes(v) {
	case DividendesPFU, DividendesBareme:
		return OptionDividendes(v), nil
	}
	return "", fmt.Errorf("option d'imposition inconnue: %q", v)
}

func ParseSortiePER(v string) (SortiePER, error) {
	switch SortiePER(v) {
	case SortieCapital, SortieRente:
		return SortiePER(v), nil
	}
	return "", fmt.Errorf("mode de sortie inconnu: %q", v)
}

// TauxMicro porte les taux d'un régime micro-entreprise.
type TauxMicro struct {
	TauxCotisations          float64 `yaml:"taux_cotisations"`
	TauxVersementLiberatoire float64 `yaml:"taux_versement_liberatoire"`
	Plafond                  float64 `yaml:"plafond"`
}

// BaremeIS porte les seuils et taux de l'impôt sur les sociétés.
type BaremeIS struct {
	TauxNormal               float64 `yaml:"taux_normal"`
	TauxReduit               float64 `yaml:"taux_reduit"`
	PlafondTauxReduit        float64 `yaml:"plafond_taux_reduit"`
	PlafondCAPME             float64 `yaml:"plafond_ca_pme"`
	SeuilContributionSociale float64 `yaml:"seuil_contribution_sociale"`
	TauxContributionSociale  float64 `yaml:"taux_contribution_sociale"`
}

// BaremeDividendes porte les taux d'imposition des dividendes.
type BaremeDividendes struct {
	TauxPrelevementsSociaux float64 `yaml:"taux_prelevements_sociaux"`
	TauxPFU                 float64 `yaml:"taux_pfu"`
}

// BaremePER porte les règles de sortie d'un plan épargne retraite.
type BaremePER struct {
	TauxImposition float64 `yaml:"taux_imposition"`
	// Fraction abattue d'une sortie en capital, selon l'âge.
	AbattementCapital       float64 `yaml:"abattement_capital"`
	AbattementCapitalSenior float64 `yaml:"abattement_capital_senior"`
	AgeSenior               int     `yaml:"age_senior"`
}

// BaremeAPL porte les seuils de l'estimation d'aide au logement.
type BaremeAPL struct {
	PlafondsRevenus     map[FoyerAPL]float64 `yaml:"plafonds_revenus"`
	CoefficientsFoyer   map[FoyerAPL]float64 `yaml:"coefficients_foyer"`
	CoefficientsZone    map[ZoneAPL]float64  `yaml:"coefficients_zone"`
	SeuilTauxEffort     float64              `yaml:"seuil_taux_effort"`
	MajorationParEnfant float64              `yaml:"majoration_par_enfant"`
	PlafondPartLoyer    float64              `yaml:"plafond_part_loyer"`
}

// Bareme rassemble toutes les constantes fiscales d'une année. Les taux
// sont des fractions (0.25 = 25 %) sauf mention contraire.
type Bareme struct {
	Annee int `yaml:"annee"`

	IS         BaremeIS                    `yaml:"is"`
	Micro      map[RegimeMicro]TauxMicro   `yaml:"micro"`
	Acre       map[int]float64             `yaml:"acre"`
	Dividendes BaremeDividendes            `yaml:"dividendes"`
	PER        BaremePER                   `yaml:"per"`
	APL        BaremeAPL                   `yaml:"apl"`
	Charges    map[StatutDirigeant]float64 `yaml:"charges_dirigeant"`
}

// BaremeParDefaut retourne les constantes compilées de l'année en cours.
func BaremeParDefaut() *Bareme {
	return &Bareme{
		Annee: 2025,
		IS: BaremeIS{
			TauxNormal:               0.25,
			TauxReduit:               0.15,
			PlafondTauxReduit:        42_500,
			PlafondCAPME:             10_000_000,
			SeuilContributionSociale: 7_630_000,
			TauxContributionSociale:  0.033,
		},
		Micro: map[RegimeMicro]TauxMicro{
			RegimeVente:    {TauxCotisations: 0.123, TauxVersementLiberatoire: 0.01, Plafond: 188_700},
			RegimeServices: {TauxCotisations: 0.212, TauxVersementLiberatoire: 0.017, Plafond: 77_700},
			RegimeLiberal:  {TauxCotisations: 0.246, TauxVersementLiberatoire: 0.022, Plafond: 77_700},
		},
		Acre: map[int]float64{1: 0.25, 2: 0.50, 3: 0.75},
		Dividendes: BaremeDividendes{
			TauxPrelevementsSociaux: 0.175,
			TauxPFU:                 0.125,
		},
		PER: BaremePER{
			TauxImposition:          0.30,
			AbattementCapital:       0.50,
			AbattementCapitalSenior: 0.70,
			AgeSenior:               70,
		},
		APL: BaremeAPL{
			PlafondsRevenus: map[FoyerAPL]float64{
				FoyerCelibataire: 25_000,
				FoyerCouple:      35_000,
				FoyerParentIsole: 30_000,
			},
			CoefficientsFoyer: map[FoyerAPL]float64{
				FoyerCelibataire: 1.0,
				FoyerCouple:      1.1,
				FoyerParentIsole: 1.3,
			},
			CoefficientsZone: map[ZoneAPL]float64{
				Zone1: 1.2,
				Zone2: 1.1,
				Zone3: 1.0,
			},
			SeuilTauxEffort:     0.30,
			MajorationParEnfant: 0.10,
			PlafondPartLoyer:    0.80,
		},
		Charges: map[StatutDirigeant]float64{
			StatutPresidentSASU: 0.65,
			StatutGerantEURL:    0.45,
			StatutEI:            0.40,
		},
	}
}

// ChargerBareme lit un barème YAML daté. Les champs absents gardent la
// valeur compilée; un fichier sans année est refusé.
func ChargerBareme(chemin string) (*Bareme, error) {
	b := BaremeParDefaut()
	b.Annee = 0 // l'année doit venir du fichier
	raw, err := os.ReadFile(chemin)
	if err != nil {
		return nil, fmt.Errorf("lecture barème: %w", err)
	}
	if err := yaml.Unmarshal(raw, b); err != nil {
		return nil, fmt.Errorf("barème invalide: %w", err)
	}
	if b.Annee == 0 {
		return nil, fmt.Errorf("barème %s: année manquante", chemin)
	}
	return b, nil
}
