package simulateur

import "fmt"

// TypeSimulation identifie le simulateur d'origine d'un enregistrement.
type TypeSimulation string

const (
	SimulationTVA        TypeSimulation = "tva"
	SimulationIS         TypeSimulation = "is"
	SimulationMicro      TypeSimulation = "micro-entreprise"
	SimulationDividendes TypeSimulation = "dividendes"
	SimulationPER        TypeSimulation = "per"
	SimulationAPL        TypeSimulation = "apl"
	SimulationCharges    TypeSimulation = "charges-sociales"
)

func ParseTypeSimulation(v string) (TypeSimulation, error) {
	switch TypeSimulation(v) {
	case SimulationTVA, SimulationIS, SimulationMicro, SimulationDividendes,
		SimulationPER, SimulationAPL, SimulationCharges:
		return TypeSimulation(v), nil
	}
	return "", fmt.Errorf("simulateur inconnu: %q", v)
}

// Calculer route une saisie vers l'évaluateur du type demandé et rend le
// résultat avec ses lignes d'affichage. Les sorties ne sont jamais
// persistées : elles se recalculent depuis la saisie.
func (b *Bareme) Calculer(t TypeSimulation, s Saisie) (any, []Ligne, error) {
	switch t {
	case SimulationTVA:
		r := b.CalculTVA(s)
		return r, r.Lignes(), nil
	case SimulationIS:
		r := b.CalculIS(s)
		return r, r.Lignes(), nil
	case SimulationMicro:
		e, err := MicroDepuisSaisie(s)
		if err != nil {
			return nil, nil, err
		}
		r := b.CalculMicro(e)
		return r, r.Lignes(), nil
	case SimulationDividendes:
		e, err := DividendesDepuisSaisie(s)
		if err != nil {
			return nil, nil, err
		}
		r := b.CalculDividendes(e)
		return r, r.Lignes(), nil
	case SimulationPER:
		e, err := PERDepuisSaisie(s)
		if err != nil {
			return nil, nil, err
		}
		r := b.CalculPER(e)
		return r, r.Lignes(), nil
	case SimulationAPL:
		e, err := APLDepuisSaisie(s)
		if err != nil {
			return nil, nil, err
		}
		r := b.CalculAPL(e)
		return r, r.Lignes(), nil
	case SimulationCharges:
		e, err := ChargesDepuisSaisie(s)
		if err != nil {
			return nil, nil, err
		}
		r := b.CalculCharges(e)
		return r, r.Lignes(), nil
	}
	return nil, nil, fmt.Errorf("simulateur inconnu: %q", t)
}
