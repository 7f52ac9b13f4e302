package simulateur

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ecrireBareme(t *testing.T, contenu string) string {
	t.Helper()
	chemin := filepath.Join(t.TempDir(), "bareme.yaml")
	require.NoError(t, os.WriteFile(chemin, []byte(contenu), 0o644))
	return chemin
}

func TestChargerBaremeSurcharge(t *testing.T) {
	chemin := ecrireBareme(t, `
annee: 2026
is:
  taux_normal: 0.26
micro:
  services:
    taux_cotisations: 0.22
    taux_versement_liberatoire: 0.017
    plafond: 80000
`)
	b, err := ChargerBareme(chemin)
	require.NoError(t, err)

	assert.Equal(t, 2026, b.Annee)
	assert.Equal(t, 0.26, b.IS.TauxNormal)
	// champ absent du fichier : valeur compilée conservée
	assert.Equal(t, 0.15, b.IS.TauxReduit)
	assert.Equal(t, 0.22, b.Micro[RegimeServices].TauxCotisations)
	// régimes non mentionnés conservés
	assert.Equal(t, 0.123, b.Micro[RegimeVente].TauxCotisations)
}

func TestChargerBaremeSansAnnee(t *testing.T) {
	chemin := ecrireBareme(t, "is:\n  taux_normal: 0.3\n")
	_, err := ChargerBareme(chemin)
	require.Error(t, err)
}

func TestChargerBaremeFichierAbsent(t *testing.T) {
	_, err := ChargerBareme(filepath.Join(t.TempDir(), "nexiste.yaml"))
	require.Error(t, err)
}

func TestChargerBaremeYAMLInvalide(t *testing.T) {
	chemin := ecrireBareme(t, "annee: [")
	_, err := ChargerBareme(chemin)
	require.Error(t, err)
}
