// Package export produit le PDF téléchargeable d'une simulation.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"mbc-portail/simulateur"
)

const disclaimer = "Document fourni à titre indicatif, sans valeur contractuelle. " +
	"Rapprochez-vous de votre expert-comptable pour toute décision."

// NomFichier retourne le nom de téléchargement :
// simulation-<type>-<epoch-ms>.pdf
func NomFichier(t simulateur.TypeSimulation) string {
	return fmt.Sprintf("simulation-%s-%d.pdf", t, time.Now().UnixMilli())
}

// PDF rend un document à gabarit fixe : en-tête au nom du cabinet, type
// et date de génération, une ligne « clé : valeur » par entrée, pied de
// page d'avertissement. Offsets verticaux fixes — au-delà d'une page,
// les lignes excédentaires sortent de la zone visible.
func PDF(cabinet string, t simulateur.TypeSimulation, lignes []simulateur.Ligne) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Simulation "+string(t)), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(30, 64, 124)
	pdf.CellFormat(0, 12, tr(cabinet), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 8, tr("Simulation "+string(t)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, tr("Générée le "+time.Now().Format("02/01/2006")), "", 1, "C", false, 0, "")

	pdf.SetY(60)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(20, 20, 20)
	for _, l := range lignes {
		pdf.CellFormat(0, 8, tr(l.Libelle+" : "+l.Valeur), "", 1, "L", false, 0, "")
	}

	pdf.SetY(-30)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 4, tr(disclaimer), "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("génération PDF: %w", err)
	}
	return buf.Bytes(), nil
}
