// Package pdf renders printable event summaries with QR codes linking to the
// public event and registration pages.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/veselovese/bronitech/models"
)

// EventSummary renders a one-page A4 summary for the event. publicBaseURL is
// the frontend origin the QR codes point at.
func EventSummary(event *models.Event, publicBaseURL string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Event %d", event.ID), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "", 12)
	doc.SetTextColor(20, 40, 120)
	doc.CellFormat(0, 8, "Event summary", "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "B", 24)
	doc.CellFormat(0, 12, event.Name, "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.SetTextColor(0, 0, 0)
	doc.MultiCell(0, 6, event.Description, "", "L", false)
	doc.Ln(8)

	writeLabeled(doc, event.Date.Format("2 January 2006"), "date")
	writeLabeled(doc, event.Date.Format("15:04"), "time")

	if event.Space != nil {
		caption := event.Space.Name
		writeLabeled(doc, caption, spaceAddress(event.Space))
	}
	if event.Organizer != nil {
		writeLabeled(doc, event.Organizer.Name, "organizer")
	}
	doc.Ln(6)

	detailsURL := fmt.Sprintf("%s/events/%d", publicBaseURL, event.ID)
	registerURL := fmt.Sprintf("%s/regs/%d", publicBaseURL, event.ID)
	if err := drawQR(doc, detailsURL, 15, "details"); err != nil {
		return nil, err
	}
	if err := drawQR(doc, registerURL, 75, "registration"); err != nil {
		return nil, err
	}
	doc.Ln(58)

	if len(event.Items) > 0 {
		doc.SetFont("Helvetica", "", 12)
		for _, item := range event.Items {
			doc.CellFormat(0, 6, "#"+item.Name, "", 1, "L", false, 0, "")
		}
	}

	doc.SetY(-20)
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(128, 128, 128)
	doc.CellFormat(0, 5, fmt.Sprintf("Generated automatically, %s", time.Now().UTC().Format("2006-01-02")), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func spaceAddress(space *models.Space) string {
	if space.Building == nil {
		return "venue"
	}
	return space.Building.Address()
}

// writeLabeled prints a bold value with a small grey caption under it.
func writeLabeled(doc *fpdf.Fpdf, value, caption string) {
	doc.SetFont("Helvetica", "B", 16)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(128, 128, 128)
	doc.CellFormat(0, 4, caption, "", 1, "L", false, 0, "")
	doc.Ln(2)
}

func drawQR(doc *fpdf.Fpdf, url string, x float64, caption string) error {
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}
	name := fmt.Sprintf("qr-%s", caption)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	y := doc.GetY()
	doc.ImageOptions(name, x, y, 50, 50, false, opts, 0, "")
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(128, 128, 128)
	doc.Text(x+2, y+54, caption)
	return nil
}
