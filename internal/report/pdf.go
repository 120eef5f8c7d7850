// Package report renders stored compliance reports as PDF documents.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
)

// CompliancePDF writes a printable rendering of the report to w.
func CompliancePDF(w io.Writer, r *model.ComplianceReport) error {
	var controls []model.ControlResult
	if len(r.Controls) > 0 {
		if err := json.Unmarshal(r.Controls, &controls); err != nil {
			return fmt.Errorf("decode control results: %w", err)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Compliance Report: %s", r.Standard)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Target: %s", r.Target)), "", 1, "L", true, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Generated: %s", r.CreatedAt.Format("2006-01-02 15:04 MST"))), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(7)
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 16)
	if r.Score < 70 {
		pdf.SetTextColor(192, 0, 0)
	} else {
		pdf.SetTextColor(0, 128, 0)
	}
	pdf.Cell(45, 12, tr(fmt.Sprintf("%.1f%%", r.Score)))
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("%d of %d controls passing", r.Passed, r.Passed+r.Failed)), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, "Controls")
	pdf.Ln(7)
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(30, 7, "Control", "B", 0, "L", false, 0, "")
	pdf.CellFormat(110, 7, "Title", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Severity", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Result", "B", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, c := range controls {
		title := c.Title
		if len(title) > 70 {
			title = title[:67] + "..."
		}
		result := "PASS"
		pdf.SetTextColor(0, 128, 0)
		if !c.Passed {
			result = "FAIL"
			pdf.SetTextColor(192, 0, 0)
		}
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(30, 6, tr(c.ControlID), "", 0, "L", false, 0, "")
		pdf.CellFormat(110, 6, tr(title), "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, tr(c.Severity), "", 0, "L", false, 0, "")
		if c.Passed {
			pdf.SetTextColor(0, 128, 0)
		} else {
			pdf.SetTextColor(192, 0, 0)
		}
		pdf.CellFormat(25, 6, result, "", 1, "L", false, 0, "")
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	}

	failing := make([]model.ControlResult, 0)
	for _, c := range controls {
		if !c.Passed && c.Remediation != "" {
			failing = append(failing, c)
		}
	}
	if len(failing) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, "Remediation")
		pdf.Ln(7)
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		for _, c := range failing {
			pdf.MultiCell(190, 5, tr(fmt.Sprintf("%s: %s", c.ControlID, c.Remediation)), "", "L", false)
			pdf.Ln(2)
		}
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02"))), "", 0, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
