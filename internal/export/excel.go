// Package export renders a job's candidates as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/justsurfingit/TalentScout-AI/internal/models"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Candidates"
)

var candidateHeaders = []string{"Rank", "Name", "Email", "Score", "Tier", "Status", "Summary", "Key Skills", "Badges"}

// WriteCandidates writes the workbook for job to w. candidates are expected
// best score first, as ListCandidates returns them.
func WriteCandidates(w io.Writer, job *models.Job, candidates []models.Candidate) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SummarySheet)
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if err := summarySheet(f, job, candidates); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := candidatesSheet(f, candidates); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// FileName is the download name for a job's export.
func FileName(job *models.Job) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ' || r == '_':
			return '_'
		}
		return -1
	}, job.Title)
	if name == "" {
		name = "job"
	}
	return name + "_candidates.xlsx"
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
}

func summarySheet(f *excelize.File, job *models.Job, candidates []models.Candidate) error {
	sheet := SummarySheet
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 50)

	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Job Title:", job.Title},
		{"Status:", string(job.Status)},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Candidates:", len(candidates)},
	}

	counts := map[models.Tier]int{}
	total := 0
	for _, c := range candidates {
		counts[c.Tier]++
		total += c.AIScore
	}
	avg := 0.0
	if len(candidates) > 0 {
		avg = float64(total) / float64(len(candidates))
	}
	rows = append(rows, []any{"Average Score:", fmt.Sprintf("%.2f", avg)})

	row := 1
	for _, r := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1])
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Tier")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Candidates")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), style)
	row++
	for _, t := range models.Tiers {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(t))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), counts[t])
		row++
	}
	return nil
}

func candidatesSheet(f *excelize.File, candidates []models.Candidate) error {
	sheet := CandidatesSheet
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A1", &candidateHeaders); err != nil {
		return err
	}
	f.SetCellStyle(sheet, "A1", "I1", style)
	f.SetColWidth(sheet, "B", "C", 28)
	f.SetColWidth(sheet, "G", "G", 60)
	f.SetColWidth(sheet, "H", "I", 40)

	for i, c := range candidates {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			i + 1,
			c.Name,
			c.Email,
			c.AIScore,
			string(c.Tier),
			string(c.Status),
			c.Summary,
			formatSkills(c.Skills()),
			strings.Join(c.Badges, ", "),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func formatSkills(skills models.SkillScores) string {
	parts := make([]string, 0, len(skills))
	for _, s := range skills {
		parts = append(parts, fmt.Sprintf("%s: %d", s.Name, s.Score))
	}
	return strings.Join(parts, ", ")
}
