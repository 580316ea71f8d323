package storage

import (
	"fmt"
	"strings"

	"github.com/Zanziz/MK-project/models"
	"github.com/xuri/excelize/v2"
)

var standingsHeader = []interface{}{"Rank", "Gamer Tag", "First Name", "Score", "Races", "Best", "Positions"}

// StandingsWorkbook renders every non-empty phase table of lb as its own sheet.
func StandingsWorkbook(lb models.Leaderboard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		rows []models.Standing
	}{
		{"Championship", lb.Championship},
		{"Semi-Final A", lb.SemiFinalA},
		{"Semi-Final B", lb.SemiFinalB},
		{"Final", lb.Final},
	}

	// Первый лист всегда есть: переименовываем стандартный Sheet1
	if err := f.SetSheetName("Sheet1", sheets[0].name); err != nil {
		return nil, err
	}
	for i, sheet := range sheets {
		if i > 0 {
			if len(sheet.rows) == 0 {
				continue
			}
			if _, err := f.NewSheet(sheet.name); err != nil {
				return nil, fmt.Errorf("create sheet %q: %w", sheet.name, err)
			}
		}
		if err := writeStandings(f, sheet.name, sheet.rows); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStandings(f *excelize.File, sheet string, rows []models.Standing) error {
	if err := f.SetSheetRow(sheet, "A1", &standingsHeader); err != nil {
		return fmt.Errorf("write header of %q: %w", sheet, err)
	}
	for i, s := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		positions := make([]string, len(s.Positions))
		for j, p := range s.Positions {
			positions[j] = fmt.Sprint(p)
		}
		best := interface{}(s.BestPosition)
		if s.RacesPlayed == 0 {
			best = "-"
		}
		row := []interface{}{s.Rank, s.GamerTag, s.FirstName, s.Score, s.RacesPlayed, best, strings.Join(positions, " ")}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %q: %w", i+1, sheet, err)
		}
	}
	return nil
}
