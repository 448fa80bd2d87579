package ingest

import (
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/agrovision/cropcast/internal/model"
)

// readPriceSheet reads one source spreadsheet and labels every row with the
// given crop and city. The sheet must carry Date and Price columns; column
// positions are resolved from the header row, case-insensitively.
func readPriceSheet(path, crop, city string) ([]model.PriceObservation, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, eris.Errorf("ingest: %s has no data rows", path)
	}

	dateCol, priceCol, err := resolveColumns(rowToStrings(sheet.Rows[0]))
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: %s", path)
	}

	var rows []model.PriceObservation
	for _, raw := range sheet.Rows[1:] {
		cells := rowToStrings(raw)
		if dateCol >= len(cells) {
			continue
		}
		date, err := parseDate(cells[dateCol])
		if err != nil {
			// A bad date makes the row unusable; skip rather than abort the file.
			continue
		}

		price := math.NaN()
		if priceCol < len(cells) {
			price = parsePriceOr(cells[priceCol], math.NaN())
		}

		obs, err := model.NewPriceObservation(date, crop, city, price)
		if err != nil {
			continue
		}
		rows = append(rows, obs)
	}
	return rows, nil
}

func resolveColumns(header []string) (dateCol, priceCol int, err error) {
	dateCol, priceCol = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateCol = i
		case "price":
			priceCol = i
		}
	}
	if dateCol < 0 {
		return 0, 0, eris.New("no Date column")
	}
	if priceCol < 0 {
		return 0, 0, eris.New("no Price column")
	}
	return dateCol, priceCol, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// sourceDateLayouts are tried in order. The upstream market exports use the
// "19 Jan 2019" form; ISO is accepted as a fallback.
var sourceDateLayouts = []string{"2 Jan 2006", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, eris.New("empty date")
	}
	for _, layout := range sourceDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Errorf("unparseable date %q", s)
}

// WriteWorkbook writes the consolidated table to an XLSX workbook with Date,
// Crop, City, Price columns, dates in ISO form.
func WriteWorkbook(path string, rows []model.PriceObservation) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Prices")
	if err != nil {
		return eris.Wrap(err, "ingest: add sheet")
	}

	header := sheet.AddRow()
	for _, name := range []string{"Date", "Crop", "City", "Price"} {
		header.AddCell().SetString(name)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Date.Format("2006-01-02"))
		row.AddCell().SetString(r.Crop)
		row.AddCell().SetString(r.City)
		if r.HasPrice() {
			row.AddCell().SetFloat(r.Price)
		} else {
			row.AddCell().SetString("")
		}
	}

	return eris.Wrapf(f.Save(path), "ingest: save workbook %s", path)
}
