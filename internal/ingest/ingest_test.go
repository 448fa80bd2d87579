package ingest

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/agrovision/cropcast/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func obs(date time.Time, crop, city string, price float64) model.PriceObservation {
	return model.PriceObservation{Date: date, Crop: crop, City: city, Price: price}
}

func TestMergeDuplicates(t *testing.T) {
	rows := []model.PriceObservation{
		obs(day(2023, 3, 1), "Rice", "Pune", 2000),
		obs(day(2023, 3, 1), "Rice", "Pune", 2400),
		obs(day(2023, 3, 1), "Rice", "Pune", math.NaN()),
		obs(day(2023, 3, 2), "Rice", "Pune", 2100),
		obs(day(2023, 3, 1), "Rice", "Mumbai", 3000),
	}
	got := MergeDuplicates(rows)
	require.Len(t, got, 3)

	// Sorted by (date, crop, city): Mumbai before Pune on 03-01.
	assert.Equal(t, "Mumbai", got[0].City)
	// Duplicate group averages observed prices only: (2000+2400)/2.
	assert.Equal(t, "Pune", got[1].City)
	assert.InDelta(t, 2200, got[1].Price, 1e-9)
	assert.Equal(t, day(2023, 3, 2), got[2].Date)
}

func TestMergeDuplicates_Idempotent(t *testing.T) {
	rows := []model.PriceObservation{
		obs(day(2023, 3, 1), "Rice", "Pune", 2000),
		obs(day(2023, 3, 1), "Rice", "Pune", 2400),
		obs(day(2023, 3, 2), "Wheat", "Nagpur", 1800),
	}
	once := MergeDuplicates(rows)
	twice := MergeDuplicates(once)
	assert.Equal(t, once, twice)
}

func TestMergeDuplicates_AllMissingGroupStaysMissing(t *testing.T) {
	rows := []model.PriceObservation{
		obs(day(2023, 3, 1), "Rice", "Pune", math.NaN()),
		obs(day(2023, 3, 1), "Rice", "Pune", math.NaN()),
	}
	got := MergeDuplicates(rows)
	require.Len(t, got, 1)
	assert.False(t, got[0].HasPrice())
}

func TestParsePriceOr(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2150", 2150},
		{"2,150.50", 2150.50},
		{" 1800 ", 1800},
		{"", math.NaN()},
		{"-", math.NaN()},
		{"NA", math.NaN()},
		{"N/A", math.NaN()},
		{"abc", math.NaN()},
	}
	for _, tt := range tests {
		got := parsePriceOr(tt.in, math.NaN())
		if math.IsNaN(tt.want) {
			assert.True(t, math.IsNaN(got), "input %q", tt.in)
		} else {
			assert.InDelta(t, tt.want, got, 1e-9, "input %q", tt.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("19 Jan 2019")
	require.NoError(t, err)
	assert.Equal(t, day(2019, 1, 19), got)

	got, err = parseDate("2023-06-05")
	require.NoError(t, err)
	assert.Equal(t, day(2023, 6, 5), got)

	_, err = parseDate("")
	assert.Error(t, err)
	_, err = parseDate("06/05/2023")
	assert.Error(t, err)
}

// writeSheet writes a minimal source spreadsheet with Date and Price columns.
func writeSheet(t *testing.T, path string, rows [][2]string) {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	header := sheet.AddRow()
	// Extra leading column exercises header-based column resolution.
	header.AddCell().SetString("Market")
	header.AddCell().SetString("Date")
	header.AddCell().SetString("Price")

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString("Wholesale")
		row.AddCell().SetString(r[0])
		row.AddCell().SetString(r[1])
	}
	require.NoError(t, f.Save(path))
}

func TestLoad_EndToEnd(t *testing.T) {
	base := t.TempDir()
	puneDir := filepath.Join(base, "Pune")
	require.NoError(t, os.MkdirAll(puneDir, 0o755))

	writeSheet(t, filepath.Join(puneDir, "Maize_2016-2025.xlsx"), [][2]string{
		{"1 Mar 2023", "1400"},
		{"2 Mar 2023", "1450"},
		{"2 Mar 2023", "1550"}, // duplicate day, averaged
		{"not a date", "999"},  // skipped
		{"3 Mar 2023", "NA"},   // missing price survives ingestion
	})
	// Unrecognized file is skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(puneDir, "notes.txt"), []byte("x"), 0o644))

	loader := NewLoaderWithSources(base, []string{"Pune", "Nagpur"}, CropFiles)
	rows, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Maize", rows[0].Crop)
	assert.Equal(t, "Pune", rows[0].City)
	assert.InDelta(t, 1400, rows[0].Price, 1e-9)
	assert.InDelta(t, 1500, rows[1].Price, 1e-9)
	assert.False(t, rows[2].HasPrice())
}

func TestLoad_NoRowsAnywhere(t *testing.T) {
	loader := NewLoaderWithSources(t.TempDir(), []string{"Pune"}, CropFiles)
	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}

func TestWriteWorkbook_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consolidated.xlsx")
	rows := []model.PriceObservation{
		obs(day(2023, 3, 1), "Rice", "Pune", 2150.5),
		obs(day(2023, 3, 2), "Rice", "Pune", math.NaN()),
	}
	require.NoError(t, WriteWorkbook(path, rows))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sheet := f.Sheets[0]
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Date", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "2023-03-01", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "Rice", sheet.Rows[1].Cells[1].String())
	assert.Equal(t, "Pune", sheet.Rows[1].Cells[2].String())
	got, err := sheet.Rows[1].Cells[3].Float()
	require.NoError(t, err)
	assert.InDelta(t, 2150.5, got, 1e-9)
	assert.Equal(t, "", sheet.Rows[2].Cells[3].String())
}
