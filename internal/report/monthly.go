// Package report builds the representative's monthly building report as
// a spreadsheet download.
package report

import (
	"fmt"
	"time"

	"homefix/internal/model"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var monthsHR = [...]string{
	"Siječanj", "Veljača", "Ožujak", "Travanj", "Svibanj", "Lipanj",
	"Srpanj", "Kolovoz", "Rujan", "Listopad", "Studeni", "Prosinac",
}

var issueCategoryLabels = map[model.IssueCategory]string{
	model.CategoryElectrical: "ELEKTRIČNI",
	model.CategoryPlumbing:   "VODOINSTALACIJA",
	model.CategoryCarpentry:  "STOLARIJA",
	model.CategoryGeneral:    "OPĆENITO",
}

var statusLabels = map[model.TicketStatus]string{
	model.StatusOpen:       "OTVORENO",
	model.StatusInProgress: "U TIJEKU",
	model.StatusResolved:   "RIJEŠENO",
}

// Row is one ticket line of the monthly report.
type Row struct {
	CreatedAt     time.Time
	Title         string
	IssueCategory model.IssueCategory
	Status        model.TicketStatus
	UnitLabel     string
}

// Monthly is a building's report for one calendar month.
type Monthly struct {
	BuildingAddress string
	Year            int
	Month           time.Month
	Rows            []Row
	Total           int
}

// Title returns the localized report heading.
func (m *Monthly) Title() string {
	return fmt.Sprintf("Mjesečni izvještaj – %s %d", monthsHR[m.Month-1], m.Year)
}

// periodUTC returns the [from, to) UTC bounds of a calendar month.
func periodUTC(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// BuildMonthly collects the building's tickets created within the given
// month, joined with their unit labels.
func BuildMonthly(db *gorm.DB, buildingID uint, year int, month time.Month) (*Monthly, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("Neispravan mjesec: %d", month)
	}

	var building model.Building
	if err := db.Where("id = ?", buildingID).First(&building).Error; err != nil {
		return nil, err
	}

	var units []model.BuildingUnit
	if err := db.Where("building_id = ?", buildingID).Find(&units).Error; err != nil {
		return nil, err
	}
	labelByUnit := make(map[uint]string, len(units))
	unitIDs := make([]uint, 0, len(units))
	for _, u := range units {
		labelByUnit[u.ID] = u.Label
		unitIDs = append(unitIDs, u.ID)
	}

	report := &Monthly{
		BuildingAddress: building.Address,
		Year:            year,
		Month:           month,
	}
	if len(unitIDs) == 0 {
		return report, nil
	}

	from, to := periodUTC(year, month)
	var tickets []model.Ticket
	if err := db.
		Where("unit_id IN ?", unitIDs).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at asc").
		Find(&tickets).Error; err != nil {
		return nil, err
	}

	for _, t := range tickets {
		report.Rows = append(report.Rows, Row{
			CreatedAt:     t.CreatedAt,
			Title:         t.Title,
			IssueCategory: t.IssueCategory,
			Status:        t.Status,
			UnitLabel:     labelByUnit[t.UnitID],
		})
	}
	report.Total = len(report.Rows)
	return report, nil
}

var reportHeader = []string{"Datum", "Naslov", "Kategorija", "Status", "Stan"}

// WriteXLSX renders the report as a spreadsheet and returns the file
// bytes.
func (m *Monthly) WriteXLSX() ([]byte, error) {
	f := excelize.NewFile()
	// No defer Close here, WriteToBuffer needs the file open.

	sheetName := "Izvještaj"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	f.SetCellValue(sheetName, "A1", m.Title())
	f.SetCellValue(sheetName, "A2", m.BuildingAddress)

	headerRow := 4
	for i, h := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, row := range m.Rows {
		r := headerRow + 1 + i
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), row.CreatedAt.UTC().Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), row.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), labelFor(issueCategoryLabels, row.IssueCategory))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", r), labelFor(statusLabels, row.Status))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", r), row.UnitLabel)
	}

	totalRow := headerRow + len(m.Rows) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("Ukupno: %d", m.Total))

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func labelFor[K comparable](labels map[K]string, key K) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return fmt.Sprint(key)
}
