package report

import (
	"bytes"
	"testing"
	"time"

	"homefix/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Building{}, &model.BuildingUnit{}, &model.Ticket{}))
	return db
}

func seedTicket(t *testing.T, db *gorm.DB, unitID uint, title string, createdAt time.Time, status model.TicketStatus) {
	ticket := model.Ticket{
		UnitID:        unitID,
		Title:         title,
		Description:   "opis",
		IssueCategory: model.CategoryPlumbing,
		Status:        status,
		CreatedBy:     100,
	}
	require.NoError(t, db.Create(&ticket).Error)
	// gorm stamps created_at itself; push it into the target month.
	require.NoError(t, db.Model(&model.Ticket{}).Where("id = ?", ticket.ID).
		Update("created_at", createdAt).Error)
}

func TestBuildMonthly(t *testing.T) {
	db := setupTestDB(t)

	building := model.Building{Address: "Ilica 1", PostalCode: "10000"}
	require.NoError(t, db.Create(&building).Error)
	unit := model.BuildingUnit{BuildingID: building.ID, Label: "Stan 3", Floor: 1}
	require.NoError(t, db.Create(&unit).Error)

	otherBuilding := model.Building{Address: "Vlaška 5", PostalCode: "10000"}
	require.NoError(t, db.Create(&otherBuilding).Error)
	otherUnit := model.BuildingUnit{BuildingID: otherBuilding.ID, Label: "Stan 1"}
	require.NoError(t, db.Create(&otherUnit).Error)

	seedTicket(t, db, unit.ID, "U mjesecu", time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC), model.StatusOpen)
	seedTicket(t, db, unit.ID, "Na početku mjeseca", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), model.StatusResolved)
	seedTicket(t, db, unit.ID, "Prethodni mjesec", time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC), model.StatusOpen)
	seedTicket(t, db, unit.ID, "Sljedeći mjesec", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), model.StatusOpen)
	seedTicket(t, db, otherUnit.ID, "Druga zgrada", time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), model.StatusOpen)

	m, err := BuildMonthly(db, building.ID, 2026, time.March)
	require.NoError(t, err)

	assert.Equal(t, "Ilica 1", m.BuildingAddress)
	assert.Equal(t, 2, m.Total)
	require.Len(t, m.Rows, 2)
	assert.Equal(t, "Na početku mjeseca", m.Rows[0].Title)
	assert.Equal(t, "U mjesecu", m.Rows[1].Title)
	assert.Equal(t, "Stan 3", m.Rows[0].UnitLabel)
	assert.Equal(t, "Mjesečni izvještaj – Ožujak 2026", m.Title())
}

func TestBuildMonthly_EmptyBuilding(t *testing.T) {
	db := setupTestDB(t)
	building := model.Building{Address: "Ilica 1", PostalCode: "10000"}
	require.NoError(t, db.Create(&building).Error)

	m, err := BuildMonthly(db, building.ID, 2026, time.January)
	require.NoError(t, err)
	assert.Zero(t, m.Total)
	assert.Empty(t, m.Rows)
}

func TestBuildMonthly_InvalidMonth(t *testing.T) {
	db := setupTestDB(t)
	_, err := BuildMonthly(db, 1, 2026, time.Month(13))
	assert.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	m := &Monthly{
		BuildingAddress: "Ilica 1",
		Year:            2026,
		Month:           time.March,
		Rows: []Row{
			{
				CreatedAt:     time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC),
				Title:         "Curi slavina",
				IssueCategory: model.CategoryPlumbing,
				Status:        model.StatusResolved,
				UnitLabel:     "Stan 3",
			},
		},
		Total: 1,
	}

	data, err := m.WriteXLSX()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Izvještaj", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Mjesečni izvještaj – Ožujak 2026", title)

	header, err := f.GetCellValue("Izvještaj", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Datum", header)

	rowTitle, err := f.GetCellValue("Izvještaj", "B5")
	require.NoError(t, err)
	assert.Equal(t, "Curi slavina", rowTitle)

	category, err := f.GetCellValue("Izvještaj", "C5")
	require.NoError(t, err)
	assert.Equal(t, "VODOINSTALACIJA", category)

	status, err := f.GetCellValue("Izvještaj", "D5")
	require.NoError(t, err)
	assert.Equal(t, "RIJEŠENO", status)

	total, err := f.GetCellValue("Izvještaj", "A7")
	require.NoError(t, err)
	assert.Equal(t, "Ukupno: 1", total)
}
