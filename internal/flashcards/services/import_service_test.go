package services

import (
	"testing"

	"github.com/medikahub/medika-backend/internal/flashcards/models"
	"github.com/medikahub/medika-backend/internal/flashcards/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	wb := excelize.NewFile()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow("Sheet1", cellRef, &row))
	}
	return wb
}

func TestImportDeckMixedDisplayOrders(t *testing.T) {
	setupTestDB(t)

	deck, err := CreateDeck(models.CreateDeckRequest{Title: "Pharmacology"})
	require.NoError(t, err)

	// An explicit order followed by rows without one: the fallback must
	// continue past the explicit value instead of colliding with it.
	wb := buildWorkbook(t, [][]interface{}{
		{"prompt", "answer", "explanation", "display order"},
		{"Beta blocker suffix", "-olol", "", "5"},
		{"ACE inhibitor suffix", "-pril"},
		{"Statin suffix", "-statin", "", "2"},
		{"Loop diuretic example", "furosemide"},
	})
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	resp, err := ImportDeck(deck.ID, buf)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.CardsImported)
	assert.Equal(t, 0, resp.RowsSkipped)

	cards, err := repository.GetDeckCards(deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 4)

	orders := map[string]int{}
	for _, card := range cards {
		orders[card.Prompt] = card.DisplayOrder
	}
	assert.Equal(t, 5, orders["Beta blocker suffix"])
	assert.Equal(t, 6, orders["ACE inhibitor suffix"])
	assert.Equal(t, 2, orders["Statin suffix"])
	assert.Equal(t, 7, orders["Loop diuretic example"])
}

func TestImportDeckSkipsIncompleteRows(t *testing.T) {
	setupTestDB(t)

	deck, err := CreateDeck(models.CreateDeckRequest{Title: "Histology"})
	require.NoError(t, err)

	wb := buildWorkbook(t, [][]interface{}{
		{"Bone-forming cell", "osteoblast"},
		{"", "missing prompt"},
		{"missing answer", ""},
	})
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	resp, err := ImportDeck(deck.ID, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CardsImported)
	assert.Equal(t, 2, resp.RowsSkipped)
}
