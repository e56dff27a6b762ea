package services

import (
	"io"
	"strconv"
	"strings"

	"github.com/medikahub/medika-backend/internal/common/errors"
	"github.com/medikahub/medika-backend/internal/common/validation"
	"github.com/medikahub/medika-backend/internal/flashcards/models"
	"github.com/medikahub/medika-backend/internal/flashcards/repository"
	"github.com/xuri/excelize/v2"
)

// ImportDeck bulk-loads cards into a deck from an .xlsx workbook. The
// first sheet is read; the expected columns are prompt, answer, optional
// explanation, optional display order. A header row is skipped when the
// first cell reads "prompt". Rows missing a prompt or answer are skipped,
// not fatal. Rows without a display order are numbered after the highest
// order seen so far; duplicate orders resolve by id order when the deck is
// read back.
func ImportDeck(deckID uint, file io.Reader) (*models.ImportDeckResponse, error) {
	if _, err := repository.GetDeck(deckID); err != nil {
		return nil, err
	}

	wb, err := excelize.OpenReader(file)
	if err != nil {
		return nil, errors.BadRequest("file is not a valid xlsx workbook")
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.BadRequest("workbook has no sheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Internal("failed to read workbook rows", err.Error())
	}

	var cards []*models.Card
	skipped := 0
	maxOrder := 0
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "prompt") {
			continue
		}

		prompt := cell(row, 0)
		answer := cell(row, 1)
		// Spreadsheet rows bypass gin's binding, so tag validation runs here.
		if fieldErrs := validation.Validate(models.CreateCardRequest{Prompt: prompt, Answer: answer}); len(fieldErrs) > 0 {
			skipped++
			continue
		}

		order := maxOrder + 1
		if v, err := strconv.Atoi(cell(row, 3)); err == nil {
			order = v
		}
		if order > maxOrder {
			maxOrder = order
		}

		cards = append(cards, &models.Card{
			DeckID:       deckID,
			Prompt:       prompt,
			Answer:       answer,
			Explanation:  cell(row, 2),
			DisplayOrder: order,
		})
	}

	if len(cards) == 0 {
		return nil, errors.Unprocessable("no importable rows", "every row was missing a prompt or answer")
	}

	if err := repository.CreateCards(cards); err != nil {
		return nil, err
	}

	return &models.ImportDeckResponse{
		DeckID:        deckID,
		CardsImported: len(cards),
		RowsSkipped:   skipped,
	}, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
