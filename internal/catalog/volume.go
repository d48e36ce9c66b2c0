package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/librocco/demo-data/internal/model"
)

// volumeFields restricts the API response to what toBook reads.
const volumeFields = "items/volumeInfo/industryIdentifiers," +
	"items/volumeInfo/title," +
	"items/volumeInfo/authors," +
	"items/volumeInfo/publisher," +
	"items/volumeInfo/publishedDate," +
	"items/volumeInfo/categories," +
	"items/saleInfo/listPrice"

type volumesResponse struct {
	Items []volume `json:"items"`
}

type volume struct {
	VolumeInfo volumeInfo `json:"volumeInfo"`
	SaleInfo   saleInfo   `json:"saleInfo"`
}

type volumeInfo struct {
	Title               string       `json:"title"`
	Authors             []string     `json:"authors"`
	Publisher           string       `json:"publisher"`
	PublishedDate       string       `json:"publishedDate"`
	Categories          []string     `json:"categories"`
	IndustryIdentifiers []identifier `json:"industryIdentifiers"`
}

type identifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type saleInfo struct {
	ListPrice *struct {
		Amount json.Number `json:"amount"`
	} `json:"listPrice"`
}

func (v volumeInfo) isbn10() (string, bool) {
	for _, id := range v.IndustryIdentifiers {
		if id.Type == "ISBN_10" {
			return id.Identifier, true
		}
	}
	return "", false
}

// toBook converts a volume to a book. Volumes without an ISBN-10 are
// skipped. OutOfPrint is left for the caller to draw.
func toBook(v volume, updatedAt int64) (model.Book, bool) {
	isbn, ok := v.VolumeInfo.isbn10()
	if !ok {
		return model.Book{}, false
	}

	book := model.Book{
		ISBN:      isbn,
		Title:     nfc(v.VolumeInfo.Title),
		Authors:   nfc(strings.Join(v.VolumeInfo.Authors, ",")),
		Publisher: nfc(v.VolumeInfo.Publisher),
		Year:      parseYear(v.VolumeInfo.PublishedDate),
		Price:     decimal.Zero,
		UpdatedAt: updatedAt,
	}
	if len(v.VolumeInfo.Categories) > 0 {
		book.Category = nfc(v.VolumeInfo.Categories[0])
	}
	if lp := v.SaleInfo.ListPrice; lp != nil && lp.Amount != "" {
		if price, err := decimal.NewFromString(lp.Amount.String()); err == nil {
			book.Price = price
		}
	}
	return book, true
}

// parseYear reads the year part of dates like "2004", "2004-05" or
// "2004-05-01". Unparseable dates give 0.
func parseYear(date string) int32 {
	year, _, _ := strings.Cut(date, "-")
	y, err := strconv.ParseInt(year, 10, 32)
	if err != nil {
		return 0
	}
	return int32(y)
}

func nfc(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
