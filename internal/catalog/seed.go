// Package catalog holds the reference palette, fabric characteristics and the
// motif importer shared by the seed command and the in-memory repositories.
package catalog

import (
	"pewarnaan/internal/colorspace"
	"pewarnaan/internal/domain"
)

// UlosTypes lists the fabric types shipped with the form.
var UlosTypes = []string{"harungguan", "puca", "sadum"}

var threadColors = []struct {
	code string
	hsv  string
}{
	{"C001", "0, 0, 0"},
	{"C002", "353, 51, 28"},
	{"C003", "18, 75, 44"},
	{"C004", "18, 77, 57"},
	{"C005", "30, 20, 100"},
	{"C006", "0, 0, 100"},
	{"C007", "359, 91, 55"},
	{"C008", "351, 90, 73"},
	{"C009", "335, 94, 69"},
	{"C010", "348, 74, 73"},
	{"C011", "0, 63, 77"},
	{"C012", "360, 47, 69"},
	{"C013", "331, 97, 92"},
	{"C014", "0, 77, 86"},
	{"C015", "10, 80, 97"},
	{"C016", "34, 84, 89"},
	{"C017", "45, 100, 69"},
	{"C018", "51, 100, 85"},
	{"C019", "50, 26, 100"},
	{"C020", "132, 100, 31"},
	{"C021", "168, 60, 45"},
	{"C022", "113, 48, 53"},
	{"C023", "140, 100, 60"},
	{"C024", "138, 100, 93"},
	{"C025", "69, 73, 79"},
	{"C026", "268, 57, 61"},
	{"C027", "226, 30, 32"},
	{"C028", "248, 68, 54"},
	{"C029", "225, 61, 70"},
	{"C030", "205, 60, 100"},
	{"C031", "200, 35, 100"},
}

// Palette returns the seeded thread colors ordered by code.
func Palette() []domain.ThreadColor {
	out := make([]domain.ThreadColor, 0, len(threadColors))
	for _, tc := range threadColors {
		hsv, err := colorspace.ParseHSV(tc.hsv)
		if err != nil {
			panic("catalog: invalid seeded color " + tc.code + ": " + err.Error())
		}
		out = append(out, domain.ThreadColor{Code: tc.code, HSV: hsv})
	}
	return out
}

// Characteristics returns the visual traits of each shipped fabric type.
func Characteristics() []domain.Characteristic {
	return []domain.Characteristic{
		{
			Name:          "harungguan",
			Garis:         "garis vertikal rapat dengan pembatas tegas",
			Pola:          "kumpulan motif geometris dari berbagai ulos",
			WarnaDominasi: "merah marun dan hitam",
			WarnaAksen:    "putih dan kuning keemasan",
			KontrasWarna:  "tinggi",
		},
		{
			Name:          "puca",
			Garis:         "garis horizontal lebar",
			Pola:          "belah ketupat berulang",
			WarnaDominasi: "merah bata",
			WarnaAksen:    "hitam dan putih",
			KontrasWarna:  "sedang",
		},
		{
			Name:          "sadum",
			Garis:         "garis tipis berwarna cerah",
			Pola:          "motif bunga dan geometris kecil",
			WarnaDominasi: "hitam",
			WarnaAksen:    "merah muda, hijau, kuning",
			KontrasWarna:  "sangat tinggi",
		},
	}
}
