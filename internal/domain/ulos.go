package domain

import "time"

// HSV holds a thread color in the catalog scale: hue 0-360, saturation and
// value 0-100.
type HSV struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

// ThreadColor is a physical yarn color available for weaving.
type ThreadColor struct {
	Code string `json:"code"`
	HSV  HSV    `json:"hsv"`
}

// Characteristic captures the visual traits of a fabric type.
type Characteristic struct {
	Name          string `json:"name"`
	Garis         string `json:"garis"`
	Pola          string `json:"pola"`
	WarnaDominasi string `json:"warna_dominasi"`
	WarnaAksen    string `json:"warna_aksen"`
	KontrasWarna  string `json:"kontras_warna"`
}

// Motif is a grayscale pattern image belonging to a fabric type.
type Motif struct {
	ID         string
	UlosType   string
	Name       string
	StorageKey string
	Format     string
	CreatedAt  time.Time
}
