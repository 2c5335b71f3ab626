package handlers

type messageKey int

const (
	msgInvalidForm messageKey = iota
	msgMissingUlosType
	msgUnknownUlosType
	msgUnknownColor
	msgMotifRequired
	msgMotifMismatch
	msgTaskNotFound
	msgResultNotReady
	msgFileNotFound
	msgColorNotFound
	msgInternal
	msgColoringFailed
)

var messages = map[string]map[messageKey]string{
	"id": {
		msgInvalidForm:     "Harap pilih Jenis Ulos, Motif, dan minimal 2 warna.",
		msgMissingUlosType: "Parameter jenis_ulos wajib diisi.",
		msgUnknownUlosType: "Jenis Ulos tidak dikenal.",
		msgUnknownColor:    "Kode warna tidak dikenal.",
		msgMotifRequired:   "Harap pilih motif.",
		msgMotifMismatch:   "Motif tidak ditemukan untuk jenis Ulos ini.",
		msgTaskNotFound:    "Task tidak ditemukan atau sudah kedaluwarsa.",
		msgResultNotReady:  "Hasil pewarnaan belum tersedia.",
		msgFileNotFound:    "Berkas tidak ditemukan.",
		msgColorNotFound:   "Warna tidak ditemukan.",
		msgInternal:        "Terjadi kesalahan pada server.",
		msgColoringFailed:  "Gagal memproses pewarnaan.",
	},
	"en": {
		msgInvalidForm:     "Please choose an Ulos type, a motif and at least 2 colors.",
		msgMissingUlosType: "The jenis_ulos parameter is required.",
		msgUnknownUlosType: "Unknown Ulos type.",
		msgUnknownColor:    "Unknown color code.",
		msgMotifRequired:   "Please choose a motif.",
		msgMotifMismatch:   "Motif not found for this Ulos type.",
		msgTaskNotFound:    "Task not found or expired.",
		msgResultNotReady:  "The coloring result is not ready yet.",
		msgFileNotFound:    "File not found.",
		msgColorNotFound:   "Color not found.",
		msgInternal:        "Internal server error.",
		msgColoringFailed:  "Coloring failed.",
	},
}

func message(locale string, key messageKey) string {
	if m, ok := messages[locale]; ok {
		return m[key]
	}
	return messages["en"][key]
}
