package forms

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired       = "Bidang ini wajib diisi."
	msgInvalidDate    = "Masukkan tanggal yang valid."
	msgInvalidNumber  = "Masukkan angka."
	msgPasswordMatch  = "Password dan konfirmasi password harus sama."
	msgUsernameTaken  = "Pengguna dengan username tersebut sudah ada."
	msgEmailTaken     = "Email sudah digunakan oleh pengguna lain."
	msgTransaksiTaken = "Pengguna dengan id transaksi tersebut sudah ada."
)

// messages holds the error text per field and failing tag.
var messages = map[string]map[string]string{
	FieldUsername: {
		"username_chars": "Username hanya boleh mengandung huruf, angka, dan underscore.",
	},
	FieldNama: {
		"nama_chars": "Nama hanya boleh berisi huruf, angka, -, . dan _",
	},
	FieldEmail: {
		"email": "Masukkan alamat email yang valid.",
	},
	FieldNomorHP: {
		"nomor_hp": "Nomor HP harus diawali '+' dan diikuti 8-15 digit angka.",
	},
	FieldURLBlog: {
		"url_blog": "URL blog tidak valid. Gunakan format yang benar.",
	},
	FieldTanggalLahir: {
		"min_age": "Anda harus berusia minimal 12 tahun.",
	},
	FieldIDTransaksi: {
		"id_transaksi": "Format id transaksi harus T-XXXXXXXXXX (T diikuti 10 digit angka).",
	},
	FieldRatingUlasan: {
		"gte": "Pastikan nilai ini lebih besar dari atau sama dengan 0.0.",
		"lte": "Pastikan nilai ini kurang dari atau sama dengan 5.0.",
		"rating_format": "Format rating ulasan harus X.XX untuk angka 0-4 (contoh: 2.75, 3.99) " +
			"atau X.X untuk angka 0-5 (contoh: 5.0).",
	},
	FieldPassword: {
		"min":         "Password harus memiliki minimal 8 karakter.",
		"has_digit":   "Password harus mengandung setidaknya satu angka.",
		"has_letter":  "Password harus mengandung setidaknya satu huruf.",
		"has_special": "Password harus mengandung setidaknya satu karakter spesial.",
	},
}

func message(field string, fe validator.FieldError) string {
	if msg, ok := messages[field][fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "min":
		return fmt.Sprintf("Pastikan nilai ini memiliki paling sedikit %s karakter.", fe.Param())
	case "max":
		return fmt.Sprintf("Pastikan nilai ini memiliki paling banyak %s karakter.", fe.Param())
	}
	return fmt.Sprintf("Nilai tidak valid (%s).", fe.Tag())
}

// DuplicateMessage returns the error shown when field is already used by
// another user.
func DuplicateMessage(field string) string {
	switch field {
	case FieldUsername:
		return msgUsernameTaken
	case FieldEmail:
		return msgEmailTaken
	case FieldIDTransaksi:
		return msgTransaksiTaken
	}
	return "Data pengguna sudah terdaftar."
}
