package models_test

import (
	"testing"
	"time"

	"sanitasi/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatRating(t *testing.T) {
	cases := map[float64]string{
		5:    "5.0",
		0:    "0.0",
		3.7:  "3.7",
		3.75: "3.75",
		4.1:  "4.1",
		2.5:  "2.5",
	}
	for in, want := range cases {
		assert.Equal(t, want, models.FormatRating(in), "rating %v", in)
	}
}

func TestUser_PublicFields(t *testing.T) {
	user := &models.User{
		ID:            "5d0c7e1a-6a3b-4a61-9d55-3c1f44b1f9a2",
		Username:      "budi_s",
		Nama:          "Budi.S",
		Email:         "budi@example.com",
		Password:      "$2a$10$hash",
		TanggalLahir:  time.Date(2000, time.March, 4, 0, 0, 0, 0, time.UTC),
		NomorHP:       "+6281234567890",
		DeskripsiDiri: "Halo semua",
		IDTransaksi:   "T-1234567890",
		RatingUlasan:  4.25,
	}

	fields := user.PublicFields()

	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = f.Value
		assert.NotContains(t, f.Value, "$2a$", "field %s leaks the password hash", f.Name)
	}
	assert.Equal(t, "username", fields[1].Name)
	assert.Equal(t, "2000-03-04", values["tanggal_lahir"])
	assert.Equal(t, "4.25", values["rating_ulasan"])
	assert.NotContains(t, values, "password")
}
