package models

import (
	"strconv"
	"strings"
	"time"
)

// User represents a registered user. Every field is validated by the
// registration form before the record is persisted; the validate tags
// repeat the field rules so a built entity can be checked again right
// before it is written.
type User struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username      string    `json:"username" gorm:"column:username;uniqueIndex;type:varchar(150);not null" validate:"required,max=150,username_chars"`
	Nama          string    `json:"nama" gorm:"column:nama;type:varchar(255);not null" validate:"required,max=255,nama_chars"`
	Email         string    `json:"email" gorm:"column:email;uniqueIndex;type:varchar(254);not null" validate:"required,max=254,email"`
	Password      string    `json:"-" gorm:"column:password;type:varchar(255);not null" validate:"required"` // bcrypt hash
	TanggalLahir  time.Time `json:"tanggal_lahir" gorm:"column:tanggal_lahir;type:date;not null" validate:"required,min_age=12"`
	NomorHP       string    `json:"nomor_hp" gorm:"column:nomor_hp;type:varchar(16);not null" validate:"required,nomor_hp"`
	URLBlog       string    `json:"url_blog" gorm:"column:url_blog;type:varchar(255)" validate:"omitempty,max=255,url_blog"`
	DeskripsiDiri string    `json:"deskripsi_diri" gorm:"column:deskripsi_diri;type:text;not null" validate:"required,min=5,max=1000"`
	IDTransaksi   string    `json:"id_transaksi" gorm:"column:id_transaksi;uniqueIndex;type:varchar(13);not null" validate:"required,id_transaksi"`
	RatingUlasan  float64   `json:"rating_ulasan" gorm:"column:rating_ulasan;not null" validate:"gte=0,lte=5"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DateLayout is the layout birth dates are displayed and stored with.
const DateLayout = "2006-01-02"

// FormatRating renders a rating the way it is shown back to users: the
// shortest decimal that round-trips the value, always with a fractional
// part (5 -> "5.0", 3.70 -> "3.7", 3.75 -> "3.75").
func FormatRating(rating float64) string {
	s := strconv.FormatFloat(rating, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Field is a named, displayable value of a user.
type Field struct {
	Name  string
	Value string
}

// PublicFields lists the stored values that may be shown back to the
// user, in display order. The password hash is never included.
func (u *User) PublicFields() []Field {
	return []Field{
		{Name: "id", Value: u.ID},
		{Name: "username", Value: u.Username},
		{Name: "nama", Value: u.Nama},
		{Name: "email", Value: u.Email},
		{Name: "tanggal_lahir", Value: u.TanggalLahir.Format(DateLayout)},
		{Name: "nomor_hp", Value: u.NomorHP},
		{Name: "url_blog", Value: u.URLBlog},
		{Name: "deskripsi_diri", Value: u.DeskripsiDiri},
		{Name: "id_transaksi", Value: u.IDTransaksi},
		{Name: "rating_ulasan", Value: FormatRating(u.RatingUlasan)},
		{Name: "created_at", Value: u.CreatedAt.Format(time.RFC3339)},
	}
}
