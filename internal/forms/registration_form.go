// Package forms binds and validates user registration submissions.
package forms

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"sanitasi/internal/models"
	"sanitasi/internal/validation"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnbound is returned when an unbound form is validated.
var ErrUnbound = errors.New("form has no submitted data")

// UserLookup answers uniqueness questions about stored users.
type UserLookup interface {
	// ExistsBy reports whether a user other than excludeID has value in field.
	ExistsBy(field, value, excludeID string) (bool, error)
}

// dateLayouts are the accepted birth date inputs, tried in order.
var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"1/2/06",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2 Jan, 2006",
	"January 2 2006",
	"January 2, 2006",
	"2 January 2006",
	"2 January, 2006",
}

// CleanedData is the typed result of a successful validation.
type CleanedData struct {
	Username      string
	Nama          string
	Email         string
	Password      string
	TanggalLahir  time.Time
	NomorHP       string
	URLBlog       string
	DeskripsiDiri string
	IDTransaksi   string
	RatingUlasan  float64
}

// RegistrationForm validates a registration submission and builds the
// resulting user.
type RegistrationForm struct {
	data     map[string]string
	users    UserLookup
	validate *validator.Validate
	instance *models.User
	hashCost int

	validated bool
	errors    FieldErrors
	cleaned   CleanedData
}

// Option configures a RegistrationForm.
type Option func(*RegistrationForm)

// WithValidator sets the validator holding the custom user tags.
func WithValidator(v *validator.Validate) Option {
	return func(f *RegistrationForm) { f.validate = v }
}

// WithInstance binds the form to an existing user: uniqueness checks
// ignore that user and User() updates a copy of it.
func WithInstance(user *models.User) Option {
	return func(f *RegistrationForm) { f.instance = user }
}

// WithHashCost sets the bcrypt cost used to hash the password.
func WithHashCost(cost int) Option {
	return func(f *RegistrationForm) { f.hashCost = cost }
}

// NewRegistrationForm creates a form over data. A nil data map yields an
// unbound form which is only rendered, never validated. users may be nil,
// in which case uniqueness is left to the store.
func NewRegistrationForm(data map[string]string, users UserLookup, opts ...Option) *RegistrationForm {
	f := &RegistrationForm{
		data:     data,
		users:    users,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.validate == nil {
		f.validate = validation.New(nil)
	}
	return f
}

// IsBound reports whether the form carries submitted data.
func (f *RegistrationForm) IsBound() bool {
	return f.data != nil
}

// Errors returns the field errors found so far.
func (f *RegistrationForm) Errors() FieldErrors {
	return f.errors
}

// Cleaned returns the cleaned values. It is only meaningful after Validate
// returned nil.
func (f *RegistrationForm) Cleaned() CleanedData {
	return f.cleaned
}

// AddError attaches msg to field, marking the form invalid.
func (f *RegistrationForm) AddError(field, msg string) {
	if f.errors == nil {
		f.errors = FieldErrors{}
	}
	f.errors.Add(field, msg)
}

// Validate runs every field rule and the password confirmation check. It
// returns nil when the form is valid, FieldErrors when it is not, and any
// other error when a uniqueness lookup failed.
func (f *RegistrationForm) Validate() error {
	if !f.IsBound() {
		return ErrUnbound
	}
	if !f.validated {
		if err := f.fullClean(); err != nil {
			return err
		}
		f.validated = true
	}
	if len(f.errors) > 0 {
		return f.errors
	}
	return nil
}

func (f *RegistrationForm) fullClean() error {
	f.errors = FieldErrors{}
	c := CleanedData{}
	var err error

	if c.Username, err = f.cleanUnique(FieldUsername, "required,max=150,username_chars", DuplicateMessage(FieldUsername)); err != nil {
		return err
	}
	c.Nama, _ = f.cleanText(FieldNama, "required,max=255,nama_chars")
	if c.Email, err = f.cleanUnique(FieldEmail, "required,max=254,email", DuplicateMessage(FieldEmail)); err != nil {
		return err
	}
	c.Password, _ = f.cleanText(FieldPassword, "required,min=8,has_digit,has_letter,has_special")
	confirm, _ := f.cleanText(FieldConfirmPassword, "required")
	c.TanggalLahir, _ = f.cleanDate(FieldTanggalLahir)
	c.NomorHP, _ = f.cleanText(FieldNomorHP, "required,nomor_hp")
	c.URLBlog, _ = f.cleanText(FieldURLBlog, "omitempty,max=255,url_blog")
	c.DeskripsiDiri, _ = f.cleanText(FieldDeskripsiDiri, "required,min=5,max=1000")
	if c.IDTransaksi, err = f.cleanUnique(FieldIDTransaksi, "required,id_transaksi", DuplicateMessage(FieldIDTransaksi)); err != nil {
		return err
	}
	c.RatingUlasan, _ = f.cleanRating(FieldRatingUlasan)

	if !f.errors.Has(FieldPassword) && !f.errors.Has(FieldConfirmPassword) && c.Password != confirm {
		f.errors.Add(FieldConfirmPassword, msgPasswordMatch)
	}

	f.cleaned = c
	return nil
}

// value returns the submitted value of field. Passwords are taken
// verbatim, everything else is trimmed.
func (f *RegistrationForm) value(field string) string {
	v := f.data[field]
	if field == FieldPassword || field == FieldConfirmPassword {
		return v
	}
	return strings.TrimSpace(v)
}

// check runs tag against value and records the first failure on field.
func (f *RegistrationForm) check(field string, value interface{}, tag string) bool {
	err := f.validate.Var(value, tag)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f.errors.Add(field, message(field, verrs[0]))
	} else {
		f.errors.Add(field, fmt.Sprintf("Nilai tidak valid: %v", err))
	}
	return false
}

func (f *RegistrationForm) cleanText(field, tag string) (string, bool) {
	v := f.value(field)
	if !f.check(field, v, tag) {
		return "", false
	}
	return v, true
}

func (f *RegistrationForm) cleanUnique(field, tag, takenMsg string) (string, error) {
	v, ok := f.cleanText(field, tag)
	if !ok || f.users == nil {
		return v, nil
	}
	exists, err := f.users.ExistsBy(field, v, f.excludeID())
	if err != nil {
		return "", fmt.Errorf("failed to check %s uniqueness: %w", field, err)
	}
	if exists {
		f.errors.Add(field, takenMsg)
	}
	return v, nil
}

func (f *RegistrationForm) cleanDate(field string) (time.Time, bool) {
	raw := f.value(field)
	if raw == "" {
		f.errors.Add(field, msgRequired)
		return time.Time{}, false
	}
	born, ok := parseDate(raw)
	if !ok {
		f.errors.Add(field, msgInvalidDate)
		return time.Time{}, false
	}
	if !f.check(field, born, "min_age="+strconv.Itoa(validation.MinimumAge)) {
		return time.Time{}, false
	}
	return born, true
}

func (f *RegistrationForm) cleanRating(field string) (float64, bool) {
	raw := f.value(field)
	if raw == "" {
		f.errors.Add(field, msgRequired)
		return 0, false
	}
	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		f.errors.Add(field, msgInvalidNumber)
		return 0, false
	}
	if !f.check(field, rating, "gte=0,lte=5") {
		return 0, false
	}
	if !f.check(field, models.FormatRating(rating), "rating_format") {
		return 0, false
	}
	return rating, true
}

func (f *RegistrationForm) excludeID() string {
	if f.instance == nil {
		return ""
	}
	return f.instance.ID
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// User validates the form and returns the user it describes, with the
// password replaced by its bcrypt hash. The user is not persisted. For a
// form bound to an instance, an updated copy of the instance is returned.
func (f *RegistrationForm) User() (*models.User, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	user := &models.User{}
	if f.instance != nil {
		updated := *f.instance
		user = &updated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.cleaned.Password), f.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	c := f.cleaned
	user.Username = c.Username
	user.Nama = c.Nama
	user.Email = c.Email
	user.Password = string(hash)
	user.TanggalLahir = c.TanggalLahir
	user.NomorHP = c.NomorHP
	user.URLBlog = c.URLBlog
	user.DeskripsiDiri = c.DeskripsiDiri
	user.IDTransaksi = c.IDTransaksi
	user.RatingUlasan = c.RatingUlasan
	return user, nil
}

// BoundFields returns every field with its current value and errors for
// rendering. Passwords are never echoed back.
func (f *RegistrationForm) BoundFields() []BoundField {
	out := make([]BoundField, 0, len(Fields))
	for _, spec := range Fields {
		bf := BoundField{FieldSpec: spec, Errors: f.errors[spec.Name]}
		if spec.InputType != "password" {
			bf.Value = f.initial(spec.Name)
		}
		out = append(out, bf)
	}
	return out
}

func (f *RegistrationForm) initial(field string) string {
	if f.IsBound() || f.instance == nil {
		return f.data[field]
	}
	u := f.instance
	switch field {
	case FieldUsername:
		return u.Username
	case FieldNama:
		return u.Nama
	case FieldEmail:
		return u.Email
	case FieldTanggalLahir:
		return u.TanggalLahir.Format(models.DateLayout)
	case FieldNomorHP:
		return u.NomorHP
	case FieldURLBlog:
		return u.URLBlog
	case FieldDeskripsiDiri:
		return u.DeskripsiDiri
	case FieldIDTransaksi:
		return u.IDTransaksi
	case FieldRatingUlasan:
		return models.FormatRating(u.RatingUlasan)
	}
	return ""
}
