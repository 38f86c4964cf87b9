// Package validation builds the validator used for user fields. Besides
// the built-in tags of go-playground/validator it registers one tag per
// registration rule so that forms and models share a single definition.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MinimumAge is the age in years a user must have reached to register.
const MinimumAge = 12

// SpecialChars is the set of characters that count as "special" in a password.
const SpecialChars = `!@#$%^&*()-_=+[{]};:'",<.>/?\`

var (
	usernamePattern    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	namaPattern        = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	nomorHPPattern     = regexp.MustCompile(`^\+\d{8,15}$`)
	urlBlogPattern     = regexp.MustCompile(`^(https?://)?[A-Za-z0-9.-]+\.[A-Za-z]{2,}(/.*)?$`)
	idTransaksiPattern = regexp.MustCompile(`^T-\d{10}$`)
	ratingPattern      = regexp.MustCompile(`^(?:[0-4]\.\d{2}|[0-5]\.\d)$`)
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// New returns a validator with the custom user tags registered:
//
//	username_chars  letters, digits and underscore
//	nama_chars      letters, digits, '.', '_' and '-'
//	nomor_hp        '+' followed by 8 to 15 digits
//	url_blog        optional scheme, host with a TLD, optional path
//	id_transaksi    "T-" followed by exactly 10 digits
//	rating_format   X.XX for 0-4 or X.X for 0-5
//	has_digit, has_letter, has_special
//	min_age=N       a time.Time at least N calendar years before now
func New(now Clock) *validator.Validate {
	if now == nil {
		now = time.Now
	}
	v := validator.New()

	rules := map[string]validator.Func{
		"username_chars": matches(usernamePattern),
		"nama_chars":     matches(namaPattern),
		"nomor_hp":       matches(nomorHPPattern),
		"url_blog":       matches(urlBlogPattern),
		"id_transaksi":   matches(idTransaksiPattern),
		"rating_format":  matches(ratingPattern),
		"has_digit":      containsRune(unicode.IsDigit),
		"has_letter":     containsRune(unicode.IsLetter),
		"has_special":    containsRune(func(r rune) bool { return strings.ContainsRune(SpecialChars, r) }),
		"min_age":        minAge(now),
	}
	for tag, fn := range rules {
		// RegisterValidation only fails on empty tags or nil funcs.
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func containsRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), pred) >= 0
	}
}

func minAge(now Clock) validator.Func {
	return func(fl validator.FieldLevel) bool {
		born, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		years, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return !truncateToDate(born).After(LatestBirthDate(now(), years))
	}
}

// LatestBirthDate returns the latest birth date that is at least years
// calendar years before today. A 29 February that does not exist in the
// target year is clamped to 28 February.
func LatestBirthDate(today time.Time, years int) time.Time {
	y, m, d := today.Date()
	y -= years
	if m == time.February && d == 29 && !isLeap(y) {
		d = 28
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
