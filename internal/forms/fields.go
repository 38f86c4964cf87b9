package forms

// Field names accepted by the registration form.
const (
	FieldUsername        = "username"
	FieldNama            = "nama"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldTanggalLahir    = "tanggal_lahir"
	FieldNomorHP         = "nomor_hp"
	FieldURLBlog         = "url_blog"
	FieldDeskripsiDiri   = "deskripsi_diri"
	FieldIDTransaksi     = "id_transaksi"
	FieldRatingUlasan    = "rating_ulasan"
)

// FieldSpec describes how a form field is presented.
type FieldSpec struct {
	Name      string
	Label     string
	InputType string // "text", "email", "password", "date", "url", "textarea"
	HelpText  string
	Required  bool
}

// Fields is the registration form in display order.
var Fields = []FieldSpec{
	{Name: FieldUsername, Label: "Username", InputType: "text", Required: true,
		HelpText: "Hanya boleh mengandung huruf, angka, dan underscore (_)."},
	{Name: FieldNama, Label: "Nama", InputType: "text", Required: true,
		HelpText: "Nama hanya boleh berisi huruf, angka, -, . dan _"},
	{Name: FieldEmail, Label: "Email", InputType: "email", Required: true,
		HelpText: "Pastikan email yang dimasukkan benar dan belum digunakan."},
	{Name: FieldPassword, Label: "Password", InputType: "password", Required: true,
		HelpText: "Password harus mengandung huruf, angka, dan karakter spesial."},
	{Name: FieldConfirmPassword, Label: "Konfirmasi Password", InputType: "password", Required: true},
	{Name: FieldTanggalLahir, Label: "Tanggal lahir", InputType: "date", Required: true,
		HelpText: "Format: YYYY-MM-DD. Anda harus berusia minimal 12 tahun."},
	{Name: FieldNomorHP, Label: "Nomor hp", InputType: "text", Required: true,
		HelpText: "Gunakan format internasional (contoh: +6281234567890) dengan 8-15 digit."},
	{Name: FieldURLBlog, Label: "Url blog", InputType: "url",
		HelpText: "Opsional. Masukkan URL blog dengan format yang benar (http/https)."},
	{Name: FieldDeskripsiDiri, Label: "Deskripsi diri", InputType: "textarea", Required: true,
		HelpText: "Maksimal 1000 karakter untuk mendeskripsikan diri Anda."},
	{Name: FieldIDTransaksi, Label: "Id transaksi", InputType: "text", Required: true,
		HelpText: "Mulai dengan huruf T-XXXXXXXXXX dengan X adalah angka."},
	{Name: FieldRatingUlasan, Label: "Rating ulasan", InputType: "text", Required: true,
		HelpText: "Angka 0.00 sampai 5.00, contoh: 4.75 atau 5.0."},
}

// BoundField is a field together with its submitted value and errors,
// ready to be rendered.
type BoundField struct {
	FieldSpec
	Value  string
	Errors []string
}
