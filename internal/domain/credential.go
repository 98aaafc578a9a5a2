package domain

// AdminCredential is the single admin login for the disposition console
type AdminCredential struct {
	Username     string
	PasswordHash string // bcrypt hash
}
