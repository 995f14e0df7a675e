package domain

// User is a registered account. Authentication mechanics (hashing, tokens)
// live in the auth package; the domain only carries the stored hash.
type User struct {
	Timestamps
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}
