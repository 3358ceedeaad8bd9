package accounts

import "time"

// Account is one registered user. The password is stored and compared as
// cleartext to stay wire- and disk-compatible with the deployed system; this
// is a known limitation, not an invitation to store real secrets.
type Account struct {
	Username  string
	Password  string
	CreatedAt time.Time
}
