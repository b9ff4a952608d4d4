package tokenstore

import "errors"

var (
	ErrNotFound           = errors.New("no stored session")
	ErrPassphraseRequired = errors.New("token store passphrase is required")
	ErrDecrypt            = errors.New("stored session cannot be decrypted")
)
