package document

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	PrefixQuotation = "COT"
	PrefixInvoice   = "FAC"
)

// NewNumber returns a document number of the form
// PREFIX-YYYYMMDD-HHMMSS-mmm-RRRR in UTC.
func NewNumber(prefix string, now time.Time) string {
	now = now.UTC()

	datePart := now.Format("20060102-150405")
	millis := now.Nanosecond() / int(time.Millisecond)

	// 4-digit cryptographic random
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("%s-%s-%03d-%04d", prefix, datePart, millis, n.Int64())
}
