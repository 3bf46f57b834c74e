package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const orderNumAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewOrderNumber builds a human-readable order number like
// ORD-20250901-7KQ2XM. The random suffix avoids collisions between orders
// created in the same second; the unique index on order_number backstops it.
func NewOrderNumber(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumAlphabet))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			suffix[i] = orderNumAlphabet[int(now.UnixNano())%len(orderNumAlphabet)]
			continue
		}
		suffix[i] = orderNumAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
