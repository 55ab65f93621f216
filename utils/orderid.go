package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewOrderID returns a human-readable order id like ORD-1712345678901-3fa2.
// The millisecond timestamp keeps ids roughly sortable; the random suffix
// keeps two checkouts in the same millisecond from colliding on the
// unique orderId index.
func NewOrderID() string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
