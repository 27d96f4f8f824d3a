package services

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newEntityID builds a readable identifier like QUAL-M8K3X2-4F9Q from a
// base36 timestamp and a short random suffix
func newEntityID(prefix string) string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return strings.ToUpper(prefix + "-" + timestamp + "-" + string(suffix))
}

// newShortID builds an identifier with only the timestamp part
func newShortID(prefix string) string {
	return strings.ToUpper(prefix + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36))
}
