package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewDocumentNumber builds a human-readable document number such as
// INV-20240315-7F3A2B. The uuid suffix keeps numbers unique without a
// database round trip for a sequence.
func NewDocumentNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
