package email

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// GenerateMessageID creates an RFC 5322 message ID scoped to the given
// domain. The local part combines a microsecond timestamp with a random
// suffix so IDs stay unique across rapid sequential sends.
func GenerateMessageID(domain string) string {
	alphabet := "abcdefghijklmnopqrstuvwxyz0123456789"
	id, err := gonanoid.Generate(alphabet, 12)
	if err != nil {
		panic(err)
	}

	timestamp := time.Now().UnixMicro()
	return fmt.Sprintf("<%d.%s@%s>", timestamp, id, domain)
}
