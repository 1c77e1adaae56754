package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPostNotFound    = errors.New("content: post not found")
	ErrCommentNotFound = errors.New("content: comment not found")
	ErrForbidden       = errors.New("content: forbidden")
	ErrInvalidInput    = errors.New("content: invalid input")
)

// SensitiveContentError reports which moderation words a write attempt hit.
type SensitiveContentError struct {
	Hits []string
}

func (e *SensitiveContentError) Error() string {
	return fmt.Sprintf("content: sensitive words hit: %s", strings.Join(e.Hits, ", "))
}
