package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const offsetTokenKind = "rows"

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}

// EncodeOffsetToken creates a token pointing at row offset of the statement
// identified by scope (vendor and row count, so a token from another upload is
// rejected).
func EncodeOffsetToken(scope string, offset int) string {
	return EncodeMultiFieldToken(offsetTokenKind, scope, strconv.Itoa(offset))
}

// DecodeOffsetToken returns the row offset of a token issued for scope.
func DecodeOffsetToken(token, scope string) (int, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 3 || parts[0] != offsetTokenKind {
		return 0, fmt.Errorf("invalid pagination token format (split)")
	}
	if parts[1] != scope {
		return 0, fmt.Errorf("pagination token was issued for a different statement")
	}
	offset, err := strconv.Atoi(parts[2])
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid pagination token format (offset %q)", parts[2])
	}
	return offset, nil
}

// Page returns items[offset:offset+limit] and the offset of the next page,
// or -1 when this is the last one. A non-positive limit returns everything
// from offset.
func Page[T any](items []T, offset, limit int) ([]T, int) {
	if offset >= len(items) {
		return items[len(items):], -1
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	next := -1
	if end < len(items) {
		next = end
	}
	return items[offset:end], next
}
