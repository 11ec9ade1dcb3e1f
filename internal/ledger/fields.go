package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ledgerconv/internal/textutil"
)

// Sentinels written in place of values that cannot be parsed.
const (
	InvalidDate   = "InvalidDate"
	InvalidAmount = "InvalidAmount"
)

const (
	sourceDateLayout = "1/2/2006"
	ledgerDateLayout = "20060102"
)

var errEmpty = errors.New("empty value")

// FormatDate converts an M/D/YYYY contract date into YYYYMMDD.
func FormatDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return InvalidDate, fmt.Errorf("parse date: %w", errEmpty)
	}
	parsed, err := time.Parse(sourceDateLayout, value)
	if err != nil {
		return InvalidDate, fmt.Errorf("parse date %q: %w", value, err)
	}
	return parsed.Format(ledgerDateLayout), nil
}

// FormatAmount strips currency symbols and separators and renders the whole
// dollar part zero-padded to width digits.
func FormatAmount(value string, width int) (string, error) {
	cleaned := textutil.StripChars(strings.TrimSpace(value), "$, ")
	if cleaned == "" {
		return InvalidAmount, fmt.Errorf("parse amount: %w", errEmpty)
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return InvalidAmount, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return fmt.Sprintf("%0*d", width, amount.IntPart()), nil
}

// SplitZip separates a ZIP+4 code into its base and extension.
func SplitZip(value string) (base, extension string) {
	value = strings.TrimSpace(value)
	base, extension, _ = strings.Cut(value, "-")
	return strings.TrimSpace(base), strings.TrimSpace(extension)
}

// JoinAddress joins both address lines with a space.
func JoinAddress(line1, line2 string) string {
	return strings.TrimSpace(strings.TrimSpace(line1) + " " + strings.TrimSpace(line2))
}
