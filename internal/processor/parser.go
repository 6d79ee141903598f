package processor

import (
	"bufio"
	"fraud_report/internal/domain"
	"io"
	"strconv"
	"strings"
	"time"
)

const fieldDelimiter = ","

// Positional record layout.
const (
	fieldID = iota
	fieldUserID
	fieldAmount
	fieldTimestamp
	fieldLocation
	recordFields
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseRecords converts each raw record into a Transaction, one per record in
// the same order. It never fails and never drops a record.
func ParseRecords(records []string) []domain.Transaction {
	transactions := make([]domain.Transaction, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, ParseRecord(record))
	}
	return transactions
}

// ParseRecord splits a record positionally. Missing fields are treated as
// empty and anything after the fifth field is ignored.
func ParseRecord(record string) domain.Transaction {
	fields := make([]string, recordFields)
	copy(fields, strings.SplitN(record, fieldDelimiter, recordFields+1))

	return domain.Transaction{
		ID:        fields[fieldID],
		UserID:    fields[fieldUserID],
		Amount:    parseAmount(fields[fieldAmount]),
		Timestamp: parseTimestamp(fields[fieldTimestamp]),
		Location:  fields[fieldLocation],
	}
}

func parseAmount(raw string) *int64 {
	amount, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil
	}
	return &amount
}

func parseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts
		}
	}
	return nil
}

// ReadRecords returns the non-blank lines of r, one raw record per line.
func ReadRecords(r io.Reader) ([]string, error) {
	records := make([]string, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
