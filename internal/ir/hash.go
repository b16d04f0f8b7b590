package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainInput  = "copair/input/v1"
	DomainResult = "copair/result/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InputDigest computes a content-addressed digest of a coerced row set.
// Row order matters because it drives the top-pair tie-break.
// Open bounds hash as "null", so the digest is independent of the reference instant.
func InputDigest(rows []Row) (string, error) {
	list := make([]any, len(rows))
	for i, r := range rows {
		list[i] = RowCanonical(r)
	}
	canonical, err := MarshalCanonical(map[string]any{"rows": list})
	if err != nil {
		return "", fmt.Errorf("InputDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainInput, canonical), nil
}

// ResultDigest computes a content-addressed digest of a result's pairs and top pair.
func ResultDigest(res *Result) (string, error) {
	canonical, err := MarshalCanonical(ResultCanonical(res))
	if err != nil {
		return "", fmt.Errorf("ResultDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}

// RowCanonical converts a row to a canonical map.
func RowCanonical(r Row) map[string]any {
	return map[string]any{
		"employee_id": r.EmployeeID,
		"project_id":  r.ProjectID,
		"date_from":   r.DateFrom.String(),
		"date_to":     r.DateTo.String(),
	}
}

// PairCanonical converts a pair record to a canonical map.
func PairCanonical(p PairRecord) map[string]any {
	return map[string]any{
		"employee_low":  p.EmployeeLow,
		"employee_high": p.EmployeeHigh,
		"project_id":    p.ProjectID,
		"total_days":    p.TotalDays,
	}
}

// ResultCanonical converts a result to a canonical map with ordered pairs.
// The reference instant is excluded; a missing top pair is encoded as false.
func ResultCanonical(res *Result) map[string]any {
	records := res.Pairs.Records()
	pairs := make([]any, len(records))
	for i, p := range records {
		pairs[i] = PairCanonical(p)
	}
	var top any = false
	if res.Top != nil {
		top = PairCanonical(*res.Top)
	}
	return map[string]any{
		"pairs": pairs,
		"top":   top,
	}
}
