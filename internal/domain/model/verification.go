package model

import "time"

// KYCStatus is what the CRM reports about a customer's identity documents.
type KYCStatus struct {
	CustomerID      string
	PANVerified     bool
	AadhaarVerified bool
	CheckedAt       time.Time
}

// Verified reports whether the documents on file are sufficient to proceed
// to underwriting.
func (k KYCStatus) Verified() bool { return k.PANVerified && k.AadhaarVerified }

// MissingDocuments lists the document types still needed.
func (k KYCStatus) MissingDocuments() []string {
	var missing []string
	if !k.PANVerified {
		missing = append(missing, "pan")
	}
	if !k.AadhaarVerified {
		missing = append(missing, "aadhaar")
	}
	return missing
}
