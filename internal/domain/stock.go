package domain

import "time"

// Stock is one catalog entry per tradable issuer. BundlePath is the storage
// key of the issuer's JSON data bundle; clients echo it back as a bundle
// reference when requesting analysis.
type Stock struct {
	Ticker      string
	CompanyName string
	BundlePath  string
	CreatedAt   time.Time
}
