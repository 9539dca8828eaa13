package workspace

import "time"

type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is the dismissible message shown above the form.
type Banner struct {
	Kind    BannerKind `json:"kind"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

const (
	msgCreated = "Quotation created successfully!"
	msgUpdated = "Quotation updated successfully!"
	msgDeleted = "Quotation deleted successfully!"

	prefixFetch  = "Error fetching quotations: "
	prefixSave   = "Error saving quotation: "
	prefixLoad   = "Error loading quotation: "
	prefixDelete = "Error deleting quotation: "
)
