package service

// QRCodeService defines the interface for table-sharing QR code generation.
type QRCodeService interface {
	// GenerateTableQR renders the table share URL as a PNG image.
	GenerateTableQR(tableURL string) ([]byte, error)
}
