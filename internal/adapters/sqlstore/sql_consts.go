package sqlstore

const (
	sqlTableQRCodes = "qr_codes"
	sqlTableScans   = "scans"

	sqlAliasQRCodes = "q"
	sqlAliasScans   = "s"

	sqlColID           = "id"
	sqlColOriginalURL  = "original_url"
	sqlColStyleOptions = "style_options"
	sqlColCreatedAt    = "created_at"

	sqlColQRID      = "qr_id"
	sqlColTimestamp = `"timestamp"`
	sqlColIP        = "ip"
	sqlColUserAgent = "user_agent"

	sqlColScanCount = "scan_count"
)
