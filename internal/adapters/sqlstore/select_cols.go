package sqlstore

// Order matches Scan in GetShortLink.
var sqlQRCodeSelectCols = []string{
	qualify(sqlAliasQRCodes, sqlColID),
	qualify(sqlAliasQRCodes, sqlColOriginalURL),
	qualify(sqlAliasQRCodes, sqlColStyleOptions),
	qualify(sqlAliasQRCodes, sqlColCreatedAt),
}

// Order matches Scan in ListShortLinks.
var sqlQRCodeSummaryCols = []string{
	qualify(sqlAliasQRCodes, sqlColID),
	qualify(sqlAliasQRCodes, sqlColOriginalURL),
	qualify(sqlAliasQRCodes, sqlColCreatedAt),
	"COUNT(" + qualify(sqlAliasScans, sqlColID) + ") AS " + sqlColScanCount,
}

// Order matches Scan in ListRecentScans.
var sqlScanSelectCols = []string{
	qualify(sqlAliasScans, sqlColID),
	qualify(sqlAliasScans, sqlColQRID),
	qualify(sqlAliasScans, sqlColTimestamp),
	qualify(sqlAliasScans, sqlColIP),
	qualify(sqlAliasScans, sqlColUserAgent),
}

func qualify(alias, col string) string {
	return alias + "." + col
}

func tableAs(table, alias string) string {
	return table + " " + alias
}
