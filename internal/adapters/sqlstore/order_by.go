package sqlstore

type sortOrder string

const sortDesc sortOrder = "DESC"

func orderExpr(alias, col string, ord sortOrder) string {
	return qualify(alias, col) + " " + string(ord)
}

// orderExprWithTie breaks ties on id so equal timestamps keep a stable order.
func orderExprWithTie(alias, col string, ord sortOrder) string {
	return orderExpr(alias, col, ord) + ", " + orderExpr(alias, sqlColID, ord)
}

var (
	orderNewestLinks = orderExprWithTie(sqlAliasQRCodes, sqlColCreatedAt, sortDesc)
	orderNewestScans = orderExprWithTie(sqlAliasScans, sqlColTimestamp, sortDesc)
)
