package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"qrtrack/internal/app/links"
	"qrtrack/internal/domain"
)

const errOpFmt = "sqlstore: %s: %w"

// Store implements links.Storage on top of database/sql. The same queries
// run against PostgreSQL and SQLite; Dialect supplies the differences.
type Store struct {
	db      *sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
	}
}

var _ links.Storage = (*Store)(nil)

func (s *Store) InsertShortLink(
	ctx context.Context,
	id, originalURL string,
	styleOptions json.RawMessage,
) (domain.ShortLink, error) {
	const op = "insert short link"

	query, args, err := s.sb.Insert(sqlTableQRCodes).
		Columns(sqlColID, sqlColOriginalURL, sqlColStyleOptions).
		Values(id, originalURL, styleText(styleOptions)).
		Suffix("RETURNING " + sqlColID + ", " + sqlColOriginalURL + ", " + sqlColStyleOptions + ", " + sqlColCreatedAt).
		ToSql()
	if err != nil {
		return domain.ShortLink{}, fmt.Errorf("sqlstore: build %s: %w", op, err)
	}

	link, err := scanShortLink(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return domain.ShortLink{}, domain.ErrDuplicateID
		}

		return domain.ShortLink{}, s.wrap(op, err)
	}

	return link, nil
}

func (s *Store) GetShortLink(ctx context.Context, id string) (domain.ShortLink, error) {
	const op = "get short link"

	query, args, err := s.sb.Select(sqlQRCodeSelectCols...).
		From(tableAs(sqlTableQRCodes, sqlAliasQRCodes)).
		Where(sq.Eq{qualify(sqlAliasQRCodes, sqlColID): id}).
		ToSql()
	if err != nil {
		return domain.ShortLink{}, fmt.Errorf("sqlstore: build %s: %w", op, err)
	}

	link, err := scanShortLink(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ShortLink{}, domain.ErrNotFound
		}

		return domain.ShortLink{}, s.wrap(op, err)
	}

	return link, nil
}

func (s *Store) InsertScan(ctx context.Context, scan domain.ScanInput) (int64, error) {
	const op = "insert scan"

	query, args, err := s.sb.Insert(sqlTableScans).
		Columns(sqlColQRID, sqlColIP, sqlColUserAgent).
		Values(scan.QRID, nullString(scan.IP), nullString(scan.UserAgent)).
		Suffix("RETURNING " + sqlColID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("sqlstore: build %s: %w", op, err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, s.wrap(op, err)
	}

	return id, nil
}

func (s *Store) CountScans(ctx context.Context, qrID string) (int64, error) {
	return s.count(ctx, "count scans", "COUNT(*)", qrID)
}

// CountDistinctIPs counts a missing IP as one more distinct value.
func (s *Store) CountDistinctIPs(ctx context.Context, qrID string) (int64, error) {
	return s.count(ctx, "count distinct ips", "COUNT(DISTINCT COALESCE("+sqlColIP+", ''))", qrID)
}

func (s *Store) count(ctx context.Context, op, expr, qrID string) (int64, error) {
	query, args, err := s.sb.Select(expr).
		From(sqlTableScans).
		Where(sq.Eq{sqlColQRID: qrID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("sqlstore: build %s: %w", op, err)
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, s.wrap(op, err)
	}

	return n, nil
}

func (s *Store) ListRecentScans(ctx context.Context, qrID string, limit int) ([]domain.Scan, error) {
	const op = "list recent scans"

	builder := s.sb.Select(sqlScanSelectCols...).
		From(tableAs(sqlTableScans, sqlAliasScans)).
		Where(sq.Eq{qualify(sqlAliasScans, sqlColQRID): qrID}).
		OrderBy(orderNewestScans)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: build %s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make([]domain.Scan, 0)
	for rows.Next() {
		var (
			item domain.Scan
			ts   sqlTime
			ip   sql.NullString
			ua   sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.QRID, &ts, &ip, &ua); err != nil {
			return nil, s.wrap(op, err)
		}

		item.Timestamp = ts.Time
		item.IP = ip.String
		item.UserAgent = ua.String
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, s.wrap(op, err)
	}

	return out, nil
}

var scansJoinOn = tableAs(sqlTableScans, sqlAliasScans) + " ON " +
	qualify(sqlAliasScans, sqlColQRID) + " = " + qualify(sqlAliasQRCodes, sqlColID)

func (s *Store) ListShortLinks(ctx context.Context, limit int) ([]domain.LinkSummary, error) {
	const op = "list short links"

	builder := s.sb.Select(sqlQRCodeSummaryCols...).
		From(tableAs(sqlTableQRCodes, sqlAliasQRCodes)).
		LeftJoin(scansJoinOn).
		GroupBy(
			qualify(sqlAliasQRCodes, sqlColID),
			qualify(sqlAliasQRCodes, sqlColOriginalURL),
			qualify(sqlAliasQRCodes, sqlColCreatedAt),
		).
		OrderBy(orderNewestLinks)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: build %s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make([]domain.LinkSummary, 0)
	for rows.Next() {
		var (
			item    domain.LinkSummary
			created sqlTime
		)
		if err := rows.Scan(&item.ID, &item.OriginalURL, &created, &item.ScanCount); err != nil {
			return nil, s.wrap(op, err)
		}

		item.CreatedAt = created.Time
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, s.wrap(op, err)
	}

	return out, nil
}

func (s *Store) wrap(op string, err error) error {
	if s.dialect.IsUnavailable(err) {
		return fmt.Errorf("sqlstore: %s: %w: %w", op, domain.ErrStorageUnavailable, err)
	}

	return fmt.Errorf(errOpFmt, op, err)
}

func scanShortLink(row *sql.Row) (domain.ShortLink, error) {
	var (
		link    domain.ShortLink
		style   sql.NullString
		created sqlTime
	)
	if err := row.Scan(&link.ID, &link.OriginalURL, &style, &created); err != nil {
		return domain.ShortLink{}, err
	}

	link.CreatedAt = created.Time
	if style.Valid && style.String != "" {
		link.StyleOptions = json.RawMessage(style.String)
	} else {
		link.StyleOptions = json.RawMessage("{}")
	}

	return link, nil
}

func styleText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}

	return string(raw)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
