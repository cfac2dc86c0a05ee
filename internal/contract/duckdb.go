package contract

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"go.uber.org/zap"
)

// contractColumns is the column set expected in the reference file.
var contractColumns = []string{
	"ticker_index",
	"ticker",
	"symbol",
	"exchange",
	"name",
	"product_type",
	"size",
	"price_tick",
	"max_market_order_volume",
	"min_market_order_volume",
	"max_limit_order_volume",
	"min_limit_order_volume",
	"delivery_year",
	"delivery_month",
}

// LoadDuckDB loads contracts from a CSV or parquet file through an in-memory
// DuckDB view. An optional exchange filter restricts the rows loaded.
func LoadDuckDB(path string, exchange string, log *logger.Logger) (*Table, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, "failed to open duckdb", err)
	}
	defer db.Close()

	reader := "read_csv_auto"
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		reader = "read_parquet"
	}

	// squirrel has no CREATE VIEW support
	createView := fmt.Sprintf(`CREATE VIEW contracts AS SELECT * FROM %s('%s');`, reader, strings.ReplaceAll(path, "'", "''"))
	if _, err := db.Exec(createView); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeLoadFailed, err, "failed to read contracts from %s", path)
	}

	sq := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query := sq.Select(contractColumns...).From("contracts").OrderBy("ticker_index")
	if exchange != "" {
		query = query.Where(squirrel.Eq{"exchange": exchange})
	}

	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, "failed to build contract query", err)
	}

	rows, err := db.Query(sqlText, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, "failed to query contracts", err)
	}
	defer rows.Close()

	table := NewTable()

	for rows.Next() {
		var (
			c           types.Contract
			productType string
			symbol      sql.NullString
			name        sql.NullString
		)

		err := rows.Scan(
			&c.Index,
			&c.Ticker,
			&symbol,
			&c.Exchange,
			&name,
			&productType,
			&c.Size,
			&c.PriceTick,
			&c.MaxMarketOrderVolume,
			&c.MinMarketOrderVolume,
			&c.MaxLimitOrderVolume,
			&c.MinLimitOrderVolume,
			&c.DeliveryYear,
			&c.DeliveryMonth,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeLoadFailed, "failed to scan contract row", err)
		}

		c.Symbol = symbol.String
		c.Name = name.String
		c.ProductType = types.ProductType(productType)

		if err := table.Add(c); err != nil {
			return nil, err
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, "failed to iterate contracts", err)
	}

	log.Info("Loaded contracts", zap.String("path", path), zap.Int("count", table.Len()))

	return table, nil
}

// Load picks the loader from the file extension.
func Load(path string, exchange string, log *logger.Logger) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".csv", ".parquet":
		return LoadDuckDB(path, exchange, log)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported contract file %s", path)
	}
}
