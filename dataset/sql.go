package dataset

import (
	"database/sql"
	"fmt"
	"regexp"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)?$`)

// OpenSQL connects to a MySQL-protocol server (MySQL, ClickHouse) holding a copy of the export.
func OpenSQL(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	return db, nil
}

// LoadSQL reads the whole table; column names follow the same rules as the file header.
func LoadSQL(db *gorm.DB, table string) (*models.Dataset, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := db.Raw("SELECT * FROM " + table).Rows()
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	data, err := scanTable(rows)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return Parse("db:"+table, data)
}

type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanTable converts result rows to header + string rows; NULL becomes an empty cell.
func scanTable(rows rowScanner) ([][]string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	data := [][]string{columns}

	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		data = append(data, row)
	}
	return data, rows.Err()
}
