package catalog

import (
	"fmt"
	"path"
	"strings"

	"github.com/vvka-141/starload/pkg/starload"
)

// songplaySequence backs songplay_id on engines without IDENTITY columns.
const songplaySequence = "songplays_songplay_id_seq"

// dialect holds the fragments that differ between warehouse engines.
// Everything not listed here is shared SQL text.
type dialect struct {
	name starload.Dialect

	// songplayID is the column definition of songplays.songplay_id.
	songplayID string

	// sortKey is appended to the sort-key column of each dimension table.
	sortKey string

	// weekday is the EXTRACT field for the day of week.
	weekday string

	// sequence names a sequence created before songplays, if any.
	sequence string

	epochMillis func(expr string) string
	castInt     func(expr string) string
	present     func(col string) string
	copyJSON    func(table, location string, src starload.Sources, maxErrors int) (string, error)
}

func dialectFor(d starload.Dialect) (dialect, error) {
	switch d {
	case starload.DialectRedshift:
		return redshift, nil
	case starload.DialectPostgres:
		return postgres, nil
	case starload.DialectDuckDB:
		return duckdb, nil
	}
	return dialect{}, fmt.Errorf("dialect %q is not supported: %w", d, starload.ErrInvalidConfig)
}

var redshift = dialect{
	name:        starload.DialectRedshift,
	songplayID:  "BIGINT IDENTITY(0,1) SORTKEY DISTKEY",
	sortKey:     " SORTKEY",
	weekday:     "WEEKDAY",
	epochMillis: epochInterval,
	castInt: func(expr string) string {
		return fmt.Sprintf("CAST(%s AS INT)", expr)
	},
	present: func(col string) string {
		return col + " IS NOT NULL"
	},
	copyJSON: func(table, location string, src starload.Sources, maxErrors int) (string, error) {
		tail := ";"
		if maxErrors > 0 {
			tail = fmt.Sprintf(" maxerror %d;", maxErrors)
		}
		return fmt.Sprintf(`
COPY %s FROM %s
iam_role %s
FORMAT AS JSON 'auto'
REGION %s%s
`, table, literal(location), literal(src.IAMRoleARN), literal(regionOrDefault(src.Region)), tail), nil
	},
}

var postgres = dialect{
	name:        starload.DialectPostgres,
	songplayID:  "BIGINT GENERATED BY DEFAULT AS IDENTITY (START WITH 0 MINVALUE 0)",
	weekday:     "DOW",
	epochMillis: epochInterval,
	castInt: func(expr string) string {
		return fmt.Sprintf("CAST(NULLIF(%s, '') AS INT)", expr)
	},
	present: func(col string) string {
		return fmt.Sprintf("NULLIF(%s, '') IS NOT NULL", col)
	},
	copyJSON: func(table, _ string, _ starload.Sources, _ int) (string, error) {
		return "", fmt.Errorf("cannot load %s from object storage on postgres, seed staging tables externally: %w",
			table, starload.ErrCopyUnsupported)
	},
}

var duckdb = dialect{
	name:       starload.DialectDuckDB,
	songplayID: fmt.Sprintf("BIGINT DEFAULT nextval('%s')", songplaySequence),
	weekday:    "DOW",
	sequence:   songplaySequence,
	epochMillis: func(expr string) string {
		return fmt.Sprintf("epoch_ms(%s)", expr)
	},
	castInt: func(expr string) string {
		return fmt.Sprintf("TRY_CAST(%s AS INT)", expr)
	},
	present: func(col string) string {
		return fmt.Sprintf("NULLIF(%s, '') IS NOT NULL", col)
	},
	copyJSON: func(table, location string, _ starload.Sources, maxErrors int) (string, error) {
		opts := ""
		if maxErrors > 0 {
			opts = ", ignore_errors = true"
		}
		return fmt.Sprintf(`
INSERT INTO %s BY NAME
SELECT * FROM read_json_auto(%s%s);
`, table, literal(localGlob(location)), opts), nil
	},
}

func epochInterval(expr string) string {
	return fmt.Sprintf("TIMESTAMP 'epoch' + %s/1000 * INTERVAL '1 second'", expr)
}

// literal quotes s as a SQL string literal.
func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func regionOrDefault(region string) string {
	if region == "" {
		return starload.DefaultRegion
	}
	return region
}

// localGlob turns a directory into a recursive JSON glob; explicit globs and
// files are returned unchanged.
func localGlob(location string) string {
	if strings.ContainsAny(location, "*?[") || strings.HasSuffix(location, ".json") {
		return location
	}
	return path.Join(location, "**", "*.json")
}
