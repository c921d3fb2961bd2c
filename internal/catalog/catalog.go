// Package catalog holds the fixed set of SQL statements that build the
// star schema, grouped into the drop, create, copy and insert phases.
package catalog

import (
	"fmt"

	"github.com/vvka-141/starload/pkg/starload"
)

// Catalog is the statement catalog rendered for one dialect and one set of
// COPY sources. It is immutable once built.
type Catalog struct {
	dialect starload.Dialect
	phases  map[starload.Phase][]starload.Statement

	// copyErr is returned by Phase(copy) when the dialect cannot load
	// from the configured sources.
	copyErr error
}

type template struct {
	table string
	build func(dialect) string
}

var createTemplates = []template{
	{StagingEvents, buildCreateStagingEvents},
	{StagingSongs, buildCreateStagingSongs},
	{Songplays, buildCreateSongplays},
	{Users, buildCreateUsers},
	{Songs, buildCreateSongs},
	{Artists, buildCreateArtists},
	{Time, buildCreateTime},
}

var insertTemplates = []template{
	{Songplays, buildInsertSongplays},
	{Users, buildInsertUsers},
	{Songs, buildInsertSongs},
	{Artists, buildInsertArtists},
	{Time, buildInsertTime},
}

// New renders the catalog for dialect d. A copy phase the dialect cannot
// render is reported by Phase and Plan only when that phase is requested.
func New(d starload.Dialect, sources starload.Sources) (*Catalog, error) {
	dl, err := dialectFor(d)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		dialect: d,
		phases:  make(map[starload.Phase][]starload.Statement, 4),
	}

	c.phases[starload.PhaseDrop] = buildDropPhase(dl)
	c.phases[starload.PhaseCreate] = buildCreatePhase(dl)
	c.phases[starload.PhaseInsert] = buildInsertPhase(dl)

	c.phases[starload.PhaseCopy], c.copyErr = buildCopyPhase(dl, sources)

	return c, nil
}

// Dialect returns the dialect the catalog was rendered for.
func (c *Catalog) Dialect() starload.Dialect {
	return c.dialect
}

// Phase returns the statements of phase p in execution order.
func (c *Catalog) Phase(p starload.Phase) ([]starload.Statement, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("phase %q is not valid: %w", p, starload.ErrInvalidConfig)
	}
	if p == starload.PhaseCopy && c.copyErr != nil {
		return nil, c.copyErr
	}
	stmts := c.phases[p]
	out := make([]starload.Statement, len(stmts))
	copy(out, stmts)
	return out, nil
}

// Plan concatenates the requested phases in canonical order. No phases
// selects all four.
func (c *Catalog) Plan(phases ...starload.Phase) ([]starload.Statement, error) {
	for _, p := range phases {
		if !p.IsValid() {
			return nil, fmt.Errorf("phase %q is not valid: %w", p, starload.ErrInvalidConfig)
		}
	}

	var plan []starload.Statement
	for _, p := range starload.NormalizePhases(phases) {
		stmts, err := c.Phase(p)
		if err != nil {
			return nil, err
		}
		plan = append(plan, stmts...)
	}
	return plan, nil
}

// Tables returns every table the catalog manages, in catalog order.
func (c *Catalog) Tables() []string {
	return Tables()
}

func buildDropPhase(d dialect) []starload.Statement {
	var stmts []starload.Statement
	for _, t := range Tables() {
		stmts = append(stmts, starload.Statement{
			Name:  "drop_" + t,
			Phase: starload.PhaseDrop,
			Table: t,
			SQL:   buildDrop(t),
		})
	}
	if d.sequence != "" {
		stmts = append(stmts, starload.Statement{
			Name:  "drop_" + d.sequence,
			Phase: starload.PhaseDrop,
			Table: Songplays,
			SQL:   fmt.Sprintf("DROP SEQUENCE IF EXISTS %s;", d.sequence),
		})
	}
	return stmts
}

func buildCreatePhase(d dialect) []starload.Statement {
	var stmts []starload.Statement
	for _, tpl := range createTemplates {
		if tpl.table == Songplays && d.sequence != "" {
			stmts = append(stmts, starload.Statement{
				Name:  "create_" + d.sequence,
				Phase: starload.PhaseCreate,
				Table: Songplays,
				SQL:   fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s START 0 MINVALUE 0;", d.sequence),
			})
		}
		stmts = append(stmts, starload.Statement{
			Name:  "create_" + tpl.table,
			Phase: starload.PhaseCreate,
			Table: tpl.table,
			SQL:   tpl.build(d),
		})
	}
	return stmts
}

func buildCopyPhase(d dialect, src starload.Sources) ([]starload.Statement, error) {
	events, err := d.copyJSON(StagingEvents, src.LogData, src, 0)
	if err != nil {
		return nil, err
	}
	songs, err := d.copyJSON(StagingSongs, src.SongData, src, src.SongMaxErrors)
	if err != nil {
		return nil, err
	}
	return []starload.Statement{
		{Name: "copy_" + StagingEvents, Phase: starload.PhaseCopy, Table: StagingEvents, SQL: events},
		{Name: "copy_" + StagingSongs, Phase: starload.PhaseCopy, Table: StagingSongs, SQL: songs},
	}, nil
}

func buildInsertPhase(d dialect) []starload.Statement {
	var stmts []starload.Statement
	for _, tpl := range insertTemplates {
		stmts = append(stmts, starload.Statement{
			Name:  "insert_" + tpl.table,
			Phase: starload.PhaseInsert,
			Table: tpl.table,
			SQL:   tpl.build(d),
		})
	}
	return stmts
}
