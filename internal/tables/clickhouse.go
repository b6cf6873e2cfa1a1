package tables

import (
	"context"
	"fmt"

	"github.com/ClickHouse/ch-go"
	"github.com/ClickHouse/ch-go/proto"
	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/acfdavis/thermogo/internal/thermoml"
)

// Batch holds column data for a native-protocol measurements insert.
type Batch struct {
	SourceFile     *proto.ColStr
	MaterialID     *proto.ColStr
	Components     *proto.ColStr
	Block          *proto.ColInt32
	Point          *proto.ColInt32
	Kind           *proto.ColStr
	Number         *proto.ColInt32
	Name           *proto.ColStr
	Value          *proto.ColFloat64
	Uncertainty    *proto.ColFloat64
	HasUncertainty *proto.ColUInt8
	Phase          *proto.ColStr
	SolventMeta    *proto.ColStr
	DOI            *proto.ColStr
	Title          *proto.ColStr
	Journal        *proto.ColStr
	Author         *proto.ColStr
	Year           *proto.ColStr
}

func NewBatch() *Batch {
	return &Batch{
		SourceFile:     new(proto.ColStr),
		MaterialID:     new(proto.ColStr),
		Components:     new(proto.ColStr),
		Block:          new(proto.ColInt32),
		Point:          new(proto.ColInt32),
		Kind:           new(proto.ColStr),
		Number:         new(proto.ColInt32),
		Name:           new(proto.ColStr),
		Value:          new(proto.ColFloat64),
		Uncertainty:    new(proto.ColFloat64),
		HasUncertainty: new(proto.ColUInt8),
		Phase:          new(proto.ColStr),
		SolventMeta:    new(proto.ColStr),
		DOI:            new(proto.ColStr),
		Title:          new(proto.ColStr),
		Journal:        new(proto.ColStr),
		Author:         new(proto.ColStr),
		Year:           new(proto.ColStr),
	}
}

func (b *Batch) Reset() {
	b.SourceFile.Reset()
	b.MaterialID.Reset()
	b.Components.Reset()
	b.Block.Reset()
	b.Point.Reset()
	b.Kind.Reset()
	b.Number.Reset()
	b.Name.Reset()
	b.Value.Reset()
	b.Uncertainty.Reset()
	b.HasUncertainty.Reset()
	b.Phase.Reset()
	b.SolventMeta.Reset()
	b.DOI.Reset()
	b.Title.Reset()
	b.Journal.Reset()
	b.Author.Reset()
	b.Year.Reset()
}

func (b *Batch) Len() int {
	return b.SourceFile.Rows()
}

// Append adds one observation row to the batch. Absent uncertainties
// are stored as 0 with has_uncertainty unset.
func (b *Batch) Append(o thermoml.Observation) {
	b.SourceFile.Append(o.SourceFile)
	b.MaterialID.Append(o.MaterialID)
	b.Components.Append(o.Components)
	b.Block.Append(o.Block)
	b.Point.Append(o.Point)
	b.Kind.Append(o.Kind)
	b.Number.Append(o.Number)
	b.Name.Append(o.Name)
	b.Value.Append(o.Value)
	if o.Uncertainty != nil {
		b.Uncertainty.Append(*o.Uncertainty)
		b.HasUncertainty.Append(1)
	} else {
		b.Uncertainty.Append(0)
		b.HasUncertainty.Append(0)
	}
	b.Phase.Append(o.Phase)
	b.SolventMeta.Append(o.SolventMeta)
	b.DOI.Append(o.DOI)
	b.Title.Append(o.Title)
	b.Journal.Append(o.Journal)
	b.Author.Append(o.Author)
	b.Year.Append(o.Year)
}

func (b *Batch) Input() proto.Input {
	return proto.Input{
		{Name: "source_file", Data: b.SourceFile},
		{Name: "material_id", Data: b.MaterialID},
		{Name: "components", Data: b.Components},
		{Name: "block", Data: b.Block},
		{Name: "point", Data: b.Point},
		{Name: "kind", Data: b.Kind},
		{Name: "number", Data: b.Number},
		{Name: "name", Data: b.Name},
		{Name: "value", Data: b.Value},
		{Name: "uncertainty", Data: b.Uncertainty},
		{Name: "has_uncertainty", Data: b.HasUncertainty},
		{Name: "phase", Data: b.Phase},
		{Name: "solvent_meta", Data: b.SolventMeta},
		{Name: "doi", Data: b.DOI},
		{Name: "title", Data: b.Title},
		{Name: "journal", Data: b.Journal},
		{Name: "author", Data: b.Author},
		{Name: "year", Data: b.Year},
	}
}

// InsertQuery returns the INSERT statement matching Input.
func InsertQuery(tableFQN string) string {
	return fmt.Sprintf("INSERT INTO %s (source_file, material_id, components, block, point, kind, number, name, value, uncertainty, has_uncertainty, phase, solvent_meta, doi, title, journal, author, year) VALUES", tableFQN)
}

// Flush sends a non-empty batch over the native protocol.
func Flush(ctx context.Context, conn *ch.Client, tableFQN string, batch *Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	return conn.Do(ctx, ch.Query{
		Body:  InsertQuery(tableFQN),
		Input: batch.Input(),
	})
}

const measurementsDDL = `
CREATE TABLE IF NOT EXISTS %s.%s (
	source_file     String,
	material_id     String,
	components      String,
	block           Int32,
	point           Int32,
	kind            LowCardinality(String),
	number          Int32,
	name            LowCardinality(String),
	value           Float64,
	uncertainty     Float64,
	has_uncertainty UInt8,
	phase           LowCardinality(String),
	solvent_meta    String,
	doi             String,
	title           String,
	journal         LowCardinality(String),
	author          String,
	year            String
) ENGINE = MergeTree
ORDER BY (source_file, block, point)
`

// EnsureTable creates the target database and measurements table if
// they do not exist, using the SQL driver rather than the raw protocol.
func EnsureTable(ctx context.Context, addr, database, table, user, password string) error {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: user,
			Password: password,
		},
	})
	if err != nil {
		return fmt.Errorf("clickhouse connect: %w", err)
	}
	defer conn.Close()

	if err := conn.Exec(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database)); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	if err := conn.Exec(ctx, fmt.Sprintf(measurementsDDL, database, table)); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}
