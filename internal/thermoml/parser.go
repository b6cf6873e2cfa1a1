package thermoml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// compositionTypes are the constraint/variable types that reference a
// compound and therefore get solvent metadata attached.
var compositionTypes = map[string]bool{
	"Mole fraction":           true,
	"Mass Fraction":           true,
	"Molality, mol/kg":        true,
	"Solvent: Amount concentration (molarity), mol/dm3": true,
}

// Observation is one flat long-format row: a constraint, a variable
// setting, or a measured property value. Constraint rows use point -1
// because they apply to every measurement point of their block.
type Observation struct {
	SourceFile  string   `parquet:"source_file"`
	MaterialID  string   `parquet:"material_id"`
	Components  string   `parquet:"components"`
	Block       int32    `parquet:"block"`
	Point       int32    `parquet:"point"`
	Kind        string   `parquet:"kind"`
	Number      int32    `parquet:"number"`
	Name        string   `parquet:"name"`
	Value       float64  `parquet:"value"`
	Uncertainty *float64 `parquet:"uncertainty,optional"`
	Phase       string   `parquet:"phase"`
	SolventMeta string   `parquet:"solvent_meta"`
	DOI         string   `parquet:"doi"`
	Title       string   `parquet:"title"`
	Journal     string   `parquet:"journal"`
	Author      string   `parquet:"author"`
	Year        string   `parquet:"year"`
}

// Observation kinds.
const (
	KindConstraint = "constraint"
	KindVariable   = "variable"
	KindProperty   = "property"
)

// CompoundRecord is one flat compound metadata row. Atoms is the
// total atom count parsed from the molecular formula.
type CompoundRecord struct {
	OrgNum     int32  `parquet:"org_num"`
	Name       string `parquet:"name"`
	Formula    string `parquet:"formula"`
	Atoms      int32  `parquet:"atoms"`
	SourceFile string `parquet:"source_file"`
}

// ParseStats holds counters for a flattening pass.
type ParseStats struct {
	Blocks          int64
	Points          int64
	Observations    int64
	UnknownRefs     int64
	MissingPropName int64
}

// Parser flattens a single ThermoML report.
type Parser struct {
	SourceFile string
	Report     *DataReport
	Stats      ParseStats

	numToName     map[int]string
	nameToFormula map[string]string
}

// NewParser decodes a ThermoML document from r. sourceFile is recorded
// on every emitted row.
func NewParser(r io.Reader, sourceFile string) (*Parser, error) {
	report := new(DataReport)
	dec := xml.NewDecoder(r)
	if err := dec.Decode(report); err != nil {
		return nil, fmt.Errorf("decode %s: %w", sourceFile, err)
	}
	if report.XMLName.Space != Namespace {
		return nil, fmt.Errorf("decode %s: unexpected namespace %q", sourceFile, report.XMLName.Space)
	}

	p := &Parser{
		SourceFile:    sourceFile,
		Report:        report,
		numToName:     make(map[int]string),
		nameToFormula: make(map[string]string),
	}
	for _, c := range report.Compounds {
		name := c.Name()
		p.numToName[c.RegNum.OrgNum] = name
		p.nameToFormula[name] = c.Formula
	}
	return p, nil
}

// ParseFile opens and decodes a ThermoML file.
func ParseFile(path string) (*Parser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewParser(f, filepath.Base(path))
}

// Compounds returns one record per declared compound.
func (p *Parser) Compounds() []CompoundRecord {
	records := make([]CompoundRecord, 0, len(p.Report.Compounds))
	for _, c := range p.Report.Compounds {
		records = append(records, CompoundRecord{
			OrgNum:     int32(c.RegNum.OrgNum),
			Name:       c.Name(),
			Formula:    c.Formula,
			Atoms:      int32(CountAtoms(c.Formula)),
			SourceFile: p.SourceFile,
		})
	}
	return records
}

// compoundName resolves a registry number, falling back to a synthetic
// name so a dangling reference is visible rather than fatal.
func (p *Parser) compoundName(orgNum int) string {
	if name, ok := p.numToName[orgNum]; ok && name != "" {
		return name
	}
	p.Stats.UnknownRefs++
	return "compound-" + strconv.Itoa(orgNum)
}

// solventMeta builds the "compound___solvent1__solvent2" annotation
// attached to composition conditions.
func (p *Parser) solventMeta(orgNum int, solvent *Solvent) string {
	var solvents []string
	if solvent != nil {
		for _, rn := range solvent.RegNums {
			solvents = append(solvents, p.compoundName(rn.OrgNum))
		}
	}
	return p.compoundName(orgNum) + "___" + strings.Join(solvents, "__")
}

// Observations flattens every data block of the report into long-format
// rows. Constraints come first with point -1, then per measurement
// point the variable settings and property values in document order.
func (p *Parser) Observations() []Observation {
	var rows []Observation
	cit := p.Report.Citation

	base := Observation{
		SourceFile: p.SourceFile,
		DOI:        cit.DOI,
		Title:      cit.Title,
		Journal:    cit.PubName,
		Author:     firstAuthor(cit.Authors),
		Year:       cit.PubYear,
	}

	for blockIdx, block := range p.Report.PureOrMixtureData {
		p.Stats.Blocks++

		var names []string
		var orgNums []string
		for _, comp := range block.Components {
			names = append(names, p.compoundName(comp.RegNum.OrgNum))
			orgNums = append(orgNums, strconv.Itoa(comp.RegNum.OrgNum))
		}

		row := base
		row.Block = int32(blockIdx + 1)
		row.MaterialID = strings.Join(orgNums, "__")
		row.Components = strings.Join(names, "__")

		propNames := make(map[int]string, len(block.Properties))
		propPhases := make(map[int]string, len(block.Properties))
		for _, prop := range block.Properties {
			name := prop.MethodID.Group.PropName()
			if name == "" {
				p.Stats.MissingPropName++
			}
			propNames[prop.Number] = name
			propPhases[prop.Number] = prop.Phase()
		}

		varTypes := make(map[int]string, len(block.Variables))
		varMeta := make(map[int]string, len(block.Variables))
		for _, v := range block.Variables {
			vtype := v.ID.Type.Content()
			varTypes[v.Number] = vtype
			if compositionTypes[vtype] {
				varMeta[v.Number] = p.solventMeta(v.ID.RegNum.OrgNum, v.Solvent)
			}
		}

		for _, con := range block.Constraints {
			ctype := con.ID.Type.Content()
			o := row
			o.Point = -1
			o.Kind = KindConstraint
			o.Name = ctype
			o.Value = con.Value
			if compositionTypes[ctype] {
				o.SolventMeta = p.solventMeta(con.ID.RegNum.OrgNum, con.Solvent)
			}
			rows = append(rows, o)
		}

		for pointIdx, nv := range block.NumValues {
			p.Stats.Points++

			for _, vv := range nv.VariableValues {
				o := row
				o.Point = int32(pointIdx)
				o.Kind = KindVariable
				o.Number = int32(vv.VarNumber)
				o.Name = varTypes[vv.VarNumber]
				o.Value = vv.Value
				o.SolventMeta = varMeta[vv.VarNumber]
				rows = append(rows, o)
			}

			for _, pv := range nv.PropertyValues {
				o := row
				o.Point = int32(pointIdx)
				o.Kind = KindProperty
				o.Number = int32(pv.PropNumber)
				o.Name = propNames[pv.PropNumber]
				o.Value = pv.Value
				o.Phase = propPhases[pv.PropNumber]
				o.Uncertainty = firstUncertainty(pv.Uncertainties)
				rows = append(rows, o)
			}
		}
	}

	p.Stats.Observations += int64(len(rows))
	return rows
}

// Formulas returns the compound name to molecular formula map.
func (p *Parser) Formulas() map[string]string {
	out := make(map[string]string, len(p.nameToFormula))
	for k, v := range p.nameToFormula {
		out[k] = v
	}
	return out
}

func firstAuthor(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	// Author lists sometimes pack several names into one field.
	first, _, _ := strings.Cut(authors[0], ";")
	return strings.TrimSpace(first)
}

func firstUncertainty(us []PropUncertainty) *float64 {
	for _, u := range us {
		if u.StdUncertValue != nil {
			v := *u.StdUncertValue
			return &v
		}
	}
	return nil
}
