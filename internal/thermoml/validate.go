package thermoml

import (
	"fmt"
	"strings"
)

// ValidationError reports every structural problem found in one document.
type ValidationError struct {
	File   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d validation issue(s): %s", e.File, len(e.Issues), strings.Join(e.Issues, "; "))
}

// ValidateReport checks the referential structure a schema validator
// would enforce: declared compounds resolve every registry reference,
// and every numeric value points at a declared variable or property.
// Returns nil or a *ValidationError.
func ValidateReport(file string, report *DataReport) error {
	var issues []string

	if report.Version.Major == 0 {
		issues = append(issues, "missing schema version")
	}

	declared := make(map[int]bool, len(report.Compounds))
	for _, c := range report.Compounds {
		if c.Name() == "" {
			issues = append(issues, fmt.Sprintf("compound %d has no common name", c.RegNum.OrgNum))
		}
		if declared[c.RegNum.OrgNum] {
			issues = append(issues, fmt.Sprintf("duplicate compound registry number %d", c.RegNum.OrgNum))
		}
		declared[c.RegNum.OrgNum] = true
	}

	for bi, block := range report.PureOrMixtureData {
		blockID := block.Number
		if blockID == 0 {
			blockID = bi + 1
		}

		if len(block.Components) == 0 {
			issues = append(issues, fmt.Sprintf("block %d has no components", blockID))
		}
		for _, comp := range block.Components {
			if !declared[comp.RegNum.OrgNum] {
				issues = append(issues, fmt.Sprintf("block %d references undeclared compound %d", blockID, comp.RegNum.OrgNum))
			}
		}

		propNumbers := make(map[int]bool, len(block.Properties))
		for _, prop := range block.Properties {
			if prop.MethodID.Group.PropName() == "" {
				issues = append(issues, fmt.Sprintf("block %d property %d has no ePropName", blockID, prop.Number))
			}
			if propNumbers[prop.Number] {
				issues = append(issues, fmt.Sprintf("block %d duplicate property number %d", blockID, prop.Number))
			}
			propNumbers[prop.Number] = true
		}

		varNumbers := make(map[int]bool, len(block.Variables))
		for _, v := range block.Variables {
			if v.ID.Type.Content() == "" {
				issues = append(issues, fmt.Sprintf("block %d variable %d has no type", blockID, v.Number))
			}
			if varNumbers[v.Number] {
				issues = append(issues, fmt.Sprintf("block %d duplicate variable number %d", blockID, v.Number))
			}
			varNumbers[v.Number] = true
			issues = append(issues, checkSolvent(declared, v.Solvent, blockID)...)
		}

		for _, con := range block.Constraints {
			ctype := con.ID.Type.Content()
			if ctype == "" {
				issues = append(issues, fmt.Sprintf("block %d constraint has no type", blockID))
			}
			if compositionTypes[ctype] && !declared[con.ID.RegNum.OrgNum] {
				issues = append(issues, fmt.Sprintf("block %d composition constraint references undeclared compound %d", blockID, con.ID.RegNum.OrgNum))
			}
			issues = append(issues, checkSolvent(declared, con.Solvent, blockID)...)
		}

		if len(block.NumValues) == 0 {
			issues = append(issues, fmt.Sprintf("block %d has no measurement points", blockID))
		}
		for pi, nv := range block.NumValues {
			if len(nv.VariableValues) == 0 && len(nv.PropertyValues) == 0 {
				issues = append(issues, fmt.Sprintf("block %d point %d has no values", blockID, pi))
			}
			for _, vv := range nv.VariableValues {
				if !varNumbers[vv.VarNumber] {
					issues = append(issues, fmt.Sprintf("block %d point %d references undeclared variable %d", blockID, pi, vv.VarNumber))
				}
			}
			for _, pv := range nv.PropertyValues {
				if !propNumbers[pv.PropNumber] {
					issues = append(issues, fmt.Sprintf("block %d point %d references undeclared property %d", blockID, pi, pv.PropNumber))
				}
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{File: file, Issues: issues}
}

// ValidateFile decodes and validates one ThermoML file. Decode failures
// (malformed XML, wrong namespace, non-numeric values) surface as-is.
func ValidateFile(path string) error {
	p, err := ParseFile(path)
	if err != nil {
		return err
	}
	return ValidateReport(p.SourceFile, p.Report)
}

func checkSolvent(declared map[int]bool, s *Solvent, blockID int) []string {
	if s == nil {
		return nil
	}
	var issues []string
	for _, rn := range s.RegNums {
		if !declared[rn.OrgNum] {
			issues = append(issues, fmt.Sprintf("block %d solvent references undeclared compound %d", blockID, rn.OrgNum))
		}
	}
	return issues
}
