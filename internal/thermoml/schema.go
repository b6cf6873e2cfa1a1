// Package thermoml parses NIST ThermoML XML reports and flattens them
// into long-format observation rows for tabular analysis.
//
// ThermoML is an IUPAC/NIST XML schema for thermophysical and
// thermochemical property data. A report declares its compounds once,
// then references them by registry number from each data block.
package thermoml

import "encoding/xml"

// Namespace is the ThermoML XML namespace.
const Namespace = "http://www.iupac.org/namespaces/ThermoML"

// DataReport is the root element of a ThermoML document.
type DataReport struct {
	XMLName           xml.Name            `xml:"DataReport"`
	Version           SchemaVersion       `xml:"Version"`
	Citation          Citation            `xml:"Citation"`
	Compounds         []Compound          `xml:"Compound"`
	PureOrMixtureData []PureOrMixtureData `xml:"PureOrMixtureData"`
}

// SchemaVersion identifies the ThermoML schema revision of a report.
type SchemaVersion struct {
	Major int `xml:"nVersionMajor"`
	Minor int `xml:"nVersionMinor"`
}

// Citation carries the bibliographic source of a report.
type Citation struct {
	Authors []string `xml:"sAuthor"`
	PubName string   `xml:"sPubName"`
	PubYear string   `xml:"yrPubYr"`
	Title   string   `xml:"sTitle"`
	DOI     string   `xml:"sDOI"`
}

// RegNum is a compound registry reference.
type RegNum struct {
	OrgNum int `xml:"nOrgNum"`
}

// Compound declares a chemical species used by the data blocks.
type Compound struct {
	RegNum      RegNum   `xml:"RegNum"`
	CommonNames []string `xml:"sCommonName"`
	Formula     string   `xml:"sFormulaMolec"`
}

// Name returns the preferred common name of the compound.
func (c Compound) Name() string {
	if len(c.CommonNames) == 0 {
		return ""
	}
	return c.CommonNames[0]
}

// PureOrMixtureData is one experimental data block: the components of
// the material, the measured properties, the fixed constraints, the
// varied variables, and the numeric value sets.
type PureOrMixtureData struct {
	Number      int          `xml:"nPureOrMixtureDataNumber"`
	Components  []Component  `xml:"Component"`
	Properties  []Property   `xml:"Property"`
	Constraints []Constraint `xml:"Constraint"`
	Variables   []Variable   `xml:"Variable"`
	NumValues   []NumValues  `xml:"NumValues"`
}

// Component references one compound of the material under study.
type Component struct {
	RegNum   RegNum `xml:"RegNum"`
	SampleNm int    `xml:"nSampleNm"`
}

// Property describes one measured property.
type Property struct {
	Number   int              `xml:"nPropNumber"`
	MethodID PropertyMethodID `xml:"Property-MethodID"`
	PhaseIDs []PropPhaseID    `xml:"PropPhaseID"`
}

// Phase returns the phase of the first PropPhaseID entry, which is the
// only one the flattener reports.
func (p Property) Phase() string {
	if len(p.PhaseIDs) == 0 {
		return ""
	}
	return p.PhaseIDs[0].Phase
}

// PropertyMethodID wraps the property group selection.
type PropertyMethodID struct {
	RegNum RegNum        `xml:"RegNum"`
	Group  PropertyGroup `xml:"PropertyGroup"`
}

// PropertyGroup holds the schema's choice of property family
// (VolumetricProp, TransportProp, ThermodynProp, ...). The family
// element name varies, so all children are captured.
type PropertyGroup struct {
	Members []PropertyGroupMember `xml:",any"`
}

// PropertyGroupMember is one property family element carrying ePropName.
type PropertyGroupMember struct {
	XMLName  xml.Name
	PropName string `xml:"ePropName"`
}

// PropName returns the property name of the first group member.
func (g PropertyGroup) PropName() string {
	if len(g.Members) == 0 {
		return ""
	}
	return g.Members[0].PropName
}

// PropPhaseID names the phase a property refers to.
type PropPhaseID struct {
	Phase string `xml:"ePropPhase"`
}

// Constraint is a condition held fixed across all value sets of a block.
type Constraint struct {
	Value   float64      `xml:"nConstraintValue"`
	ID      ConstraintID `xml:"ConstraintID"`
	Solvent *Solvent     `xml:"Solvent"`
}

// ConstraintID carries the constraint type and an optional compound reference.
type ConstraintID struct {
	Type   VariantType `xml:"ConstraintType"`
	RegNum RegNum      `xml:"RegNum"`
}

// Variable is a condition varied across the value sets of a block.
type Variable struct {
	Number  int        `xml:"nVarNumber"`
	ID      VariableID `xml:"VariableID"`
	Solvent *Solvent   `xml:"Solvent"`
}

// VariableID carries the variable type and an optional compound reference.
type VariableID struct {
	Type   VariantType `xml:"VariableType"`
	RegNum RegNum      `xml:"RegNum"`
}

// VariantType captures the single variant child of a ConstraintType or
// VariableType element, e.g. <eTemperature>Temperature, K</eTemperature>.
// The child element name varies with the kind of condition, so children
// are matched by the catch-all rule.
type VariantType struct {
	Variants []Variant `xml:",any"`
}

// Variant is one variant child element with its text content.
type Variant struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Content returns the text of the first variant child, or "".
func (t VariantType) Content() string {
	if len(t.Variants) == 0 {
		return ""
	}
	return t.Variants[0].Value
}

// Solvent lists the compounds a composition condition is relative to.
type Solvent struct {
	RegNums []RegNum `xml:"RegNum"`
}

// NumValues is one measurement point: the variable settings and the
// property values observed at those settings.
type NumValues struct {
	VariableValues []VariableValue `xml:"VariableValue"`
	PropertyValues []PropertyValue `xml:"PropertyValue"`
}

// VariableValue is the value of one variable at a measurement point.
type VariableValue struct {
	VarNumber int     `xml:"nVarNumber"`
	Value     float64 `xml:"nVarValue"`
}

// PropertyValue is one measured property value, with optional
// uncertainty assessments.
type PropertyValue struct {
	PropNumber    int               `xml:"nPropNumber"`
	Value         float64           `xml:"nPropValue"`
	Uncertainties []PropUncertainty `xml:"PropUncertainty"`
}

// PropUncertainty is a standard uncertainty assessment of a value.
type PropUncertainty struct {
	AssessNum      int      `xml:"nUncertAssessNum"`
	StdUncertValue *float64 `xml:"nStdUncertValue"`
}
