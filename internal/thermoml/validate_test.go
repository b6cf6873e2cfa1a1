package thermoml

import (
	"strings"
	"testing"
)

func TestValidateCleanReport(t *testing.T) {
	p := mustParse(t, testReport, "fixture.xml")
	if err := ValidateReport(p.SourceFile, p.Report); err != nil {
		t.Fatalf("expected clean report, got: %v", err)
	}
}

func TestValidateUndeclaredComponent(t *testing.T) {
	doc := strings.Replace(testReport, "<nOrgNum>2</nOrgNum></RegNum>\n      <nSampleNm>2</nSampleNm>", "<nOrgNum>9</nOrgNum></RegNum>\n      <nSampleNm>2</nSampleNm>", 1)
	p := mustParse(t, doc, "dangling.xml")

	err := ValidateReport(p.SourceFile, p.Report)
	if err == nil {
		t.Fatal("expected validation error")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Issues) == 0 || !strings.Contains(verr.Error(), "undeclared compound 9") {
		t.Errorf("unexpected issues: %v", verr.Issues)
	}
}

func TestValidateUndeclaredPropertyNumber(t *testing.T) {
	doc := strings.Replace(testReport, "<nPropNumber>2</nPropNumber>\n        <nPropValue>0.00089</nPropValue>", "<nPropNumber>7</nPropNumber>\n        <nPropValue>0.00089</nPropValue>", 1)
	p := mustParse(t, doc, "badprop.xml")

	err := ValidateReport(p.SourceFile, p.Report)
	if err == nil || !strings.Contains(err.Error(), "undeclared property 7") {
		t.Fatalf("expected undeclared property issue, got: %v", err)
	}
}

func TestValidateMissingVersion(t *testing.T) {
	doc := strings.Replace(testReport, "<nVersionMajor>4</nVersionMajor>", "", 1)
	p := mustParse(t, doc, "noversion.xml")

	err := ValidateReport(p.SourceFile, p.Report)
	if err == nil || !strings.Contains(err.Error(), "missing schema version") {
		t.Fatalf("expected version issue, got: %v", err)
	}
}

func TestValidateMissingNumValues(t *testing.T) {
	start := strings.Index(testReport, "<NumValues>")
	end := strings.LastIndex(testReport, "</NumValues>") + len("</NumValues>")
	doc := testReport[:start] + testReport[end:]
	p := mustParse(t, doc, "novalues.xml")

	err := ValidateReport(p.SourceFile, p.Report)
	if err == nil || !strings.Contains(err.Error(), "has no measurement points") {
		t.Fatalf("expected missing measurement points issue, got: %v", err)
	}
}

func TestValidateEmptyMeasurementPoint(t *testing.T) {
	doc := strings.Replace(testReport, "<NumValues>", "<NumValues></NumValues>\n    <NumValues>", 1)
	p := mustParse(t, doc, "emptypoint.xml")

	err := ValidateReport(p.SourceFile, p.Report)
	if err == nil || !strings.Contains(err.Error(), "point 0 has no values") {
		t.Fatalf("expected empty point issue, got: %v", err)
	}
}

func TestValidateDuplicateRegistryNumber(t *testing.T) {
	doc := strings.Replace(testReport, "<RegNum><nOrgNum>2</nOrgNum></RegNum>\n    <sCommonName>ethanol</sCommonName>", "<RegNum><nOrgNum>1</nOrgNum></RegNum>\n    <sCommonName>ethanol</sCommonName>", 1)
	p := mustParse(t, doc, "dup.xml")

	err := ValidateReport(p.SourceFile, p.Report)
	if err == nil || !strings.Contains(err.Error(), "duplicate compound registry number 1") {
		t.Fatalf("expected duplicate issue, got: %v", err)
	}
}
