package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"annocheck/internal/diag"
	"annocheck/internal/source"
)

func TestSarif(t *testing.T) {
	fs := source.NewFileSetWithBase("/work")
	fileID := fs.AddVirtual("/work/src/p/A.java", []byte(sample))
	bag := sampleBag(fs, fileID)
	bag.Add(diag.New(diag.SevWarning, diag.UnusedPrivateField, source.Span{File: fileID, Start: 23, End: 24}, "A", "x"))
	bag.Add(diag.New(diag.SevError, diag.AnnotationTypeDeclarationCannotHaveSuperclass, source.Span{File: fileID, Start: 33, End: 34}))

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolVersion: "1.0.0", InvocationArgs: []string{"check", "src"}}); err != nil {
		t.Fatal(err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID   string `json:"id"`
						Name string `json:"name"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				ExecutionSuccessful bool `json:"executionSuccessful"`
			} `json:"invocations"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "annocheck" {
		t.Errorf("tool name = %q", run.Tool.Driver.Name)
	}

	var rules []string
	for _, r := range run.Tool.Driver.Rules {
		rules = append(rules, r.ID+" "+r.Name)
	}
	wantRules := []string{
		"SYN1001 AnnotationTypeDeclarationCannotHaveSuperclass",
		diag.UnusedPrivateField.ID() + " UnusedPrivateField",
	}
	if diff := cmp.Diff(wantRules, rules); diff != "" {
		t.Errorf("rules (-want +got):\n%s", diff)
	}

	if len(run.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(run.Results))
	}
	res := run.Results[1]
	if res.RuleIndex != 1 || res.Level != "warning" {
		t.Errorf("result 1 = %+v", res)
	}
	loc := res.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/p/A.java" || loc.Region.StartLine != 3 || loc.Region.StartColumn != 12 {
		t.Errorf("location = %+v", loc)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("invocations = %+v", run.Invocations)
	}
}
