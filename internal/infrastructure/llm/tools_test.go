package llm

import (
	"testing"

	"github.com/sashabaranov/go-openai/jsonschema"
)

func TestGenerateClassifyTripToolEnums(t *testing.T) {
	tool := GenerateClassifyTripTool([]string{"SRV-101", "INS-202"})

	if tool.Function.Name != "classify_trip" {
		t.Fatalf("tool name = %q", tool.Function.Name)
	}

	params, ok := tool.Function.Parameters.(jsonschema.Definition)
	if !ok {
		t.Fatalf("parameters have type %T", tool.Function.Parameters)
	}
	props := params.Properties

	tripType, ok := props["trip_type"]
	if !ok {
		t.Fatal("trip_type property missing")
	}
	if len(tripType.Enum) != 2 {
		t.Fatalf("trip_type enum = %v", tripType.Enum)
	}

	projectCode, ok := props["project_code"]
	if !ok {
		t.Fatal("project_code property missing")
	}
	// Codes plus the empty no-project option.
	if len(projectCode.Enum) != 3 || projectCode.Enum[2] != "" {
		t.Fatalf("project_code enum = %v", projectCode.Enum)
	}
}

func TestGenerateClassifyTripToolWithoutProjects(t *testing.T) {
	tool := GenerateClassifyTripTool(nil)
	params := tool.Function.Parameters.(jsonschema.Definition)
	props := params.Properties

	projectCode := props["project_code"]
	if len(projectCode.Enum) != 0 {
		t.Fatalf("expected free-text project_code without projects, got enum %v", projectCode.Enum)
	}
}
