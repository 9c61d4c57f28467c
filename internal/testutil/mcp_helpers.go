package testutil

import (
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/guildsmith/guildsmith-mcp/internal/tools"
)

// NewCallToolRequest constructs an mcp.CallToolRequest with the given tool name
// and arguments map. This is the standard way to build requests in tests.
func NewCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// ExtractText extracts the text string from a CallToolResult. It assumes the
// result contains at least one TextContent element and fails the test otherwise.
func ExtractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("result has no content elements")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("result content[0] is %T, want mcp.TextContent", result.Content[0])
	}
	return tc.Text
}

// AssertTextContains extracts text from the result and asserts it contains substr.
func AssertTextContains(t *testing.T, result *mcp.CallToolResult, substr string) {
	t.Helper()
	text := ExtractText(t, result)
	if !strings.Contains(text, substr) {
		t.Errorf("result text = %q, want it to contain %q", text, substr)
	}
}

// AssertTextNotContains extracts text from the result and asserts it does NOT contain substr.
func AssertTextNotContains(t *testing.T, result *mcp.CallToolResult, substr string) {
	t.Helper()
	text := ExtractText(t, result)
	if strings.Contains(text, substr) {
		t.Errorf("result text = %q, should NOT contain %q", text, substr)
	}
}

// AssertNotError asserts that the CallToolResult is not an error result.
func AssertNotError(t *testing.T, result *mcp.CallToolResult) {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	if result.IsError {
		text := ExtractText(t, result)
		t.Fatalf("expected non-error result, but got IsError=true with text: %s", text)
	}
}

// FindHandler returns the handler registered under name, failing the test if
// no registration matches.
func FindHandler(t *testing.T, regs []tools.Registration, name string) server.ToolHandlerFunc {
	t.Helper()
	for _, reg := range regs {
		if reg.Tool.Name == name {
			if reg.Handler == nil {
				t.Fatalf("registration for %q has nil handler", name)
			}
			return reg.Handler
		}
	}
	t.Fatalf("no registration found for tool %q", name)
	return nil
}

// AssertRegistrations asserts that regs contains exactly the tools named in
// wantNames, in order, each with a non-nil handler.
func AssertRegistrations(t *testing.T, regs []tools.Registration, wantNames []string) {
	t.Helper()
	if len(regs) != len(wantNames) {
		t.Fatalf("got %d registrations, want %d", len(regs), len(wantNames))
	}
	for i, want := range wantNames {
		if regs[i].Tool.Name != want {
			t.Errorf("registration[%d].Tool.Name = %q, want %q", i, regs[i].Tool.Name, want)
		}
		if regs[i].Handler == nil {
			t.Errorf("registration[%d] (%s) has nil handler", i, want)
		}
	}
}
