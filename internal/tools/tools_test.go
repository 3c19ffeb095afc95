package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"xcodemcp/internal/command"
	"xcodemcp/internal/config"
	"xcodemcp/internal/session"
	"xcodemcp/internal/xcode"
)

// callReq builds a tool call request with the given arguments.
func callReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText concatenates the text content blocks of a tool result.
func resultText(r *mcp.CallToolResult) string {
	var parts []string
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

type stubRunner struct {
	fn    func(argv []string) (*command.Result, error)
	calls [][]string
}

func (s *stubRunner) Run(ctx context.Context, argv []string, label string, opts *command.Options) (*command.Result, error) {
	s.calls = append(s.calls, argv)
	if s.fn != nil {
		return s.fn(argv)
	}
	code := 0
	return &command.Result{Success: true, ExitCode: &code}, nil
}

func (s *stubRunner) RunShell(ctx context.Context, cmd string, label string, opts *command.Options) (*command.Result, error) {
	s.calls = append(s.calls, []string{cmd})
	code := 0
	return &command.Result{Success: true, ExitCode: &code}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)     {}
func (nopLogger) Warn(string, ...any)     {}
func (nopLogger) Error(string, ...any)    {}
func (nopLogger) Escalate(string, ...any) {}

func testStore(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.New(session.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testBuildDeps(runner *stubRunner, store *session.Store) BuildDeps {
	return BuildDeps{
		Runner: runner,
		Logger: nopLogger{},
		Pretty: xcode.NewAvailabilityCache(),
		Cfg:    config.Config{RenderMode: config.RenderGuided, TestEnv: true},
		Store:  store,
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in      string
		want    xcode.Platform
		wantErr bool
	}{
		{in: "", want: xcode.PlatformMacOS},
		{in: "macOS", want: xcode.PlatformMacOS},
		{in: "iOS", want: xcode.PlatformIOS},
		{in: "iOS Simulator", want: xcode.PlatformIOSSimulator},
		{in: "watchOS Simulator", want: xcode.PlatformWatchOSSimulator},
		{in: "visionOS Simulator", want: xcode.PlatformVisionOSSim},
		{in: "ios", wantErr: true},
		{in: "Android", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parsePlatform(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePlatform(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePlatform(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePlatform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSchemes(t *testing.T) {
	output := `Information about project "MyApp":
    Targets:
        MyApp
        MyAppTests

    Schemes:
        MyApp
        MyApp-Release

`
	schemes := parseSchemes(output)
	if len(schemes) != 2 || schemes[0] != "MyApp" || schemes[1] != "MyApp-Release" {
		t.Errorf("parseSchemes() = %v, want [MyApp MyApp-Release]", schemes)
	}

	if got := parseSchemes("no schemes here"); len(got) != 0 {
		t.Errorf("parseSchemes() on unrelated output = %v, want empty", got)
	}
}

func TestParseBuildSettings(t *testing.T) {
	output := `Build settings for action build and target MyApp:
    BUILT_PRODUCTS_DIR = /DerivedData/Build/Products/Debug
    FULL_PRODUCT_NAME = MyApp.app
    LD = clang
`
	settings := parseBuildSettings(output)
	if settings["BUILT_PRODUCTS_DIR"] != "/DerivedData/Build/Products/Debug" {
		t.Errorf("BUILT_PRODUCTS_DIR = %q", settings["BUILT_PRODUCTS_DIR"])
	}
	if settings["FULL_PRODUCT_NAME"] != "MyApp.app" {
		t.Errorf("FULL_PRODUCT_NAME = %q", settings["FULL_PRODUCT_NAME"])
	}
	if _, ok := settings["Build settings for action build and target MyApp:"]; ok {
		t.Error("header line should not parse as a setting")
	}
}

func TestParseBuildCall_BackfillsFromSessionDefaults(t *testing.T) {
	store := testStore(t)
	err := store.Save(session.Defaults{
		Workspace:     "/proj/App.xcodeproj",
		Scheme:        "App",
		Configuration: "Release",
		Platform:      "iOS Simulator",
		SimulatorName: "iPhone 16",
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	build, target, err := parseBuildCall(callReq(nil), "/proj/App.xcodeproj", "", store)
	if err != nil {
		t.Fatalf("parseBuildCall() error = %v", err)
	}
	if build.Scheme != "App" || build.Configuration != "Release" {
		t.Errorf("build = %+v, want scheme/configuration from defaults", build)
	}
	if target.Platform != xcode.PlatformIOSSimulator || target.SimulatorName != "iPhone 16" {
		t.Errorf("target = %+v, want platform/simulator from defaults", target)
	}
}

func TestParseBuildCall_ExplicitArgumentsWin(t *testing.T) {
	store := testStore(t)
	err := store.Save(session.Defaults{
		Workspace: "/proj/App.xcodeproj",
		Scheme:    "App",
		Platform:  "iOS Simulator",
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	req := callReq(map[string]interface{}{
		"scheme":   "Other",
		"platform": "macOS",
	})
	build, target, err := parseBuildCall(req, "/proj/App.xcodeproj", "", store)
	if err != nil {
		t.Fatalf("parseBuildCall() error = %v", err)
	}
	if build.Scheme != "Other" {
		t.Errorf("Scheme = %q, want explicit argument to win", build.Scheme)
	}
	if target.Platform != xcode.PlatformMacOS {
		t.Errorf("Platform = %q, want explicit argument to win", target.Platform)
	}
}

func TestParseBuildCall_NilStore(t *testing.T) {
	build, target, err := parseBuildCall(callReq(map[string]interface{}{
		"scheme": "App",
	}), "/p.xcodeproj", "", nil)
	if err != nil {
		t.Fatalf("parseBuildCall() error = %v", err)
	}
	if build.Scheme != "App" || target.Platform != xcode.PlatformMacOS {
		t.Errorf("got build=%+v target=%+v", build, target)
	}
}

func TestBuildProjectTool_RequiresProjectPath(t *testing.T) {
	tool := NewBuildProjectTool(testBuildDeps(&stubRunner{}, nil))

	result, err := tool.Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("Handle() without projectPath should return an error result")
	}
}

func TestBuildProjectTool_Success(t *testing.T) {
	runner := &stubRunner{fn: func(argv []string) (*command.Result, error) {
		code := 0
		return &command.Result{Success: true, Output: "BUILD SUCCEEDED", ExitCode: &code}, nil
	}}
	tool := NewBuildProjectTool(testBuildDeps(runner, nil))

	result, err := tool.Handle(context.Background(), callReq(map[string]interface{}{
		"projectPath": "/p.xcodeproj",
		"scheme":      "App",
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("Handle() returned error result: %s", resultText(result))
	}
	if !strings.Contains(resultText(result), "✅ Build succeeded for scheme App.") {
		t.Errorf("unexpected result text: %s", resultText(result))
	}
}

func TestCleanTool_RequiresExactlyOnePath(t *testing.T) {
	tool := NewCleanTool(testBuildDeps(&stubRunner{}, nil))

	both, err := tool.Handle(context.Background(), callReq(map[string]interface{}{
		"projectPath":   "/p.xcodeproj",
		"workspacePath": "/w.xcworkspace",
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !both.IsError {
		t.Error("Handle() with both paths should return an error result")
	}

	neither, err := tool.Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !neither.IsError {
		t.Error("Handle() with neither path should return an error result")
	}
}

func TestListSchemesTool_Success(t *testing.T) {
	runner := &stubRunner{fn: func(argv []string) (*command.Result, error) {
		code := 0
		return &command.Result{
			Success:  true,
			Output:   "    Schemes:\n        App\n        AppTests\n\n",
			ExitCode: &code,
		}, nil
	}}
	tool := NewListSchemesTool(testBuildDeps(runner, nil))

	result, err := tool.Handle(context.Background(), callReq(map[string]interface{}{
		"projectPath": "/p.xcodeproj",
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	text := resultText(result)
	if !strings.Contains(text, "Schemes (2):") ||
		!strings.Contains(text, "- App\n") || !strings.Contains(text, "- AppTests\n") {
		t.Errorf("unexpected result text: %s", text)
	}
	if len(runner.calls) != 1 || runner.calls[0][1] != "-list" {
		t.Errorf("expected a single xcodebuild -list call, got %v", runner.calls)
	}
}

func TestSessionDefaultsTools_RoundTrip(t *testing.T) {
	store := testStore(t)
	set := NewSetSessionDefaultsTool(store)
	show := NewShowSessionDefaultsTool(store)
	clear := NewClearSessionDefaultsTool(store)

	result, err := set.Handle(context.Background(), callReq(map[string]interface{}{
		"workspace": "/w.xcworkspace",
		"scheme":    "App",
		"platform":  "macOS",
	}))
	if err != nil {
		t.Fatalf("set Handle() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("set Handle() error result: %s", resultText(result))
	}

	result, err = show.Handle(context.Background(), callReq(map[string]interface{}{
		"workspace": "/w.xcworkspace",
	}))
	if err != nil {
		t.Fatalf("show Handle() error = %v", err)
	}
	text := resultText(result)
	if !strings.Contains(text, "scheme: App") || !strings.Contains(text, "platform: macOS") {
		t.Errorf("unexpected show text: %s", text)
	}

	if _, err = clear.Handle(context.Background(), callReq(map[string]interface{}{
		"workspace": "/w.xcworkspace",
	})); err != nil {
		t.Fatalf("clear Handle() error = %v", err)
	}

	result, err = show.Handle(context.Background(), callReq(map[string]interface{}{
		"workspace": "/w.xcworkspace",
	}))
	if err != nil {
		t.Fatalf("show Handle() error = %v", err)
	}
	if !strings.Contains(resultText(result), "No session defaults stored") {
		t.Errorf("unexpected show text after clear: %s", resultText(result))
	}
}

func TestStopSimLogCapture_UnknownSession(t *testing.T) {
	manager := NewLogCaptureManager(nopLogger{})
	tool := NewStopSimLogCaptureTool(manager)

	result, err := tool.Handle(context.Background(), callReq(map[string]interface{}{
		"sessionId": "nope",
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("stopping an unknown session should return an error result")
	}
	if !strings.Contains(resultText(result), "no log capture session") {
		t.Errorf("unexpected error text: %s", resultText(result))
	}
}

func TestStartSimLogCapture_RequiresSimulatorID(t *testing.T) {
	tool := NewStartSimLogCaptureTool(NewLogCaptureManager(nopLogger{}))

	result, err := tool.Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("Handle() without simulatorId should return an error result")
	}
}
