package extract

import "testing"

func TestFindObjectID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"task job name", "pre-694a9d57b88940a9e5cd3bee-1766497635776", "694a9d57b88940a9e5cd3bee"},
		{"at start", "694a9d57b88940a9e5cd3bee-1766497635776", "694a9d57b88940a9e5cd3bee"},
		{"at end", "job_694a9d57b88940a9e5cd3bee", "694a9d57b88940a9e5cd3bee"},
		{"whole string", "694a9d57b88940a9e5cd3bee", "694a9d57b88940a9e5cd3bee"},
		{"uppercase kept verbatim", "x-694A9D57B88940A9E5CD3BEE-y", "694A9D57B88940A9E5CD3BEE"},
		{"25 hex is not an id", "x-694a9d57b88940a9e5cd3bee0-y", ""},
		{"23 hex is not an id", "x-694a9d57b88940a9e5cd3be-y", ""},
		{"longer run skipped for later id", "aaaaaaaaaaaaaaaaaaaaaaaaaa-6985b698fa887fdaa7e55c0b", "6985b698fa887fdaa7e55c0b"},
		{"first of two", "694a9d57b88940a9e5cd3bee-6985b698fa887fdaa7e55c0b", "694a9d57b88940a9e5cd3bee"},
		{"no id", "nightly-backup-1766497635776", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindObjectID(tt.in); got != tt.want {
				t.Errorf("FindObjectID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommandFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command []string
		want    string
		wantOK  bool
	}{
		{"pair", []string{"python", "run.py", "--task_id", "abc"}, "abc", true},
		{"equals form", []string{"run", "--task_id=abc"}, "abc", true},
		{"flag at end", []string{"run", "--task_id"}, "", false},
		{"flag followed by flag", []string{"run", "--task_id", "--media_id", "m"}, "", false},
		{"absent", []string{"run", "--media_id", "m"}, "", false},
		{"empty command", nil, "", false},
	}

	s := CommandFlag{Flags: []string{"--task_id"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Extract(&Event{Command: tt.command})
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Extract = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNameSegment(t *testing.T) {
	t.Parallel()
	s := NameSegment{Prefix: AssemblyPrefix, Index: 1}

	if got, ok := s.Extract(&Event{JobName: "assembly-pre-cart-6985b698fa887fdaa7e55c0b"}); !ok || got != "pre" {
		t.Errorf("Extract = (%q, %v), want (pre, true)", got, ok)
	}
	if _, ok := s.Extract(&Event{JobName: "assembly"}); ok {
		t.Error("name without second segment should miss")
	}
	if _, ok := s.Extract(&Event{JobName: "storage-pre-x"}); ok {
		t.Error("non-assembly name should miss")
	}
}

func TestEngine_TaskID(t *testing.T) {
	t.Parallel()
	e := NewEngine()

	tests := []struct {
		name       string
		ev         Event
		want       string
		wantSource string
	}{
		{
			name:       "direct field beats tag",
			ev:         Event{Fields: map[string]string{"task_id": "direct"}, Tags: map[string]string{"task_id": "tag"}},
			want:       "direct",
			wantSource: "direct_field",
		},
		{
			name:       "camel case direct field",
			ev:         Event{Fields: map[string]string{"taskId": "direct"}},
			want:       "direct",
			wantSource: "direct_field",
		},
		{
			name:       "empty direct field falls through",
			ev:         Event{Fields: map[string]string{"task_id": "  "}, Parameters: map[string]string{"task_id": "param"}},
			want:       "param",
			wantSource: "parameter",
		},
		{
			name:       "parameter beats command",
			ev:         Event{Parameters: map[string]string{"taskId": "param"}, Command: []string{"--task_id", "cmd"}},
			want:       "param",
			wantSource: "parameter",
		},
		{
			name:       "command beats tag",
			ev:         Event{Command: []string{"--task_id", "cmd"}, Tags: map[string]string{"task_id": "tag"}},
			want:       "cmd",
			wantSource: "command_flag",
		},
		{
			name:       "tag beats pattern",
			ev:         Event{JobName: "pre-694a9d57b88940a9e5cd3bee-1", Tags: map[string]string{"task_id": "tag"}},
			want:       "tag",
			wantSource: "tag",
		},
		{
			name:       "pattern fallback",
			ev:         Event{JobName: "pre-694a9d57b88940a9e5cd3bee-1766497635776"},
			want:       "694a9d57b88940a9e5cd3bee",
			wantSource: "pattern",
		},
		{
			name: "assembly names hold no task id",
			ev:   Event{JobName: "assembly-pre-cart-6985b698fa887fdaa7e55c0b-zip_package-400sec"},
		},
		{
			name: "miss",
			ev:   Event{JobName: "nightly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src, ok := e.TaskID.Run(&tt.ev)
			if got != tt.want || src != tt.wantSource || ok != (tt.want != "") {
				t.Errorf("Run = (%q, %q, %v), want (%q, %q)", got, src, ok, tt.want, tt.wantSource)
			}
		})
	}
}

func TestEngine_PipelinesAreIndependent(t *testing.T) {
	t.Parallel()
	ids := NewEngine().Extract(&Event{
		JobName: "nightly",
		Fields:  map[string]string{"media_id": "m-1"},
	})
	if ids.MediaID != "m-1" || ids.TaskID != "" {
		t.Fatalf("Extract = %+v, want media only", ids)
	}
}

func TestEngine_PatternFeedsBothIDs(t *testing.T) {
	t.Parallel()
	ids := NewEngine().Extract(&Event{JobName: "pre-694a9d57b88940a9e5cd3bee-1766497635776"})
	want := Identifiers{TaskID: "694a9d57b88940a9e5cd3bee", MediaID: "694a9d57b88940a9e5cd3bee"}
	if ids != want {
		t.Fatalf("Extract = %+v, want %+v", ids, want)
	}
}

func TestEngine_AssemblyJob(t *testing.T) {
	t.Parallel()
	ids := NewEngine().Extract(&Event{
		JobName: "assembly-pre-06_02_26_10_14_cart-6985b698fa887fdaa7e55c0b-zip_package-400sec",
	})
	want := Identifiers{WorkspaceUID: "pre", AssemblyID: "6985b698fa887fdaa7e55c0b"}
	if ids != want {
		t.Fatalf("Extract = %+v, want %+v", ids, want)
	}
}

func TestEngine_WorkspaceFromCommand(t *testing.T) {
	t.Parallel()
	ev := &Event{
		JobName: "pre-694a9d57b88940a9e5cd3bee-1",
		Command: []string{"python", "main.py", "--media_id", "m", "--wuid", "ws-42", "--task_id", "t"},
	}
	ids := NewEngine().Extract(ev)
	want := Identifiers{TaskID: "t", MediaID: "m", WorkspaceUID: "ws-42"}
	if ids != want {
		t.Fatalf("Extract = %+v, want %+v", ids, want)
	}

	src := NewEngine().Sources(ev)
	if src["task_id"] != "command_flag" || src["workspace_uid"] != "command_flag" {
		t.Fatalf("Sources = %v", src)
	}
	if _, ok := src["assembly_id"]; ok {
		t.Fatalf("Sources reported a missing identifier: %v", src)
	}
}

func TestEngine_EmptyEvent(t *testing.T) {
	t.Parallel()
	if ids := NewEngine().Extract(&Event{}); ids != (Identifiers{}) {
		t.Fatalf("Extract(empty) = %+v", ids)
	}
}
