package extract

// AssemblyPrefix marks jobs whose name carries a workspace and an assembly
// ID instead of a task ID.
const AssemblyPrefix = "assembly-"

// Identifiers is the set of identifiers derived from one event. Empty
// fields were not found.
type Identifiers struct {
	TaskID       string
	MediaID      string
	WorkspaceUID string
	AssemblyID   string
}

// Engine evaluates one pipeline per identifier.
type Engine struct {
	TaskID       Pipeline
	MediaID      Pipeline
	WorkspaceUID Pipeline
	AssemblyID   Pipeline
}

// NewEngine returns an Engine with the default pipelines.
func NewEngine() *Engine {
	return &Engine{
		TaskID:       defaultPipeline("task_id", "taskId", "TASK_ID"),
		MediaID:      defaultPipeline("media_id", "mediaId", "MEDIA_ID"),
		WorkspaceUID: workspacePipeline(),
		AssemblyID: Pipeline{
			DirectField{Keys: []string{"assembly_id", "assemblyId"}},
			PatternMatch{OnlyPrefix: AssemblyPrefix},
		},
	}
}

// defaultPipeline builds the standard lookup order for an identifier known
// under keys, with "--<keys[0]>" as its command flag. Assembly job names
// hold an assembly ID, so the name pattern is skipped for them.
func defaultPipeline(keys ...string) Pipeline {
	return Pipeline{
		DirectField{Keys: keys},
		ParameterLookup{Keys: keys},
		CommandFlag{Flags: []string{"--" + keys[0]}},
		TagLookup{Keys: keys},
		PatternMatch{SkipPrefix: AssemblyPrefix},
	}
}

func workspacePipeline() Pipeline {
	keys := []string{"workspace_uid", "workspaceUid", "wuid"}
	return Pipeline{
		DirectField{Keys: keys},
		ParameterLookup{Keys: keys},
		CommandFlag{Flags: []string{"--wuid", "--workspace_uid"}},
		TagLookup{Keys: keys},
		NameSegment{Prefix: AssemblyPrefix, Index: 1},
	}
}

// Extract runs every pipeline over ev. It never fails.
func (e *Engine) Extract(ev *Event) Identifiers {
	var ids Identifiers
	ids.TaskID, _, _ = e.TaskID.Run(ev)
	ids.MediaID, _, _ = e.MediaID.Run(ev)
	ids.WorkspaceUID, _, _ = e.WorkspaceUID.Run(ev)
	ids.AssemblyID, _, _ = e.AssemblyID.Run(ev)
	return ids
}

// Sources reports which strategy produced each identifier, keyed by field
// name. Identifiers that were not found are omitted.
func (e *Engine) Sources(ev *Event) map[string]string {
	out := make(map[string]string, 4)
	for field, p := range map[string]Pipeline{
		"task_id":       e.TaskID,
		"media_id":      e.MediaID,
		"workspace_uid": e.WorkspaceUID,
		"assembly_id":   e.AssemblyID,
	} {
		if _, src, ok := p.Run(ev); ok {
			out[field] = src
		}
	}
	return out
}
