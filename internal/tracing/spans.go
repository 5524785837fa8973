package tracing

// Span names.
const (
	SpanExpandAll    = "argnoun.expand_all"
	SpanExpandRegion = "argnoun.expand_region"
	SpanEditorKeys   = "argnoun.editor.keys"
)

// Span attribute keys.
const (
	AttrSelectionCount = "expand.selection_count"
	AttrExpandedCount  = "expand.expanded_count"
	AttrOuter          = "expand.outer"
	AttrRepeat         = "expand.repeat"
	AttrMultiline      = "expand.multiline"

	AttrRegionAnchor = "region.anchor"
	AttrRegionStart  = "region.start"
	AttrRegionEnd    = "region.end"
	AttrRegionFound  = "region.found"
	AttrWindowStart  = "window.start"
	AttrWindowLen    = "window.len"

	AttrEditorKeys  = "editor.keys"
	AttrEditorCmdID = "editor.command_id"
	AttrEditorMode  = "editor.mode"
)
