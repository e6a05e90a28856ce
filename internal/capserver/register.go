// Package capserver exposes the caption engine as MCP tools:
// transcript_fetch, caption_tracks, video_metadata, and the
// repurpose_job_* bookkeeping tools.
package capserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all caption tools on the given MCP server.
func RegisterTools(server *mcp.Server) {
	registerTranscriptFetch(server)
	registerCaptionTracks(server)
	registerVideoMetadata(server)
	registerJobStart(server)
	registerJobGet(server)
	registerJobList(server)
}
