// Package chat defines the values the transcription pipeline works on: the
// incoming attachment, the per-chat configuration snapshot, the engine
// selector with its capability flags, and the persisted voice record.
//
// A Snapshot is read once per request and never mutated by the pipeline.
package chat
