// Package pipeline delivers a transcription for one incoming voice message.
//
// A Controller gates the attachment by size and engine credential, calls the
// transcriber, formats the result and hands delivery to one of two
// strategies chosen from the chat's mode. Delivered results are then stored.
//
//   - interactive: replies with a placeholder and later edits it with the
//     result or an error notice
//   - silent: shows a typing indicator and only ever sends the final result
//
// Every fault is forwarded to the Reporter tagged with the Phase that failed
// and then swallowed; HandleIncomingMedia never panics or returns an error.
package pipeline
