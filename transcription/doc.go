// Package transcription defines the recognition engine contract and routes
// each request to the engine a chat selected.
//
// Backends live in subpackages and register through the provider framework:
//
//   - transcription/wit: wit.ai dictation, one token per language
//   - transcription/google: Google Cloud Speech-to-Text with a per-chat API key
//
// Usage:
//
//	mgr := transcription.NewManager()
//	mgr.Add("wit", provider.WithResilience(witEngine, resCfg))
//	router := transcription.NewRouter(mgr, transcription.WithTimeout(time.Minute))
//	result, err := router.Transcribe(ctx, chat.Media{URL: fileURL, Format: chat.FormatOgg}, snapshot)
package transcription
