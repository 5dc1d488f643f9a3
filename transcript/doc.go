// Package transcript turns engine segments into the text that is stored and
// the text that is shown, and splits long text into platform-sized messages.
//
// The stored aggregate never carries timecodes or the promo suffix. The
// displayed text follows the chat's timecode preference and ends with a
// locale-specific promo line unless the chat is exempt.
package transcript
