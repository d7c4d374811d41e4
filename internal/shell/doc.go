// Package shell implements the interactive front end of the watermark tool.
//
// A session repeats a short dialogue on a line-oriented reader and writer:
//
//  1. Are you ready? Declining, or closing the input, ends the session.
//  2. Which file in the images directory should be marked (default test.jpg)?
//  3. Text or image watermark?
//  4. Optionally one edit: brighten, contrast, black and white, or invert.
//     The edit is written to NAME-edited.EXT beside the input.
//  5. The watermark text, or the overlay file (default logo.png).
//
// The watermarked copy is written to NAME-with-watermark.EXT. The watermark is
// always taken from the original input, not the edited copy.
//
// Each job gets its own logger tagged with a run_id, and a failed job prints
// "Something went wrong... Try again!" and the dialogue starts over.
package shell
