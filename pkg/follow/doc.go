// ABOUTME: Hitsound position follow package
// ABOUTME: Smoothly hands a cut hitsound over from the cut point to the saber
// Package follow interpolates the 3D anchor of a playing hitsound.
//
// After a cut the sound starts at the cut point and eases onto the live
// saber position over a fixed duration scaled by playback pitch. Once the
// handover completes the sound tracks the saber directly.
package follow
