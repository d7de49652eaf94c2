// Package signalrgb bridges a SignalRGB install into hearth as an
// effect light.
//
// SignalRGB has no real power switch; "off" is the Good Night! effect.
// The light entity leans on that sentinel:
//
//   - Turn on applies the last active effect, or Falling Stars when
//     none is known
//   - Turn off applies Good Night!
//   - A poll that finds Good Night! current reports the light off;
//     any other effect reports on
//
// Commands update local state optimistically: an apply that returns no
// error is assumed to have worked. The poll loop (default 5m) reconciles
// drift, e.g. effects changed from the SignalRGB UI directly.
//
// While an effect runs, its metadata (image, description, publisher,
// audio/video usage, parameters) is exposed as state attributes;
// turning off clears them.
//
// The available-effects list is fetched once, the first time it is
// needed, and cached for the life of the process. A light that was
// announced before the list was known is re-announced once the list
// arrives, so the retained discovery config gains its fx_list.
package signalrgb
