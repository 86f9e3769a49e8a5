package device

import (
	"runtime"

	"github.com/gordonklaus/portaudio"

	"github.com/screenrec/screenrec/internal/logging"
)

// Resolver answers "which device should this source record from". It is a
// pure query layer: it never mutates OS audio state and every query error is
// swallowed into a nil result, which callers must tolerate.
type Resolver struct {
	log *logging.Logger
}

func NewResolver(log *logging.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve returns the device to use for the given kind. A non-empty
// configured name is returned trusted without checking that it still exists;
// the encoder reports the failure later if it doesn't. Otherwise the OS audio
// layer is queried: the default input device for Mic, the keyword heuristic
// for Loopback. Returns nil when nothing suitable is found.
func (r *Resolver) Resolve(kind Kind, configuredName string) *Device {
	if configuredName != "" {
		r.log.Trace("using configured %s device: %s", kind, configuredName)
		return &Device{ID: configuredName, Name: configuredName, Kind: kind}
	}

	if err := portaudio.Initialize(); err != nil {
		r.log.Warning.Printf("Audio subsystem unavailable, no %s device: %v", kind, err)
		return nil
	}
	defer portaudio.Terminate()

	switch kind {
	case Mic:
		return r.defaultInput()
	case Loopback:
		return r.findLoopback()
	}
	return nil
}

func (r *Resolver) defaultInput() *Device {
	info, err := portaudio.DefaultInputDevice()
	if err != nil || info == nil {
		r.log.Warning.Printf("No default input device: %v", err)
		return nil
	}

	id := info.Name
	if runtime.GOOS == "linux" {
		// The pulse input driver accepts "default" for the default source;
		// portaudio names don't always round-trip through it.
		id = "default"
	}
	return &Device{ID: id, Name: info.Name, Kind: Mic}
}

func (r *Resolver) findLoopback() *Device {
	devices, err := portaudio.Devices()
	if err != nil {
		r.log.Warning.Printf("Device enumeration failed: %v", err)
		return nil
	}

	// Windows exposes loopback-capable endpoints ("Stereo Mix" etc.) as
	// inputs; pulse exposes sink monitors as capture sources. Either way the
	// candidates are the devices with input channels.
	var candidates []*portaudio.DeviceInfo
	for _, info := range devices {
		if info.MaxInputChannels > 0 {
			candidates = append(candidates, info)
		}
	}

	names := make([]string, len(candidates))
	for i, info := range candidates {
		names[i] = info.Name
	}

	idx := matchLoopback(names)
	if idx < 0 {
		r.log.Info.Printf("No loopback device matched the keyword heuristic (%d candidates)", len(candidates))
		return nil
	}

	found := candidates[idx]
	r.log.Info.Printf("Loopback device: %s", found.Name)
	return &Device{ID: found.Name, Name: found.Name, Kind: Loopback}
}

// List returns the names of all input-capable devices, for diagnostics.
func (r *Resolver) List() []string {
	if err := portaudio.Initialize(); err != nil {
		return nil
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil
	}

	var names []string
	for _, info := range devices {
		if info.MaxInputChannels > 0 {
			names = append(names, info.Name)
		}
	}
	return names
}
