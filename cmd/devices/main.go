package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/screenrec/screenrec/internal/config"
	"github.com/screenrec/screenrec/internal/device"
	"github.com/screenrec/screenrec/internal/encoder"
	"github.com/screenrec/screenrec/internal/logging"
	"github.com/screenrec/screenrec/internal/recording"
)

// devices prints what a recording session would actually use: the audio
// devices the resolver picks, the encoder binary, and the full command line.
// Run it when a recording comes out silent or fails to start.
func main() {
	var verbose bool
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	log := logging.NewConsole(verbose)

	cfg, err := config.Load()
	if err != nil {
		log.Error.Fatalf("Error loading configuration: %v", err)
	}

	resolver := device.NewResolver(log)

	fmt.Println("Input-capable audio devices:")
	names := resolver.List()
	if len(names) == 0 {
		fmt.Println("  (none found)")
	}
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}

	mic := resolver.Resolve(device.Mic, cfg.MicDevice)
	loopback := resolver.Resolve(device.Loopback, cfg.LoopbackDevice)

	fmt.Println()
	fmt.Printf("Microphone:   %s\n", deviceLabel(mic))
	fmt.Printf("System audio: %s\n", deviceLabel(loopback))

	path := encoder.Locate(cfg.FfmpegPath)
	if path == "" {
		fmt.Println("Encoder:      NOT FOUND (install ffmpeg or set ffmpeg_path)")
		return
	}
	fmt.Printf("Encoder:      %s\n", path)

	plan, err := recording.BuildCommand(cfg, mic, loopback, "<output.mp4>")
	if err != nil {
		fmt.Printf("Command:      %v\n", err)
		return
	}
	fmt.Println()
	fmt.Printf("Session command (%d audio inputs):\n", plan.AudioInputs)
	fmt.Printf("  %s %s\n", path, strings.Join(plan.Args, " "))
	for _, adv := range plan.Advisories {
		fmt.Printf("  note: %s\n", adv)
	}
}

func deviceLabel(d *device.Device) string {
	if d == nil {
		return "none"
	}
	if d.ID != d.Name {
		return fmt.Sprintf("%s (input token %q)", d.Name, d.ID)
	}
	return d.Name
}
