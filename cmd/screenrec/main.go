//go:build windows || linux

package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/screenrec/screenrec/internal/config"
	"github.com/screenrec/screenrec/internal/display"
	"github.com/screenrec/screenrec/internal/httpServer"
	"github.com/screenrec/screenrec/internal/jobutil"
	"github.com/screenrec/screenrec/internal/logging"
	"github.com/screenrec/screenrec/internal/recording"
	"github.com/screenrec/screenrec/internal/status"
	"github.com/screenrec/screenrec/internal/ui"
)

var sigChan = make(chan os.Signal, 1)

func main() {
	// Disable Fyne telemetry
	os.Setenv("FYNE_TELEMETRY", "0")

	var verbose bool
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.BoolVar(&verbose, "verbose", false, "verbose logging")
	flag.Parse()

	log, err := logging.New(config.LogDir(), "screenrec.log", verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
		log = logging.NewConsole(verbose)
	}
	defer log.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Error.Fatalf("Error loading configuration: %v", err)
	}

	// Resolve capture-source parameters once so session starts never probe.
	if runtime.GOOS == "linux" {
		if cfg.Display == "" {
			cfg.Display = display.Name()
		}
		if cfg.VideoSize == "" {
			cfg.VideoSize = display.PrimarySize(log)
		}
	}

	if err := jobutil.Init(); err != nil {
		log.Warning.Printf("job object unavailable, orphaned encoders possible: %v", err)
	}

	notifier := status.NewNotifier()
	recorder := recording.NewRecorder(cfg, log, notifier)

	server, err := httpServer.New(cfg, log)
	if err != nil {
		log.Error.Fatalf("Error setting up media server: %v", err)
	}
	notifier.AddSink(server.Broadcast)
	go server.Start()

	myApp := app.New()
	window := myApp.NewWindow("Screen Recorder")

	recorder.SelectArea = func() (recording.Region, bool) {
		return ui.SelectArea(myApp)
	}

	label := widget.NewLabel("Screen Recorder")
	label.TextStyle = fyne.TextStyle{Bold: true}

	urlStr := fmt.Sprintf("http://localhost:%d", cfg.Port)
	parsedURL, _ := url.Parse(urlStr)
	hyperlink := widget.NewHyperlink("Open recordings in browser", parsedURL)

	initialStatus := "Ready"
	if !recorder.IsReady() {
		initialStatus = "Error: ffmpeg not found. Install it or set ffmpeg_path in the configuration."
	}
	statusLabel := widget.NewLabel(initialStatus)
	statusLabel.Wrapping = fyne.TextWrapWord
	if strings.HasPrefix(initialStatus, "Error:") {
		statusLabel.TextStyle = fyne.TextStyle{Bold: true}
	}

	deviceLabel := widget.NewLabel(fmt.Sprintf("Mic: %s\nSystem audio: %s",
		recorder.MicDeviceLabel(), recorder.LoopbackDeviceLabel()))

	// Start and stop both block (grace window, stop escalation), so they run
	// off the event loop with the button disabled meanwhile.
	var recordButton *widget.Button
	recordButton = widget.NewButton("Start Recording", func() {
		recordButton.Disable()
		if recorder.State() == recording.Recording {
			go func() {
				if _, err := recorder.Stop(); err != nil {
					log.Error.Printf("stop failed: %v", err)
				}
				recordButton.SetText("Start Recording")
				recordButton.Enable()
			}()
			return
		}
		go func() {
			if err := recorder.Start(""); err != nil {
				log.Error.Printf("start failed: %v", err)
			} else {
				recordButton.SetText("Stop Recording")
			}
			recordButton.Enable()
		}()
	})

	selectAreaCheck := widget.NewCheck("Select area", nil)
	screenshotButton := widget.NewButton("Screenshot", func() {
		go func() {
			if _, err := recorder.TakeScreenshot("", selectAreaCheck.Checked); err != nil {
				log.Error.Printf("screenshot failed: %v", err)
			}
		}()
	})

	content := container.NewPadded(container.NewVBox(
		label,
		container.NewHBox(hyperlink),
		widget.NewSeparator(),
		deviceLabel,
		container.NewHBox(recordButton, screenshotButton, selectAreaCheck),
		widget.NewSeparator(),
		statusLabel,
	))

	window.SetContent(content)
	window.Resize(fyne.NewSize(480, 320))
	window.CenterOnScreen()

	window.SetCloseIntercept(func() {
		if recorder.State() != recording.Recording {
			window.Close()
			return
		}
		confirmDialog := dialog.NewConfirm(
			"Confirm Exit",
			"A recording is in progress. Exiting will stop and save it. Are you sure you want to exit?",
			func(confirm bool) {
				if confirm {
					go func() {
						if _, err := recorder.Stop(); err != nil {
							log.Error.Printf("stop on exit failed: %v", err)
						}
						window.Close()
					}()
				}
			},
			window,
		)
		confirmDialog.SetConfirmText("Stop and Exit")
		confirmDialog.SetDismissText("Keep Recording")
		confirmDialog.Show()
	})

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu("Files",
			fyne.NewMenuItem("Open Recordings Folder", func() {
				openFolder(cfg.OutputDir, log)
			}),
			fyne.NewMenuItem("Settings", func() {
				showSettings(cfg, window, log)
			}),
			fyne.NewMenuItem("Configuration File", func() {
				dialog.ShowInformation("Configuration", config.Path(), window)
			}),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("About", func() {
				dialog.ShowInformation("About", "Screen Recorder\nScreen and audio capture via ffmpeg", window)
			}),
		),
	)
	window.SetMainMenu(mainMenu)

	// Status update goroutine
	go func() {
		var hideTimer *time.Timer
		for msg := range notifier.C {
			if hideTimer != nil {
				hideTimer.Stop()
			}

			statusLabel.SetText(msg.Text)
			statusLabel.TextStyle = fyne.TextStyle{
				Bold: msg.Code == status.Error,
			}
			statusLabel.Refresh()

			// Auto-reset transient messages after 10 seconds
			if msg.Code == status.Ready || msg.Code == status.Stopped {
				hideTimer = time.AfterFunc(10*time.Second, func() {
					statusLabel.SetText("Ready")
					statusLabel.TextStyle = fyne.TextStyle{Bold: false}
					statusLabel.Refresh()
				})
			}
		}
	}()

	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info.Println("Interrupt signal received. Shutting down...")
		recorder.Shutdown()
		server.Stop()
		myApp.Quit()
	}()

	window.ShowAndRun()

	recorder.Shutdown()
	server.Stop()
}

// showSettings edits the common configuration values and rewrites the config
// file. Audio source changes take effect on the next start of the program,
// when devices are resolved again.
func showSettings(cfg *config.Config, window fyne.Window, log *logging.Logger) {
	outputDir := widget.NewEntry()
	outputDir.SetText(cfg.OutputDir)
	framerate := widget.NewEntry()
	framerate.SetText(strconv.Itoa(cfg.Framerate))
	micCheck := widget.NewCheck("Record microphone", nil)
	micCheck.Checked = cfg.RecordMic
	loopCheck := widget.NewCheck("Record system audio", nil)
	loopCheck.Checked = cfg.RecordLoopback

	items := []*widget.FormItem{
		widget.NewFormItem("Output folder", outputDir),
		widget.NewFormItem("Framerate", framerate),
		widget.NewFormItem("Audio", micCheck),
		widget.NewFormItem("", loopCheck),
	}
	dialog.ShowForm("Settings", "Save", "Cancel", items, func(save bool) {
		if !save {
			return
		}
		if fps, err := strconv.Atoi(framerate.Text); err == nil && fps > 0 {
			cfg.Framerate = fps
		}
		if outputDir.Text != "" {
			cfg.OutputDir = outputDir.Text
		}
		cfg.RecordMic = micCheck.Checked
		cfg.RecordLoopback = loopCheck.Checked
		if err := cfg.Save(); err != nil {
			log.Error.Printf("Failed to save configuration: %v", err)
			dialog.ShowError(err, window)
			return
		}
		log.Info.Printf("Configuration saved to %s", config.Path())
		dialog.ShowInformation("Settings",
			"Saved. Audio source changes take effect after restart.", window)
	}, window)
}

// openFolder opens a directory in the platform file explorer.
func openFolder(dir string, log *logging.Logger) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error.Printf("Failed to create %s: %v", dir, err)
		return
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", dir)
	case "darwin":
		cmd = exec.Command("open", dir)
	case "linux":
		cmd = exec.Command("xdg-open", dir)
	default:
		log.Warning.Printf("Unsupported platform: %s", runtime.GOOS)
		return
	}
	if err := cmd.Start(); err != nil {
		log.Error.Printf("Failed to open %s: %v", dir, err)
	}
}
