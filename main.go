package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"vtype/audio"
	"vtype/config"
	"vtype/hotkey"
	"vtype/log"
	"vtype/machine"
	"vtype/notify"
	"vtype/output"
	"vtype/refiner"
	"vtype/transcriber"
)

var version = "dev"

func run() {
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	quietFlag := flag.Bool("quiet", false, "Disable audio cues")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("vtype %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	defer log.Close()

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	if crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	actx, err := audio.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: audio system unavailable: %v\n", err)
		os.Exit(1)
	}
	defer actx.Close()

	if *doctorFlag {
		doctor(actx)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var device *audio.DeviceInfo
	switch {
	case *setupFlag:
		device, err = audio.SelectInteractive(actx)
	case *deviceFlag != "":
		device, err = audio.ByName(actx, *deviceFlag)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if device != nil && audio.IsBluetooth(device.Name) {
		log.Warnf("%s looks like a bluetooth device; expect capture latency", device.Name)
	}

	capture, rate, err := audio.NewNegotiatedCapture(actx, device, audio.DefaultSampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open capture device: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()
	rec := audio.NewRecorder(capture, rate)

	format, err := transcriber.ParseFormat(cfg.UploadFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	proc, err := transcriber.New(transcriber.Config{
		Platform:          cfg.Platform,
		GroqAPIKey:        cfg.GroqAPIKey,
		SiliconFlowAPIKey: cfg.SiliconFlowAPIKey,
		GroqModel:         cfg.GroqASRModel,
		SiliconFlowModel:  cfg.SiliconFlowASRModel,
		Format:            format,
		EnableFallback:    cfg.EnableFallback,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var ref machine.Refiner
	opts := refiner.Options{
		AddPunctuation:      cfg.AddSymbol,
		OptimizeResult:      cfg.OptimizeResult,
		ConvertToSimplified: cfg.ConvertToSimplified,
	}
	if opts.Enabled() {
		var llm refiner.LLM
		if cfg.GroqAPIKey != "" {
			llm = refiner.NewGroqLLM(cfg.GroqAPIKey, "")
		}
		ref = refiner.New(opts, llm)
	}

	var notifier machine.Notifier = notify.NewBeeper()
	if *quietFlag {
		notifier = notify.Nop{}
	}

	mcfg := machine.DefaultConfig()
	mcfg.ProcessTimeout = cfg.ServiceTimeout
	m := machine.New(mcfg, machine.Deps{
		Recorder:  rec,
		Processor: proc,
		Refiner:   ref,
		Sink:      output.NewTyper(cfg.KeepOriginalClipboard),
		Notifier:  notifier,
	})

	listener, err := hotkey.New(hotkey.Binding{
		Transcribe: cfg.TranscribeButton,
		Translate:  cfg.TranslateButton,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := listener.Register(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer listener.Unregister()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-listener.Events():
				select {
				case m.Keys() <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	log.SessionStart(proc.Name(), string(format))
	log.Infof("mic: %s @ %d Hz (%s)", rec.DeviceName(), rate, cfg.SystemPlatform)
	log.Infof("hold %s to dictate, add %s to translate", cfg.TranscribeButton, cfg.TranslateButton)
	m.Run(ctx)
	log.Info("shutting down")
}

func doctor(actx audio.Context) {
	if msg, err := hotkey.Diagnose(); err != nil {
		fmt.Printf("hotkeys: FAIL - %v\n", err)
	} else {
		fmt.Printf("hotkeys: OK - %s\n", msg)
	}

	devices, err := actx.Devices()
	if err != nil {
		fmt.Printf("audio:   FAIL - %v\n", err)
		return
	}
	fmt.Printf("audio:   OK - %d capture device(s)\n", len(devices))
	for _, d := range devices {
		note := ""
		if audio.IsBluetooth(d.Name) {
			note = " (bluetooth)"
		}
		fmt.Printf("  - %s%s\n", d.Name, note)
	}

	if _, err := config.Load(); err != nil {
		fmt.Printf("config:  FAIL - %v\n", err)
	} else {
		fmt.Printf("config:  OK\n")
	}
}
