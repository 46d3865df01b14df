package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ayusman/woundguard/internal/analysis"
	"github.com/ayusman/woundguard/internal/config"
	"github.com/ayusman/woundguard/internal/sensor"
	"github.com/ayusman/woundguard/internal/server"
	"github.com/ayusman/woundguard/internal/store"
	"github.com/ayusman/woundguard/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ~/.woundguard/config.json)")
	withTray := flag.Bool("tray", false, "run with a system tray icon")
	flag.Parse()

	fmt.Println("WoundGuard - Wound Monitoring")

	dataDir, err := config.DataDir()
	if err != nil {
		log.Fatalf("Failed to prepare data directory: %v", err)
	}

	path := *configPath
	if path == "" {
		path = filepath.Join(dataDir, "config.json")
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the store
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "woundguard.db")
	}
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Initialize the analyzer; the segmentation model is optional
	analyzer := analysis.New(analysis.Config{ModelPath: cfg.ModelPath})
	defer analyzer.Close()

	// Sensor source: serial probe when configured, simulator otherwise
	var sensors sensor.Source
	if cfg.SensorDevice != "" {
		dev, err := os.Open(cfg.SensorDevice)
		if err != nil {
			log.Printf("Sensor device %s unavailable (%v), using simulator", cfg.SensorDevice, err)
			sensors = sensor.NewSimulator(time.Now().UnixNano())
		} else {
			defer dev.Close()
			sensors = sensor.NewLineSource(dev)
		}
	} else {
		sensors = sensor.NewSimulator(time.Now().UnixNano())
	}

	// Find web directory
	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Analyzer:  analyzer,
		Sensors:   sensors,
	})

	fmt.Printf("Starting server on %s\n", cfg.Addr)

	if !*withTray {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	go func() {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	runTray(srv, cfg.Addr)
}

// runTray blocks running the system tray menu.
func runTray(srv *server.Server, addr string) {
	t := tray.New()
	t.OnToggle(func(streaming bool) {
		sensors := srv.Sensors()
		if sensors == nil {
			return
		}
		if streaming {
			sensors.Resume()
		} else {
			sensors.Pause()
		}
	})
	t.OnDashboard(func() {
		openBrowser(dashboardURL(addr))
	})
	t.OnQuit(func() {
		log.Println("Shutting down")
	})

	// Keep the tray's reading line fresh
	go func() {
		for range time.Tick(5 * time.Second) {
			sensors := srv.Sensors()
			if sensors == nil {
				return
			}
			if reading, ok := sensors.Latest(); ok {
				t.SetLastReading(reading.PH, reading.Temperature, reading.Humidity)
			}
		}
	}()

	t.Run()
}

// dashboardURL turns a listen address into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.woundguard/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".woundguard", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
