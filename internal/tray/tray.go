// Package tray provides a system tray interface for the WoundGuard
// monitoring application.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(streaming bool)
	onDashboard func()
	onQuit      func()
	streaming   bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastReading *systray.MenuItem
}

// New creates a new Tray instance with sensor streaming on by default.
func New() *Tray {
	return &Tray{
		streaming: true,
	}
}

// OnToggle sets the callback function to be called when sensor streaming is toggled.
func (t *Tray) OnToggle(fn func(streaming bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnDashboard sets the callback function to be called when the dashboard menu item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	// Set the tray title and tooltip
	systray.SetTitle("WoundGuard")
	systray.SetTooltip("WoundGuard Wound Monitoring")

	// Create menu items
	t.menuToggle = systray.AddMenuItem("● Sensors streaming", "Toggle sensor streaming")
	systray.AddSeparator()

	t.menuLastReading = systray.AddMenuItem("No readings yet", "Latest probe reading")
	t.menuLastReading.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit WoundGuard")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
// It performs cleanup tasks.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.streaming = !t.streaming
	streaming := t.streaming

	// Update menu item text based on new state
	if streaming {
		t.menuToggle.SetTitle("● Sensors streaming")
	} else {
		t.menuToggle.SetTitle("○ Sensors paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(streaming)
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastReading updates the latest reading display in the menu.
func (t *Tray) SetLastReading(ph, temperature, humidity float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastReading != nil {
		t.menuLastReading.SetTitle(fmt.Sprintf("pH %.1f  %.1f°C  %.0f%%", ph, temperature, humidity))
	}
}

// IsStreaming returns whether sensor streaming is currently on.
func (t *Tray) IsStreaming() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.streaming
}
