package audio

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ByName matches a configured device name against the capture list,
// case-insensitive substring. Returns nil (system default) when name is empty.
func ByName(ctx Context, name string) (*DeviceInfo, error) {
	if name == "" {
		return nil, nil
	}
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	needle := strings.ToLower(name)
	for i, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("no capture device matching %q", name)
}

// SelectInteractive runs an arrow-key picker on the terminal.
func SelectInteractive(ctx Context) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no capture devices found")
	}

	if len(devices) == 1 {
		fmt.Printf("Using device: %s\n", devices[0].Name)
		return &devices[0], nil
	}

	// Raw mode for arrow key input
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	cursor := 0
	renderList := func() {
		fmt.Print("\r\x1b[J")
		fmt.Print("Select input device (↑/↓, Enter to confirm):\r\n\r\n")
		for i, d := range devices {
			label := d.Name
			if IsBluetooth(d.Name) {
				label += " (bluetooth, higher latency)"
			}
			if i == cursor {
				fmt.Printf("  \x1b[1;36m▶ %s\x1b[0m\r\n", label)
			} else {
				fmt.Printf("    %s\r\n", label)
			}
		}
	}

	renderList()

	buf := make([]byte, 3)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}

		if n == 1 {
			switch buf[0] {
			case 13: // Enter
				fmt.Printf("\r\n")
				term.Restore(fd, oldState)
				return &devices[cursor], nil
			case 3: // Ctrl+C
				fmt.Printf("\r\n")
				term.Restore(fd, oldState)
				os.Exit(0)
			case 'j':
				if cursor < len(devices)-1 {
					cursor++
				}
			case 'k':
				if cursor > 0 {
					cursor--
				}
			}
		} else if n == 3 && buf[0] == 0x1b && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				if cursor > 0 {
					cursor--
				}
			case 'B':
				if cursor < len(devices)-1 {
					cursor++
				}
			}
		}

		lines := len(devices) + 2
		fmt.Printf("\x1b[%dA", lines)
		renderList()
	}
}
