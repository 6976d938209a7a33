//go:build !linux && !darwin

package output

import "github.com/micmonay/keybd_event"

func sendPaste() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasCTRL(true)
	return kb.Launching()
}
