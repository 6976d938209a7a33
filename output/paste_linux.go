//go:build linux

package output

import (
	"sync"

	"github.com/micmonay/keybd_event"
)

var (
	kb     keybd_event.KeyBonding
	kbOnce sync.Once
	kbErr  error
)

func sendPaste() error {
	kbOnce.Do(func() {
		kb, kbErr = keybd_event.NewKeyBonding()
	})
	if kbErr != nil {
		return kbErr
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasCTRL(true)
	return kb.Launching()
}
