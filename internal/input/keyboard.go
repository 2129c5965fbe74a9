package input

import (
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/trg/internal/game"
	"github.com/eiannone/keyboard"
)

// Keyboard reads keys from the terminal. Terminals only report presses, so
// releases come from a Repeater.
type Keyboard struct {
	keymap   Keymap
	repeater *Repeater
	events   chan Event
	done     chan struct{}
}

func OpenKeyboard(keymap Keymap, releaseTimeout time.Duration) (*Keyboard, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	k := &Keyboard{
		keymap:   keymap,
		repeater: &Repeater{Timeout: releaseTimeout},
		events:   make(chan Event, 128),
		done:     make(chan struct{}),
	}
	go k.run(keys)
	return k, nil
}

func (k *Keyboard) Events() <-chan Event {
	return k.events
}

func (k *Keyboard) run(keys <-chan keyboard.KeyEvent) {
	ticker := time.NewTicker(k.repeater.Timeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-k.done:
			return
		case now := <-ticker.C:
			for _, track := range k.repeater.Expire(now) {
				if !k.send(Event{Kind: KeyTrack, Track: track, Action: game.Release}) {
					return
				}
			}
		case key, ok := <-keys:
			if !ok {
				return
			}
			if nil != key.Err {
				log.Println("unable to read key", key.Err)
				continue
			}
			if e, ok := k.translate(key, time.Now()); ok && !k.send(e) {
				return
			}
		}
	}
}

// send reports false once the keyboard is closed, a full queue that nobody
// drains must not hold the reader.
func (k *Keyboard) send(e Event) bool {
	select {
	case k.events <- e:
		return true
	case <-k.done:
		return false
	}
}

func (k *Keyboard) translate(key keyboard.KeyEvent, now time.Time) (Event, bool) {
	switch key.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Event{Kind: KeyQuit}, true
	case keyboard.KeySpace:
		return Event{Kind: KeyPause}, true
	}
	track := k.keymap.Track(key.Rune)
	if track == -1 || !k.repeater.Press(track, now) {
		return Event{}, false
	}
	return Event{Kind: KeyTrack, Track: track, Action: game.Press}, true
}

func (k *Keyboard) Close() error {
	close(k.done)
	if err := keyboard.Close(); nil != err {
		return fmt.Errorf("unable to close keyboard: %w", err)
	}
	return nil
}
