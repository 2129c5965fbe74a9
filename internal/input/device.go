package input

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"syscall"

	"git.lost.host/meutraa/trg/internal/game"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey    = 0x01
	keyEsc   = 1
	keySpace = 57

	valueRelease = 0
	valuePress   = 1
)

var keyCodes = map[rune]uint16{
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38, ';': 39,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50, ',': 51, '.': 52, '/': 53,
}

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Device reads key events straight from an evdev device, which reports
// releases as they happen. Reading it usually needs the input group.
type Device struct {
	file   *os.File
	codes  [game.NumTracks]uint16
	events chan Event
}

func OpenDevice(path string, keymap Keymap) (*Device, error) {
	d := &Device{events: make(chan Event, 128)}
	for i, r := range keymap {
		code, ok := keyCodes[r]
		if !ok {
			return nil, fmt.Errorf("no key code for %q", r)
		}
		d.codes[i] = code
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open input device: %w", err)
	}
	d.file = file
	go d.run()
	return d, nil
}

func (d *Device) Events() <-chan Event {
	return d.events
}

func (d *Device) run() {
	var ev keyEvent
	for {
		if err := binary.Read(d.file, binary.LittleEndian, &ev); nil != err {
			log.Println(err, "unable to read keyboard input")
			return
		}
		if e, ok := d.translate(ev); ok {
			d.events <- e
		}
	}
}

func (d *Device) translate(ev keyEvent) (Event, bool) {
	if ev.Type != evKey {
		return Event{}, false
	}
	switch ev.Value {
	case valuePress:
		switch ev.Code {
		case keyEsc:
			return Event{Kind: KeyQuit}, true
		case keySpace:
			return Event{Kind: KeyPause}, true
		}
		if track := d.track(ev.Code); track != -1 {
			return Event{Kind: KeyTrack, Track: track, Action: game.Press}, true
		}
	case valueRelease:
		if track := d.track(ev.Code); track != -1 {
			return Event{Kind: KeyTrack, Track: track, Action: game.Release}, true
		}
	}
	return Event{}, false
}

func (d *Device) track(code uint16) int {
	for i, c := range d.codes {
		if c == code {
			return i
		}
	}
	return -1
}

func (d *Device) Close() error {
	return d.file.Close()
}
