package wifi

import (
	"encoding/binary"
	"fmt"
)

// EAPOL-Key Key Information bits relevant to 4-way handshake detection.
const (
	KeyInfoPairwise = 0x0008
	KeyInfoInstall  = 0x0040
	KeyInfoACK      = 0x0080
	KeyInfoMIC      = 0x0100
	KeyInfoSecure   = 0x0200
)

// eapolKeyMinLen is the fixed portion of an EAPOL-Key frame: EAPOL header,
// descriptor type, key info, key length, replay counter, nonce, IV, RSC,
// ID, MIC, and the key-data length field.
const eapolKeyMinLen = 99

// KeyFrame is a parsed EAPOL-Key frame.
type KeyFrame struct {
	Version        uint8
	Type           uint8
	Length         uint16
	DescriptorType uint8
	KeyInfo        uint16
	KeyLength      uint16
	ReplayCounter  uint64
	Nonce          [32]byte
	DataLength     uint16
}

// Message identifies which of the four handshake messages a frame is.
type Message int

const (
	MessageUnknown Message = 0
	Message1       Message = 1
	Message2       Message = 2
	Message3       Message = 3
	Message4       Message = 4
)

func (m Message) String() string {
	if m >= Message1 && m <= Message4 {
		return fmt.Sprintf("M%d", int(m))
	}
	return "unknown"
}

// ParseKeyFrame decodes the fixed portion of an EAPOL-Key frame.
func ParseKeyFrame(data []byte) (*KeyFrame, error) {
	if len(data) < eapolKeyMinLen {
		return nil, fmt.Errorf("EAPOL-Key frame too short: %d bytes", len(data))
	}

	f := &KeyFrame{
		Version:        data[0],
		Type:           data[1],
		Length:         binary.BigEndian.Uint16(data[2:4]),
		DescriptorType: data[4],
		KeyInfo:        binary.BigEndian.Uint16(data[5:7]),
		KeyLength:      binary.BigEndian.Uint16(data[7:9]),
		ReplayCounter:  binary.BigEndian.Uint64(data[9:17]),
		DataLength:     binary.BigEndian.Uint16(data[97:99]),
	}
	copy(f.Nonce[:], data[17:49])
	return f, nil
}

// Classify determines the handshake message number from the key-info bits.
func (f *KeyFrame) Classify() Message {
	ack := f.KeyInfo&KeyInfoACK != 0
	mic := f.KeyInfo&KeyInfoMIC != 0
	install := f.KeyInfo&KeyInfoInstall != 0
	secure := f.KeyInfo&KeyInfoSecure != 0

	nonceZero := true
	for _, b := range f.Nonce {
		if b != 0 {
			nonceZero = false
			break
		}
	}

	switch {
	case ack && !mic && !install:
		return Message1
	case !ack && mic && !install && !secure && !nonceZero:
		return Message2
	case ack && mic && install && secure:
		return Message3
	case !ack && mic && !install && secure && nonceZero:
		return Message4
	default:
		return MessageUnknown
	}
}

// Handshake accumulates EAPOL-Key frames for a single (BSSID, client) pair.
type Handshake struct {
	BSSID  string
	Client string
	frames [4]*KeyFrame
}

func NewHandshake(bssid, client string) *Handshake {
	return &Handshake{BSSID: bssid, Client: client}
}

// Add records a classified frame. Unknown messages are dropped.
func (h *Handshake) Add(msg Message, frame *KeyFrame) {
	idx := int(msg) - 1
	if idx < 0 || idx > 3 {
		return
	}
	h.frames[idx] = frame
}

// Complete reports whether enough of the exchange is present for offline
// verification: M1+M2 (ANonce and SNonce+MIC) or M2+M3.
func (h *Handshake) Complete() bool {
	if h.frames[1] == nil {
		return false
	}
	return h.frames[0] != nil || h.frames[2] != nil
}

// FrameCount returns how many distinct messages have been seen.
func (h *Handshake) FrameCount() int {
	n := 0
	for _, f := range h.frames {
		if f != nil {
			n++
		}
	}
	return n
}
