package verify

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/shakedown/shakedown/pkg/wifi"
)

// PcapInspector walks the capture file offline with gopacket and
// assembles EAPOL-Key frames into per-client handshakes. No external tool
// involved, so it works where aircrack-ng and tshark are absent.
type PcapInspector struct{}

func (i *PcapInspector) Name() string { return "pcap" }

func (i *PcapInspector) Inspect(ctx context.Context, capFile, bssid string) (Status, error) {
	if _, err := os.Stat(capFile); os.IsNotExist(err) {
		return StatusPending, nil
	}

	handle, err := pcap.OpenOffline(capFile)
	if err != nil {
		// airodump-ng may not have flushed the file header yet.
		return StatusPending, fmt.Errorf("open capture: %w", err)
	}
	defer handle.Close()

	bssid = strings.ToLower(bssid)
	handshakes := make(map[string]*wifi.Handshake)

	source := gopacket.NewPacketSource(handle, handle.LinkType())
	for packet := range source.Packets() {
		select {
		case <-ctx.Done():
			return StatusPending, ctx.Err()
		default:
		}

		dot11Layer := packet.Layer(layers.LayerTypeDot11)
		if dot11Layer == nil {
			continue
		}
		dot11 := dot11Layer.(*layers.Dot11)

		eapolLayer := packet.Layer(layers.LayerTypeEAPOL)
		if eapolLayer == nil || packet.Layer(layers.LayerTypeEAPOLKey) == nil {
			continue
		}

		frameBSSID, client := frameAddresses(dot11)
		if frameBSSID == "" || (bssid != "" && frameBSSID != bssid) {
			continue
		}

		// The typed key layer holds only the 95-byte descriptor; the
		// parser wants the full frame including the 4-byte EAPOL header,
		// so reassemble it from the EAPOL layer's contents and payload.
		fullFrame := append([]byte{}, eapolLayer.LayerContents()...)
		fullFrame = append(fullFrame, eapolLayer.LayerPayload()...)

		keyFrame, err := wifi.ParseKeyFrame(fullFrame)
		if err != nil {
			continue
		}
		msg := keyFrame.Classify()
		if msg == wifi.MessageUnknown {
			continue
		}

		hs, ok := handshakes[client]
		if !ok {
			hs = wifi.NewHandshake(frameBSSID, client)
			handshakes[client] = hs
		}
		hs.Add(msg, keyFrame)

		if hs.Complete() {
			return StatusCaptured, nil
		}
	}

	return StatusNotFound, nil
}

// frameAddresses maps the 802.11 address fields to (BSSID, client) based
// on the DS flags.
func frameAddresses(dot11 *layers.Dot11) (bssid, client string) {
	switch {
	case dot11.Flags.ToDS() && !dot11.Flags.FromDS():
		return dot11.Address1.String(), dot11.Address2.String()
	case !dot11.Flags.ToDS() && dot11.Flags.FromDS():
		return dot11.Address2.String(), dot11.Address1.String()
	case !dot11.Flags.ToDS() && !dot11.Flags.FromDS():
		return dot11.Address3.String(), dot11.Address2.String()
	default:
		return "", ""
	}
}
